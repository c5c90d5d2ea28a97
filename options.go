package demand

import (
	"github.com/aouyang1/go-demand/models"
	"github.com/rs/zerolog"
)

// DefaultModelPath is where the fitted model artifact is looked up, relative to the
// working directory.
const DefaultModelPath = "models/demand_model.json"

// Options configures how an Estimator is constructed.
type Options struct {
	// ModelPath is the artifact to load. A missing file yields an untrained estimator and
	// an empty path skips loading entirely.
	ModelPath string

	// Hyperparameters describe the untrained ensemble and are used for an artifact that
	// does not carry its own.
	Hyperparameters *models.TreeOptions

	Logger *zerolog.Logger
}

// NewDefaultOptions returns options loading the default artifact path with the default
// ensemble hyperparameters.
func NewDefaultOptions() *Options {
	return &Options{
		ModelPath:       DefaultModelPath,
		Hyperparameters: models.NewDefaultTreeOptions(),
	}
}
