package models

import (
	"errors"
	"fmt"
	"io"
)

const (
	DefaultEstimators   = 100
	DefaultLearningRate = 0.1
	DefaultMaxDepth     = 5
	DefaultSeed         = 42

	// DefaultBaseScore is the global bias of a tree ensemble before any tree is added.
	DefaultBaseScore = 0.5
)

var (
	ErrNonPositiveEstimators   = errors.New("non-positive number of estimators")
	ErrNonPositiveLearningRate = errors.New("non-positive learning rate")
	ErrNonPositiveMaxDepth     = errors.New("non-positive max depth")
)

// TreeOptions are the hyperparameters of a gradient boosted tree ensemble. They bound
// the shape of a loaded ensemble and describe an untrained one.
type TreeOptions struct {
	// Estimators is the maximum number of boosted trees.
	Estimators int `json:"n_estimators"`

	// LearningRate is the shrinkage applied to each tree during fitting. Leaf values of a
	// fitted ensemble already include it.
	LearningRate float64 `json:"learning_rate"`

	// MaxDepth is the maximum number of splits from a tree root to any leaf.
	MaxDepth int `json:"max_depth"`

	// Seed is the random state the ensemble was or would be fit with.
	Seed int64 `json:"seed"`
}

// NewDefaultTreeOptions returns the default ensemble hyperparameters
func NewDefaultTreeOptions() *TreeOptions {
	return &TreeOptions{
		Estimators:   DefaultEstimators,
		LearningRate: DefaultLearningRate,
		MaxDepth:     DefaultMaxDepth,
		Seed:         DefaultSeed,
	}
}

// Validate runs basic validation on tree options. A nil receiver returns the defaults.
func (t *TreeOptions) Validate() (*TreeOptions, error) {
	if t == nil {
		return NewDefaultTreeOptions(), nil
	}
	if t.Estimators <= 0 {
		return nil, ErrNonPositiveEstimators
	}
	if t.LearningRate <= 0 {
		return nil, ErrNonPositiveLearningRate
	}
	if t.MaxDepth <= 0 {
		return nil, ErrNonPositiveMaxDepth
	}
	return t, nil
}

func (t *TreeOptions) TablePrint(w io.Writer, prefix, indent string) error {
	if t == nil {
		_, err := fmt.Fprintf(w, "%sHyperparameters: None\n", prefix)
		return err
	}
	if _, err := fmt.Fprintf(w, "%sHyperparameters:\n", prefix); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s%sEstimators: %d    Learning Rate: %.3f    Max Depth: %d    Seed: %d\n",
		prefix, indent, t.Estimators, t.LearningRate, t.MaxDepth, t.Seed)
	return err
}
