package demand

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aouyang1/go-demand/models"
	"github.com/goccy/go-json"
)

var ErrInvalidModelFile = errors.New("invalid model file")

// Model is the serializable artifact of an estimator: the ensemble hyperparameters, the
// feature column order it was fit against and the regressor parameters.
type Model struct {
	Hyperparameters *models.TreeOptions   `json:"hyperparameters"`
	FeatureNames    []string              `json:"feature_names,omitempty"`
	Regressor       models.RegressorModel `json:"regressor"`
}

// LoadModel reads and decodes a model artifact. A missing file returns an error wrapping
// fs.ErrNotExist.
func LoadModel(path string) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return Model{}, err
	}
	defer f.Close()

	var model Model
	if err := json.NewDecoder(f).Decode(&model); err != nil {
		return Model{}, fmt.Errorf("decoding %s, %w", path, errors.Join(ErrInvalidModelFile, err))
	}
	return model, nil
}

// SaveModel writes the artifact to path, creating parent directories as needed.
func SaveModel(path string, model Model) error {
	out, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode model, %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(out, '\n'), 0o644)
}

func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%sDemand Model:\n", prefix); err != nil {
		return err
	}
	if err := m.Hyperparameters.TablePrint(w, prefix+indent, indent); err != nil {
		return err
	}

	features := "unchecked"
	if len(m.FeatureNames) > 0 {
		features = strings.Join(m.FeatureNames, ", ")
	}
	if _, err := fmt.Fprintf(w, "%s%sFeatures: %s\n", prefix, indent, features); err != nil {
		return err
	}

	switch m.Regressor.Type {
	case models.RegressorTypeTreeEnsemble:
		if m.Regressor.TreeEnsemble == nil {
			break
		}
		_, err := fmt.Fprintf(w, "%s%sRegressor: %s    Base Score: %.3f    Trees: %d\n",
			prefix, indent, m.Regressor.Type, m.Regressor.TreeEnsemble.BaseScore, len(m.Regressor.TreeEnsemble.Trees))
		return err
	case models.RegressorTypeLinear:
		if m.Regressor.Linear == nil {
			break
		}
		_, err := fmt.Fprintf(w, "%s%sRegressor: %s    Intercept: %.3f    Coefficients: %v\n",
			prefix, indent, m.Regressor.Type, m.Regressor.Linear.Intercept, m.Regressor.Linear.Coefficients)
		return err
	}
	_, err := fmt.Fprintf(w, "%s%sRegressor: None\n", prefix, indent)
	return err
}
