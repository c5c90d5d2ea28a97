// Package models is a collection of inference-only regressors that map a design matrix
// of feature rows to continuous predictions.
package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RegressorType identifies the serialized form of a regressor.
type RegressorType string

const (
	RegressorTypeTreeEnsemble RegressorType = "gbtree"
	RegressorTypeLinear       RegressorType = "linear"
)

// Regressor predicts one value per row of x. Implementations are immutable after
// construction and safe for concurrent use.
type Regressor interface {
	Predict(x mat.Matrix) ([]float64, error)
	Fitted() bool
	Model() RegressorModel
}

// RegressorModel is the serializable, tagged representation of any Regressor.
type RegressorModel struct {
	Type         RegressorType      `json:"type"`
	TreeEnsemble *TreeEnsembleModel `json:"gbtree,omitempty"`
	Linear       *LinearModel       `json:"linear,omitempty"`
}

// Build validates the serialized parameters and constructs the regressor for
// nFeatures input columns.
func (r RegressorModel) Build(opt *TreeOptions, nFeatures int) (Regressor, error) {
	switch r.Type {
	case RegressorTypeTreeEnsemble:
		if r.TreeEnsemble == nil {
			return nil, fmt.Errorf("%s, %w", r.Type, ErrMissingRegressor)
		}
		return NewTreeEnsembleFromModel(opt, nFeatures, *r.TreeEnsemble)
	case RegressorTypeLinear:
		if r.Linear == nil {
			return nil, fmt.Errorf("%s, %w", r.Type, ErrMissingRegressor)
		}
		return NewLinear(nFeatures, *r.Linear)
	}
	return nil, fmt.Errorf("%q, %w", r.Type, ErrUnknownRegressor)
}

func checkDesignMatrix(x mat.Matrix, nFeatures int) (int, error) {
	if x == nil {
		return 0, ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if n != nFeatures {
		return 0, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, nFeatures, ErrFeatureLenMismatch)
	}
	return m, nil
}
