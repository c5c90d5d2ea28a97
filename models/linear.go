package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearModel is the serializable form of a Linear regressor
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Linear predicts intercept + coef · x for every row.
type Linear struct {
	intercept float64
	coef      []float64
}

// NewLinear validates the coefficients against the number of input features.
func NewLinear(nFeatures int, model LinearModel) (*Linear, error) {
	if nFeatures <= 0 {
		return nil, ErrNoFeatures
	}
	if len(model.Coefficients) != nFeatures {
		return nil, fmt.Errorf("got %d coefficients, but expected %d, %w", len(model.Coefficients), nFeatures, ErrFeatureLenMismatch)
	}
	if math.IsNaN(model.Intercept) || math.IsInf(model.Intercept, 0) {
		return nil, fmt.Errorf("intercept, %w", ErrNonFiniteParameter)
	}
	for i, c := range model.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d, %w", i, ErrNonFiniteParameter)
		}
	}

	coef := make([]float64, len(model.Coefficients))
	copy(coef, model.Coefficients)
	return &Linear{
		intercept: model.Intercept,
		coef:      coef,
	}, nil
}

// Predict using the linear model
func (l *Linear) Predict(x mat.Matrix) ([]float64, error) {
	if _, err := checkDesignMatrix(x, len(l.coef)); err != nil {
		return nil, err
	}

	coefVec := mat.NewVecDense(len(l.coef), l.coef)

	var res mat.VecDense
	res.MulVec(x, coefVec)

	out := mat.Col(nil, 0, &res)
	floats.AddConst(l.intercept, out)
	return out, nil
}

// Fitted is always true since a linear model only exists with coefficients
func (l *Linear) Fitted() bool {
	return true
}

// Intercept returns the constant term of the model
func (l *Linear) Intercept() float64 {
	return l.intercept
}

// Coef returns a copy of the coefficients in inference column order.
func (l *Linear) Coef() []float64 {
	coef := make([]float64, len(l.coef))
	copy(coef, l.coef)
	return coef
}

func (l *Linear) Model() RegressorModel {
	return RegressorModel{
		Type: RegressorTypeLinear,
		Linear: &LinearModel{
			Intercept:    l.intercept,
			Coefficients: l.Coef(),
		},
	}
}
