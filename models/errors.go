package models

import (
	"errors"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model features")
	ErrNoFeatures         = errors.New("model must have at least one feature")
	ErrUnknownRegressor   = errors.New("unknown regressor type")
	ErrMissingRegressor   = errors.New("regressor type set but no regressor parameters")
	ErrNonFiniteParameter = errors.New("non-finite model parameter")
)
