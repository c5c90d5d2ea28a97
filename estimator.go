// Package demand estimates near-term delivery order demand from a feature record using
// a pre-fitted regression model.
package demand

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"

	"github.com/aouyang1/go-demand/feature"
	"github.com/aouyang1/go-demand/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

var ErrNoRegressorInModel = errors.New("no regressor set in model")

// State distinguishes an estimator backed by fitted parameters from one running in
// degraded mode.
type State int

const (
	StateUntrained State = iota
	StateFitted
)

func (s State) String() string {
	switch s {
	case StateFitted:
		return "fitted"
	case StateUntrained:
		return "untrained"
	}
	return "unknown"
}

// Estimator maps a feature record to a non-negative integer order estimate. The
// regressor is immutable after construction so Predict is safe for concurrent use.
type Estimator struct {
	hyper     *models.TreeOptions
	regressor models.Regressor
	source    string
	logger    zerolog.Logger
}

// New creates an estimator, loading the artifact at opt.ModelPath if it exists. A missing
// artifact is not an error and yields an untrained estimator. If no options are provided
// a default is used.
func New(opt *Options) (*Estimator, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	logger := log.With().Str("component", "estimator").Logger()
	if opt.Logger != nil {
		logger = *opt.Logger
	}

	hyper, err := opt.Hyperparameters.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid hyperparameters, %w", err)
	}

	if opt.ModelPath != "" {
		model, err := LoadModel(opt.ModelPath)
		switch {
		case err == nil:
			if model.Hyperparameters == nil {
				model.Hyperparameters = hyper
			}
			e, err := newFromModel(model, logger)
			if err != nil {
				return nil, fmt.Errorf("unable to load model from %s, %w", opt.ModelPath, err)
			}
			e.source = opt.ModelPath
			logger.Info().
				Str("path", opt.ModelPath).
				Str("regressor", string(model.Regressor.Type)).
				Str("state", e.State().String()).
				Msg("loaded demand model")
			return e, nil
		case errors.Is(err, fs.ErrNotExist):
			logger.Info().Str("path", opt.ModelPath).Msg("no model artifact found, using untrained estimator")
		default:
			return nil, err
		}
	}

	reg, err := models.NewTreeEnsemble(hyper, feature.NumFeatures)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize untrained ensemble, %w", err)
	}
	return &Estimator{
		hyper:     hyper,
		regressor: reg,
		logger:    logger,
	}, nil
}

// NewFromModel creates an estimator from a pre-existing model, typically one produced by
// Model or read with LoadModel.
func NewFromModel(model Model) (*Estimator, error) {
	return newFromModel(model, log.With().Str("component", "estimator").Logger())
}

func newFromModel(model Model, logger zerolog.Logger) (*Estimator, error) {
	if model.FeatureNames != nil {
		if err := feature.MatchLabels(model.FeatureNames); err != nil {
			return nil, err
		}
	}
	if model.Regressor.Type == "" {
		return nil, ErrNoRegressorInModel
	}

	hyper, err := model.Hyperparameters.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid hyperparameters, %w", err)
	}

	reg, err := model.Regressor.Build(hyper, feature.NumFeatures)
	if err != nil {
		return nil, fmt.Errorf("unable to build regressor, %w", err)
	}
	return &Estimator{
		hyper:     hyper,
		regressor: reg,
		logger:    logger,
	}, nil
}

// State reports whether predictions come from fitted parameters.
func (e *Estimator) State() State {
	if e.regressor.Fitted() {
		return StateFitted
	}
	return StateUntrained
}

func (e *Estimator) Fitted() bool {
	return e.State() == StateFitted
}

// Source returns the artifact path the estimator was loaded from, empty if none.
func (e *Estimator) Source() string {
	return e.source
}

// PredictValue returns the continuous regression output for the record.
func (e *Estimator) PredictValue(rec feature.Record) (float64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	x := mat.NewDense(1, feature.NumFeatures, rec.Vector())
	res, err := e.regressor.Predict(x)
	if err != nil {
		return 0, fmt.Errorf("unable to predict demand, %w", err)
	}
	return res[0], nil
}

// Predict returns the estimated number of orders for the record. An untrained estimator
// still returns a value, see State.
func (e *Estimator) Predict(rec feature.Record) (int, error) {
	val, err := e.PredictValue(rec)
	if err != nil {
		return 0, err
	}
	orders := RoundOrders(val)
	e.logger.Debug().
		Float64("value", val).
		Int("orders", orders).
		Str("state", e.State().String()).
		Msg("predicted demand")
	return orders, nil
}

// RoundOrders rounds half to even and clamps to zero, since order counts cannot be
// negative.
func RoundOrders(val float64) int {
	r := math.RoundToEven(val)
	if math.IsNaN(r) || r <= 0 {
		return 0
	}
	if r >= math.MaxInt {
		return math.MaxInt
	}
	return int(r)
}

// Model generates a serializable representation of the estimator that can be saved and
// loaded with New or NewFromModel.
func (e *Estimator) Model() Model {
	return Model{
		Hyperparameters: e.hyper,
		FeatureNames:    feature.Names(),
		Regressor:       e.regressor.Model(),
	}
}

// SaveModel writes the estimator artifact to path.
func (e *Estimator) SaveModel(path string) error {
	return SaveModel(path, e.Model())
}

// TablePrint writes a human readable summary of the estimator.
func (e *Estimator) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%sState: %s\n", prefix, e.State()); err != nil {
		return err
	}
	return e.Model().TablePrint(w, prefix, indent)
}
