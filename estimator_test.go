package demand

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aouyang1/go-demand/feature"
	"github.com/aouyang1/go-demand/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lunch and promotions each add orders on top of a weekday base
const testArtifact = `{
  "hyperparameters": {"n_estimators": 100, "learning_rate": 0.1, "max_depth": 5, "seed": 42},
  "feature_names": ["temperature", "is_weekend", "is_holiday", "promotion_active", "hour", "day_of_week", "month", "is_lunch_time", "is_dinner_time"],
  "regressor": {
    "type": "gbtree",
    "gbtree": {
      "base_score": 0.5,
      "trees": [
        {"nodes": [
          {"feature": 7, "threshold": 0.5, "left": 1, "right": 2},
          {"leaf": 30},
          {"leaf": 55}
        ]},
        {"nodes": [
          {"feature": 3, "threshold": 0.5, "left": 1, "right": 2},
          {"leaf": 0},
          {"feature": 1, "threshold": 0.5, "left": 3, "right": 4},
          {"leaf": 12},
          {"leaf": 20}
        ]}
      ]
    }
  }
}`

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models", "demand_model.json")
	require.Nil(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mondayLunch() feature.Record {
	return feature.Record{
		Temperature: 20,
		Hour:        12,
		DayOfWeek:   0,
		Month:       1,
		IsLunchTime: true,
	}
}

func saturdayDinner() feature.Record {
	return feature.Record{
		Temperature:     5,
		IsWeekend:       true,
		IsHoliday:       true,
		PromotionActive: true,
		Hour:            19,
		DayOfWeek:       5,
		Month:           6,
		IsDinnerTime:    true,
	}
}

func TestNewWithArtifact(t *testing.T) {
	path := writeArtifact(t, testArtifact)

	e, err := New(&Options{ModelPath: path, Logger: nopLogger()})
	require.Nil(t, err)
	assert.Equal(t, StateFitted, e.State())
	assert.True(t, e.Fitted())
	assert.Equal(t, path, e.Source())

	testData := map[string]struct {
		rec      feature.Record
		expected int
	}{
		// 0.5 + 55 + 0 rounds half to even
		"monday lunch no promotion": {rec: mondayLunch(), expected: 56},
		// 0.5 + 30 + 20
		"saturday dinner promotion": {rec: saturdayDinner(), expected: 50},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			orders, err := e.Predict(td.rec)
			require.Nil(t, err)
			assert.Equal(t, td.expected, orders)

			again, err := e.Predict(td.rec)
			require.Nil(t, err)
			assert.Equal(t, orders, again)
		})
	}
}

func TestNewMissingArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "demand_model.json")

	e, err := New(&Options{ModelPath: path, Logger: nopLogger()})
	require.Nil(t, err)
	assert.Equal(t, StateUntrained, e.State())
	assert.Equal(t, "", e.Source())

	for _, rec := range []feature.Record{mondayLunch(), saturdayDinner()} {
		orders, err := e.Predict(rec)
		require.Nil(t, err)
		assert.GreaterOrEqual(t, orders, 0)

		val, err := e.PredictValue(rec)
		require.Nil(t, err)
		assert.Equal(t, models.DefaultBaseScore, val)
	}

	m := e.Model()
	assert.Equal(t, models.NewDefaultTreeOptions(), m.Hyperparameters)
	assert.Equal(t, models.RegressorTypeTreeEnsemble, m.Regressor.Type)
	assert.Empty(t, m.Regressor.TreeEnsemble.Trees)
}

func TestNewUntrainedHyperparameters(t *testing.T) {
	hyper := &models.TreeOptions{Estimators: 50, LearningRate: 0.3, MaxDepth: 3, Seed: 7}
	e, err := New(&Options{Hyperparameters: hyper, Logger: nopLogger()})
	require.Nil(t, err)
	assert.Equal(t, hyper, e.Model().Hyperparameters)

	_, err = New(&Options{Hyperparameters: &models.TreeOptions{}, Logger: nopLogger()})
	assert.ErrorIs(t, err, models.ErrNonPositiveEstimators)
}

func TestNewInvalidArtifact(t *testing.T) {
	testData := map[string]struct {
		content string
		err     error
	}{
		"truncated json": {
			content: testArtifact[:40],
			err:     ErrInvalidModelFile,
		},
		"reordered features": {
			content: `{"feature_names": ["is_weekend", "temperature", "is_holiday", "promotion_active", "hour", "day_of_week", "month", "is_lunch_time", "is_dinner_time"],
				"regressor": {"type": "linear", "linear": {"intercept": 1, "coefficients": [0,0,0,0,0,0,0,0,0]}}}`,
			err: feature.ErrLabelMismatch,
		},
		"no regressor": {
			content: `{"hyperparameters": {"n_estimators": 100, "learning_rate": 0.1, "max_depth": 5, "seed": 42}}`,
			err:     ErrNoRegressorInModel,
		},
		"unknown regressor": {
			content: `{"regressor": {"type": "random_forest"}}`,
			err:     models.ErrUnknownRegressor,
		},
		"linear wrong width": {
			content: `{"regressor": {"type": "linear", "linear": {"intercept": 1, "coefficients": [1, 2]}}}`,
			err:     models.ErrFeatureLenMismatch,
		},
		"tree deeper than hyperparameters": {
			content: `{"hyperparameters": {"n_estimators": 1, "learning_rate": 0.1, "max_depth": 1, "seed": 42},
				"regressor": {"type": "gbtree", "gbtree": {"base_score": 0, "trees": [{"nodes": [
					{"feature": 0, "threshold": 1, "left": 1, "right": 2},
					{"leaf": 1},
					{"feature": 4, "threshold": 1, "left": 3, "right": 4},
					{"leaf": 1},
					{"leaf": 1}
				]}]}}}`,
			err: models.ErrTreeTooDeep,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			path := writeArtifact(t, td.content)
			_, err := New(&Options{ModelPath: path, Logger: nopLogger()})
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestSaveModelRoundTrip(t *testing.T) {
	src, err := New(&Options{ModelPath: writeArtifact(t, testArtifact), Logger: nopLogger()})
	require.Nil(t, err)

	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.Nil(t, src.SaveModel(path))

	dst, err := New(&Options{ModelPath: path, Logger: nopLogger()})
	require.Nil(t, err)
	assert.Equal(t, src.Model(), dst.Model())

	for _, rec := range []feature.Record{mondayLunch(), saturdayDinner()} {
		expected, err := src.PredictValue(rec)
		require.Nil(t, err)
		val, err := dst.PredictValue(rec)
		require.Nil(t, err)
		assert.Equal(t, expected, val)
	}
}

func TestNewFromModelLinear(t *testing.T) {
	e, err := NewFromModel(Model{
		Regressor: models.RegressorModel{
			Type: models.RegressorTypeLinear,
			Linear: &models.LinearModel{
				Intercept:    -40,
				Coefficients: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	})
	require.Nil(t, err)
	assert.True(t, e.Fitted())

	val, err := e.PredictValue(mondayLunch())
	require.Nil(t, err)
	assert.Equal(t, -40.0, val)

	// negative regression output clamps to zero orders
	orders, err := e.Predict(mondayLunch())
	require.Nil(t, err)
	assert.Equal(t, 0, orders)
}

func TestPredictInvalidRecord(t *testing.T) {
	e, err := New(&Options{Logger: nopLogger()})
	require.Nil(t, err)

	rec := mondayLunch()
	rec.Hour = 24
	_, err = e.Predict(rec)
	assert.ErrorIs(t, err, feature.ErrInvalidRecord)

	rec = mondayLunch()
	rec.Temperature = math.NaN()
	_, err = e.PredictValue(rec)
	assert.ErrorIs(t, err, feature.ErrInvalidRecord)
}

func TestRoundOrders(t *testing.T) {
	testData := map[string]struct {
		val      float64
		expected int
	}{
		"zero":              {0, 0},
		"half rounds even":  {0.5, 0},
		"one and a half":    {1.5, 2},
		"two and a half":    {2.5, 2},
		"just above half":   {2.5000001, 3},
		"below half":        {41.49, 41},
		"negative":          {-3.7, 0},
		"negative half":     {-0.5, 0},
		"nan":               {math.NaN(), 0},
		"positive infinity": {math.Inf(1), math.MaxInt},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, RoundOrders(td.val))
		})
	}
}

func TestPredictConcurrent(t *testing.T) {
	e, err := New(&Options{ModelPath: writeArtifact(t, testArtifact), Logger: nopLogger()})
	require.Nil(t, err)

	expected, err := e.Predict(saturdayDinner())
	require.Nil(t, err)

	var wg sync.WaitGroup
	res := make([]int, 16)
	for i := range res {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res[i], _ = e.Predict(saturdayDinner())
		}(i)
	}
	wg.Wait()
	for _, orders := range res {
		assert.Equal(t, expected, orders)
	}
}

func TestEstimatorTablePrint(t *testing.T) {
	e, err := New(&Options{ModelPath: writeArtifact(t, testArtifact), Logger: nopLogger()})
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, e.TablePrint(&buf, "", "  "))
	out := buf.String()
	assert.Contains(t, out, "State: fitted")
	assert.Contains(t, out, "Regressor: gbtree    Base Score: 0.500    Trees: 2")
	assert.Contains(t, out, "Features: temperature, is_weekend")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fitted", StateFitted.String())
	assert.Equal(t, "untrained", StateUntrained.String())
	assert.Equal(t, "unknown", State(9).String())
}
