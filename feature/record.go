// Package feature assembles and encodes the fixed feature record consumed by the
// demand estimator.
package feature

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidRecord = errors.New("invalid feature record")

// Record is one prediction request's context. Fields are merged by name; the
// inference column order lives in Labels.
type Record struct {
	Temperature     float64 `json:"temperature"`
	IsWeekend       bool    `json:"is_weekend"`
	IsHoliday       bool    `json:"is_holiday"`
	PromotionActive bool    `json:"promotion_active"`
	Hour            int     `json:"hour"`
	DayOfWeek       int     `json:"day_of_week"`
	Month           int     `json:"month"`
	IsLunchTime     bool    `json:"is_lunch_time"`
	IsDinnerTime    bool    `json:"is_dinner_time"`
}

// NewRecord merges the weather temperature, calendar signals and operational flags.
func NewRecord(temperature float64, tf TimeFeatures, isHoliday, promotionActive bool) Record {
	return Record{
		Temperature:     temperature,
		IsWeekend:       tf.IsWeekend,
		IsHoliday:       isHoliday,
		PromotionActive: promotionActive,
		Hour:            tf.Hour,
		DayOfWeek:       tf.DayOfWeek,
		Month:           tf.Month,
		IsLunchTime:     tf.IsLunchTime,
		IsDinnerTime:    tf.IsDinnerTime,
	}
}

// Get returns the numeric value of a single column, booleans as 0 or 1.
func (r Record) Get(label Label) (float64, bool) {
	switch label {
	case LabelTemperature:
		return r.Temperature, true
	case LabelIsWeekend:
		return boolToFloat(r.IsWeekend), true
	case LabelIsHoliday:
		return boolToFloat(r.IsHoliday), true
	case LabelPromotionActive:
		return boolToFloat(r.PromotionActive), true
	case LabelHour:
		return float64(r.Hour), true
	case LabelDayOfWeek:
		return float64(r.DayOfWeek), true
	case LabelMonth:
		return float64(r.Month), true
	case LabelIsLunchTime:
		return boolToFloat(r.IsLunchTime), true
	case LabelIsDinnerTime:
		return boolToFloat(r.IsDinnerTime), true
	}
	return 0, false
}

// Vector encodes the record as a numeric row in inference order.
func (r Record) Vector() []float64 {
	row := make([]float64, 0, len(labels))
	for _, l := range labels {
		val, _ := r.Get(l)
		row = append(row, val)
	}
	return row
}

// Validate checks every column is finite and within its calendar range.
func (r Record) Validate() error {
	if math.IsNaN(r.Temperature) || math.IsInf(r.Temperature, 0) {
		return fmt.Errorf("%s is %v, %w", LabelTemperature, r.Temperature, ErrInvalidRecord)
	}
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("%s %d outside [0, 23], %w", LabelHour, r.Hour, ErrInvalidRecord)
	}
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("%s %d outside [0, 6], %w", LabelDayOfWeek, r.DayOfWeek, ErrInvalidRecord)
	}
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("%s %d outside [1, 12], %w", LabelMonth, r.Month, ErrInvalidRecord)
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
