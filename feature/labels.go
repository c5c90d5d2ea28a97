package feature

import (
	"errors"
	"fmt"
)

var ErrLabelMismatch = errors.New("feature labels do not match inference order")

// Label names a single column of the inference row.
type Label string

const (
	LabelTemperature     Label = "temperature"
	LabelIsWeekend       Label = "is_weekend"
	LabelIsHoliday       Label = "is_holiday"
	LabelPromotionActive Label = "promotion_active"
	LabelHour            Label = "hour"
	LabelDayOfWeek       Label = "day_of_week"
	LabelMonth           Label = "month"
	LabelIsLunchTime     Label = "is_lunch_time"
	LabelIsDinnerTime    Label = "is_dinner_time"
)

// labels is the column order every regressor artifact is fit against. Changing it
// invalidates all persisted models.
var labels = []Label{
	LabelTemperature,
	LabelIsWeekend,
	LabelIsHoliday,
	LabelPromotionActive,
	LabelHour,
	LabelDayOfWeek,
	LabelMonth,
	LabelIsLunchTime,
	LabelIsDinnerTime,
}

var labelIdx = func() map[Label]int {
	idx := make(map[Label]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}()

// NumFeatures is the width of the inference row.
var NumFeatures = len(labels)

func (l Label) String() string {
	return string(l)
}

// Labels returns a copy of the fixed inference column order.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}

// Index returns the column of the label in the inference row.
func Index(label Label) (int, bool) {
	if idx, exists := labelIdx[label]; exists {
		return idx, true
	}
	return -1, false
}

// MatchLabels verifies names lists exactly the inference columns in order.
func MatchLabels(names []string) error {
	if len(names) != len(labels) {
		return fmt.Errorf("got %d feature names, expected %d, %w", len(names), len(labels), ErrLabelMismatch)
	}
	for i, name := range names {
		if Label(name) != labels[i] {
			return fmt.Errorf("column %d is %q, expected %q, %w", i, name, labels[i], ErrLabelMismatch)
		}
	}
	return nil
}

// Names returns the inference column order as plain strings for serialization.
func Names() []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, l.String())
	}
	return out
}
