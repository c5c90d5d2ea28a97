package feature

import "time"

const (
	WeekendStartDay = 5

	LunchStartHour  = 11
	LunchEndHour    = 14
	DinnerStartHour = 18
	DinnerEndHour   = 21
)

// TimeFeatures are the calendar signals derived from a single timestamp.
type TimeFeatures struct {
	Hour         int  `json:"hour"`
	DayOfWeek    int  `json:"day_of_week"`
	Month        int  `json:"month"`
	IsWeekend    bool `json:"is_weekend"`
	IsLunchTime  bool `json:"is_lunch_time"`
	IsDinnerTime bool `json:"is_dinner_time"`
}

// NewTimeFeatures derives the calendar signals of t in its own location.
func NewTimeFeatures(t time.Time) TimeFeatures {
	dow := DayOfWeek(t)
	hour := t.Hour()
	return TimeFeatures{
		Hour:         hour,
		DayOfWeek:    dow,
		Month:        int(t.Month()),
		IsWeekend:    IsWeekend(dow),
		IsLunchTime:  IsLunchTime(hour),
		IsDinnerTime: IsDinnerTime(hour),
	}
}

// DayOfWeek returns the weekday index with Monday as 0 and Sunday as 6.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func IsWeekend(dayOfWeek int) bool {
	return dayOfWeek >= WeekendStartDay
}

func IsLunchTime(hour int) bool {
	return hour >= LunchStartHour && hour <= LunchEndHour
}

func IsDinnerTime(hour int) bool {
	return hour >= DinnerStartHour && hour <= DinnerEndHour
}
