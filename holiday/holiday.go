// Package holiday detects public holidays used to pre-fill the holiday flag of a
// demand request.
package holiday

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/us"
)

var ErrUnknownCountry = errors.New("unknown holiday calendar country")

var countries = map[string][]*cal.Holiday{
	"us": us.Holidays,
	"gb": gb.Holidays,
}

// Countries returns the supported country codes
func Countries() []string {
	return []string{"gb", "us"}
}

// Calendar reports whether a date is a public holiday, actual or observed.
type Calendar struct {
	country string
	cal     *cal.BusinessCalendar
}

// New creates a calendar for an ISO country code. An empty code returns a nil calendar
// which never reports a holiday.
func New(country string) (*Calendar, error) {
	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		return nil, nil
	}
	hols, exists := countries[country]
	if !exists {
		return nil, fmt.Errorf("%q, %w", country, ErrUnknownCountry)
	}

	c := cal.NewBusinessCalendar()
	c.AddHoliday(hols...)
	return &Calendar{country: country, cal: c}, nil
}

// Country returns the calendar's country code.
func (c *Calendar) Country() string {
	if c == nil {
		return ""
	}
	return c.country
}

// Lookup returns the holiday name if t falls on a holiday or its observed day.
func (c *Calendar) Lookup(t time.Time) (string, bool) {
	if c == nil {
		return "", false
	}
	actual, observed, h := c.cal.IsHoliday(t)
	if (!actual && !observed) || h == nil {
		return "", false
	}
	return h.Name, true
}
