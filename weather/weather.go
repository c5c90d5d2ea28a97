// Package weather provides current weather observations used as demand features.
package weather

import (
	"context"
	"errors"
)

// DefaultTemperatureC is the temperature substituted when no observation is available.
const DefaultTemperatureC = 20.0

var ErrNoProvider = errors.New("no weather provider configured")

// Observation is the subset of current conditions the demand model consumes.
type Observation struct {
	TemperatureC float64 `json:"temperature"`
	IsRaining    bool    `json:"is_raining"`
}

// Default returns the observation used in place of a failed lookup.
func Default() Observation {
	return Observation{
		TemperatureC: DefaultTemperatureC,
		IsRaining:    false,
	}
}

// Provider looks up the current conditions for a city.
type Provider interface {
	Current(ctx context.Context, city string) (Observation, error)
}
