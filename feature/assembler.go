package feature

import (
	"context"
	"time"

	"github.com/aouyang1/go-demand/weather"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AssemblerOptions configures an Assembler. Now defaults to time.Now.
type AssemblerOptions struct {
	Now    func() time.Time
	Logger *zerolog.Logger
}

// Request is the caller supplied part of a prediction request.
type Request struct {
	City string

	// At overrides the assembler clock when set.
	At time.Time

	IsHoliday       bool
	PromotionActive bool
}

// Assembly is the result of assembling a record. WeatherErr is set when the
// lookup failed and Weather holds the default observation instead.
type Assembly struct {
	Record     Record
	Weather    weather.Observation
	WeatherErr error
}

// Degraded reports whether the default weather was substituted.
func (a Assembly) Degraded() bool {
	return a.WeatherErr != nil
}

// Assembler merges weather, calendar and operational flags into a Record.
type Assembler struct {
	provider weather.Provider
	now      func() time.Time
	logger   zerolog.Logger
}

// NewAssembler creates an assembler over the weather provider. A nil provider is
// allowed and always yields the default observation.
func NewAssembler(provider weather.Provider, opt *AssemblerOptions) *Assembler {
	if opt == nil {
		opt = &AssemblerOptions{}
	}
	a := &Assembler{
		provider: provider,
		now:      opt.Now,
		logger:   log.With().Str("component", "assembler").Logger(),
	}
	if a.now == nil {
		a.now = time.Now
	}
	if opt.Logger != nil {
		a.logger = *opt.Logger
	}
	return a
}

// Assemble always returns a fully populated record. Weather lookup failures are
// downgraded to weather.Default. Interactive callers that must report the weather
// fallback before asking for the flags call Weather and Record separately instead.
func (a *Assembler) Assemble(ctx context.Context, req Request) Assembly {
	obs, err := a.Weather(ctx, req.City)
	return Assembly{
		Record:     a.Record(obs, req),
		Weather:    obs,
		WeatherErr: err,
	}
}

// Weather looks up the city's current conditions. On failure it returns
// weather.Default together with the lookup error.
func (a *Assembler) Weather(ctx context.Context, city string) (weather.Observation, error) {
	if a.provider == nil {
		return weather.Default(), weather.ErrNoProvider
	}
	obs, err := a.provider.Current(ctx, city)
	if err != nil {
		a.logger.Warn().Err(err).Str("city", city).Msg("weather lookup failed, using default observation")
		return weather.Default(), err
	}
	return obs, nil
}

// Record merges an observation with the request's calendar signals and flags.
func (a *Assembler) Record(obs weather.Observation, req Request) Record {
	at := req.At
	if at.IsZero() {
		at = a.now()
	}
	return NewRecord(obs.TemperatureC, NewTimeFeatures(at), req.IsHoliday, req.PromotionActive)
}

// Now returns the assembler clock's current time.
func (a *Assembler) Now() time.Time {
	return a.now()
}
