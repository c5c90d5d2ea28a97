package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	demand "github.com/aouyang1/go-demand"
	"github.com/aouyang1/go-demand/config"
	"github.com/aouyang1/go-demand/console"
	"github.com/aouyang1/go-demand/feature"
	"github.com/aouyang1/go-demand/holiday"
	"github.com/aouyang1/go-demand/weather"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	estimator, err := demand.New(&demand.Options{
		ModelPath: cfg.ModelPath,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ModelPath).Msg("failed to initialize demand estimator")
	}

	holidays, err := holiday.New(cfg.HolidayCountry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize holiday calendar")
	}

	provider := weather.NewWeatherAPIClient(&weather.WeatherAPIOptions{
		APIKey:  cfg.WeatherAPIKey,
		BaseURL: cfg.WeatherAPIURL,
		Timeout: cfg.WeatherTimeout,
	})
	assembler := feature.NewAssembler(provider, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run returns on interrupt even while blocked on a prompt, the stdin reader is left
	// behind and ends with the process.
	session := console.NewSession(os.Stdin, os.Stdout, assembler, estimator, holidays)
	err = session.Run(ctx)
	switch {
	case ctx.Err() != nil:
		fmt.Fprintln(os.Stdout)
		log.Info().Msg("interrupted, exiting")
	case err != nil:
		log.Error().Err(err).Msg("console session ended with error")
		stop()
		os.Exit(1)
	}
}
