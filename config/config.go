// Package config loads the estimator's runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	demand "github.com/aouyang1/go-demand"
	"github.com/aouyang1/go-demand/weather"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultWeatherAPIURL  = weather.DefaultWeatherAPIURL
	DefaultWeatherTimeout = weather.DefaultTimeout
	DefaultModelPath      = demand.DefaultModelPath
	DefaultLogLevel       = "warn"
)

// Config holds all application configuration
type Config struct {
	WeatherAPIKey  string
	WeatherAPIURL  string
	WeatherTimeout time.Duration
	ModelPath      string
	HolidayCountry string
	LogLevel       string
}

// Load reads a .env file from the working directory if present and then the process
// environment. Unset or unparsable values fall back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}
	return FromEnv(), nil
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherAPIURL:  getEnvWithDefault("WEATHER_API_URL", DefaultWeatherAPIURL),
		WeatherTimeout: time.Duration(getEnvIntWithDefault("WEATHER_TIMEOUT", int(DefaultWeatherTimeout/time.Second))) * time.Second,
		ModelPath:      getEnvWithDefault("MODEL_PATH", DefaultModelPath),
		HolidayCountry: os.Getenv("HOLIDAY_COUNTRY"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", DefaultLogLevel),
	}
}

// Level parses LogLevel, defaulting to warn for unknown values.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lvl
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
