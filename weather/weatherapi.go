package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultWeatherAPIURL = "http://api.weatherapi.com/v1/current.json"
	DefaultTimeout       = 10 * time.Second
)

var (
	ErrMissingAPIKey     = errors.New("missing weather api key")
	ErrEmptyCity         = errors.New("empty city name")
	ErrUnexpectedStatus  = errors.New("unexpected weather api status")
	ErrMalformedResponse = errors.New("malformed weather api response")
)

// WeatherAPIOptions configures the weatherapi.com client. Zero values fall back to
// package defaults.
type WeatherAPIOptions struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// WeatherAPIClient queries the weatherapi.com current conditions endpoint.
type WeatherAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type currentResponse struct {
	Current *struct {
		TempC    float64 `json:"temp_c"`
		PrecipMM float64 `json:"precip_mm"`
	} `json:"current"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewWeatherAPIClient creates a client. A nil options uses the defaults with no api key.
func NewWeatherAPIClient(opt *WeatherAPIOptions) *WeatherAPIClient {
	if opt == nil {
		opt = &WeatherAPIOptions{}
	}

	c := &WeatherAPIClient{
		apiKey:     opt.APIKey,
		baseURL:    opt.BaseURL,
		httpClient: opt.HTTPClient,
		logger:     log.With().Str("component", "weather_client").Logger(),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultWeatherAPIURL
	}
	if c.httpClient == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if opt.Logger != nil {
		c.logger = *opt.Logger
	}
	return c
}

// Current fetches the current temperature and whether any precipitation is falling.
func (c *WeatherAPIClient) Current(ctx context.Context, city string) (Observation, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Observation{}, ErrEmptyCity
	}
	if c.apiKey == "" {
		return Observation{}, ErrMissingAPIKey
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Observation{}, fmt.Errorf("invalid weather api url %q, %w", c.baseURL, err)
	}
	q := u.Query()
	q.Set("q", city)
	c.logger.Debug().Str("url", u.String()).Str("city", city).Msg("fetching current weather")
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Observation{}, fmt.Errorf("creating request, %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Observation{}, fmt.Errorf("weather request failed, %w", err)
	}
	defer resp.Body.Close()

	var data currentResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&data)

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && data.Error != nil && data.Error.Message != "" {
			msg = data.Error.Message
		}
		return Observation{}, fmt.Errorf("status %d: %s, %w", resp.StatusCode, msg, ErrUnexpectedStatus)
	}
	if decodeErr != nil {
		return Observation{}, fmt.Errorf("decoding weather response, %w", errors.Join(ErrMalformedResponse, decodeErr))
	}
	if data.Current == nil {
		return Observation{}, fmt.Errorf("no current conditions for %q, %w", city, ErrMalformedResponse)
	}

	obs := Observation{
		TemperatureC: data.Current.TempC,
		IsRaining:    data.Current.PrecipMM > 0,
	}
	c.logger.Debug().
		Float64("temp_c", obs.TemperatureC).
		Bool("is_raining", obs.IsRaining).
		Msg("fetched current weather")
	return obs, nil
}
