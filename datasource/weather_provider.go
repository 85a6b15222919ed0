package datasource

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"weather-chat/models"
)

// DefaultBaseURL is the WeatherAPI.com v1 endpoint used when no override is configured
const DefaultBaseURL = "http://api.weatherapi.com/v1"

// ErrMissingAPIKey is returned by LoadConfig when WEATHER_API_KEY is not set
var ErrMissingAPIKey = errors.New("WEATHER_API_KEY is not set")

// WeatherProvider is an interface for services that can fetch current weather for a city
type WeatherProvider interface {
	// GetWeather fetches current conditions for a city
	GetWeather(ctx context.Context, city string) (models.WeatherRecord, error)

	// Name returns the provider's name
	Name() string
}

// Config represents the provider configuration read from the environment
type Config struct {
	APIKey  string
	BaseURL string

	// RateLimitRPS of zero leaves outbound calls unthrottled
	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadConfig reads the provider configuration from environment variables.
// The API key is mandatory.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	config.APIKey = strings.TrimSpace(os.Getenv("WEATHER_API_KEY"))
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if v := strings.TrimSpace(os.Getenv("WEATHER_API_BASE_URL")); v != "" {
		config.BaseURL = strings.TrimRight(v, "/")
	}

	if v := os.Getenv("WEATHER_RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 || math.IsNaN(rps) || math.IsInf(rps, 0) {
			return nil, fmt.Errorf("invalid WEATHER_RATE_LIMIT_RPS %q", v)
		}
		config.RateLimitRPS = rps
	}

	if v := os.Getenv("WEATHER_RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			return nil, fmt.Errorf("invalid WEATHER_RATE_LIMIT_BURST %q", v)
		}
		config.RateLimitBurst = burst
	}

	return config, nil
}

// DefaultConfig creates a configuration with no API key
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		RateLimitBurst: 1,
	}
}
