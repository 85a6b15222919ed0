package datasource

import (
	"context"
	"fmt"

	"weather-chat/models"

	"golang.org/x/time/rate"
)

// RateLimitedWeatherProvider wraps a WeatherProvider with a token-bucket limiter.
// It only delays calls; it never retries or drops them.
type RateLimitedWeatherProvider struct {
	provider WeatherProvider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedWeatherProvider creates a new rate limited weather provider
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedWeatherProvider(provider WeatherProvider, rps float64, burst int) *RateLimitedWeatherProvider {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedWeatherProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// WithRateLimit wraps provider when the config asks for throttling and
// returns it unchanged otherwise
func WithRateLimit(provider WeatherProvider, config *Config) WeatherProvider {
	if config == nil || config.RateLimitRPS <= 0 {
		return provider
	}
	return NewRateLimitedWeatherProvider(provider, config.RateLimitRPS, config.RateLimitBurst)
}

// GetWeather fetches weather data, respecting rate limits
func (r *RateLimitedWeatherProvider) GetWeather(ctx context.Context, city string) (models.WeatherRecord, error) {
	// Wait for rate limiter permission or context cancellation
	if err := r.limiter.Wait(ctx); err != nil {
		return models.WeatherRecord{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	return r.provider.GetWeather(ctx, city)
}

// Name returns the provider name
func (r *RateLimitedWeatherProvider) Name() string {
	return r.name
}

var _ WeatherProvider = (*RateLimitedWeatherProvider)(nil)
