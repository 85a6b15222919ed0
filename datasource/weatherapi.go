package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"weather-chat/models"
)

// WeatherAPIProvider implements WeatherProvider against WeatherAPI.com
type WeatherAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Ensure WeatherAPIProvider implements WeatherProvider
var _ WeatherProvider = (*WeatherAPIProvider)(nil)

// NewWeatherAPIProvider creates a new WeatherAPI provider.
// The HTTP client keeps the transport defaults: no timeout, no retries.
func NewWeatherAPIProvider(apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
}

// NewWeatherAPIProviderFromConfig creates a provider from a loaded Config
func NewWeatherAPIProviderFromConfig(config *Config) *WeatherAPIProvider {
	p := NewWeatherAPIProvider(config.APIKey)
	if config.BaseURL != "" {
		p.baseURL = config.BaseURL
	}
	return p
}

// Name returns the provider name
func (p *WeatherAPIProvider) Name() string {
	return "WeatherAPI"
}

// StatusError is returned when WeatherAPI.com answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Status     string
	// Message is the provider's own explanation, when the body carried one
	Message string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message == "" {
		return fmt.Sprintf("API returned status %s", status)
	}
	return fmt.Sprintf("API returned status %s: %s", status, e.Message)
}

// ErrIncompleteResponse is returned when a 2xx body carries no location
var ErrIncompleteResponse = errors.New("failed to parse response: missing location")

// currentResponse mirrors the subset of current.json the record needs
type currentResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		TempF     float64 `json:"temp_f"`
		WindMph   float64 `json:"wind_mph"`
		WindDir   string  `json:"wind_dir"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GetWeather fetches current weather for a city
func (p *WeatherAPIProvider) GetWeather(ctx context.Context, city string) (models.WeatherRecord, error) {
	// Build URL
	endpoint := fmt.Sprintf("%s/current.json", p.baseURL)
	params := url.Values{}
	params.Add("key", p.apiKey)
	params.Add("q", city)
	params.Add("aqi", "no")

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.WeatherRecord{}, fmt.Errorf("failed to create request: %w", p.redact(err))
	}

	// Execute request
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return models.WeatherRecord{}, fmt.Errorf("failed to execute request: %w", p.redact(err))
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherRecord{}, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for error status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil {
			statusErr.Message = apiErr.Error.Message
		}
		return models.WeatherRecord{}, statusErr
	}

	// Parse response
	var response currentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.WeatherRecord{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Location.Name == "" {
		return models.WeatherRecord{}, ErrIncompleteResponse
	}

	return models.WeatherRecord{
		City:      response.Location.Name,
		Country:   response.Location.Country,
		TempC:     response.Current.TempC,
		TempF:     response.Current.TempF,
		Condition: response.Current.Condition.Text,
		WindMph:   response.Current.WindMph,
		WindDir:   response.Current.WindDir,
	}, nil
}

// redact strips the API key from URLs embedded in transport errors
func (p *WeatherAPIProvider) redact(err error) error {
	if p.apiKey == "" {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{
			Op:  urlErr.Op,
			URL: strings.ReplaceAll(urlErr.URL, url.QueryEscape(p.apiKey), "REDACTED"),
			Err: urlErr.Err,
		}
	}
	return err
}
