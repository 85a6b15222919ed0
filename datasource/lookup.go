package datasource

import (
	"context"

	"weather-chat/models"
)

// FailurePrefix starts every user-facing lookup failure message
const FailurePrefix = "Failed to fetch weather data: "

// Lookup runs one fetch against the provider and folds any error into an
// ErrorResult, so callers never see a raw error.
func Lookup(ctx context.Context, provider WeatherProvider, city string) models.Result {
	record, err := provider.GetWeather(ctx, city)
	if err != nil {
		return models.Failure(FailurePrefix + err.Error())
	}
	return models.Success(record)
}
