package chat

import (
	"fmt"
	"strconv"
	"strings"

	"weather-chat/models"
)

// Fixed replies
const (
	Greeting      = "🌤️ Welcome! I am your Weather Assistant!\n\n🤔 How can I assist you with the weather today? (e.g., current weather in London)"
	PromptForCity = "Please specify a city, e.g., 'weather in London'."
)

// FormatWeather renders the current-conditions sentence for a record
func FormatWeather(w models.WeatherRecord) string {
	return fmt.Sprintf(
		"It's currently %s°F (%s°C) in %s, %s with %s skies. Winds are from the %s at %s mph.",
		formatNumber(w.TempF), formatNumber(w.TempC),
		w.City, w.Country,
		strings.ToLower(w.Condition),
		w.WindDir, formatNumber(w.WindMph),
	)
}

// FormatReply renders a lookup result: the weather sentence on success,
// the error message verbatim otherwise
func FormatReply(res models.Result) string {
	if res.Err != nil {
		return res.Err.Message
	}
	if res.Record == nil {
		return ""
	}
	return FormatWeather(*res.Record)
}

// formatNumber prints the shortest decimal that round-trips, so 18 stays "18"
// and 64.4 stays "64.4". A JSON 18.0 also prints "18", not "18.0".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
