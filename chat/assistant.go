package chat

import (
	"context"
	"log/slog"
	"time"

	"weather-chat/datasource"
	"weather-chat/metrics"
)

// StartHandler produces the reply sent when a chat session opens
type StartHandler func(ctx context.Context) string

// MessageHandler produces the single reply to one inbound message
type MessageHandler func(ctx context.Context, content string) string

// Dispatcher is the registration surface a chat transport exposes
type Dispatcher interface {
	OnChatStart(StartHandler)
	OnMessage(MessageHandler)
}

// Assistant answers weather questions. It holds no per-session state: the
// same message always produces the same reply for the same provider answer.
type Assistant struct {
	provider datasource.WeatherProvider
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAssistant creates an assistant backed by provider. m may be nil.
func NewAssistant(provider datasource.WeatherProvider, m *metrics.Metrics, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		provider: provider,
		metrics:  m,
		logger:   logger,
	}
}

// Register binds the assistant's handlers to a transport
func (a *Assistant) Register(d Dispatcher) {
	d.OnChatStart(a.Greet)
	d.OnMessage(a.Reply)
}

// Greet returns the welcome message
func (a *Assistant) Greet(_ context.Context) string {
	a.metrics.ObserveReply(metrics.KindGreeting)
	return Greeting
}

// Reply extracts a city from content, looks up its weather and renders the answer
func (a *Assistant) Reply(ctx context.Context, content string) string {
	city, ok := ExtractCity(Tokenize(content))
	if !ok {
		a.metrics.ObserveReply(metrics.KindNoCity)
		return PromptForCity
	}

	start := time.Now()
	res := datasource.Lookup(ctx, a.provider, city)
	a.metrics.ObserveLookup(res.Failed(), time.Since(start))

	if res.Failed() {
		a.logger.Debug("weather lookup failed", "city", city, "provider", a.provider.Name(), "error", res.Err.Message)
		a.metrics.ObserveReply(metrics.KindError)
	} else {
		a.metrics.ObserveReply(metrics.KindWeather)
	}
	return FormatReply(res)
}
