package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"weather-chat/api"
	"weather-chat/chat"
	"weather-chat/datasource"
	"weather-chat/metrics"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file before anything reads them
	envErr := godotenv.Load()

	logger := newLogger(os.Stdout)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Warn("no .env file loaded", "error", envErr)
	}

	// Parse command line arguments
	port := flag.Int("port", 8080, "Port to run the server on")
	sessionIdle := flag.Duration("session-idle", 30*time.Minute, "Drop chat sessions idle for longer than this")
	enableRateLimiting := flag.Bool("rate-limit", false, "Throttle WeatherAPI calls using WEATHER_RATE_LIMIT_RPS")
	flag.Parse()

	// Load configuration; the API key is required before anything is served
	config, err := datasource.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var provider datasource.WeatherProvider = datasource.NewWeatherAPIProviderFromConfig(config)
	if *enableRateLimiting {
		provider = datasource.WithRateLimit(provider, config)
		logger.Info("rate limiting configured", "provider", provider.Name(), "rps", config.RateLimitRPS, "burst", config.RateLimitBurst)
	}

	m := metrics.New()
	sessions := api.NewSessionStore(m)
	server := api.NewServer(sessions, m, logger, *port)

	assistant := chat.NewAssistant(provider, m, logger)
	assistant.Register(server)

	// Set up channels for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	pruneDone := make(chan struct{})

	// Periodically drop idle sessions
	if *sessionIdle > 0 {
		go pruneSessions(sessions, *sessionIdle, pruneDone, logger)
	}

	// Start the API server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdownChan
	logger.Info("shutting down", "signal", sig.String())
	close(pruneDone)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// pruneSessions drops idle sessions every half idle period until done is closed
func pruneSessions(sessions *api.SessionStore, idle time.Duration, done <-chan struct{}, logger *slog.Logger) {
	interval := idle / 2
	if interval <= 0 {
		interval = idle
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := sessions.PruneIdle(idle); n > 0 {
				logger.Info("pruned idle sessions", "count", n)
			}
		case <-done:
			return
		}
	}
}

// newLogger builds the text logger at the level named by LOG_LEVEL
func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel(os.Getenv("LOG_LEVEL"))}))
}

func logLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
