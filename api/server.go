package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"weather-chat/chat"
	"weather-chat/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the chat transport: it exposes the assistant over websocket and
// plain HTTP and implements chat.Dispatcher
type Server struct {
	sessions  *SessionStore
	metrics   *metrics.Metrics
	logger    *slog.Logger
	onStart   chat.StartHandler
	onMessage chat.MessageHandler
	router    chi.Router
	server    *http.Server
}

// Ensure Server implements chat.Dispatcher
var _ chat.Dispatcher = (*Server)(nil)

// NewServer creates a new API server listening on port
func NewServer(sessions *SessionStore, m *metrics.Metrics, logger *slog.Logger, port int) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		sessions: sessions,
		metrics:  m,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/api/health", s.handleHealthCheck)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Chat over websocket
	r.Get("/ws/chat", s.handleWebSocket)

	// Chat over plain HTTP
	r.Route("/api/chat/sessions", func(r chi.Router) {
		r.Post("/", s.handleOpenSession)
		r.Get("/", s.handleListSessions)
		r.Post("/{id}/messages", s.handleSendMessage)
		r.Delete("/{id}", s.handleCloseSession)
	})

	s.router = r
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// OnChatStart registers the handler that produces the session greeting
func (s *Server) OnChatStart(h chat.StartHandler) {
	s.onStart = h
}

// OnMessage registers the handler that answers each inbound message
func (s *Server) OnMessage(h chat.MessageHandler) {
	s.onMessage = h
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the API server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) ready() bool {
	return s.onStart != nil && s.onMessage != nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if !s.ready() {
		status = "starting"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":    status,
		"sessions":  s.sessions.Count(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleOpenSession starts a session and returns its greeting
func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	if !s.ready() {
		writeJSONError(w, http.StatusServiceUnavailable, "assistant not ready")
		return
	}

	session := s.sessions.Open(TransportHTTP)
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": session.ID,
		"greeting":   s.onStart(r.Context()),
	})
}

// handleListSessions returns the open sessions
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

type messageRequest struct {
	Content string `json:"content"`
}

// handleSendMessage answers one message within an open session
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	if !s.ready() {
		writeJSONError(w, http.StatusServiceUnavailable, "assistant not ready")
		return
	}

	id := chi.URLParam(r, "id")
	if _, exists := s.sessions.Get(id); !exists {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("session not found: %s", id))
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSONError(w, http.StatusBadRequest, "content is required")
		return
	}

	reply := s.onMessage(r.Context(), req.Content)
	s.sessions.Touch(id)

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": id,
		"reply":      reply,
	})
}

// handleCloseSession ends a session
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Close(id) {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("session not found: %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
