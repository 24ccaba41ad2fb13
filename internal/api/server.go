package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/meridianbio/fieldlog/internal/agent"
	"github.com/meridianbio/fieldlog/internal/store"
)

// Repository is what the HTTP handlers need from the database layer.
// Lookups return nil (not an error) for missing records.
type Repository interface {
	CreateHCP(ctx context.Context, in store.HCPCreate) (*store.HCP, error)
	HCPByID(ctx context.Context, id int64) (*store.HCP, error)
	ListHCPs(ctx context.Context, skip, limit int) ([]store.HCP, error)
	CreateInteraction(ctx context.Context, in store.InteractionCreate) (*store.Interaction, error)
	InteractionByID(ctx context.Context, id int64) (*store.Interaction, error)
	ListInteractions(ctx context.Context, skip, limit int) ([]store.Interaction, error)
	UpdateInteraction(ctx context.Context, id int64, upd store.InteractionUpdate) (*store.Interaction, error)
}

// ChatAgent is the conversational surface backing the chat endpoints.
type ChatAgent interface {
	Process(ctx context.Context, rawText string) agent.Result
	RunToolLoop(ctx context.Context, userInput string) (string, error)
}

// Announcer publishes domain events after successful writes. Best-effort;
// nil disables eventing.
type Announcer interface {
	Publish(subject string, data any) error
}

type Server struct {
	router   *chi.Mux
	port     int
	repo     Repository
	agent    ChatAgent
	announce Announcer
}

func NewServer(port int, repo Repository, chatAgent ChatAgent, announce Announcer) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		repo:     repo,
		agent:    chatAgent,
		announce: announce,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/hcps", func(r chi.Router) {
			r.Post("/", s.createHCP)
			r.Get("/", s.listHCPs)
			r.Get("/{hcpID}", s.getHCP)
		})
		r.Route("/interactions", func(r chi.Router) {
			r.Post("/", s.createInteraction)
			r.Get("/", s.listInteractions)
			r.Post("/chat", s.chat)
			r.Get("/{interactionID}", s.getInteraction)
			r.Put("/{interactionID}", s.updateInteraction)
		})
		r.Post("/agent/chat", s.agentChat)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]string{"error": fmt.Sprintf(format, args...)})
}

func (s *Server) publish(subject string, data any) {
	if s.announce == nil {
		return
	}
	if err := s.announce.Publish(subject, data); err != nil {
		slog.Warn("event publish failed", "subject", subject, "error", err)
	}
}
