package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridianbio/fieldlog/internal/events"
	"github.com/meridianbio/fieldlog/internal/store"
)

func (s *Server) createInteraction(w http.ResponseWriter, r *http.Request) {
	var in store.InteractionCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}

	hcp, err := s.repo.HCPByID(r.Context(), in.HCPID)
	if err != nil {
		slog.Error("hcp lookup failed", "hcp_id", in.HCPID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load HCP")
		return
	}
	if hcp == nil {
		writeError(w, http.StatusNotFound, "HCP not found")
		return
	}

	created, err := s.repo.CreateInteraction(r.Context(), in)
	if err != nil {
		slog.Error("create interaction failed", "hcp_id", in.HCPID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create interaction")
		return
	}
	s.publish(events.SubjectInteractionLogged, created)
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) listInteractions(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	interactions, err := s.repo.ListInteractions(r.Context(), skip, limit)
	if err != nil {
		slog.Error("list interactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list interactions")
		return
	}
	if interactions == nil {
		interactions = []store.Interaction{}
	}
	writeJSON(w, http.StatusOK, interactions)
}

func (s *Server) getInteraction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "interactionID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interaction id")
		return
	}

	interaction, err := s.repo.InteractionByID(r.Context(), id)
	if err != nil {
		slog.Error("get interaction failed", "interaction_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load interaction")
		return
	}
	if interaction == nil {
		writeError(w, http.StatusNotFound, "Interaction not found")
		return
	}
	writeJSON(w, http.StatusOK, interaction)
}

func (s *Server) updateInteraction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "interactionID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interaction id")
		return
	}

	var upd store.InteractionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}

	updated, err := s.repo.UpdateInteraction(r.Context(), id, upd)
	if err != nil {
		slog.Error("update interaction failed", "interaction_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update interaction")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Interaction not found")
		return
	}
	s.publish(events.SubjectInteractionUpdated, updated)
	writeJSON(w, http.StatusOK, updated)
}

// ChatRequest is the payload for POST /api/v1/interactions/chat. Only
// raw_text_input drives the pipeline; the optional fields let clients echo
// form state without affecting extraction.
type ChatRequest struct {
	RawTextInput string `json:"raw_text_input"`
	HCPName      string `json:"hcp_name,omitempty"`
	HCPSentiment string `json:"hcp_sentiment,omitempty"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}
	if req.RawTextInput == "" {
		writeError(w, http.StatusBadRequest, "raw_text_input is required")
		return
	}

	// Process never fails the HTTP request; failures come back as a
	// structured error result.
	result := s.agent.Process(r.Context(), req.RawTextInput)
	writeJSON(w, http.StatusOK, result)
}

// AgentChatRequest is the payload for POST /api/v1/agent/chat, the
// free-form tool-calling surface.
type AgentChatRequest struct {
	Message string `json:"message"`
}

type AgentChatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) agentChat(w http.ResponseWriter, r *http.Request) {
	var req AgentChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.agent.RunToolLoop(r.Context(), req.Message)
	if err != nil {
		slog.Error("agent chat failed", "error", err)
		writeError(w, http.StatusInternalServerError, "AI agent error: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, AgentChatResponse{Reply: reply})
}
