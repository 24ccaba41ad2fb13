package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridianbio/fieldlog/internal/events"
	"github.com/meridianbio/fieldlog/internal/store"
)

func (s *Server) createHCP(w http.ResponseWriter, r *http.Request) {
	var in store.HCPCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	hcp, err := s.repo.CreateHCP(r.Context(), in)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateHCP) {
			writeError(w, http.StatusBadRequest, "HCP with this name already registered")
			return
		}
		slog.Error("create hcp failed", "name", in.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create HCP")
		return
	}

	s.publish(events.SubjectHCPCreated, hcp)
	writeJSON(w, http.StatusCreated, hcp)
}

func (s *Server) listHCPs(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	hcps, err := s.repo.ListHCPs(r.Context(), skip, limit)
	if err != nil {
		slog.Error("list hcps failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list HCPs")
		return
	}
	if hcps == nil {
		hcps = []store.HCP{}
	}
	writeJSON(w, http.StatusOK, hcps)
}

func (s *Server) getHCP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "hcpID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid HCP id")
		return
	}

	hcp, err := s.repo.HCPByID(r.Context(), id)
	if err != nil {
		slog.Error("get hcp failed", "hcp_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load HCP")
		return
	}
	if hcp == nil {
		writeError(w, http.StatusNotFound, "HCP not found")
		return
	}
	writeJSON(w, http.StatusOK, hcp)
}

// pagination reads skip/limit query params with the defaults 0 and 100.
func pagination(r *http.Request) (skip, limit int) {
	skip, limit = 0, 100
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}
	return skip, limit
}
