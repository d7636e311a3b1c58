package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
	"github.com/lehigh-university-libraries/artexplorer/internal/history"
	"github.com/lehigh-university-libraries/artexplorer/internal/notes"
	"github.com/lehigh-university-libraries/artexplorer/internal/sampler"
)

// DiscoverResponse reports the outcome of a discover request
type DiscoverResponse struct {
	Status  string      `json:"status"`
	Session SessionView `json:"session"`
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	session := explorer.New(sessionID, h.newFetcher(), h.presetBans)
	h.sessionStore.Set(sessionID, session)

	slog.Info("Session created", "session_id", sessionID, "preset_bans", len(h.presetBans))
	h.writeJSONStatus(w, http.StatusCreated, newSessionView(session.Snapshot()))
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessionStore.GetAll()
	sessionList := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		sessionList = append(sessionList, newSessionView(session.Snapshot()))
	}
	sort.Slice(sessionList, func(i, j int) bool {
		return sessionList[i].CreatedAt.Before(sessionList[j].CreatedAt)
	})
	h.writeJSON(w, sessionList)
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	h.writeJSON(w, newSessionView(session.Snapshot()))
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if !h.sessionStore.Delete(sessionID) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	slog.Info("Session deleted", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	_, err := session.Discover(r.Context())
	switch {
	case err == nil:
		h.writeJSON(w, DiscoverResponse{Status: "found", Session: newSessionView(session.Snapshot())})
	case errors.Is(err, sampler.ErrExhausted):
		h.writeJSON(w, DiscoverResponse{Status: "exhausted", Session: newSessionView(session.Snapshot())})
	case errors.Is(err, sampler.ErrBusy):
		h.writeError(w, "A fetch is already in progress", http.StatusConflict)
	default:
		h.writeError(w, "Failed to fetch artwork: "+err.Error(), http.StatusBadGateway)
	}
}

func (h *Handler) HandleToggleBan(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var request struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Term == "" {
		h.writeError(w, "term is required", http.StatusBadRequest)
		return
	}

	session.ToggleBan(request.Term)
	h.writeJSON(w, newSessionView(session.Snapshot()))
}

func (h *Handler) HandleClearBans(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	session.ClearBans()
	h.writeJSON(w, newSessionView(session.Snapshot()))
}

func (h *Handler) HandleSelectHistory(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, "Invalid history index", http.StatusBadRequest)
		return
	}

	_, err = session.SelectHistory(index)
	switch {
	case err == nil:
		h.writeJSON(w, newSessionView(session.Snapshot()))
	case errors.Is(err, explorer.ErrNoSuchEntry):
		h.writeError(w, "History entry not found", http.StatusNotFound)
	case errors.Is(err, history.ErrRejected):
		h.writeError(w, "Artwork is banned by the current filters", http.StatusConflict)
	default:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	provider := r.URL.Query().Get("provider")
	model := r.URL.Query().Get("model")

	text, err := h.notesService.Generate(r.Context(), session.Current(), provider, model)
	switch {
	case err == nil:
		h.writeJSON(w, map[string]any{
			"notes":    text,
			"provider": provider,
			"model":    model,
		})
	case errors.Is(err, notes.ErrNoArtwork):
		h.writeError(w, "No artwork selected", http.StatusNotFound)
	default:
		h.writeError(w, "Failed to generate notes: "+err.Error(), http.StatusBadGateway)
	}
}
