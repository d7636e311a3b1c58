package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/bans"
	"github.com/lehigh-university-libraries/artexplorer/internal/config"
	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
	"github.com/lehigh-university-libraries/artexplorer/internal/notes"
	"github.com/lehigh-university-libraries/artexplorer/internal/storage"
)

// FetcherFactory creates the fetcher backing a new session
type FetcherFactory func() explorer.Fetcher

// Options configures a Handler
type Options struct {
	PresetBans []string
	Notes      *notes.Service
	StaticDir  string
}

type Handler struct {
	sessionStore *storage.SessionStore
	newFetcher   FetcherFactory
	presetBans   bans.List
	notesService *notes.Service
	staticDir    string
}

func New(newFetcher FetcherFactory, opts Options) *Handler {
	staticDir := opts.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	notesService := opts.Notes
	if notesService == nil {
		notesService = notes.NewService(config.DefaultNotes())
	}

	return &Handler{
		sessionStore: storage.New(),
		newFetcher:   newFetcher,
		presetBans:   bans.List(opts.PresetBans),
		notesService: notesService,
		staticDir:    staticDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Warn(message, "status", code)
	}
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*explorer.Explorer, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	session.Touch()
	return session, true
}

// EvictIdleSessions drops sessions untouched for ttl
func (h *Handler) EvictIdleSessions(ttl time.Duration) int {
	evicted := h.sessionStore.EvictIdle(time.Now(), ttl)
	for _, id := range evicted {
		slog.Info("Session evicted", "session_id", id, "idle_ttl", ttl)
	}
	return len(evicted)
}

// RunJanitor evicts idle sessions every interval until ctx is done.
// A non-positive ttl disables eviction.
func (h *Handler) RunJanitor(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.EvictIdleSessions(ttl)
		}
	}
}
