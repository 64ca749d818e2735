package server

import (
	"encoding/json"
	"mood-server/pkg/logger"
	"net/http"
	"strconv"
)

const defaultJournalLimit = 50

// DebugHandler предоставляет доступ к внутреннему состоянию сервера
type DebugHandler struct {
	srv *Server
}

func NewDebugHandler(s *Server) *DebugHandler {
	return &DebugHandler{srv: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/world", h.handleWorld)
	mux.HandleFunc("/debug/sessions", h.handleSessions)
	mux.HandleFunc("/debug/journal", h.handleJournal)
}

// /debug/world - игроки, монстры и состояние тикера
func (h *DebugHandler) handleWorld(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.srv.world.Snapshot())
}

// /debug/sessions - открытые соединения и число подписчиков рассылки
func (h *DebugHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	type sessionsView struct {
		Subscribers int           `json:"subscribers"`
		Sessions    []SessionInfo `json:"sessions"`
	}

	writeJSON(w, sessionsView{
		Subscribers: h.srv.hub.SubscriberCount(),
		Sessions:    h.srv.Sessions(),
	})
}

// /debug/journal?limit=20 - последние команды из журнала
func (h *DebugHandler) handleJournal(w http.ResponseWriter, r *http.Request) {
	if h.srv.journal == nil {
		http.Error(w, "Journal is disabled", http.StatusNotFound)
		return
	}

	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.srv.journal.Recent(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to read journal")
		http.Error(w, "Journal read failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Warn("failed to encode debug response")
	}
}
