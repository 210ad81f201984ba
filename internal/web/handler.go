package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/actionsum/niribar/internal/bridge"
	"github.com/actionsum/niribar/internal/config"
	"github.com/actionsum/niribar/internal/models"
	"github.com/actionsum/niribar/internal/reporter"
	"github.com/actionsum/niribar/pkg/utils"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// Store is the part of the journal the HTTP API reads
type Store interface {
	reporter.FocusSource
	GetLatestFocus() (*models.FocusEvent, error)
	GetRecentEventRecords(limit int) ([]*models.EventRecord, error)
	GetEventKindCountsSince(since time.Time) ([]models.EventKindCount, error)
	GetRecentErrors(limit int) ([]*models.ErrorLog, error)
}

type Handler struct {
	config   *config.Config
	snapshot *bridge.Snapshot
	repo     Store
	reporter *reporter.Reporter
	started  time.Time
}

// NewHandler creates the API handler. repo may be nil when recording is
// disabled; journal routes then answer 404.
func NewHandler(cfg *config.Config, snapshot *bridge.Snapshot, repo Store) *Handler {
	h := &Handler{
		config:   cfg,
		snapshot: snapshot,
		repo:     repo,
		started:  time.Now(),
	}
	if repo != nil {
		h.reporter = reporter.New(cfg, repo)
	}
	return h
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", h.handleState)
	mux.HandleFunc("/api/events", h.handleEvents)
	mux.HandleFunc("/api/focus/latest", h.handleLatestFocus)
	mux.HandleFunc("/api/report", h.handleReport)
	mux.HandleFunc("/api/status", h.handleStatus)

	mux.HandleFunc("/health", h.handleHealth)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, info := h.snapshot.Latest()
	if data == nil {
		http.Error(w, "No event received yet", http.StatusServiceUnavailable)
		return
	}

	setHeaders(w)
	w.Header().Set("Last-Modified", info.UpdatedAt.UTC().Format(http.TimeFormat))
	w.Write(data)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireJournal(w) {
		return
	}

	limit := defaultEventLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			http.Error(w, fmt.Sprintf("Invalid limit: %s", limitStr), http.StatusBadRequest)
			return
		}
		limit = min(l, maxEventLimit)
	}

	records, err := h.repo.GetRecentEventRecords(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch events: %v", err), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*models.EventRecord{}
	}

	respondJSON(w, records)
}

func (h *Handler) handleLatestFocus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireJournal(w) {
		return
	}

	event, err := h.repo.GetLatestFocus()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch latest focus: %v", err), http.StatusInternalServerError)
		return
	}

	if event == nil {
		http.Error(w, "No focus recorded", http.StatusNotFound)
		return
	}

	respondJSON(w, event)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireJournal(w) {
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	if _, err := h.reporter.GetPeriod(periodType); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate report: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, report)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, info := h.snapshot.Latest()

	status := map[string]interface{}{
		"running":   true,
		"uptime":    utils.FormatRoundedUnit(int64(time.Since(h.started).Seconds())),
		"recording": h.repo != nil,
		"snapshot":  info,
	}

	if h.repo != nil {
		status["database_path"] = h.config.Database.Path

		if counts, err := h.repo.GetEventKindCountsSince(h.started); err == nil {
			status["event_kinds"] = counts
		}

		if errs, err := h.repo.GetRecentErrors(5); err == nil && len(errs) > 0 {
			status["recent_errors"] = errs
		}
	}

	respondJSON(w, status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) requireJournal(w http.ResponseWriter) bool {
	if h.repo == nil {
		http.Error(w, "Recording is disabled", http.StatusNotFound)
		return false
	}
	return true
}

func setHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	setHeaders(w)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
