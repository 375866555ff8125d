package progressapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxRequestBytes = 64 << 10

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type updateRequest struct {
	Action          string `json:"action"`
	SessionID       string `json:"session_id"`
	FocusTime       *int   `json:"focus_time"`
	SessionDuration *int   `json:"session_duration"`
	DurationMinutes *int   `json:"duration_minutes"`
}

func (request updateRequest) minutes() int {
	for _, value := range []*int{request.FocusTime, request.SessionDuration, request.DurationMinutes} {
		if value != nil {
			return *value
		}
	}
	return DefaultFocusMinutes
}

// action returns the requested action. A bare duration body means complete_session.
func (request updateRequest) action() string {
	if request.Action == "" && (request.FocusTime != nil || request.SessionDuration != nil || request.DurationMinutes != nil) {
		return "complete_session"
	}
	return request.Action
}

// Handler exposes a Manager over HTTP.
type Handler struct {
	manager *Manager
	logger  *zap.Logger
	mux     *http.ServeMux
}

// NewHandler builds the routes for manager.
func NewHandler(manager *Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := &Handler{
		manager: manager,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	handler.mux.HandleFunc("GET /api/progress", handler.getProgress)
	handler.mux.HandleFunc("POST /api/progress", handler.updateProgress)
	handler.mux.HandleFunc("GET /api/statistics", handler.getStatistics)
	return handler
}

func (handler *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	handler.mux.ServeHTTP(recorder, r)
	handler.logger.Debug("request served",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", recorder.status),
		zap.Duration("elapsed", time.Since(started)))
}

func (handler *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := handler.manager.Progress(r.Context())
	if err != nil {
		handler.fail(w, http.StatusInternalServerError, "Failed to get progress data", err)
		return
	}
	handler.write(w, http.StatusOK, response{Success: true, Data: progress})
}

func (handler *Handler) updateProgress(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		handler.fail(w, http.StatusBadRequest, "Request body too large", err)
		return
	}
	if strings.TrimSpace(string(raw)) == "" {
		handler.fail(w, http.StatusBadRequest, "No data provided", ErrInvalidRequest)
		return
	}

	var request updateRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		handler.fail(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	var progress Progress
	switch request.action() {
	case "complete_session":
		progress, err = handler.manager.CompleteSession(r.Context(), request.SessionID, request.minutes())
	case "reset_today", "reset":
		progress, err = handler.manager.ResetToday(r.Context())
	default:
		handler.fail(w, http.StatusBadRequest, "Invalid action", ErrInvalidRequest)
		return
	}
	if err != nil {
		handler.fail(w, http.StatusInternalServerError, "Failed to update progress data", err)
		return
	}
	handler.write(w, http.StatusOK, response{Success: true, Data: progress})
}

func (handler *Handler) getStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := handler.manager.Statistics(r.Context(), r.URL.Query().Get("period"))
	switch {
	case errors.Is(err, ErrInvalidRequest):
		handler.fail(w, http.StatusBadRequest, "Invalid period", err)
		return
	case err != nil:
		handler.fail(w, http.StatusInternalServerError, "Failed to get statistics", err)
		return
	}
	handler.write(w, http.StatusOK, response{Success: true, Data: stats})
}

func (handler *Handler) fail(w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		handler.logger.Error(message, zap.Error(err))
	} else {
		handler.logger.Debug(message, zap.Error(err))
	}
	handler.write(w, status, response{Success: false, Error: message})
}

func (handler *Handler) write(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		handler.logger.Warn("write response", zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(status int) {
	recorder.status = status
	recorder.ResponseWriter.WriteHeader(status)
}
