package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger *slog.Logger
	foods  func() int
}

// NewHealthHandler creates a new health handler. count reports the current
// collection size and may be nil.
func NewHealthHandler(logger *slog.Logger, count func() int) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		foods:  count,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Foods     *int      `json:"foods,omitempty"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	if h.foods != nil {
		n := h.foods()
		response.Foods = &n
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
