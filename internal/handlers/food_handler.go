package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/Lixing-Zhang/food-dashboard/internal/repository"
	"github.com/Lixing-Zhang/food-dashboard/internal/service"
	"github.com/go-chi/chi/v5"
)

// FoodHandler serves the /foods collection
type FoodHandler struct {
	service *service.FoodService
	logger  *slog.Logger
}

// NewFoodHandler creates a new food handler
func NewFoodHandler(service *service.FoodService, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the collection endpoints on a router mounted at /foods
func (h *FoodHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListFoods)
	r.Post("/", h.CreateFood)
	r.Get("/{foodId}", h.GetFood)
	r.Put("/{foodId}", h.UpdateFood)
	r.Delete("/{foodId}", h.DeleteFood)
}

// ListFoods handles GET /foods
func (h *FoodHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.service.ListFoods(r.Context())
	if err != nil {
		h.logger.Error("failed to list foods", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, foods, h.logger)
}

// GetFood handles GET /foods/{foodId}
func (h *FoodHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	id, ok := h.foodID(w, r)
	if !ok {
		return
	}

	food, err := h.service.GetFood(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "get", id, err)
		return
	}

	WriteJSON(w, http.StatusOK, food, h.logger)
}

// CreateFood handles POST /foods
func (h *FoodHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	var food models.Food
	if err := json.NewDecoder(r.Body).Decode(&food); err != nil {
		h.logger.Warn("failed to decode food", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	created, err := h.service.CreateFood(r.Context(), food)
	if err != nil {
		h.writeServiceError(w, "create", 0, err)
		return
	}

	h.logger.Info("food created", "food_id", created.ID)
	WriteJSON(w, http.StatusCreated, created, h.logger)
}

// UpdateFood handles PUT /foods/{foodId}
func (h *FoodHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	id, ok := h.foodID(w, r)
	if !ok {
		return
	}

	var food models.Food
	if err := json.NewDecoder(r.Body).Decode(&food); err != nil {
		h.logger.Warn("failed to decode food", "foodId", id, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	updated, err := h.service.UpdateFood(r.Context(), id, food)
	if err != nil {
		h.writeServiceError(w, "update", id, err)
		return
	}

	h.logger.Info("food updated", "food_id", updated.ID)
	WriteJSON(w, http.StatusOK, updated, h.logger)
}

// DeleteFood handles DELETE /foods/{foodId}
func (h *FoodHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	id, ok := h.foodID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteFood(r.Context(), id); err != nil {
		h.writeServiceError(w, "delete", id, err)
		return
	}

	h.logger.Info("food deleted", "food_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// foodID parses the {foodId} URL param, writing a 400 when it is not an integer
func (h *FoodHandler) foodID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "foodId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid food ID format", "foodId", raw, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return 0, false
	}
	return id, true
}

func (h *FoodHandler) writeServiceError(w http.ResponseWriter, op string, id int64, err error) {
	switch {
	case errors.Is(err, repository.ErrFoodNotFound):
		h.logger.Info("food not found", "op", op, "foodId", id)
		WriteError(w, http.StatusNotFound, "Food not found", h.logger)
	case errors.Is(err, service.ErrInvalidFood):
		WriteError(w, http.StatusBadRequest, "Food name is required", h.logger)
	default:
		h.logger.Error("food operation failed", "op", op, "foodId", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}
