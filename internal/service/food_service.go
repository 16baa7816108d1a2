package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/Lixing-Zhang/food-dashboard/internal/repository"
)

var (
	ErrInvalidFood = errors.New("food name is required")
)

// Publisher receives change events after every successful mutation
type Publisher interface {
	Publish(event models.Event)
}

// FoodService handles business logic for the food collection
type FoodService struct {
	repo      repository.FoodRepository
	publisher Publisher
	logger    *slog.Logger
}

// NewFoodService creates a new food service. publisher may be nil.
func NewFoodService(repo repository.FoodRepository, publisher Publisher, logger *slog.Logger) *FoodService {
	return &FoodService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ListFoods returns every food in collection order
func (s *FoodService) ListFoods(ctx context.Context) ([]models.Food, error) {
	return s.repo.GetAll(ctx)
}

// GetFood returns a food by ID
func (s *FoodService) GetFood(ctx context.Context, id int64) (*models.Food, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateFood stores a new food; the repository assigns the ID
func (s *FoodService) CreateFood(ctx context.Context, food models.Food) (models.Food, error) {
	if strings.TrimSpace(food.Name) == "" {
		return models.Food{}, ErrInvalidFood
	}

	created, err := s.repo.Create(ctx, food)
	if err != nil {
		return models.Food{}, err
	}

	s.publish(models.EventFoodCreated, created)
	return created, nil
}

// UpdateFood replaces the food stored under id. The path ID always wins
// over whatever ID the body carries.
func (s *FoodService) UpdateFood(ctx context.Context, id int64, food models.Food) (models.Food, error) {
	if strings.TrimSpace(food.Name) == "" {
		return models.Food{}, ErrInvalidFood
	}

	food.ID = id
	updated, err := s.repo.Update(ctx, food)
	if err != nil {
		return models.Food{}, err
	}

	s.publish(models.EventFoodUpdated, updated)
	return updated, nil
}

// DeleteFood removes a food by ID
func (s *FoodService) DeleteFood(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(models.EventFoodDeleted, map[string]int64{"id": id})
	return nil
}

// ReplaceFoods swaps the whole collection and tells subscribers to reload
func (s *FoodService) ReplaceFoods(ctx context.Context, foods []models.Food) error {
	if err := s.repo.Replace(ctx, foods); err != nil {
		return err
	}

	s.publish(models.EventFoodsReloaded, nil)
	return nil
}

func (s *FoodService) publish(eventType string, payload any) {
	if s.publisher == nil {
		return
	}

	event, err := models.NewEvent(eventType, payload)
	if err != nil {
		s.logger.Error("failed to encode event", "type", eventType, "error", err)
		return
	}
	s.publisher.Publish(event)
}
