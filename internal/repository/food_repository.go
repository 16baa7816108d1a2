package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrFoodNotFound = errors.New("food not found")
)

// FoodRepository defines the interface for food data access
type FoodRepository interface {
	GetAll(ctx context.Context) ([]models.Food, error)
	GetByID(ctx context.Context, id int64) (*models.Food, error)
	Create(ctx context.Context, food models.Food) (models.Food, error)
	Update(ctx context.Context, food models.Food) (models.Food, error)
	Delete(ctx context.Context, id int64) error
	Replace(ctx context.Context, foods []models.Food) error
}

// InMemoryFoodRepository implements FoodRepository with in-memory storage.
// Insertion order is kept so listings come back the way foods were added.
type InMemoryFoodRepository struct {
	mu     sync.RWMutex
	foods  []models.Food
	nextID int64
}

// NewInMemoryFoodRepository creates a repository holding the given foods
func NewInMemoryFoodRepository(seed []models.Food) *InMemoryFoodRepository {
	r := &InMemoryFoodRepository{}
	r.load(seed)
	return r
}

// DefaultFoods is the catalogue served when no seed file is available
func DefaultFoods() []models.Food {
	return []models.Food{
		{ID: 1, Name: "Ao molho", Description: "Macarrão ao molho branco, fughi e cheiro verde das montanhas.", Price: mustPrice("19.90"), Available: true, Image: "https://storage.googleapis.com/golden-wind/bootcamp-gostack/desafio-food/food1.png"},
		{ID: 2, Name: "Veggie", Description: "Macarrão com pimentão, ervilha e ervas finas colhidas no himalaia.", Price: mustPrice("21.90"), Available: true, Image: "https://storage.googleapis.com/golden-wind/bootcamp-gostack/desafio-food/food2.png"},
		{ID: 3, Name: "A la Camarón", Description: "Macarrão com vegetais de primeira linha e camarão dos 7 mares.", Price: mustPrice("25.90"), Available: true, Image: "https://storage.googleapis.com/golden-wind/bootcamp-gostack/desafio-food/food3.png"},
	}
}

// GetAll returns all foods in insertion order
func (r *InMemoryFoodRepository) GetAll(ctx context.Context) ([]models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	foods := make([]models.Food, len(r.foods))
	copy(foods, r.foods)
	return foods, nil
}

// GetByID returns a food by its ID
func (r *InMemoryFoodRepository) GetByID(ctx context.Context, id int64) (*models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrFoodNotFound
	}
	food := r.foods[i]
	return &food, nil
}

// Create stores a new food under the next free ID. Any ID on the input is ignored.
func (r *InMemoryFoodRepository) Create(ctx context.Context, food models.Food) (models.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	food.ID = r.nextID
	r.foods = append(r.foods, food)
	return food, nil
}

// Update replaces the stored food with the same ID, keeping its position
func (r *InMemoryFoodRepository) Update(ctx context.Context, food models.Food) (models.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(food.ID)
	if i < 0 {
		return models.Food{}, ErrFoodNotFound
	}
	r.foods[i] = food
	return food, nil
}

// Delete removes a food by its ID
func (r *InMemoryFoodRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrFoodNotFound
	}
	r.foods = append(r.foods[:i:i], r.foods[i+1:]...)
	return nil
}

// Replace swaps the whole collection, e.g. after the seed file changed
func (r *InMemoryFoodRepository) Replace(ctx context.Context, foods []models.Food) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.load(foods)
	return nil
}

// load must be called with the write lock held (or before the repository is shared)
func (r *InMemoryFoodRepository) load(foods []models.Food) {
	r.foods = make([]models.Food, len(foods))
	copy(r.foods, foods)

	// IDs keep growing across reloads so a deleted ID is never handed out again
	for _, f := range r.foods {
		if f.ID > r.nextID {
			r.nextID = f.ID
		}
	}
}

func mustPrice(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (r *InMemoryFoodRepository) indexOf(id int64) int {
	for i, f := range r.foods {
		if f.ID == id {
			return i
		}
	}
	return -1
}
