// Package dashboard keeps a local copy of the remote food collection in step
// with the server and tracks which dashboard modals are open.
//
// The collection is only changed after the server has confirmed a call:
// a load replaces it, a create appends, an update replaces one entry in place
// and a delete removes one entry. Failed calls leave it untouched and set a
// notice the UI can show.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Lixing-Zhang/food-dashboard/internal/foodapi"
	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNoEditTarget = errors.New("no food is being edited")
)

// FoodAPI is the remote collection. Satisfied by *foodapi.Client.
type FoodAPI interface {
	List(ctx context.Context) ([]models.Food, error)
	Create(ctx context.Context, input models.FoodInput) (models.Food, error)
	Update(ctx context.Context, id int64, food models.Food) (models.Food, error)
	Delete(ctx context.Context, id int64) error
}

// Visibility is the modal state of the dashboard
type Visibility struct {
	CreateOpen bool
	EditOpen   bool
	// Editing is the food targeted by the edit modal; nil until an edit begins
	Editing *models.Food
}

// State is a point-in-time copy of everything the dashboard renders
type State struct {
	Foods  []models.Food
	Loaded bool
	Notice string
	Visibility
}

// Controller owns the dashboard's collection and modal state.
// It is safe for concurrent use.
type Controller struct {
	api    FoodAPI
	logger *slog.Logger

	mu      sync.Mutex
	foods   []models.Food
	loaded  bool
	notice  string
	visible Visibility

	loads singleflight.Group
	seq   *sequencer
}

// New creates a controller with an empty collection and both modals closed
func New(api FoodAPI, logger *slog.Logger) *Controller {
	return &Controller{
		api:    api,
		logger: logger,
		foods:  []models.Food{},
		seq:    newSequencer(),
	}
}

// Load fetches the whole collection and replaces the local copy with it.
// Concurrent calls share a single request.
func (c *Controller) Load(ctx context.Context) error {
	_, err, _ := c.loads.Do("foods", func() (interface{}, error) {
		foods, err := c.api.List(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.foods = foods
		c.loaded = true
		c.notice = ""
		c.mu.Unlock()

		c.logger.Info("foods loaded", "count", len(foods))
		return nil, nil
	})
	if err != nil {
		c.fail("load foods", err)
		return err
	}
	return nil
}

// Create sends input to the collection and appends the food the server returns.
// New foods are always available.
func (c *Controller) Create(ctx context.Context, input models.FoodInput) (models.Food, error) {
	created, err := c.api.Create(ctx, input)
	if err != nil {
		c.fail("create food", err)
		return models.Food{}, err
	}

	c.mu.Lock()
	c.foods = appendFood(c.foods, created)
	c.notice = ""
	c.mu.Unlock()

	c.logger.Info("food created", "food_id", created.ID)
	return created, nil
}

// Update applies patch on top of the food being edited and saves it.
// The edited food is looked up again by ID when the request goes out, so
// edits queued behind one another build on each other's results.
func (c *Controller) Update(ctx context.Context, patch models.FoodPatch) (models.Food, error) {
	c.mu.Lock()
	tracked := c.visible.Editing
	c.mu.Unlock()

	if tracked == nil {
		c.fail("update food", ErrNoEditTarget)
		return models.Food{}, ErrNoEditTarget
	}
	return c.save(ctx, *tracked, patch)
}

// SetAvailable flips the availability of food without going through the
// edit modal. It queues behind any pending update of the same food.
func (c *Controller) SetAvailable(ctx context.Context, food models.Food, available bool) (models.Food, error) {
	return c.save(ctx, food, models.FoodPatch{Available: &available})
}

// save merges patch into the current local copy of fallback.ID (or
// fallback itself when the local copy is gone) and PUTs the result.
func (c *Controller) save(ctx context.Context, fallback models.Food, patch models.FoodPatch) (models.Food, error) {
	id := fallback.ID

	var updated models.Food
	err := c.seq.Do(ctx, id, func() error {
		c.mu.Lock()
		base, ok := findFood(c.foods, id)
		c.mu.Unlock()
		if !ok {
			base = fallback
		}

		u, err := c.api.Update(ctx, id, base.Merge(patch))
		if err != nil {
			return err
		}

		c.mu.Lock()
		c.foods = replaceFood(c.foods, u)
		c.notice = ""
		c.mu.Unlock()

		updated = u
		return nil
	})
	if err != nil {
		c.fail("update food", err, "food_id", id)
		return models.Food{}, err
	}

	c.logger.Info("food updated", "food_id", updated.ID)
	return updated, nil
}

// Delete removes the food from the collection, then from the local copy.
// A 404 means someone else already deleted it, which is treated as success.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	err := c.seq.Do(ctx, id, func() error {
		if err := c.api.Delete(ctx, id); err != nil {
			if !foodapi.IsNotFound(err) {
				return err
			}
			c.logger.Warn("food already gone", "food_id", id)
		}

		c.mu.Lock()
		c.foods = removeFood(c.foods, id)
		c.notice = ""
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		c.fail("delete food", err, "food_id", id)
		return err
	}

	c.logger.Info("food deleted", "food_id", id)
	return nil
}

// ToggleCreateModal flips the create modal open or closed
func (c *Controller) ToggleCreateModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible.CreateOpen = !c.visible.CreateOpen
}

// ToggleEditModal flips the edit modal. Closing it forgets the edited food
// so a later edit never starts from stale values.
func (c *Controller) ToggleEditModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible.EditOpen = !c.visible.EditOpen
	if !c.visible.EditOpen {
		c.visible.Editing = nil
	}
}

// BeginEdit targets food for editing and opens the edit modal.
// It always opens, even when the modal is already open.
func (c *Controller) BeginEdit(food models.Food) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible.Editing = &food
	c.visible.EditOpen = true
}

// OpenCreateModal opens the create modal; a no-op when it is already open
func (c *Controller) OpenCreateModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible.CreateOpen = true
}

// OpenEditModal is BeginEdit under the name the modals use
func (c *Controller) OpenEditModal(food models.Food) {
	c.BeginEdit(food)
}

// OnCreateSubmit handles a completed create form
func (c *Controller) OnCreateSubmit(ctx context.Context, input models.FoodInput) (models.Food, error) {
	return c.Create(ctx, input)
}

// OnEditSubmit handles a completed edit form
func (c *Controller) OnEditSubmit(ctx context.Context, patch models.FoodPatch) (models.Food, error) {
	return c.Update(ctx, patch)
}

// OnDeleteRequest handles a delete click on a food card
func (c *Controller) OnDeleteRequest(ctx context.Context, id int64) error {
	return c.Delete(ctx, id)
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	foods := make([]models.Food, len(c.foods))
	copy(foods, c.foods)

	vis := c.visible
	if vis.Editing != nil {
		editing := *vis.Editing
		vis.Editing = &editing
	}

	return State{
		Foods:      foods,
		Loaded:     c.loaded,
		Notice:     c.notice,
		Visibility: vis,
	}
}

// Notice returns the message of the last failed call, or "" after a success
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// DismissNotice clears the current notice
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = ""
}

// fail logs err with attrs and turns it into the visible notice
func (c *Controller) fail(op string, err error, attrs ...any) {
	c.logger.Error("failed to "+op, append(attrs, "error", err)...)

	c.mu.Lock()
	c.notice = "Failed to " + op + ": " + err.Error()
	c.mu.Unlock()
}
