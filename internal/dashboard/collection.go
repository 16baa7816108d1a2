package dashboard

import "github.com/Lixing-Zhang/food-dashboard/internal/models"

// The helpers below never modify their input slice; each returns a fresh one.

func appendFood(foods []models.Food, food models.Food) []models.Food {
	out := make([]models.Food, len(foods), len(foods)+1)
	copy(out, foods)
	return append(out, food)
}

// replaceFood swaps the entry whose ID matches food.ID. Unknown IDs leave
// the collection as it was.
func replaceFood(foods []models.Food, food models.Food) []models.Food {
	out := make([]models.Food, len(foods))
	for i, f := range foods {
		if f.ID == food.ID {
			out[i] = food
		} else {
			out[i] = f
		}
	}
	return out
}

func removeFood(foods []models.Food, id int64) []models.Food {
	out := make([]models.Food, 0, len(foods))
	for _, f := range foods {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

func findFood(foods []models.Food, id int64) (models.Food, bool) {
	for _, f := range foods {
		if f.ID == id {
			return f, true
		}
	}
	return models.Food{}, false
}
