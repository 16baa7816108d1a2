package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
)

// database mirrors the json-server db.json layout: one key per collection
type database struct {
	Foods []models.Food `json:"foods"`
}

// LoadFile reads the foods collection from a db.json style file
func LoadFile(path string) ([]models.Food, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a db.json document
func Parse(data []byte) ([]models.Food, error) {
	var db database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	seen := make(map[int64]bool, len(db.Foods))
	for _, f := range db.Foods {
		if f.ID <= 0 {
			return nil, fmt.Errorf("food %q has no positive id", f.Name)
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("duplicate food id %d", f.ID)
		}
		seen[f.ID] = true
	}

	if db.Foods == nil {
		db.Foods = []models.Food{}
	}
	return db.Foods, nil
}
