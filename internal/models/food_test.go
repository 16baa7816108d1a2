package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func TestFood_Merge(t *testing.T) {
	base := Food{
		ID:          7,
		Name:        "Ao molho",
		Description: "Macarrão ao molho branco",
		Price:       decimal.RequireFromString("19.90"),
		Image:       "https://example.com/ao-molho.png",
		Available:   true,
	}

	t.Run("empty patch keeps everything", func(t *testing.T) {
		got := base.Merge(FoodPatch{})
		if !got.Equal(base) {
			t.Errorf("Merge() = %+v, want %+v", got, base)
		}
	})

	t.Run("patch wins on conflicting fields", func(t *testing.T) {
		price := decimal.RequireFromString("21.50")
		unavailable := false
		got := base.Merge(FoodPatch{
			Name:      strPtr("Veggie"),
			Price:     &price,
			Available: &unavailable,
		})

		if got.ID != base.ID {
			t.Errorf("ID changed: got %d", got.ID)
		}
		if got.Name != "Veggie" {
			t.Errorf("Name = %s, want Veggie", got.Name)
		}
		if !got.Price.Equal(price) {
			t.Errorf("Price = %s, want %s", got.Price, price)
		}
		if got.Available {
			t.Error("Available should be false")
		}
		if got.Description != base.Description || got.Image != base.Image {
			t.Error("untouched fields were modified")
		}
	})

	t.Run("receiver is not mutated", func(t *testing.T) {
		_ = base.Merge(FoodPatch{Name: strPtr("Other")})
		if base.Name != "Ao molho" {
			t.Errorf("base mutated: %s", base.Name)
		}
	})
}

func TestFoodPatch_IsEmpty(t *testing.T) {
	if !(FoodPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (FoodPatch{Image: strPtr("")}).IsEmpty() {
		t.Error("patch with a set field should not be empty")
	}
}

func TestFood_DecodePrice(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want string
	}{
		{"quoted price", `{"id":1,"name":"Cake","price":"19.90"}`, "19.9"},
		{"numeric price", `{"id":1,"name":"Cake","price":19.9}`, "19.9"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var f Food
			if err := json.Unmarshal([]byte(tc.body), &f); err != nil {
				t.Fatalf("failed to decode food: %v", err)
			}
			if !f.Price.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("price = %s, want %s", f.Price, tc.want)
			}
		})
	}
}

func TestFoodPatch_EncodesOnlySetFields(t *testing.T) {
	raw, err := json.Marshal(FoodPatch{Name: strPtr("Pie")})
	if err != nil {
		t.Fatalf("failed to encode patch: %v", err)
	}
	if string(raw) != `{"name":"Pie"}` {
		t.Errorf("unexpected encoding: %s", raw)
	}
}
