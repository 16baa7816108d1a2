package models

import "github.com/shopspring/decimal"

// Food represents a dish in the remote food collection.
// ID is always assigned by the collection, never by a client.
type Food struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Available   bool            `json:"available"`
}

// FoodInput is what a user fills in when adding a food.
// There is no ID or Available field: both are decided elsewhere.
type FoodInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

// FoodPatch carries only the fields a user edited; nil means untouched
type FoodPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Available   *bool            `json:"available,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p FoodPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Image == nil && p.Available == nil
}

// Merge returns a copy of f with every set field of p applied on top
func (f Food) Merge(p FoodPatch) Food {
	out := f
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Price != nil {
		out.Price = *p.Price
	}
	if p.Image != nil {
		out.Image = *p.Image
	}
	if p.Available != nil {
		out.Available = *p.Available
	}
	return out
}

// Equal compares two foods field by field, treating prices numerically
func (f Food) Equal(o Food) bool {
	return f.ID == o.ID &&
		f.Name == o.Name &&
		f.Description == o.Description &&
		f.Price.Equal(o.Price) &&
		f.Image == o.Image &&
		f.Available == o.Available
}
