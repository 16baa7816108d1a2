package models

import "encoding/json"

// Event types broadcast when the collection changes
const (
	EventFoodCreated   = "food.created"
	EventFoodUpdated   = "food.updated"
	EventFoodDeleted   = "food.deleted"
	EventFoodsReloaded = "foods.reloaded"
)

// Event is a change notification pushed over the events websocket
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event with a JSON encoded payload
func NewEvent(eventType string, payload any) (Event, error) {
	if payload == nil {
		return Event{Type: eventType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: raw}, nil
}
