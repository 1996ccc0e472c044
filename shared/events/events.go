package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	UserRegistered = "user.registered"
	UserLoggedIn   = "user.logged_in"
	UserLoggedOut  = "user.logged_out"
	UserUpdated    = "user.updated"
)

// Stream names
const (
	UserEventsStream = "user.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// UserEvent is the payload of every user lifecycle event.
type UserEvent struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

// DecodeUserEvent re-decodes the generic Data field of a received event.
func DecodeUserEvent(event Event) (UserEvent, error) {
	var data UserEvent
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return data, fmt.Errorf("failed to marshal %s payload: %w", event.Type, err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
	}
	return data, nil
}
