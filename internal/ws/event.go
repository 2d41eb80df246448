package ws

import "time"

// Event is one outbound frame pushed to streaming clients. Events carry no
// identity beyond their content and are never persisted.
type Event struct {
	Type      string      `json:"type"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent builds an event stamped with the current UTC time.
func NewEvent(eventType string, data interface{}) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()}
}

// NewErrorEvent builds an error frame with the given message.
func NewErrorEvent(message string) Event {
	return Event{Type: "error", Message: message, Timestamp: time.Now().UTC()}
}
