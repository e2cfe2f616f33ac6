// Package sse streams change notifications to local UI shells as
// Server-Sent Events.
package sse

import (
	"time"

	"github.com/grocerylistapp/grocerylist/internal/domain"
)

// Shells keep their own copy of the list for rendering. Events only say what
// changed; clients refetch GET /api/v1/list to get the new state.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventListChanged is sent after any successful write to the list.
	EventListChanged EventType = "list.changed"
	// EventSyncCompleted is sent when a push or pull finishes, successfully or not.
	EventSyncCompleted EventType = "sync.completed"
	// EventSessionChanged is sent on login and logout.
	EventSessionChanged EventType = "session.changed"
	// EventPreferencesChanged is sent when the preferences are saved.
	EventPreferencesChanged EventType = "preferences.changed"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// ListChangedEventData describes a list write.
type ListChangedEventData struct {
	Op         string `json:"op"`
	Categories int    `json:"categories"`
	Items      int    `json:"items"`
}

// SyncEventData is the outcome of a push or pull.
type SyncEventData struct {
	Action   string `json:"action"`
	State    string `json:"state"`
	Message  string `json:"message,omitempty"`
	ServerUp *bool  `json:"server_up,omitempty"`
}

// SessionEventData is the session after a login or logout.
type SessionEventData struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

// HeartbeatEventData is sent periodically to keep connections alive.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewListChangedEvent creates a list.changed event for doc after op.
func NewListChangedEvent(op string, doc *domain.GroceryList) Event {
	return Event{
		Type: EventListChanged,
		Data: ListChangedEventData{
			Op:         op,
			Categories: len(doc.Categories),
			Items:      len(doc.Items),
		},
		Timestamp: time.Now(),
	}
}

// NewSyncCompletedEvent creates a sync.completed event.
func NewSyncCompletedEvent(action, state, message string, serverUp *bool) Event {
	return Event{
		Type: EventSyncCompleted,
		Data: SyncEventData{
			Action:   action,
			State:    state,
			Message:  message,
			ServerUp: serverUp,
		},
		Timestamp: time.Now(),
	}
}

// NewSessionChangedEvent creates a session.changed event. The token is never
// part of the payload.
func NewSessionChangedEvent(session *domain.Session) Event {
	data := SessionEventData{LoggedIn: session.LoggedIn()}
	if session.User != nil {
		data.Username = session.User.Username
	}
	return Event{
		Type:      EventSessionChanged,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewPreferencesChangedEvent creates a preferences.changed event.
func NewPreferencesChangedEvent(prefs domain.UserPrefs) Event {
	return Event{
		Type:      EventPreferencesChanged,
		Data:      prefs,
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
