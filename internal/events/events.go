// Package events carries listing notifications to SSE subscribers.
package events

import (
	"encoding/json"
	"time"
)

// Version of the envelope below. Bump it when a payload changes shape.
const Version = 1

const (
	TypePing           = "ping"
	TypeFiltersChanged = "filters_changed"
	TypeSessionCreated = "session_created"
	TypeSessionEnded   = "session_ended"
	TypeConfigReloaded = "config_reloaded"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Session   string          `json:"session,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// FiltersChanged is the payload of TypeFiltersChanged.
type FiltersChanged struct {
	Action   string   `json:"action"`
	Term     string   `json:"term,omitempty"`
	Selected []string `json:"selected"`
	Active   bool     `json:"active"`
}

// SessionEnded is the payload of TypeSessionEnded.
type SessionEnded struct {
	Reason string `json:"reason"`
}

type ConfigReloaded struct {
	Path string `json:"path"`
}

// MakeEvent encodes an envelope for the hub. data may be nil.
func MakeEvent(reqID, session, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	b, _ := json.Marshal(Event{
		Type:      typ,
		Version:   Version,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Session:   session,
		Data:      raw,
	})
	return string(b)
}

// Decode parses an envelope produced by MakeEvent.
func Decode(msg string) (Event, error) {
	var e Event
	err := json.Unmarshal([]byte(msg), &e)
	return e, err
}

// Payload decodes the event data into v.
func (e Event) Payload(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}
