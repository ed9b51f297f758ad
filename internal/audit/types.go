package audit

import "time"

// EventType categorizes audit events.
type EventType string

const (
	EventAssistRequest EventType = "assist_request"
	EventRateLimited   EventType = "rate_limited"
	EventMatchStored   EventType = "match_stored"
)

// Event is a single compliance-audit record. The portal's audit pages
// consume these from the rotated JSON log.
type Event struct {
	Type      EventType `json:"type"`
	Feature   string    `json:"feature"`
	Identity  string    `json:"identity"`
	RequestID string    `json:"request_id"`
	Cached    bool      `json:"cached"`
	Status    string    `json:"status"`
	Duration  float64   `json:"duration_seconds"`
	Timestamp time.Time `json:"timestamp"`
}
