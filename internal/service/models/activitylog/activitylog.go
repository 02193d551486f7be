package activitylog

import "time"

// Entry is an audit record for a state-changing operation. Failures to
// append entries are logged and swallowed, never surfaced to the caller.
type Entry struct {
	ID         int64     `json:"id"`
	ActorID    int64     `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Action     string    `json:"action"`
	Details    []byte    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
