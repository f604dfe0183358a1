package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one pending broadcast, written in the same transaction as the
// state change it describes.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	RaceID    uuid.UUID       `json:"race_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// NewEvent builds an Event with a fresh id.
func NewEvent(raceID uuid.UUID, eventType string, payload []byte) Event {
	return Event{
		ID:        uuid.New(),
		RaceID:    raceID,
		EventType: eventType,
		Payload:   payload,
	}
}
