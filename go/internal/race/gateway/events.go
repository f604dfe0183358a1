package gateway

import (
	"encoding/json"
	"time"

	"github.com/aidankmcalister/dles-fun/go/internal/race/events"
)

// RaceEvent is the frame sent to WebSocket clients subscribed to a race
// topic. Clients treat it as a hint to re-fetch authoritative state, not as
// the state itself.
type RaceEvent struct {
	ID        string          `json:"id"`        // event UUID
	RaceID    string          `json:"race_id"`   // race UUID, the topic key
	Type      EventType       `json:"type"`      // event type
	Timestamp time.Time       `json:"timestamp"` // event creation time
	Data      json.RawMessage `json:"data"`      // event-specific payload
}

// EventType represents the type of race event.
type EventType string

const (
	EventTypePlayerJoined   EventType = events.TypePlayerJoined
	EventTypeRaceStarted    EventType = events.TypeRaceStarted
	EventTypeGameCompleted  EventType = events.TypeGameCompleted
	EventTypeGamesReordered EventType = events.TypeGamesReordered
)

// ParseEventPayload parses event data into the appropriate payload struct.
func ParseEventPayload(event *RaceEvent) (interface{}, error) {
	switch event.Type {
	case EventTypePlayerJoined:
		var payload events.PlayerJoinedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeRaceStarted:
		var payload events.RaceStartedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGameCompleted:
		var payload events.GameCompletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGamesReordered:
		var payload events.GamesReorderedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, nil // unknown event type
	}
}
