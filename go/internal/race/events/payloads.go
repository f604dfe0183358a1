package events

import (
	"encoding/json"
	"time"

	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

// Event payload types shared between the race coordinator, the outbox relay
// and the gateway.

// Event type names as they travel through the outbox and onto the realtime
// channel for topic race-{raceId}.
const (
	TypePlayerJoined   = "player-joined"
	TypeRaceStarted    = "race-started"
	TypeGameCompleted  = "game-completed"
	TypeGamesReordered = "games-reordered"
)

// Envelope wraps an event payload for relay from the outbox publisher to
// the gateway consumer. Both ends marshal and unmarshal this one type.
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	RaceID    string          `json:"raceId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// PlayerJoinedPayload is the payload for a player-joined event.
type PlayerJoinedPayload struct {
	Participant models.Participant `json:"participant"`
	Status      models.RaceStatus  `json:"status"`
}

// RaceStartedPayload is the payload for a race-started event.
type RaceStartedPayload struct {
	Status    models.RaceStatus `json:"status"`
	StartedAt time.Time         `json:"started_at"`
}

// GameCompletedPayload is the payload for a game-completed event.
type GameCompletedPayload struct {
	UserID         string            `json:"user_id,omitempty"` // empty for guest participants
	ParticipantID  string            `json:"participant_id"`
	RaceGameID     string            `json:"race_game_id"`
	TimeToComplete int               `json:"time_to_complete"`
	Skipped        bool              `json:"skipped"`
	FinishedAll    bool              `json:"finished_all"`
	RaceStatus     models.RaceStatus `json:"race_status"`
}

// GamesReorderedPayload is the payload for a games-reordered event.
type GamesReorderedPayload struct {
	RaceGameIDs []string `json:"race_game_ids"`
}
