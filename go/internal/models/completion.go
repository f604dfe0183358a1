package models

import (
	"time"

	"github.com/google/uuid"
)

// Completion records one participant finishing (or skipping) one race game.
// At most one completion exists per (participant, race game) pair.
type Completion struct {
	ID             uuid.UUID `json:"id"`
	RaceGameID     uuid.UUID `json:"race_game_id"`
	ParticipantID  uuid.UUID `json:"participant_id"`
	CompletedAt    time.Time `json:"completed_at"`
	TimeToComplete int       `json:"time_to_complete"` // whole seconds since race start, floored
	Skipped        bool      `json:"skipped"`
}
