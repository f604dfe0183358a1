package models

import (
	"time"

	"github.com/google/uuid"
)

// RaceStatus defines the lifecycle phase of a race. Status only ever moves
// forward: waiting -> ready -> active -> completed.
type RaceStatus string

const (
	RaceStatusWaiting   RaceStatus = "waiting"
	RaceStatusReady     RaceStatus = "ready"
	RaceStatusActive    RaceStatus = "active"
	RaceStatusCompleted RaceStatus = "completed"
)

// Race represents a head-to-head session where up to two participants play
// the same ordered set of games and are timed.
type Race struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	CreatorUserID *uuid.UUID `json:"creator_user_id,omitempty"` // nil for guest-created races
	Status        RaceStatus `json:"status"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// RaceGame is one playlist slot binding a game to a position within a race.
// Position is 0-based and unique per race.
type RaceGame struct {
	ID       uuid.UUID `json:"id"`
	RaceID   uuid.UUID `json:"race_id"`
	GameID   uuid.UUID `json:"game_id"`
	Position int       `json:"position"`
}
