package models

import (
	"time"

	"github.com/google/uuid"
)

// Play records that a user played a game on a calendar day. One row exists
// per (user, game, day); repeat plays on the same day are collapsed.
type Play struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	GameID    uuid.UUID `json:"game_id"`
	PlayedOn  time.Time `json:"played_on"` // date only, midnight UTC
	CreatedAt time.Time `json:"created_at"`
}
