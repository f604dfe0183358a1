package models

import (
	"time"

	"github.com/google/uuid"
)

// Game is an entry in the daily-game catalog that race playlists and play
// history reference.
type Game struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
