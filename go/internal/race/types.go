package race

import (
	"github.com/google/uuid"

	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

// CreateRaceRequest represents a request to create a new race.
type CreateRaceRequest struct {
	Name      string      `json:"name"`
	GameIDs   []uuid.UUID `json:"game_ids"`
	GuestName string      `json:"guest_name,omitempty"`
}

// JoinRaceRequest represents a request to join an existing race.
type JoinRaceRequest struct {
	RaceID    uuid.UUID `json:"race_id"`
	GuestName string    `json:"guest_name,omitempty"`
}

// StartRaceRequest represents a request to start a ready race. Guest callers
// identify themselves by their participant id.
type StartRaceRequest struct {
	RaceID             uuid.UUID  `json:"race_id"`
	GuestParticipantID *uuid.UUID `json:"guest_participant_id,omitempty"`
}

// CompleteGameRequest represents one participant finishing or skipping one
// playlist slot. ParticipantID is required for guest callers that cannot be
// resolved from the caller identity.
type CompleteGameRequest struct {
	RaceID        uuid.UUID  `json:"race_id"`
	RaceGameID    uuid.UUID  `json:"race_game_id"`
	ParticipantID *uuid.UUID `json:"participant_id,omitempty"`
	Skipped       bool       `json:"skipped"`
}

// ReorderGamesRequest rewrites the playlist order. RaceGameIDs must be an
// exact permutation of the race's current race-game ids.
type ReorderGamesRequest struct {
	RaceID             uuid.UUID   `json:"race_id"`
	RaceGameIDs        []uuid.UUID `json:"race_game_ids"`
	GuestParticipantID *uuid.UUID  `json:"guest_participant_id,omitempty"`
}

// PlaylistSlot is one race game with its embedded catalog entry and the
// completions recorded against it.
type PlaylistSlot struct {
	models.RaceGame
	Game        *models.Game        `json:"game,omitempty"`
	Completions []models.Completion `json:"completions"`
}

// Graph is the full race read model: the race, both participants with
// profile projections, and the ordered playlist with completions. The winner
// is derived at read time, never stored.
type Graph struct {
	Race                models.Race          `json:"race"`
	Participants        []models.Participant `json:"participants"`
	Playlist            []PlaylistSlot       `json:"playlist"`
	WinnerParticipantID *uuid.UUID           `json:"winner_participant_id,omitempty"`
}

// CompleteGameResult is returned from CompleteGame: the created completion
// plus whether the participant has now finished every game.
type CompleteGameResult struct {
	Completion  models.Completion `json:"completion"`
	FinishedAll bool              `json:"finished_all"`
	RaceStatus  models.RaceStatus `json:"race_status"`
}
