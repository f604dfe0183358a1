package plays

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/aidankmcalister/dles-fun/go/internal/identity"
	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

// ErrAuthRequired is returned when an anonymous caller tries to record a
// play. Guests have no persistent history.
var ErrAuthRequired = errors.New("authentication required")

// PlaysRepository defines what the app layer needs from the plays repository.
type PlaysRepository interface {
	RecordPlay(ctx context.Context, play models.Play) error
	ListPlaysForUser(ctx context.Context, userID uuid.UUID) ([]models.Play, error)
}

// GameStreak summarizes a user's history for one game.
type GameStreak struct {
	GameID        uuid.UUID `json:"game_id"`
	TotalPlays    int       `json:"total_plays"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	LastPlayedOn  time.Time `json:"last_played_on"`
}

// UserPlays is a user's play history plus per-game streak summaries.
type UserPlays struct {
	Plays   []models.Play `json:"plays"`
	Streaks []GameStreak  `json:"streaks"`
}

// App tracks daily play history and derives streaks from it.
type App struct {
	repo  PlaysRepository
	clock clockwork.Clock
}

// NewApp creates a plays App with the real clock.
func NewApp(repo PlaysRepository) *App {
	return NewAppWithClock(repo, clockwork.NewRealClock())
}

// NewAppWithClock creates a plays App with an injected clock.
func NewAppWithClock(repo PlaysRepository, clock clockwork.Clock) *App {
	return &App{repo: repo, clock: clock}
}

// RecordPlay records that the caller played a game today. Recording the same
// game twice in a day is a no-op.
func (a *App) RecordPlay(ctx context.Context, ident identity.Identity, gameID uuid.UUID) error {
	userID, ok := ident.UserID()
	if !ok {
		return ErrAuthRequired
	}

	now := a.clock.Now().UTC()
	play := models.Play{
		ID:       uuid.New(),
		UserID:   userID,
		GameID:   gameID,
		PlayedOn: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	return a.repo.RecordPlay(ctx, play)
}

// GetUserPlays returns a user's history with per-game streaks derived at
// read time.
func (a *App) GetUserPlays(ctx context.Context, userID uuid.UUID) (*UserPlays, error) {
	plays, err := a.repo.ListPlaysForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byGame := make(map[uuid.UUID][]time.Time)
	for _, p := range plays {
		byGame[p.GameID] = append(byGame[p.GameID], p.PlayedOn)
	}

	today := a.clock.Now().UTC()
	streaks := make([]GameStreak, 0, len(byGame))
	for gameID, days := range byGame {
		last := days[0]
		for _, d := range days[1:] {
			if d.After(last) {
				last = d
			}
		}
		streaks = append(streaks, GameStreak{
			GameID:        gameID,
			TotalPlays:    len(days),
			CurrentStreak: CurrentStreak(days, today),
			LongestStreak: LongestStreak(days),
			LastPlayedOn:  last,
		})
	}
	sort.Slice(streaks, func(i, j int) bool {
		return streaks[i].GameID.String() < streaks[j].GameID.String()
	})

	if plays == nil {
		plays = []models.Play{}
	}
	return &UserPlays{Plays: plays, Streaks: streaks}, nil
}
