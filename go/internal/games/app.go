package games

import (
	"context"

	"github.com/google/uuid"

	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

// GamesRepository defines what the app layer needs from the games repository.
type GamesRepository interface {
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetGameBySlug(ctx context.Context, slug string) (*models.Game, error)
	ListGames(ctx context.Context, category string) ([]models.Game, error)
	GetGamesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Game, error)
}

// App exposes read access to the game catalog. It also serves as the race
// module's playlist validator.
type App struct {
	repo GamesRepository
}

// NewApp creates a new games App.
func NewApp(repo GamesRepository) *App {
	return &App{repo: repo}
}

// GetGame retrieves a game by ID.
func (a *App) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	return a.repo.GetGame(ctx, id)
}

// GetGameBySlug retrieves a game by slug.
func (a *App) GetGameBySlug(ctx context.Context, slug string) (*models.Game, error) {
	return a.repo.GetGameBySlug(ctx, slug)
}

// ListGames lists the catalog, optionally filtered by category.
func (a *App) ListGames(ctx context.Context, category string) ([]models.Game, error) {
	return a.repo.ListGames(ctx, category)
}

// GetGamesByIDs resolves a set of game ids to catalog entries.
func (a *App) GetGamesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Game, error) {
	return a.repo.GetGamesByIDs(ctx, ids)
}
