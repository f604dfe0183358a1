package games

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

// ErrNotFound is returned when a game does not exist.
var ErrNotFound = errors.New("game not found")

const gameSelect = `SELECT id, slug, name, url, category, created_at FROM games`

// Repository reads the game catalog from Postgres. The catalog is seeded out
// of band; this service never writes to it.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new game catalog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetGame fetches a single game by ID.
func (r *Repository) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	row := r.pool.QueryRow(ctx, gameSelect+` WHERE id = $1`, id)
	game, err := scanGame(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// GetGameBySlug fetches a single game by its slug.
func (r *Repository) GetGameBySlug(ctx context.Context, slug string) (*models.Game, error) {
	row := r.pool.QueryRow(ctx, gameSelect+` WHERE slug = $1`, slug)
	game, err := scanGame(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game by slug: %w", err)
	}
	return game, nil
}

// ListGames returns the catalog, optionally filtered by category, ordered by
// name.
func (r *Repository) ListGames(ctx context.Context, category string) ([]models.Game, error) {
	query := gameSelect
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

// GetGamesByIDs fetches the games for a set of ids. Unknown ids are simply
// absent from the result; callers compare lengths to detect them.
func (r *Repository) GetGamesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, gameSelect+` WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get games by ids: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

func scanGame(row pgx.Row) (*models.Game, error) {
	var g models.Game
	if err := row.Scan(&g.ID, &g.Slug, &g.Name, &g.URL, &g.Category, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
