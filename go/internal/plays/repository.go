package plays

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

// Repository persists play history in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new plays repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordPlay upserts a play for (user, game, day). Repeat plays on the same
// day are collapsed into the existing row, so recording is idempotent.
func (r *Repository) RecordPlay(ctx context.Context, play models.Play) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO plays (id, user_id, game_id, played_on, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, game_id, played_on) DO NOTHING`,
		play.ID, play.UserID, play.GameID, play.PlayedOn,
	); err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	return nil
}

// ListPlaysForUser returns a user's full play history, most recent first.
func (r *Repository) ListPlaysForUser(ctx context.Context, userID uuid.UUID) ([]models.Play, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, game_id, played_on, created_at
		 FROM plays WHERE user_id = $1
		 ORDER BY played_on DESC, game_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plays: %w", err)
	}
	defer rows.Close()

	var plays []models.Play
	for rows.Next() {
		var p models.Play
		if err := rows.Scan(&p.ID, &p.UserID, &p.GameID, &p.PlayedOn, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		plays = append(plays, p)
	}
	return plays, rows.Err()
}
