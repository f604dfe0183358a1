package outbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotifyChannel is the Postgres LISTEN/NOTIFY channel new events are
// announced on. InsertTx raises the notification itself, so no database
// trigger is required; it fires only if the surrounding transaction commits.
const NotifyChannel = "race_outbox_events"

// InsertTx writes an outbox event inside the caller's transaction. The race
// repository calls this alongside every broadcasting mutation so the event
// row commits or rolls back with the state change.
func InsertTx(ctx context.Context, tx pgx.Tx, ev Event) error {
	if _, err := tx.Exec(ctx,
		`INSERT INTO race_outbox (id, race_id, event_type, payload, created_at)
		 VALUES ($1, $2, $3, $4, now())`,
		ev.ID, ev.RaceID, ev.EventType, ev.Payload,
	); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, ev.ID.String()); err != nil {
		return fmt.Errorf("failed to notify outbox channel: %w", err)
	}
	return nil
}

// Repository reads and marks outbox rows for the relay side.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new outbox repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FetchByID loads one outbox event.
func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (Event, error) {
	var ev Event
	err := r.pool.QueryRow(ctx,
		`SELECT id, race_id, event_type, payload, created_at, sent_at
		 FROM race_outbox WHERE id = $1`,
		id,
	).Scan(&ev.ID, &ev.RaceID, &ev.EventType, &ev.Payload, &ev.CreatedAt, &ev.SentAt)
	if err != nil {
		return Event{}, fmt.Errorf("failed to fetch outbox event: %w", err)
	}
	return ev, nil
}

// FetchUnsent returns up to limit unsent events, oldest first.
func (r *Repository) FetchUnsent(ctx context.Context, limit int32) ([]Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, race_id, event_type, payload, created_at, sent_at
		 FROM race_outbox WHERE sent_at IS NULL
		 ORDER BY created_at LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.RaceID, &ev.EventType, &ev.Payload, &ev.CreatedAt, &ev.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// MarkSent stamps sent_at on a published event.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE race_outbox SET sent_at = now() WHERE id = $1 AND sent_at IS NULL`,
		id,
	); err != nil {
		return fmt.Errorf("failed to mark outbox event sent: %w", err)
	}
	return nil
}
