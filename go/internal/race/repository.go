package race

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidankmcalister/dles-fun/go/internal/models"
	"github.com/aidankmcalister/dles-fun/go/internal/race/events"
	"github.com/aidankmcalister/dles-fun/go/internal/race/outbox"
	"github.com/aidankmcalister/dles-fun/go/internal/sqlutil"
)

// Repository implements race data access against Postgres. It assumes the
// tables races, race_participants, race_games, race_completions and
// race_outbox. Every mutation that broadcasts writes its outbox row in the
// same transaction, and every precondition the app checked against a loaded
// graph is re-validated here under a row lock on the race.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new race repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateRaceParams seeds a race with its creator participant and playlist.
type CreateRaceParams struct {
	Race     models.Race
	Creator  models.Participant
	Playlist []models.RaceGame
}

// AddParticipantParams adds the second participant to a waiting race.
type AddParticipantParams struct {
	RaceID      uuid.UUID
	Participant models.Participant
}

// StartRaceParams transitions a ready race to active.
type StartRaceParams struct {
	RaceID    uuid.UUID
	StartedAt time.Time
}

// ApplyCompletionParams records one completion and cascades the finish and
// race-completed transitions that follow from it.
type ApplyCompletionParams struct {
	RaceID            uuid.UUID
	Completion        models.Completion
	ParticipantUserID *uuid.UUID // nil for guest participants, used in the event payload
}

// ReorderGamesParams rewrites playlist positions to match the id order.
type ReorderGamesParams struct {
	RaceID      uuid.UUID
	RaceGameIDs []uuid.UUID
}

// CreateRace inserts the race, its creator participant and the playlist in
// one transaction.
func (r *Repository) CreateRace(ctx context.Context, p CreateRaceParams) error {
	return sqlutil.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO races (id, name, creator_user_id, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $5)`,
			p.Race.ID, p.Race.Name, p.Race.CreatorUserID, p.Race.Status, p.Race.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert race: %w", err)
		}

		if err := insertParticipant(ctx, tx, p.Creator); err != nil {
			return err
		}

		for _, g := range p.Playlist {
			if _, err := tx.Exec(ctx,
				`INSERT INTO race_games (id, race_id, game_id, position) VALUES ($1, $2, $3, $4)`,
				g.ID, g.RaceID, g.GameID, g.Position,
			); err != nil {
				return fmt.Errorf("failed to insert race game: %w", err)
			}
		}
		return nil
	})
}

// AddParticipant joins a race inside a transaction. The race row is locked
// first so two simultaneous joins cannot both pass the participant-count
// check. A repeat join by the same user returns the existing row untouched.
func (r *Repository) AddParticipant(ctx context.Context, p AddParticipantParams) (*models.Participant, error) {
	var result models.Participant
	err := sqlutil.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var status models.RaceStatus
		err := tx.QueryRow(ctx,
			`SELECT status FROM races WHERE id = $1 FOR UPDATE`, p.RaceID,
		).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("failed to lock race: %w", err)
		}

		// Idempotent re-join guard for double-submitted user joins.
		if p.Participant.Identity.IsUser() {
			existing, err := scanParticipantRow(tx.QueryRow(ctx,
				participantSelect+` WHERE p.race_id = $1 AND p.user_id = $2`,
				p.RaceID, p.Participant.Identity.UserID,
			))
			if err == nil {
				result = existing
				return nil
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("failed to check existing participant: %w", err)
			}
		}

		// A full race reports RaceFull even after status has moved past waiting.
		var count int
		if err := tx.QueryRow(ctx,
			`SELECT count(*) FROM race_participants WHERE race_id = $1`, p.RaceID,
		).Scan(&count); err != nil {
			return fmt.Errorf("failed to count participants: %w", err)
		}
		if count >= 2 {
			return ErrRaceFull
		}

		if status != models.RaceStatusWaiting {
			return ErrInvalidState
		}

		if err := insertParticipant(ctx, tx, p.Participant); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE races SET status = $2, updated_at = $3 WHERE id = $1`,
			p.RaceID, models.RaceStatusReady, p.Participant.JoinedAt,
		); err != nil {
			return fmt.Errorf("failed to update race status: %w", err)
		}

		result = p.Participant
		payload, err := json.Marshal(events.PlayerJoinedPayload{
			Participant: p.Participant,
			Status:      models.RaceStatusReady,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal player-joined payload: %w", err)
		}
		return outbox.InsertTx(ctx, tx, outbox.NewEvent(p.RaceID, events.TypePlayerJoined, payload))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// StartRace flips ready to active and stamps started_at. The conditional
// update makes the first caller win; a second start sees zero rows affected.
func (r *Repository) StartRace(ctx context.Context, p StartRaceParams) error {
	return sqlutil.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE races SET status = $2, started_at = $3, updated_at = $3
			 WHERE id = $1 AND status = $4`,
			p.RaceID, models.RaceStatusActive, p.StartedAt, models.RaceStatusReady,
		)
		if err != nil {
			return fmt.Errorf("failed to start race: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var status models.RaceStatus
			err := tx.QueryRow(ctx, `SELECT status FROM races WHERE id = $1`, p.RaceID).Scan(&status)
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			} else if err != nil {
				return fmt.Errorf("failed to read race status: %w", err)
			}
			return ErrInvalidState
		}

		payload, err := json.Marshal(events.RaceStartedPayload{
			Status:    models.RaceStatusActive,
			StartedAt: p.StartedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal race-started payload: %w", err)
		}
		return outbox.InsertTx(ctx, tx, outbox.NewEvent(p.RaceID, events.TypeRaceStarted, payload))
	})
}

// ApplyCompletion inserts the completion, then recomputes the participant
// finish and race completion inside the same transaction so concurrent final
// completions by both participants cannot leave the race half-finished.
func (r *Repository) ApplyCompletion(ctx context.Context, p ApplyCompletionParams) (*CompleteGameResult, error) {
	var result CompleteGameResult
	err := sqlutil.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var status models.RaceStatus
		err := tx.QueryRow(ctx,
			`SELECT status FROM races WHERE id = $1 FOR UPDATE`, p.RaceID,
		).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("failed to lock race: %w", err)
		}
		if status != models.RaceStatusActive {
			return ErrInvalidState
		}

		var belongs bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM race_games WHERE id = $1 AND race_id = $2)`,
			p.Completion.RaceGameID, p.RaceID,
		).Scan(&belongs); err != nil {
			return fmt.Errorf("failed to check race game: %w", err)
		}
		if !belongs {
			return ErrNotFound
		}

		c := p.Completion
		tag, err := tx.Exec(ctx,
			`INSERT INTO race_completions (id, race_game_id, participant_id, completed_at, time_to_complete, skipped)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (race_game_id, participant_id) DO NOTHING`,
			c.ID, c.RaceGameID, c.ParticipantID, c.CompletedAt, c.TimeToComplete, c.Skipped,
		)
		if err != nil {
			return fmt.Errorf("failed to insert completion: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyCompleted
		}

		var finishedAll bool
		if err := tx.QueryRow(ctx,
			`SELECT (SELECT count(*) FROM race_games WHERE race_id = $1) =
			        (SELECT count(*) FROM race_completions c
			           JOIN race_games g ON g.id = c.race_game_id
			          WHERE g.race_id = $1 AND c.participant_id = $2)`,
			p.RaceID, c.ParticipantID,
		).Scan(&finishedAll); err != nil {
			return fmt.Errorf("failed to check participant progress: %w", err)
		}

		if finishedAll {
			// The triggering completion is the last game, so its elapsed
			// time is the participant's total race time.
			if _, err := tx.Exec(ctx,
				`UPDATE race_participants SET finished_at = $2, total_time = $3
				 WHERE id = $1 AND finished_at IS NULL`,
				c.ParticipantID, c.CompletedAt, c.TimeToComplete,
			); err != nil {
				return fmt.Errorf("failed to finish participant: %w", err)
			}
		}

		raceStatus := models.RaceStatusActive
		var unfinished int
		if err := tx.QueryRow(ctx,
			`SELECT count(*) FROM race_participants WHERE race_id = $1 AND finished_at IS NULL`,
			p.RaceID,
		).Scan(&unfinished); err != nil {
			return fmt.Errorf("failed to count unfinished participants: %w", err)
		}
		if unfinished == 0 {
			if _, err := tx.Exec(ctx,
				`UPDATE races SET status = $2, completed_at = $3, updated_at = $3 WHERE id = $1`,
				p.RaceID, models.RaceStatusCompleted, c.CompletedAt,
			); err != nil {
				return fmt.Errorf("failed to complete race: %w", err)
			}
			raceStatus = models.RaceStatusCompleted
		}

		result = CompleteGameResult{Completion: c, FinishedAll: finishedAll, RaceStatus: raceStatus}

		ev := events.GameCompletedPayload{
			ParticipantID:  c.ParticipantID.String(),
			RaceGameID:     c.RaceGameID.String(),
			TimeToComplete: c.TimeToComplete,
			Skipped:        c.Skipped,
			FinishedAll:    finishedAll,
			RaceStatus:     raceStatus,
		}
		if p.ParticipantUserID != nil {
			ev.UserID = p.ParticipantUserID.String()
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal game-completed payload: %w", err)
		}
		return outbox.InsertTx(ctx, tx, outbox.NewEvent(p.RaceID, events.TypeGameCompleted, payload))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ReorderGames atomically rewrites playlist positions. Rows are first bumped
// out of the unique position range so the rewrite cannot collide with itself
// mid-transaction. Any id that is not exactly one current row of this race
// rolls the whole rewrite back.
func (r *Repository) ReorderGames(ctx context.Context, p ReorderGamesParams) error {
	seen := make(map[uuid.UUID]bool, len(p.RaceGameIDs))
	for _, id := range p.RaceGameIDs {
		if seen[id] {
			return validationErr("race_game_ids", "duplicate id in reorder list")
		}
		seen[id] = true
	}

	return sqlutil.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var locked int
		err := tx.QueryRow(ctx, `SELECT 1 FROM races WHERE id = $1 FOR UPDATE`, p.RaceID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("failed to lock race: %w", err)
		}

		var count int
		if err := tx.QueryRow(ctx,
			`SELECT count(*) FROM race_games WHERE race_id = $1`, p.RaceID,
		).Scan(&count); err != nil {
			return fmt.Errorf("failed to count race games: %w", err)
		}
		if count != len(p.RaceGameIDs) {
			return validationErr("race_game_ids", "list is not a permutation of the playlist")
		}

		if _, err := tx.Exec(ctx,
			`UPDATE race_games SET position = position + $2 WHERE race_id = $1`,
			p.RaceID, len(p.RaceGameIDs),
		); err != nil {
			return fmt.Errorf("failed to shift positions: %w", err)
		}

		for pos, id := range p.RaceGameIDs {
			tag, err := tx.Exec(ctx,
				`UPDATE race_games SET position = $1 WHERE id = $2 AND race_id = $3`,
				pos, id, p.RaceID,
			)
			if err != nil {
				return fmt.Errorf("failed to reorder race game: %w", err)
			}
			if tag.RowsAffected() != 1 {
				return validationErr("race_game_ids", "id does not belong to this race")
			}
		}

		ids := make([]string, len(p.RaceGameIDs))
		for i, id := range p.RaceGameIDs {
			ids[i] = id.String()
		}
		payload, err := json.Marshal(events.GamesReorderedPayload{RaceGameIDs: ids})
		if err != nil {
			return fmt.Errorf("failed to marshal games-reordered payload: %w", err)
		}
		return outbox.InsertTx(ctx, tx, outbox.NewEvent(p.RaceID, events.TypeGamesReordered, payload))
	})
}

// GetRaceGraph loads the full race read model: race, participants with
// profile projections, and the ordered playlist with embedded games and
// completions.
func (r *Repository) GetRaceGraph(ctx context.Context, raceID uuid.UUID) (*Graph, error) {
	var g Graph

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, creator_user_id, status, started_at, completed_at, created_at, updated_at
		 FROM races WHERE id = $1`,
		raceID,
	).Scan(&g.Race.ID, &g.Race.Name, &g.Race.CreatorUserID, &g.Race.Status,
		&g.Race.StartedAt, &g.Race.CompletedAt, &g.Race.CreatedAt, &g.Race.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get race: %w", err)
	}

	participants, err := r.listParticipants(ctx, raceID)
	if err != nil {
		return nil, err
	}
	g.Participants = participants

	playlist, err := r.listPlaylist(ctx, raceID)
	if err != nil {
		return nil, err
	}
	g.Playlist = playlist

	return &g, nil
}

func (r *Repository) listParticipants(ctx context.Context, raceID uuid.UUID) ([]models.Participant, error) {
	rows, err := r.pool.Query(ctx,
		participantSelect+` WHERE p.race_id = $1 ORDER BY p.joined_at`, raceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipantRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *Repository) listPlaylist(ctx context.Context, raceID uuid.UUID) ([]PlaylistSlot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rg.id, rg.race_id, rg.game_id, rg.position,
		        g.id, g.slug, g.name, g.url, g.category, g.created_at
		 FROM race_games rg
		 JOIN games g ON g.id = rg.game_id
		 WHERE rg.race_id = $1
		 ORDER BY rg.position`,
		raceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list race games: %w", err)
	}
	defer rows.Close()

	var playlist []PlaylistSlot
	byRaceGame := make(map[uuid.UUID]int)
	for rows.Next() {
		var slot PlaylistSlot
		var game models.Game
		if err := rows.Scan(&slot.RaceGame.ID, &slot.RaceGame.RaceID, &slot.RaceGame.GameID, &slot.RaceGame.Position,
			&game.ID, &game.Slug, &game.Name, &game.URL, &game.Category, &game.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan race game: %w", err)
		}
		slot.Game = &game
		slot.Completions = []models.Completion{}
		byRaceGame[slot.RaceGame.ID] = len(playlist)
		playlist = append(playlist, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := r.pool.Query(ctx,
		`SELECT c.id, c.race_game_id, c.participant_id, c.completed_at, c.time_to_complete, c.skipped
		 FROM race_completions c
		 JOIN race_games g ON g.id = c.race_game_id
		 WHERE g.race_id = $1
		 ORDER BY c.completed_at`,
		raceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var c models.Completion
		if err := crows.Scan(&c.ID, &c.RaceGameID, &c.ParticipantID, &c.CompletedAt, &c.TimeToComplete, &c.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		if i, ok := byRaceGame[c.RaceGameID]; ok {
			playlist[i].Completions = append(playlist[i].Completions, c)
		}
	}
	return playlist, crows.Err()
}

const participantSelect = `
	SELECT p.id, p.race_id, p.user_id, p.guest_name, p.joined_at, p.finished_at, p.total_time,
	       u.username, u.display_name, u.avatar_url, u.created_at
	FROM race_participants p
	LEFT JOIN users u ON u.id = p.user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipantRow(row rowScanner) (models.Participant, error) {
	var p models.Participant
	var userID *uuid.UUID
	var guestName *string
	var username, displayName, avatarURL *string
	var userCreatedAt *time.Time

	if err := row.Scan(&p.ID, &p.RaceID, &userID, &guestName, &p.JoinedAt, &p.FinishedAt, &p.TotalTime,
		&username, &displayName, &avatarURL, &userCreatedAt); err != nil {
		return models.Participant{}, err
	}

	switch {
	case userID != nil:
		p.Identity = models.UserIdentity(*userID)
		if username != nil {
			p.User = &models.User{
				ID:          *userID,
				Username:    *username,
				DisplayName: derefOr(displayName, *username),
				AvatarURL:   derefOr(avatarURL, ""),
				CreatedAt:   sqlutil.TimeVal(userCreatedAt),
			}
		}
	case guestName != nil:
		p.Identity = models.GuestIdentity(*guestName)
	}
	return p, nil
}

func insertParticipant(ctx context.Context, tx pgx.Tx, p models.Participant) error {
	var userID *uuid.UUID
	var guestName *string
	if p.Identity.IsUser() {
		userID = sqlutil.UUIDPtr(p.Identity.UserID)
	} else {
		name := p.Identity.GuestName
		guestName = &name
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO race_participants (id, race_id, user_id, guest_name, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.RaceID, userID, guestName, p.JoinedAt,
	); err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
