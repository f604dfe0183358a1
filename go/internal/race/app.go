package race

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/aidankmcalister/dles-fun/go/internal/identity"
	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

const (
	maxRaceNameLen  = 50
	maxGuestNameLen = 30
	maxParticipants = 2 // races are strictly 1v1
)

// RaceRepository defines what the app layer needs from the race repository.
// Every mutation is transactional and re-validates its preconditions under a
// row lock; the app's checks against a loaded graph are a fast path, not the
// authority.
type RaceRepository interface {
	CreateRace(ctx context.Context, p CreateRaceParams) error
	GetRaceGraph(ctx context.Context, raceID uuid.UUID) (*Graph, error)
	AddParticipant(ctx context.Context, p AddParticipantParams) (*models.Participant, error)
	StartRace(ctx context.Context, p StartRaceParams) error
	ApplyCompletion(ctx context.Context, p ApplyCompletionParams) (*CompleteGameResult, error)
	ReorderGames(ctx context.Context, p ReorderGamesParams) error
}

// GameCatalog defines what the app needs from the games module: playlist ids
// must reference real catalog entries.
type GameCatalog interface {
	GetGamesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Game, error)
}

// App coordinates the race state machine. All state lives in the store and
// is reloaded fresh per operation; there is no long-lived race actor.
type App struct {
	repo    RaceRepository
	catalog GameCatalog
	clock   clockwork.Clock
}

// NewApp creates a race App with the real clock.
func NewApp(repo RaceRepository, catalog GameCatalog) *App {
	return NewAppWithClock(repo, catalog, clockwork.NewRealClock())
}

// NewAppWithClock creates a race App with an injected clock. Tests pass a
// clockwork.FakeClock so elapsed-time math is deterministic.
func NewAppWithClock(repo RaceRepository, catalog GameCatalog, clock clockwork.Clock) *App {
	return &App{repo: repo, catalog: catalog, clock: clock}
}

// CreateRace creates a race in waiting with the creator as sole participant
// and the playlist seeded in the given order.
func (a *App) CreateRace(ctx context.Context, ident identity.Identity, req CreateRaceRequest) (*Graph, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxRaceNameLen {
		return nil, validationErr("name", fmt.Sprintf("must be 1-%d characters", maxRaceNameLen))
	}
	if len(req.GameIDs) == 0 {
		return nil, validationErr("game_ids", "at least one game is required")
	}

	creatorIdentity, err := a.resolveJoinIdentity(ident, req.GuestName)
	if err != nil {
		return nil, err
	}

	games, err := a.catalog.GetGamesByIDs(ctx, req.GameIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up playlist games: %w", err)
	}
	if len(games) != len(req.GameIDs) {
		return nil, validationErr("game_ids", "unknown game id in playlist")
	}

	now := a.clock.Now()
	race := models.Race{
		ID:        uuid.New(),
		Name:      name,
		Status:    models.RaceStatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if userID, ok := ident.UserID(); ok {
		race.CreatorUserID = &userID
	}

	creator := models.Participant{
		ID:       uuid.New(),
		RaceID:   race.ID,
		Identity: creatorIdentity,
		JoinedAt: now,
	}

	playlist := make([]models.RaceGame, len(req.GameIDs))
	for i, gameID := range req.GameIDs {
		playlist[i] = models.RaceGame{
			ID:       uuid.New(),
			RaceID:   race.ID,
			GameID:   gameID,
			Position: i,
		}
	}

	if err := a.repo.CreateRace(ctx, CreateRaceParams{Race: race, Creator: creator, Playlist: playlist}); err != nil {
		return nil, fmt.Errorf("failed to create race: %w", err)
	}

	log.Info().
		Str("race_id", race.ID.String()).
		Int("games", len(playlist)).
		Str("identity", string(creatorIdentity.Kind)).
		Msg("race created")

	return a.GetRace(ctx, race.ID)
}

// JoinRace adds the second participant to a waiting race and flips it to
// ready. Joining a race the caller is already in is an idempotent success.
func (a *App) JoinRace(ctx context.Context, ident identity.Identity, req JoinRaceRequest) (*Graph, error) {
	joinIdentity, err := a.resolveJoinIdentity(ident, req.GuestName)
	if err != nil {
		return nil, err
	}

	participant := models.Participant{
		ID:       uuid.New(),
		RaceID:   req.RaceID,
		Identity: joinIdentity,
		JoinedAt: a.clock.Now(),
	}

	joined, err := a.repo.AddParticipant(ctx, AddParticipantParams{RaceID: req.RaceID, Participant: participant})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("race_id", req.RaceID.String()).
		Str("participant_id", joined.ID.String()).
		Msg("participant joined race")

	return a.GetRace(ctx, req.RaceID)
}

// StartRace transitions a ready race to active. Either participant may
// start; the first caller wins and the second gets InvalidState.
func (a *App) StartRace(ctx context.Context, ident identity.Identity, req StartRaceRequest) (*Graph, error) {
	graph, err := a.repo.GetRaceGraph(ctx, req.RaceID)
	if err != nil {
		return nil, err
	}
	if a.findCaller(graph, ident, req.GuestParticipantID) == nil {
		return nil, ErrForbidden
	}
	if graph.Race.Status != models.RaceStatusReady {
		return nil, ErrInvalidState
	}

	if err := a.repo.StartRace(ctx, StartRaceParams{RaceID: req.RaceID, StartedAt: a.clock.Now()}); err != nil {
		return nil, err
	}

	log.Info().Str("race_id", req.RaceID.String()).Msg("race started")
	return a.GetRace(ctx, req.RaceID)
}

// CompleteGame records one participant finishing (or skipping) one playlist
// slot, cascading the participant-finished and race-completed transitions.
func (a *App) CompleteGame(ctx context.Context, ident identity.Identity, req CompleteGameRequest) (*CompleteGameResult, error) {
	graph, err := a.repo.GetRaceGraph(ctx, req.RaceID)
	if err != nil {
		return nil, err
	}
	if graph.Race.Status != models.RaceStatusActive {
		return nil, ErrInvalidState
	}

	participant, err := a.resolveCompleter(graph, ident, req.ParticipantID)
	if err != nil {
		return nil, err
	}

	slot := findSlot(graph.Playlist, req.RaceGameID)
	if slot == nil {
		return nil, ErrNotFound
	}
	for _, c := range slot.Completions {
		if c.ParticipantID == participant.ID {
			return nil, ErrAlreadyCompleted
		}
	}

	now := a.clock.Now()
	completion := models.Completion{
		ID:             uuid.New(),
		RaceGameID:     req.RaceGameID,
		ParticipantID:  participant.ID,
		CompletedAt:    now,
		TimeToComplete: ElapsedSeconds(*graph.Race.StartedAt, now),
		Skipped:        req.Skipped,
	}

	params := ApplyCompletionParams{RaceID: req.RaceID, Completion: completion}
	if participant.Identity.IsUser() {
		userID := participant.Identity.UserID
		params.ParticipantUserID = &userID
	}

	result, err := a.repo.ApplyCompletion(ctx, params)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("race_id", req.RaceID.String()).
		Str("participant_id", participant.ID.String()).
		Int("time_to_complete", completion.TimeToComplete).
		Bool("finished_all", result.FinishedAll).
		Msg("game completed")

	return result, nil
}

// ReorderGames rewrites the playlist order. Only the host may reorder: the
// creator for user-created races, or the first-joined participant for
// guest-created ones.
func (a *App) ReorderGames(ctx context.Context, ident identity.Identity, req ReorderGamesRequest) error {
	graph, err := a.repo.GetRaceGraph(ctx, req.RaceID)
	if err != nil {
		return err
	}
	if !isHost(graph, ident, req.GuestParticipantID) {
		return ErrUnauthorized
	}
	if err := validatePermutation(graph.Playlist, req.RaceGameIDs); err != nil {
		return err
	}

	if err := a.repo.ReorderGames(ctx, ReorderGamesParams{RaceID: req.RaceID, RaceGameIDs: req.RaceGameIDs}); err != nil {
		return err
	}

	log.Info().Str("race_id", req.RaceID.String()).Msg("playlist reordered")
	return nil
}

// GetRace returns the full race graph. Spectators are allowed; no
// authorization is required. The winner is derived, never stored.
func (a *App) GetRace(ctx context.Context, raceID uuid.UUID) (*Graph, error) {
	graph, err := a.repo.GetRaceGraph(ctx, raceID)
	if err != nil {
		return nil, err
	}
	if w := Winner(graph.Participants); w != nil {
		graph.WinnerParticipantID = &w.ID
	}
	return graph, nil
}

// resolveJoinIdentity builds the participant identity for create/join:
// exactly one of authenticated user or guest name must be supplied.
func (a *App) resolveJoinIdentity(ident identity.Identity, guestName string) (models.ParticipantIdentity, error) {
	guestName = strings.TrimSpace(guestName)
	if userID, ok := ident.UserID(); ok {
		if guestName != "" {
			return models.ParticipantIdentity{}, validationErr("guest_name", "cannot be combined with an authenticated user")
		}
		return models.UserIdentity(userID), nil
	}
	if guestName == "" {
		return models.ParticipantIdentity{}, ErrAuthRequired
	}
	if len(guestName) > maxGuestNameLen {
		return models.ParticipantIdentity{}, validationErr("guest_name", fmt.Sprintf("must be 1-%d characters", maxGuestNameLen))
	}
	return models.GuestIdentity(guestName), nil
}

// findCaller matches the caller to one of the race's participants, by user
// id or by explicit guest participant id. The guest id only resolves
// guest-identity participants; participant ids are visible to spectators,
// so a user-bound participant is never claimable by id alone.
func (a *App) findCaller(graph *Graph, ident identity.Identity, guestParticipantID *uuid.UUID) *models.Participant {
	for i := range graph.Participants {
		p := &graph.Participants[i]
		if p.Identity.IsUser() && ident.Is(p.Identity.UserID) {
			return p
		}
		if guestParticipantID != nil && p.Identity.IsGuest() && p.ID == *guestParticipantID {
			return p
		}
	}
	return nil
}

// resolveCompleter resolves the participant a completion belongs to. An
// explicit participant id wins (guest flow); a participant bound to a user
// additionally requires the caller to be that user.
func (a *App) resolveCompleter(graph *Graph, ident identity.Identity, participantID *uuid.UUID) (*models.Participant, error) {
	if participantID != nil {
		for i := range graph.Participants {
			p := &graph.Participants[i]
			if p.ID != *participantID {
				continue
			}
			if p.Identity.IsUser() && !ident.Is(p.Identity.UserID) {
				return nil, ErrUnauthorized
			}
			return p, nil
		}
		return nil, ErrNotFound
	}

	userID, ok := ident.UserID()
	if !ok {
		return nil, ErrUnauthorized // spectators cannot complete games
	}
	for i := range graph.Participants {
		p := &graph.Participants[i]
		if p.Identity.IsUser() && p.Identity.UserID == userID {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// isHost reports whether the caller is the race host: the creator for
// user-created races, or the first-joined participant for guest-created.
func isHost(graph *Graph, ident identity.Identity, guestParticipantID *uuid.UUID) bool {
	if graph.Race.CreatorUserID != nil {
		return ident.Is(*graph.Race.CreatorUserID)
	}
	if guestParticipantID == nil || len(graph.Participants) == 0 {
		return false
	}
	return graph.Participants[0].ID == *guestParticipantID
}

// validatePermutation checks the supplied ids are exactly the playlist's
// race-game ids: same set, same length.
func validatePermutation(playlist []PlaylistSlot, ids []uuid.UUID) error {
	if len(ids) != len(playlist) {
		return validationErr("race_game_ids", "list is not a permutation of the playlist")
	}
	current := make(map[uuid.UUID]bool, len(playlist))
	for _, slot := range playlist {
		current[slot.RaceGame.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !current[id] || seen[id] {
			return validationErr("race_game_ids", "list is not a permutation of the playlist")
		}
		seen[id] = true
	}
	return nil
}

func findSlot(playlist []PlaylistSlot, raceGameID uuid.UUID) *PlaylistSlot {
	for i := range playlist {
		if playlist[i].RaceGame.ID == raceGameID {
			return &playlist[i]
		}
	}
	return nil
}
