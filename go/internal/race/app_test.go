package race

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidankmcalister/dles-fun/go/internal/identity"
	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

// fakeRepository mirrors the Postgres repository's transactional semantics in
// memory: the same precondition re-checks, the same cascading transitions.
type fakeRepository struct {
	races map[uuid.UUID]*raceState
}

type raceState struct {
	race         models.Race
	participants []models.Participant
	playlist     []models.RaceGame
	completions  map[uuid.UUID][]models.Completion // by race game id
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{races: make(map[uuid.UUID]*raceState)}
}

func (f *fakeRepository) CreateRace(_ context.Context, p CreateRaceParams) error {
	f.races[p.Race.ID] = &raceState{
		race:         p.Race,
		participants: []models.Participant{p.Creator},
		playlist:     append([]models.RaceGame(nil), p.Playlist...),
		completions:  make(map[uuid.UUID][]models.Completion),
	}
	return nil
}

func (f *fakeRepository) GetRaceGraph(_ context.Context, raceID uuid.UUID) (*Graph, error) {
	st, ok := f.races[raceID]
	if !ok {
		return nil, ErrNotFound
	}

	playlist := append([]models.RaceGame(nil), st.playlist...)
	sort.Slice(playlist, func(i, j int) bool { return playlist[i].Position < playlist[j].Position })

	slots := make([]PlaylistSlot, len(playlist))
	for i, rg := range playlist {
		slots[i] = PlaylistSlot{
			RaceGame:    rg,
			Completions: append([]models.Completion(nil), st.completions[rg.ID]...),
		}
	}
	return &Graph{
		Race:         st.race,
		Participants: append([]models.Participant(nil), st.participants...),
		Playlist:     slots,
	}, nil
}

func (f *fakeRepository) AddParticipant(_ context.Context, p AddParticipantParams) (*models.Participant, error) {
	st, ok := f.races[p.RaceID]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Participant.Identity.IsUser() {
		for i := range st.participants {
			if st.participants[i].Identity.IsUser() &&
				st.participants[i].Identity.UserID == p.Participant.Identity.UserID {
				return &st.participants[i], nil
			}
		}
	}
	if len(st.participants) >= 2 {
		return nil, ErrRaceFull
	}
	if st.race.Status != models.RaceStatusWaiting {
		return nil, ErrInvalidState
	}
	st.participants = append(st.participants, p.Participant)
	st.race.Status = models.RaceStatusReady
	return &st.participants[len(st.participants)-1], nil
}

func (f *fakeRepository) StartRace(_ context.Context, p StartRaceParams) error {
	st, ok := f.races[p.RaceID]
	if !ok {
		return ErrNotFound
	}
	if st.race.Status != models.RaceStatusReady {
		return ErrInvalidState
	}
	startedAt := p.StartedAt
	st.race.Status = models.RaceStatusActive
	st.race.StartedAt = &startedAt
	return nil
}

func (f *fakeRepository) ApplyCompletion(_ context.Context, p ApplyCompletionParams) (*CompleteGameResult, error) {
	st, ok := f.races[p.RaceID]
	if !ok {
		return nil, ErrNotFound
	}
	if st.race.Status != models.RaceStatusActive {
		return nil, ErrInvalidState
	}
	belongs := false
	for _, rg := range st.playlist {
		if rg.ID == p.Completion.RaceGameID {
			belongs = true
			break
		}
	}
	if !belongs {
		return nil, ErrNotFound
	}
	for _, c := range st.completions[p.Completion.RaceGameID] {
		if c.ParticipantID == p.Completion.ParticipantID {
			return nil, ErrAlreadyCompleted
		}
	}
	st.completions[p.Completion.RaceGameID] = append(st.completions[p.Completion.RaceGameID], p.Completion)

	finishedAll := true
	for _, rg := range st.playlist {
		done := false
		for _, c := range st.completions[rg.ID] {
			if c.ParticipantID == p.Completion.ParticipantID {
				done = true
				break
			}
		}
		if !done {
			finishedAll = false
			break
		}
	}
	if finishedAll {
		for i := range st.participants {
			if st.participants[i].ID == p.Completion.ParticipantID && st.participants[i].FinishedAt == nil {
				finishedAt := p.Completion.CompletedAt
				totalTime := p.Completion.TimeToComplete
				st.participants[i].FinishedAt = &finishedAt
				st.participants[i].TotalTime = &totalTime
			}
		}
	}
	if IsRaceComplete(st.participants) {
		completedAt := p.Completion.CompletedAt
		st.race.Status = models.RaceStatusCompleted
		st.race.CompletedAt = &completedAt
	}

	return &CompleteGameResult{
		Completion:  p.Completion,
		FinishedAll: finishedAll,
		RaceStatus:  st.race.Status,
	}, nil
}

func (f *fakeRepository) ReorderGames(_ context.Context, p ReorderGamesParams) error {
	st, ok := f.races[p.RaceID]
	if !ok {
		return ErrNotFound
	}
	byID := make(map[uuid.UUID]int, len(st.playlist))
	for i, rg := range st.playlist {
		byID[rg.ID] = i
	}
	for pos, id := range p.RaceGameIDs {
		i, ok := byID[id]
		if !ok {
			return validationErr("race_game_ids", "list is not a permutation of the playlist")
		}
		st.playlist[i].Position = pos
	}
	return nil
}

// fakeCatalog resolves any of its seeded game ids.
type fakeCatalog struct {
	known map[uuid.UUID]models.Game
}

func newFakeCatalog(ids ...uuid.UUID) *fakeCatalog {
	known := make(map[uuid.UUID]models.Game, len(ids))
	for _, id := range ids {
		known[id] = models.Game{ID: id, Slug: id.String()[:8], Name: "game"}
	}
	return &fakeCatalog{known: known}
}

func (f *fakeCatalog) GetGamesByIDs(_ context.Context, ids []uuid.UUID) ([]models.Game, error) {
	var out []models.Game
	for _, id := range ids {
		if g, ok := f.known[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

type fixture struct {
	app     *App
	clock   *clockwork.FakeClock
	gameIDs []uuid.UUID
}

func newFixture(t *testing.T, gameCount int) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	gameIDs := make([]uuid.UUID, gameCount)
	for i := range gameIDs {
		gameIDs[i] = uuid.New()
	}
	app := NewAppWithClock(newFakeRepository(), newFakeCatalog(gameIDs...), clock)
	return &fixture{app: app, clock: clock, gameIDs: gameIDs}
}

func TestCreateRace(t *testing.T) {
	fx := newFixture(t, 2)
	alice := identity.User(uuid.New())

	graph, err := fx.app.CreateRace(context.Background(), alice, CreateRaceRequest{
		Name:    "friday showdown",
		GameIDs: fx.gameIDs,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RaceStatusWaiting, graph.Race.Status)
	require.Len(t, graph.Participants, 1)
	assert.True(t, graph.Participants[0].Identity.IsUser())
	require.Len(t, graph.Playlist, 2)
	assert.Equal(t, fx.gameIDs[0], graph.Playlist[0].GameID)
	assert.Equal(t, fx.gameIDs[1], graph.Playlist[1].GameID)
	assert.Equal(t, 0, graph.Playlist[0].Position)
	assert.Equal(t, 1, graph.Playlist[1].Position)
	assert.Nil(t, graph.Race.StartedAt)
	assert.Nil(t, graph.WinnerParticipantID)
}

func TestCreateRaceValidation(t *testing.T) {
	fx := newFixture(t, 1)
	alice := identity.User(uuid.New())
	ctx := context.Background()

	_, err := fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "  ", GameIDs: fx.gameIDs})
	assert.True(t, IsValidation(err))

	longName := make([]byte, maxRaceNameLen+1)
	for i := range longName {
		longName[i] = 'x'
	}
	_, err = fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: string(longName), GameIDs: fx.gameIDs})
	assert.True(t, IsValidation(err))

	_, err = fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "no games"})
	assert.True(t, IsValidation(err))

	_, err = fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "unknown game", GameIDs: []uuid.UUID{uuid.New()}})
	assert.True(t, IsValidation(err))

	// Anonymous caller without a guest name cannot create.
	_, err = fx.app.CreateRace(ctx, identity.Anonymous(), CreateRaceRequest{Name: "anon", GameIDs: fx.gameIDs})
	assert.ErrorIs(t, err, ErrAuthRequired)

	// A logged-in user cannot also claim a guest name.
	_, err = fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "both", GameIDs: fx.gameIDs, GuestName: "also-a-guest"})
	assert.True(t, IsValidation(err))
}

func TestJoinRace(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	alice := identity.User(uuid.New())
	bob := identity.User(uuid.New())

	created, err := fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "race", GameIDs: fx.gameIDs})
	require.NoError(t, err)

	graph, err := fx.app.JoinRace(ctx, bob, JoinRaceRequest{RaceID: created.Race.ID})
	require.NoError(t, err)
	assert.Equal(t, models.RaceStatusReady, graph.Race.Status)
	assert.Len(t, graph.Participants, 2)

	// Re-joining is an idempotent success and adds no participant.
	graph, err = fx.app.JoinRace(ctx, bob, JoinRaceRequest{RaceID: created.Race.ID})
	require.NoError(t, err)
	assert.Len(t, graph.Participants, 2)

	// A third distinct player is rejected with RaceFull, not a state error,
	// even though the race has already left waiting.
	_, err = fx.app.JoinRace(ctx, identity.User(uuid.New()), JoinRaceRequest{RaceID: created.Race.ID})
	assert.ErrorIs(t, err, ErrRaceFull)

	_, err = fx.app.StartRace(ctx, alice, StartRaceRequest{RaceID: created.Race.ID})
	require.NoError(t, err)
	_, err = fx.app.JoinRace(ctx, identity.Anonymous(), JoinRaceRequest{RaceID: created.Race.ID, GuestName: "late"})
	assert.ErrorIs(t, err, ErrRaceFull)

	// Guests join by name.
	created2, err := fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "race 2", GameIDs: fx.gameIDs})
	require.NoError(t, err)
	graph, err = fx.app.JoinRace(ctx, identity.Anonymous(), JoinRaceRequest{RaceID: created2.Race.ID, GuestName: "crab"})
	require.NoError(t, err)
	assert.Equal(t, models.IdentityKindGuest, graph.Participants[1].Identity.Kind)

	_, err = fx.app.JoinRace(ctx, bob, JoinRaceRequest{RaceID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartRace(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	alice := identity.User(uuid.New())
	bob := identity.User(uuid.New())

	created, err := fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "race", GameIDs: fx.gameIDs})
	require.NoError(t, err)

	// Cannot start while waiting for an opponent.
	_, err = fx.app.StartRace(ctx, alice, StartRaceRequest{RaceID: created.Race.ID})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = fx.app.JoinRace(ctx, bob, JoinRaceRequest{RaceID: created.Race.ID})
	require.NoError(t, err)

	// Spectators cannot start someone else's race.
	_, err = fx.app.StartRace(ctx, identity.User(uuid.New()), StartRaceRequest{RaceID: created.Race.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	// Participant ids are readable by anyone; passing a user-bound
	// participant's id without that user's identity does not grant start.
	graph, err := fx.app.GetRace(ctx, created.Race.ID)
	require.NoError(t, err)
	aliceParticipant := graph.Participants[0].ID
	_, err = fx.app.StartRace(ctx, identity.Anonymous(), StartRaceRequest{RaceID: created.Race.ID, GuestParticipantID: &aliceParticipant})
	assert.ErrorIs(t, err, ErrForbidden)

	graph, err = fx.app.StartRace(ctx, bob, StartRaceRequest{RaceID: created.Race.ID})
	require.NoError(t, err)
	assert.Equal(t, models.RaceStatusActive, graph.Race.Status)
	require.NotNil(t, graph.Race.StartedAt)
	assert.Equal(t, fx.clock.Now(), *graph.Race.StartedAt)

	// Starting twice fails; phases never move backward.
	_, err = fx.app.StartRace(ctx, alice, StartRaceRequest{RaceID: created.Race.ID})
	assert.ErrorIs(t, err, ErrInvalidState)
}

// TestRaceFlow runs a full head-to-head race through every phase.
func TestRaceFlow(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()
	alice := identity.User(uuid.New())
	bob := identity.User(uuid.New())

	created, err := fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "showdown", GameIDs: fx.gameIDs})
	require.NoError(t, err)
	raceID := created.Race.ID

	_, err = fx.app.JoinRace(ctx, bob, JoinRaceRequest{RaceID: raceID})
	require.NoError(t, err)
	graph, err := fx.app.StartRace(ctx, alice, StartRaceRequest{RaceID: raceID})
	require.NoError(t, err)

	g1 := graph.Playlist[0].RaceGame.ID
	g2 := graph.Playlist[1].RaceGame.ID

	// T+5s: alice finishes the first game.
	fx.clock.Advance(5 * time.Second)
	res, err := fx.app.CompleteGame(ctx, alice, CompleteGameRequest{RaceID: raceID, RaceGameID: g1})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Completion.TimeToComplete)
	assert.False(t, res.FinishedAll)
	assert.Equal(t, models.RaceStatusActive, res.RaceStatus)

	// T+12s: bob finishes the first game.
	fx.clock.Advance(7 * time.Second)
	res, err = fx.app.CompleteGame(ctx, bob, CompleteGameRequest{RaceID: raceID, RaceGameID: g1})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Completion.TimeToComplete)

	// T+20s: alice finishes everything.
	fx.clock.Advance(8 * time.Second)
	res, err = fx.app.CompleteGame(ctx, alice, CompleteGameRequest{RaceID: raceID, RaceGameID: g2})
	require.NoError(t, err)
	assert.True(t, res.FinishedAll)
	assert.Equal(t, models.RaceStatusActive, res.RaceStatus)

	graph, err = fx.app.GetRace(ctx, raceID)
	require.NoError(t, err)
	var aliceP, bobP *models.Participant
	for i := range graph.Participants {
		p := &graph.Participants[i]
		userID, _ := alice.UserID()
		if p.Identity.IsUser() && p.Identity.UserID == userID {
			aliceP = p
		} else {
			bobP = p
		}
	}
	require.NotNil(t, aliceP)
	require.NotNil(t, bobP)
	require.NotNil(t, aliceP.TotalTime)
	assert.Equal(t, 20, *aliceP.TotalTime)
	assert.Nil(t, bobP.FinishedAt)

	// Alice already leads while bob is still playing.
	require.NotNil(t, graph.WinnerParticipantID)
	assert.Equal(t, aliceP.ID, *graph.WinnerParticipantID)

	// T+30s: bob skips the last game and the race completes.
	fx.clock.Advance(10 * time.Second)
	res, err = fx.app.CompleteGame(ctx, bob, CompleteGameRequest{RaceID: raceID, RaceGameID: g2, Skipped: true})
	require.NoError(t, err)
	assert.True(t, res.FinishedAll)
	assert.Equal(t, models.RaceStatusCompleted, res.RaceStatus)
	assert.True(t, res.Completion.Skipped)

	graph, err = fx.app.GetRace(ctx, raceID)
	require.NoError(t, err)
	assert.Equal(t, models.RaceStatusCompleted, graph.Race.Status)
	require.NotNil(t, graph.Race.CompletedAt)
	require.NotNil(t, graph.WinnerParticipantID)
	assert.Equal(t, aliceP.ID, *graph.WinnerParticipantID)

	// Completions are terminal.
	_, err = fx.app.CompleteGame(ctx, bob, CompleteGameRequest{RaceID: raceID, RaceGameID: g2})
	assert.ErrorIs(t, err, ErrInvalidState) // race is no longer active
}

func TestCompleteGameGuards(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()
	alice := identity.User(uuid.New())
	bob := identity.User(uuid.New())

	created, err := fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "race", GameIDs: fx.gameIDs})
	require.NoError(t, err)
	raceID := created.Race.ID

	// Completing before the race starts is an invalid state.
	_, err = fx.app.CompleteGame(ctx, alice, CompleteGameRequest{RaceID: raceID, RaceGameID: created.Playlist[0].RaceGame.ID})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = fx.app.JoinRace(ctx, bob, JoinRaceRequest{RaceID: raceID})
	require.NoError(t, err)
	graph, err := fx.app.StartRace(ctx, alice, StartRaceRequest{RaceID: raceID})
	require.NoError(t, err)
	g1 := graph.Playlist[0].RaceGame.ID

	// A race game id from some other race is not found here.
	_, err = fx.app.CompleteGame(ctx, alice, CompleteGameRequest{RaceID: raceID, RaceGameID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)

	// Anonymous spectators cannot complete.
	_, err = fx.app.CompleteGame(ctx, identity.Anonymous(), CompleteGameRequest{RaceID: raceID, RaceGameID: g1})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// A user who is not in the race gets NotFound.
	_, err = fx.app.CompleteGame(ctx, identity.User(uuid.New()), CompleteGameRequest{RaceID: raceID, RaceGameID: g1})
	assert.ErrorIs(t, err, ErrNotFound)

	// Claiming another user's participant id is rejected.
	aliceParticipant := graph.Participants[0].ID
	_, err = fx.app.CompleteGame(ctx, bob, CompleteGameRequest{RaceID: raceID, RaceGameID: g1, ParticipantID: &aliceParticipant})
	assert.ErrorIs(t, err, ErrUnauthorized)

	fx.clock.Advance(3 * time.Second)
	_, err = fx.app.CompleteGame(ctx, alice, CompleteGameRequest{RaceID: raceID, RaceGameID: g1})
	require.NoError(t, err)

	// Duplicate completion of the same slot is benign but rejected.
	_, err = fx.app.CompleteGame(ctx, alice, CompleteGameRequest{RaceID: raceID, RaceGameID: g1})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCompleteGameFloorsElapsedSeconds(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	alice := identity.User(uuid.New())
	bob := identity.User(uuid.New())

	created, err := fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "race", GameIDs: fx.gameIDs})
	require.NoError(t, err)
	_, err = fx.app.JoinRace(ctx, bob, JoinRaceRequest{RaceID: created.Race.ID})
	require.NoError(t, err)
	graph, err := fx.app.StartRace(ctx, alice, StartRaceRequest{RaceID: created.Race.ID})
	require.NoError(t, err)

	fx.clock.Advance(5900 * time.Millisecond)
	res, err := fx.app.CompleteGame(ctx, alice, CompleteGameRequest{RaceID: created.Race.ID, RaceGameID: graph.Playlist[0].RaceGame.ID})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Completion.TimeToComplete)
}

func TestReorderGames(t *testing.T) {
	fx := newFixture(t, 3)
	ctx := context.Background()
	alice := identity.User(uuid.New())

	created, err := fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "race", GameIDs: fx.gameIDs})
	require.NoError(t, err)
	raceID := created.Race.ID

	ids := make([]uuid.UUID, len(created.Playlist))
	for i, slot := range created.Playlist {
		ids[i] = slot.RaceGame.ID
	}
	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}

	// Only the host may reorder.
	err = fx.app.ReorderGames(ctx, identity.User(uuid.New()), ReorderGamesRequest{RaceID: raceID, RaceGameIDs: reversed})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Not a permutation: too short, duplicate, unknown id.
	err = fx.app.ReorderGames(ctx, alice, ReorderGamesRequest{RaceID: raceID, RaceGameIDs: ids[:2]})
	assert.True(t, IsValidation(err))
	err = fx.app.ReorderGames(ctx, alice, ReorderGamesRequest{RaceID: raceID, RaceGameIDs: []uuid.UUID{ids[0], ids[0], ids[1]}})
	assert.True(t, IsValidation(err))
	err = fx.app.ReorderGames(ctx, alice, ReorderGamesRequest{RaceID: raceID, RaceGameIDs: []uuid.UUID{ids[0], ids[1], uuid.New()}})
	assert.True(t, IsValidation(err))

	err = fx.app.ReorderGames(ctx, alice, ReorderGamesRequest{RaceID: raceID, RaceGameIDs: reversed})
	require.NoError(t, err)

	graph, err := fx.app.GetRace(ctx, raceID)
	require.NoError(t, err)
	for i, slot := range graph.Playlist {
		assert.Equal(t, reversed[i], slot.RaceGame.ID)
		assert.Equal(t, i, slot.Position)
	}
}

func TestGuestHostReorder(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()

	created, err := fx.app.CreateRace(ctx, identity.Anonymous(), CreateRaceRequest{
		Name: "guest race", GameIDs: fx.gameIDs, GuestName: "host-guest",
	})
	require.NoError(t, err)

	hostID := created.Participants[0].ID
	ids := []uuid.UUID{created.Playlist[1].RaceGame.ID, created.Playlist[0].RaceGame.ID}

	// Without the host's participant id the caller is unauthorized.
	err = fx.app.ReorderGames(ctx, identity.Anonymous(), ReorderGamesRequest{RaceID: created.Race.ID, RaceGameIDs: ids})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = fx.app.ReorderGames(ctx, identity.Anonymous(), ReorderGamesRequest{
		RaceID: created.Race.ID, RaceGameIDs: ids, GuestParticipantID: &hostID,
	})
	require.NoError(t, err)
}

func TestWinnerTieIsNil(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	alice := identity.User(uuid.New())
	bob := identity.User(uuid.New())

	created, err := fx.app.CreateRace(ctx, alice, CreateRaceRequest{Name: "tie", GameIDs: fx.gameIDs})
	require.NoError(t, err)
	_, err = fx.app.JoinRace(ctx, bob, JoinRaceRequest{RaceID: created.Race.ID})
	require.NoError(t, err)
	graph, err := fx.app.StartRace(ctx, alice, StartRaceRequest{RaceID: created.Race.ID})
	require.NoError(t, err)
	g1 := graph.Playlist[0].RaceGame.ID

	// Both finish at the same instant.
	fx.clock.Advance(9 * time.Second)
	_, err = fx.app.CompleteGame(ctx, alice, CompleteGameRequest{RaceID: created.Race.ID, RaceGameID: g1})
	require.NoError(t, err)
	_, err = fx.app.CompleteGame(ctx, bob, CompleteGameRequest{RaceID: created.Race.ID, RaceGameID: g1})
	require.NoError(t, err)

	graph, err = fx.app.GetRace(ctx, created.Race.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RaceStatusCompleted, graph.Race.Status)
	assert.Nil(t, graph.WinnerParticipantID)
}

func TestGetRaceNotFound(t *testing.T) {
	fx := newFixture(t, 1)
	_, err := fx.app.GetRace(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}
