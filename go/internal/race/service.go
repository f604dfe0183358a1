package race

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/aidankmcalister/dles-fun/go/internal/httputil"
	"github.com/aidankmcalister/dles-fun/go/internal/identity"
)

// Service exposes the race coordinator over JSON/HTTP. Identity arrives as
// an explicit header set by the upstream auth layer and is passed into every
// app operation; the service never inspects sessions itself.
type Service struct {
	app *App
}

// NewService creates the race HTTP service.
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers race routes on the mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/races", s.handleCreateRace)
	mux.HandleFunc("GET /api/races/{id}", s.handleGetRace)
	mux.HandleFunc("POST /api/races/{id}/join", s.handleJoinRace)
	mux.HandleFunc("POST /api/races/{id}/start", s.handleStartRace)
	mux.HandleFunc("POST /api/races/{id}/complete", s.handleCompleteGame)
	mux.HandleFunc("PUT /api/races/{id}/games", s.handleReorderGames)
}

func (s *Service) handleCreateRace(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var req CreateRaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	graph, err := s.app.CreateRace(r.Context(), ident, req)
	if err != nil {
		writeRaceError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, graph)
}

func (s *Service) handleGetRace(w http.ResponseWriter, r *http.Request) {
	raceID, ok := pathRaceID(w, r)
	if !ok {
		return
	}
	graph, err := s.app.GetRace(r.Context(), raceID)
	if err != nil {
		writeRaceError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, graph)
}

func (s *Service) handleJoinRace(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	raceID, ok := pathRaceID(w, r)
	if !ok {
		return
	}
	var req JoinRaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	req.RaceID = raceID

	graph, err := s.app.JoinRace(r.Context(), ident, req)
	if err != nil {
		writeRaceError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, graph)
}

func (s *Service) handleStartRace(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	raceID, ok := pathRaceID(w, r)
	if !ok {
		return
	}
	var req StartRaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	req.RaceID = raceID

	graph, err := s.app.StartRace(r.Context(), ident, req)
	if err != nil {
		writeRaceError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, graph)
}

func (s *Service) handleCompleteGame(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	raceID, ok := pathRaceID(w, r)
	if !ok {
		return
	}
	var req CompleteGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	req.RaceID = raceID

	result, err := s.app.CompleteGame(r.Context(), ident, req)
	if err != nil {
		writeRaceError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, result)
}

func (s *Service) handleReorderGames(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	raceID, ok := pathRaceID(w, r)
	if !ok {
		return
	}
	var req ReorderGamesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	req.RaceID = raceID

	if err := s.app.ReorderGames(r.Context(), ident, req); err != nil {
		writeRaceError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func callerIdentity(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	ident, ok := httputil.CallerIdentity(r)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "malformed X-User-ID header")
		return identity.Anonymous(), false
	}
	return ident, true
}

func pathRaceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid race id")
		return uuid.Nil, false
	}
	return raceID, true
}

// writeRaceError maps coordinator errors onto the HTTP error taxonomy.
// AlreadyCompleted is a 409 with its own code so clients can treat it as
// benign when events replay.
func writeRaceError(w http.ResponseWriter, err error) {
	switch {
	case IsValidation(err):
		httputil.Error(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrAuthRequired):
		httputil.Error(w, http.StatusUnauthorized, "auth_required", err.Error())
	case errors.Is(err, ErrUnauthorized):
		httputil.Error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, ErrForbidden):
		httputil.Error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ErrNotFound):
		httputil.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrInvalidState):
		httputil.Error(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, ErrRaceFull):
		httputil.Error(w, http.StatusConflict, "race_full", err.Error())
	case errors.Is(err, ErrAlreadyCompleted):
		httputil.Error(w, http.StatusConflict, "already_completed", err.Error())
	default:
		log.Error().Err(err).Msg("race operation failed")
		httputil.Error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
