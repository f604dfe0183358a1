package plays

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/aidankmcalister/dles-fun/go/internal/httputil"
)

// Service exposes play tracking over JSON/HTTP.
type Service struct {
	app *App
}

// NewService creates the plays HTTP service.
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers play routes on the mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/plays", s.handleRecordPlay)
	mux.HandleFunc("GET /api/users/{id}/plays", s.handleUserPlays)
}

func (s *Service) handleRecordPlay(w http.ResponseWriter, r *http.Request) {
	ident, ok := httputil.CallerIdentity(r)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "malformed X-User-ID header")
		return
	}

	var req struct {
		GameID uuid.UUID `json:"game_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == uuid.Nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "game_id is required")
		return
	}

	if err := s.app.RecordPlay(r.Context(), ident, req.GameID); err != nil {
		writePlayError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (s *Service) handleUserPlays(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid user id")
		return
	}

	result, err := s.app.GetUserPlays(r.Context(), userID)
	if err != nil {
		writePlayError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

func writePlayError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrAuthRequired) {
		httputil.Error(w, http.StatusUnauthorized, "auth_required", err.Error())
		return
	}
	log.Error().Err(err).Msg("plays operation failed")
	httputil.Error(w, http.StatusInternalServerError, "internal", "internal error")
}
