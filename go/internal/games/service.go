package games

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/aidankmcalister/dles-fun/go/internal/httputil"
	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

// Service exposes the game catalog over JSON/HTTP.
type Service struct {
	app *App
}

// NewService creates the games HTTP service.
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers catalog routes on the mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
}

func (s *Service) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.app.ListGames(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	if games == nil {
		games = []models.Game{}
	}
	httputil.JSON(w, http.StatusOK, games)
}

// handleGetGame accepts either a game UUID or a slug in the path.
func (s *Service) handleGetGame(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("id")

	if id, err := uuid.Parse(key); err == nil {
		game, err := s.app.GetGame(r.Context(), id)
		if err != nil {
			writeGameError(w, err)
			return
		}
		httputil.JSON(w, http.StatusOK, game)
		return
	}

	game, err := s.app.GetGameBySlug(r.Context(), key)
	if err != nil {
		writeGameError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, game)
}

func writeGameError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httputil.Error(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	log.Error().Err(err).Msg("games operation failed")
	httputil.Error(w, http.StatusInternalServerError, "internal", "internal error")
}
