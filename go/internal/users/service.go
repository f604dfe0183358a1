package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/aidankmcalister/dles-fun/go/internal/httputil"
)

// Service exposes user profiles over JSON/HTTP.
type Service struct {
	app *App
}

// NewService creates the users HTTP service.
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers user routes on the mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /api/users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}", s.handleDeleteUser)
}

func (s *Service) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, err := s.app.CreateUser(r.Context(), req)
	if err != nil {
		writeUserError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, user)
}

func (s *Service) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	user, err := s.app.GetUser(r.Context(), userID)
	if err != nil {
		writeUserError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, user)
}

func (s *Service) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	// Callers may only edit their own profile.
	ident, ok := httputil.CallerIdentity(r)
	if !ok || !ident.Is(userID) {
		httputil.Error(w, http.StatusForbidden, "forbidden", "cannot edit another user's profile")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, err := s.app.UpdateUser(r.Context(), userID, req)
	if err != nil {
		writeUserError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, user)
}

func (s *Service) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	// Callers may only delete their own account.
	ident, ok := httputil.CallerIdentity(r)
	if !ok || !ident.Is(userID) {
		httputil.Error(w, http.StatusForbidden, "forbidden", "cannot delete another user's account")
		return
	}

	if err := s.app.DeleteUser(r.Context(), userID); err != nil {
		writeUserError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation_error", "invalid user id")
		return uuid.Nil, false
	}
	return userID, true
}

func writeUserError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httputil.Error(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	log.Error().Err(err).Msg("users operation failed")
	httputil.Error(w, http.StatusInternalServerError, "internal", "internal error")
}
