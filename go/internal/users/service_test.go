package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidankmcalister/dles-fun/go/internal/models"
)

type fakeUsersRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUsersRepo) CreateUser(_ context.Context, req CreateUserRequest) (*models.User, error) {
	u := &models.User{ID: uuid.New(), Username: req.Username, DisplayName: req.DisplayName, AvatarURL: req.AvatarURL}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUsersRepo) UpdateUser(_ context.Context, id uuid.UUID, req UpdateUserRequest) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	return u, nil
}

func (f *fakeUsersRepo) DeleteUser(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func newUsersTestServer(t *testing.T) (*httptest.Server, *fakeUsersRepo) {
	t.Helper()
	repo := newFakeUsersRepo()
	mux := http.NewServeMux()
	NewService(NewApp(repo)).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, repo
}

func TestServiceDeleteUser(t *testing.T) {
	srv, repo := newUsersTestServer(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, CreateUserRequest{Username: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	doDelete := func(target uuid.UUID, caller string) *http.Response {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/users/"+target.String(), nil)
		require.NoError(t, err)
		if caller != "" {
			req.Header.Set("X-User-ID", caller)
		}
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	// Anonymous callers and other users cannot delete the account.
	resp := doDelete(user.ID, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = doDelete(user.ID, uuid.NewString())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_, err = repo.GetUser(ctx, user.ID)
	require.NoError(t, err)

	resp = doDelete(user.ID, user.ID.String())
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, err = repo.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing account is a not-found, not a silent success.
	missing := uuid.New()
	resp = doDelete(missing, missing.String())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
