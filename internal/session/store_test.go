package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/session"
	"github.com/inkspire/inkspire-client/internal/storage"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var ada = models.User{ID: 1, Name: "Ada", Email: "ada@example.com", PhoneNumber: "0123456789", Token: "tok"}

func seededStorage(t *testing.T, token string, user *models.User) *storage.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	if token != "" {
		require.NoError(t, store.Set(ctx, storage.KeyToken, token))
	}
	if user != nil {
		raw, err := json.Marshal(user)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, storage.KeyUser, string(raw)))
	}
	return store
}

func assertCleared(t *testing.T, store storage.Storage) {
	t.Helper()
	for _, key := range []string{storage.KeyToken, storage.KeyUser} {
		_, ok, err := store.Get(context.Background(), key)
		require.NoError(t, err)
		assert.False(t, ok, "key %q should be removed", key)
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestNewStore_InitialState(t *testing.T) {
	ctx := context.Background()

	empty, err := session.NewStore(ctx, storage.NewMemoryStore(), new(MockAuthAPI))
	require.NoError(t, err)
	assert.Equal(t, session.StateUnauthenticated, empty.State())
	assert.True(t, isClosed(empty.Ready()))

	stored, err := session.NewStore(ctx, seededStorage(t, "tok", &ada), new(MockAuthAPI))
	require.NoError(t, err)
	assert.Equal(t, session.StateRestoring, stored.State())
	assert.False(t, isClosed(stored.Ready()))
	assert.Empty(t, stored.Token(), "token is withheld until verified")
}

func TestStore_RestoreSuccess(t *testing.T) {
	ctx := context.Background()
	stored := ada
	stored.Name = "Ada from storage"

	api := new(MockAuthAPI)
	api.On("Verify", ctx, "tok").Return(nil).Once()

	s, err := session.NewStore(ctx, seededStorage(t, "tok", &stored), api)
	require.NoError(t, err)

	require.NoError(t, s.Restore(ctx))

	assert.Equal(t, session.StateAuthenticated, s.State())
	user, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Ada from storage", user.Name)
	assert.Equal(t, "tok", s.Token())
	assert.True(t, isClosed(s.Ready()))
	api.AssertExpectations(t)
}

func TestStore_RestoreFailure(t *testing.T) {
	tests := []struct {
		name      string
		user      *models.User
		verifyErr error
	}{
		{"api rejects token", &ada, &errors.APIError{Operation: "verify", Status: http.StatusUnauthorized}},
		{"network failure", &ada, errors.NetworkError("verify", assert.AnError)},
		{"user missing from storage", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := seededStorage(t, "tok", tt.user)

			api := new(MockAuthAPI)
			api.On("Verify", ctx, "tok").Return(tt.verifyErr).Once()

			var navigated []string
			s, err := session.NewStore(ctx, store, api,
				session.WithNavigator(func(p string) { navigated = append(navigated, p) }))
			require.NoError(t, err)

			err = s.Restore(ctx)
			assert.Error(t, err)

			assert.Equal(t, session.StateUnauthenticated, s.State())
			_, ok := s.Current()
			assert.False(t, ok)
			assertCleared(t, store)
			assert.Equal(t, []string{session.LoginPath}, navigated)
			assert.True(t, isClosed(s.Ready()))
		})
	}
}

func TestStore_RestoreExpiredJWTSkipsNetwork(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "ada@example.com",
		ExpiresAt: gojwt.NewNumericDate(now.Add(-time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	store := seededStorage(t, token, &ada)
	api := new(MockAuthAPI)

	s, err := session.NewStore(ctx, store, api, session.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	err = s.Restore(ctx)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
	assertCleared(t, store)
	api.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	api := new(MockAuthAPI)
	api.On("Login", ctx, "ada@example.com", "Secret1!").Return(&models.AuthResponse{
		Token: "tok", Type: "Bearer", ID: 1, Name: "Ada", Email: "ada@example.com", PhoneNumber: "0123456789",
	}, nil).Once()

	s, err := session.NewStore(ctx, store, api)
	require.NoError(t, err)

	var states []session.State
	s.OnChange(func(st session.State) { states = append(states, st) })

	user, err := s.Login(ctx, "ada@example.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, ada, *user)
	assert.Equal(t, session.StateAuthenticated, s.State())
	assert.Equal(t, []session.State{session.StateAuthenticated}, states)

	token, ok, err := store.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	raw, ok, err := store.Get(ctx, storage.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":1,"name":"Ada","email":"ada@example.com","phoneNumber":"0123456789","token":"tok"}`, raw)
}

func TestStore_LoginFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	api := new(MockAuthAPI)
	api.On("Login", ctx, "ada@example.com", "bad").
		Return(nil, &errors.APIError{Operation: "login", Status: http.StatusBadRequest, Message: "Invalid email or password"}).Once()

	s, err := session.NewStore(ctx, storage.NewMemoryStore(), api)
	require.NoError(t, err)

	_, err = s.Login(ctx, "ada@example.com", "bad")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.Equal(t, session.StateUnauthenticated, s.State())
}

func TestStore_SignupDoesNotAuthenticate(t *testing.T) {
	ctx := context.Background()
	req := models.SignupRequest{Name: "Ada", Email: "ada@example.com", PhoneNumber: "0123456789", Password: "Secret1!"}

	api := new(MockAuthAPI)
	api.On("Register", ctx, req).Return("User registered successfully", nil).Once()

	s, err := session.NewStore(ctx, storage.NewMemoryStore(), api)
	require.NoError(t, err)

	msg, err := s.Signup(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", msg)
	assert.Equal(t, session.StateUnauthenticated, s.State())
}

func TestStore_ResetPasswordDoesNotAuthenticate(t *testing.T) {
	ctx := context.Background()
	api := new(MockAuthAPI)
	api.On("ResetPassword", ctx, "ada@example.com", "N3w!pass").Return("Password reset successfully", nil).Once()

	s, err := session.NewStore(ctx, storage.NewMemoryStore(), api)
	require.NoError(t, err)

	msg, err := s.ResetPassword(ctx, "ada@example.com", "N3w!pass")
	require.NoError(t, err)
	assert.Equal(t, "Password reset successfully", msg)
	assert.Equal(t, session.StateUnauthenticated, s.State())
}

func loggedIn(t *testing.T, ctx context.Context, store storage.Storage, api *MockAuthAPI, opts ...session.Option) *session.Store {
	t.Helper()
	api.On("Verify", ctx, "tok").Return(nil).Once()
	s, err := session.NewStore(ctx, store, api, opts...)
	require.NoError(t, err)
	require.NoError(t, s.Restore(ctx))
	return s
}

func TestStore_UpdateUserMerges(t *testing.T) {
	ctx := context.Background()
	store := seededStorage(t, "tok", &ada)
	api := new(MockAuthAPI)
	s := loggedIn(t, ctx, store, api)

	patch := models.ProfileUpdate{Name: "Ada Lovelace"}
	api.On("UpdateProfile", ctx, patch).Return(nil).Once()

	user, err := s.UpdateUser(ctx, patch)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, ada.PhoneNumber, user.PhoneNumber)

	raw, _, err := store.Get(ctx, storage.KeyUser)
	require.NoError(t, err)
	assert.Contains(t, raw, "Ada Lovelace")

	// no second verification
	api.AssertNumberOfCalls(t, "Verify", 1)
}

func TestStore_UpdateUserRequiresSession(t *testing.T) {
	ctx := context.Background()
	s, err := session.NewStore(ctx, storage.NewMemoryStore(), new(MockAuthAPI))
	require.NoError(t, err)

	_, err = s.UpdateUser(ctx, models.ProfileUpdate{Name: "X"})
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()
	store := seededStorage(t, "tok", &ada)
	var navigated []string
	s := loggedIn(t, ctx, store, new(MockAuthAPI),
		session.WithNavigator(func(p string) { navigated = append(navigated, p) }))

	require.NoError(t, s.Logout(ctx))

	assert.Equal(t, session.StateUnauthenticated, s.State())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
	assertCleared(t, store)
	assert.Equal(t, []string{session.LoginPath}, navigated)
}

func TestStore_Invalidate(t *testing.T) {
	ctx := context.Background()
	store := seededStorage(t, "tok", &ada)
	var navigated []string
	s := loggedIn(t, ctx, store, new(MockAuthAPI),
		session.WithNavigator(func(p string) { navigated = append(navigated, p) }))

	s.Invalidate("listPlans returned 401")
	s.Invalidate("second call is a no-op")

	assert.Equal(t, session.StateUnauthenticated, s.State())
	assertCleared(t, store)
	assert.Equal(t, []string{session.LoginPath}, navigated)
}

func TestStore_RestoreRejectsEmptyStoredUser(t *testing.T) {
	for _, raw := range []string{"null", "{}"} {
		t.Run(raw, func(t *testing.T) {
			ctx := context.Background()
			store := seededStorage(t, "tok", nil)
			require.NoError(t, store.Set(ctx, storage.KeyUser, raw))

			api := new(MockAuthAPI)
			api.On("Verify", ctx, "tok").Return(nil).Once()

			var navigated []string
			s, err := session.NewStore(ctx, store, api,
				session.WithNavigator(func(p string) { navigated = append(navigated, p) }))
			require.NoError(t, err)

			assert.Error(t, s.Restore(ctx))
			assert.Equal(t, session.StateUnauthenticated, s.State())
			_, ok := s.Current()
			assert.False(t, ok)
			assert.Empty(t, s.Token())
			assertCleared(t, store)
			assert.Equal(t, []string{session.LoginPath}, navigated)
		})
	}
}

// userWriteFailing fails writes of the user key once failUser is set
type userWriteFailing struct {
	*storage.MemoryStore
	failUser bool
}

func (s *userWriteFailing) Set(ctx context.Context, key, value string) error {
	if s.failUser && key == storage.KeyUser {
		return assert.AnError
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func TestStore_LoginSaveFailureLeavesNoToken(t *testing.T) {
	ctx := context.Background()
	store := &userWriteFailing{MemoryStore: storage.NewMemoryStore(), failUser: true}

	api := new(MockAuthAPI)
	api.On("Login", ctx, "ada@example.com", "Secret1!").Return(&models.AuthResponse{
		Token: "tok", ID: 1, Name: "Ada", Email: "ada@example.com", PhoneNumber: "0123456789",
	}, nil).Once()

	s, err := session.NewStore(ctx, store, api)
	require.NoError(t, err)

	_, err = s.Login(ctx, "ada@example.com", "Secret1!")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, session.StateUnauthenticated, s.State())
	assertCleared(t, store)
}

func TestStore_UpdateUserSaveFailureKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	store := &userWriteFailing{MemoryStore: seededStorage(t, "tok", &ada)}
	api := new(MockAuthAPI)
	s := loggedIn(t, ctx, store, api)

	patch := models.ProfileUpdate{Name: "Ada Lovelace"}
	api.On("UpdateProfile", ctx, patch).Return(nil).Once()

	store.failUser = true
	_, err := s.UpdateUser(ctx, patch)
	assert.ErrorIs(t, err, assert.AnError)

	user, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Ada", user.Name)

	raw, _, err := store.Get(ctx, storage.KeyUser)
	require.NoError(t, err)
	assert.NotContains(t, raw, "Ada Lovelace")

	token, ok, err := store.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}
