package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/storage"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/inkspire/inkspire-client/pkg/jwt"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/inkspire/inkspire-client/pkg/metrics"
	"go.uber.org/zap"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateRestoring       State = "restoring"
	StateAuthenticated   State = "authenticated"
)

// LoginPath is where the store sends the user when the session ends
const LoginPath = "/login"

// AuthAPI is the part of the InkSpire API the session depends on
type AuthAPI interface {
	Verify(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.SignupRequest) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) (string, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) error
}

type Option func(*Store)

// WithNavigator sets the callback used to send the user to another view
func WithNavigator(navigate func(path string)) Option {
	return func(s *Store) { s.navigate = navigate }
}

// WithClock replaces time.Now when checking token expiry
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns the authenticated identity. Nothing else writes the token
// or user keys of the durable storage.
type Store struct {
	mu    sync.RWMutex
	state State
	user  *models.User
	token string

	storage  storage.Storage
	api      AuthAPI
	navigate func(path string)
	now      func() time.Time

	ready     chan struct{}
	readyOnce sync.Once

	observers   map[int]func(State)
	nextObserve int
}

// NewStore starts in StateRestoring when storage holds a token and in
// StateUnauthenticated otherwise. Call Restore to finish restoration.
func NewStore(ctx context.Context, store storage.Storage, api AuthAPI, opts ...Option) (*Store, error) {
	s := &Store{
		state:     StateUnauthenticated,
		storage:   store,
		api:       api,
		navigate:  func(string) {},
		now:       time.Now,
		ready:     make(chan struct{}),
		observers: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}

	token, ok, err := store.Get(ctx, storage.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored session: %w", err)
	}
	if ok && token != "" {
		s.state = StateRestoring
		s.token = token
	} else {
		s.markReady()
	}
	return s, nil
}

// Ready is closed once initial restoration has finished, either way
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Restore verifies the stored token with the API. On success the identity
// is read back from storage, not from the response. On any failure both
// storage keys are cleared and the user is sent to the login view.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.RLock()
	state, token := s.state, s.token
	s.mu.RUnlock()

	if state != StateRestoring {
		s.markReady()
		return nil
	}
	defer s.markReady()

	user, err := s.verify(ctx, token)
	if err != nil && s.State() != StateRestoring {
		return err
	}
	if err != nil {
		logger.Warn("Session restoration failed", zap.Error(err))
		s.clear(ctx)
		s.navigate(LoginPath)
		return fmt.Errorf("session verification failed: %w", err)
	}

	s.mu.Lock()
	// A login or logout while verifying wins over restoration
	if s.state != StateRestoring {
		s.mu.Unlock()
		return nil
	}
	s.user = user
	s.mu.Unlock()

	s.transition(StateAuthenticated)
	logger.Info("Session restored", zap.String("email", user.Email))
	return nil
}

func (s *Store) verify(ctx context.Context, token string) (*models.User, error) {
	if err := jwt.CheckExpiry(token, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUnauthorized, err)
	}
	if err := s.api.Verify(ctx, token); err != nil {
		return nil, err
	}

	raw, ok, err := s.storage.Get(ctx, storage.KeyUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no user data found in storage")
	}
	var user *models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("stored user is unreadable: %w", err)
	}
	if user == nil || (user.ID == 0 && user.Email == "") {
		return nil, fmt.Errorf("stored user is empty")
	}
	user.Token = token
	return user, nil
}

// Login authenticates and persists the identity and token
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}

	user := resp.ToUser()
	if err := s.persist(ctx, &user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = &user
	s.token = user.Token
	s.mu.Unlock()

	s.transition(StateAuthenticated)
	s.markReady()
	logger.Info("Logged in", zap.String("email", user.Email))

	copied := user
	return &copied, nil
}

// Signup registers an account and leaves the session untouched
func (s *Store) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	return s.api.Register(ctx, req)
}

// ResetPassword leaves the session untouched and returns the server message
func (s *Store) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	return s.api.ResetPassword(ctx, email, newPassword)
}

// UpdateUser saves the patch through the API, then merges it into the
// identity without verifying the session again
func (s *Store) UpdateUser(ctx context.Context, patch models.ProfileUpdate) (*models.User, error) {
	s.mu.RLock()
	current := s.user
	s.mu.RUnlock()
	if current == nil {
		return nil, errors.ErrUnauthorized
	}

	if err := s.api.UpdateProfile(ctx, patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil, errors.ErrUnauthorized
	}
	merged := patch.Apply(*s.user)
	s.mu.Unlock()

	if err := s.saveUser(ctx, &merged); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil, errors.ErrUnauthorized
	}
	s.user = &merged
	s.mu.Unlock()

	copied := merged
	return &copied, nil
}

// persist stores the token, then the identity. A token is never left
// behind without its identity.
func (s *Store) persist(ctx context.Context, user *models.User) error {
	if err := s.storage.Set(ctx, storage.KeyToken, user.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.saveUser(ctx, user); err != nil {
		if rmErr := s.storage.Remove(ctx, storage.KeyToken); rmErr != nil {
			logger.Warn("Failed to roll back stored token", zap.Error(rmErr))
		}
		return err
	}
	return nil
}

func (s *Store) saveUser(ctx context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, storage.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Logout forgets the identity in memory and in storage, then navigates
// to the login view
func (s *Store) Logout(ctx context.Context) error {
	err := s.clear(ctx)
	s.navigate(LoginPath)
	logger.Info("Logged out")
	return err
}

// Invalidate ends a session the API no longer accepts
func (s *Store) Invalidate(reason string) {
	if s.State() == StateUnauthenticated {
		return
	}
	logger.Warn("Session invalidated", zap.String("reason", reason))
	s.clear(context.Background()) //nolint:errcheck // logged in clear
	s.navigate(LoginPath)
}

func (s *Store) clear(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	err := s.storage.Remove(ctx, storage.KeyToken, storage.KeyUser)
	if err != nil {
		logger.Error("Failed to clear stored session", zap.Error(err))
	}
	s.transition(StateUnauthenticated)
	s.markReady()
	return err
}

func (s *Store) transition(to State) {
	s.mu.Lock()
	from := s.state
	if from == to {
		s.mu.Unlock()
		return
	}
	s.state = to
	observers := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	metrics.SessionTransitions.WithLabelValues(string(from), string(to)).Inc()
	logger.Debug("Session state changed", zap.String("from", string(from)), zap.String("to", string(to)))
	for _, fn := range observers {
		fn(to)
	}
}

// Current returns a copy of the identity
func (s *Store) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Token returns the bearer token of an authenticated session
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.token
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// OnChange registers fn for state transitions and returns its cancel func
func (s *Store) OnChange(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextObserve++
	id := s.nextObserve
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}
