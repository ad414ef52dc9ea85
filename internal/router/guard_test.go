package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeIdentity struct {
	ready chan struct{}
	user  *models.User
}

func newFakeIdentity(user *models.User) *fakeIdentity {
	ready := make(chan struct{})
	close(ready)
	return &fakeIdentity{ready: ready, user: user}
}

func (f *fakeIdentity) Ready() <-chan struct{} { return f.ready }

func (f *fakeIdentity) Current() (models.User, bool) {
	if f.user == nil {
		return models.User{}, false
	}
	return *f.user, true
}

func TestTable_Lookup(t *testing.T) {
	table := DefaultTable()

	route, ok := table.Lookup("/plans/")
	require.True(t, ok)
	assert.Equal(t, ViewPlanList, route.View)
	assert.True(t, route.Protected)

	route, ok = table.Lookup("feed")
	require.True(t, ok)
	assert.False(t, route.Protected)

	_, ok = table.Lookup("/admin")
	assert.False(t, ok)

	assert.Len(t, table.Routes(), 12)
}

func TestTable_Match(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		path     string
		view     string
		expected bool
	}{
		{"/plans", ViewPlanList, true},
		{"/plans/3/materials/0", ViewPlanList, true},
		{"/posts/1/comments", ViewMyPosts, true},
		{"/reminders/9", ViewReminders, true},
		{"/plansx", "", false},
		{"/healthcheck", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, ok := table.Match(tt.path)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.view, route.View)
		})
	}
}

func TestGuard_Evaluate(t *testing.T) {
	user := &models.User{ID: 1, Name: "Ada"}

	tests := []struct {
		name     string
		user     *models.User
		path     string
		expected Decision
	}{
		{"protected without session", nil, "/plans", Decision{Allow: false, RedirectTo: LoginPath}},
		{"protected with session", user, "/plans", Decision{Allow: true}},
		{"public without session", nil, "/feed", Decision{Allow: true}},
		{"login without session", nil, "/login", Decision{Allow: true}},
		{"dashboard without session", nil, "/", Decision{Allow: false, RedirectTo: LoginPath}},
		{"sub-resource without session", nil, "/plans/3", Decision{Allow: false, RedirectTo: LoginPath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := NewGuard(DefaultTable(), newFakeIdentity(tt.user))
			decision, err := guard.Evaluate(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.Allow, decision.Allow)
			assert.Equal(t, tt.expected.RedirectTo, decision.RedirectTo)
		})
	}
}

func TestGuard_EvaluateUnknownPath(t *testing.T) {
	guard := NewGuard(DefaultTable(), newFakeIdentity(nil))
	_, err := guard.Evaluate(context.Background(), "/nowhere")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestGuard_EvaluateWaitsForRestoration(t *testing.T) {
	identity := &fakeIdentity{ready: make(chan struct{})}
	guard := NewGuard(DefaultTable(), identity)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := guard.Evaluate(ctx, "/plans")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	identity.user = &models.User{ID: 1}
	close(identity.ready)
	decision, err := guard.Evaluate(context.Background(), "/plans")
	require.NoError(t, err)
	assert.True(t, decision.Allow)
}

func TestGuard_Middleware(t *testing.T) {
	tests := []struct {
		name         string
		user         *models.User
		path         string
		accept       string
		expectedCode int
		location     string
	}{
		{"browser redirected", nil, "/plans", "text/html", http.StatusFound, LoginPath},
		{"json client gets 401", nil, "/plans", "application/json", http.StatusUnauthorized, ""},
		{"authenticated passes", &models.User{ID: 1}, "/plans", "application/json", http.StatusOK, ""},
		{"public passes", nil, "/feed", "application/json", http.StatusOK, ""},
		{"unknown path falls through", nil, "/healthcheck", "application/json", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := NewGuard(DefaultTable(), newFakeIdentity(tt.user))
			r := gin.New()
			r.Use(guard.Middleware())
			for _, p := range []string{"/plans", "/feed", "/healthcheck"} {
				r.GET(p, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept", tt.accept)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
			if tt.expectedCode == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Please log in to continue","redirect":"/login"}`, w.Body.String())
			}
		})
	}
}
