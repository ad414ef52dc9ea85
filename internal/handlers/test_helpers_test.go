package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/config"
	"github.com/inkspire/inkspire-client/internal/app"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/storage"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

var ada = models.User{ID: 1, Name: "Ada", Email: "ada@example.com", PhoneNumber: "0123456789", Token: "tok"}

// fakeAPI is a minimal InkSpire API holding plans in memory
type fakeAPI struct {
	mu        sync.Mutex
	plans     []models.LearningPlan
	reminders []models.Reminder
	posts     []string
	nextID    int64
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.AuthResponse{Token: ada.Token, Type: "Bearer", ID: ada.ID, Name: ada.Name, Email: ada.Email, PhoneNumber: ada.PhoneNumber})
	})
	mux.HandleFunc("GET /api/learning-plans", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.plans)
	})
	mux.HandleFunc("POST /api/learning-plans", func(w http.ResponseWriter, r *http.Request) {
		var req models.PlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		plan := models.LearningPlan{ID: f.nextID, Title: req.Title, Description: req.Description, Public: req.Public, Milestones: req.Milestones}
		f.plans = append(f.plans, plan)
		writeJSON(w, plan)
	})
	mux.HandleFunc("DELETE /api/learning-plans/reminders/cleanup", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/learning-plans/reminders", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.reminders)
	})
	mux.HandleFunc("POST /api/posts/create", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.posts = append(f.posts, r.FormValue("description"))
		f.mu.Unlock()
		_, _ = w.Write([]byte("Post created")) //nolint:errcheck
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// newTestApp wires the application against fake, signed in as ada unless anonymous
func newTestApp(t *testing.T, fake *fakeAPI, anonymous bool) *app.App {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	ctx := context.Background()
	store := storage.NewMemoryStore()
	if !anonymous {
		raw, err := json.Marshal(ada)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, storage.KeyToken, ada.Token))
		require.NoError(t, store.Set(ctx, storage.KeyUser, string(raw)))
	}

	cfg := &config.Config{
		API:           config.APIConfig{BaseURL: srv.URL},
		Storage:       config.StorageConfig{Driver: config.StorageDriverMemory},
		Notifications: config.NotificationConfig{DisplaySeconds: 3600, ReminderDisplaySeconds: 3600},
	}
	a, err := app.New(ctx, cfg, app.WithStorage(store))
	require.NoError(t, err)
	a.Restore(ctx)
	return a
}

type viewBody struct {
	View         string          `json:"view"`
	Data         json.RawMessage `json:"data"`
	Notification struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
		Visible  bool   `json:"visible"`
	} `json:"notification"`
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) viewBody {
	t.Helper()
	var body viewBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
