package app

import (
	"context"
	"fmt"

	"github.com/inkspire/inkspire-client/config"
	"github.com/inkspire/inkspire-client/internal/events"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/router"
	"github.com/inkspire/inkspire-client/internal/session"
	"github.com/inkspire/inkspire-client/internal/storage"
	"github.com/inkspire/inkspire-client/internal/views"
	"github.com/inkspire/inkspire-client/pkg/api"
	"github.com/inkspire/inkspire-client/pkg/httpclient"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// App owns the process-wide state shared by both front ends: one session,
// one notification slot, one plansUpdated subject and one API client.
type App struct {
	Config       *config.Config
	Storage      storage.Storage
	API          *api.Client
	Session      *session.Store
	Notifier     *notify.Notifier
	PlansUpdated *views.PlansUpdated
	Navigation   *events.Subject[string]
	Routes       *router.Table
	Guard        *router.Guard
}

type Option func(*options)

type options struct {
	storage    storage.Storage
	httpClient httpclient.Client
}

// WithStorage replaces the configured durable storage
func WithStorage(s storage.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithHTTPClient replaces the transport used for API calls
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// New wires the application. The session is left in its initial state;
// call Restore before serving views.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	store := o.storage
	if store == nil {
		var err error
		store, err = storage.New(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
	}

	a := &App{
		Config:       cfg,
		Storage:      store,
		Notifier:     notify.New(cfg.NotificationDuration()),
		PlansUpdated: events.NewSubject[[]models.LearningPlan](),
		Navigation:   events.NewSubject[string](),
		Routes:       router.DefaultTable(),
	}

	a.API = api.New(api.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.APITimeout(),
		HTTPClient: o.httpClient,
	})

	sess, err := session.NewStore(ctx, store, a.API, session.WithNavigator(a.Navigate))
	if err != nil {
		store.Close() //nolint:errcheck
		return nil, err
	}
	a.Session = sess

	a.API.SetTokenSource(sess)
	a.API.OnUnauthorized(func(operation string) {
		sess.Invalidate("API rejected the token during " + operation)
	})

	a.Guard = router.NewGuard(a.Routes, sess)

	logger.Debug("Application wired",
		zap.String("api", a.API.BaseURL()),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("session", string(sess.State())))

	return a, nil
}

// Restore finishes session restoration. A failed verification is not an
// error for the caller: the session simply ends up unauthenticated.
func (a *App) Restore(ctx context.Context) {
	if err := a.Session.Restore(ctx); err != nil {
		logger.Info("Starting without a session", zap.Error(err))
	}
}

// Navigate announces that the front end should show path
func (a *App) Navigate(path string) {
	logger.Debug("Navigate", zap.String("path", path))
	a.Navigation.Publish(path)
}

func (a *App) Close() error {
	return a.Storage.Close()
}

func (a *App) PlanList() *views.PlanList {
	return views.NewPlanList(a.API, a.Notifier, a.PlansUpdated)
}

func (a *App) CreatePlan() *views.CreatePlan {
	return views.NewCreatePlan(a.API, a.Session, a.Notifier, a.PlansUpdated, a.Navigate)
}

func (a *App) Reminders() *views.Reminders {
	return views.NewReminders(a.API, a.Notifier)
}

func (a *App) LearningPlans() *views.LearningPlans {
	return views.NewLearningPlans(a.API, a.Notifier, a.Config.ReminderNotificationDuration())
}

func (a *App) Feed() *views.Feed {
	return views.NewFeed(a.API, a.Notifier)
}

func (a *App) MyPosts() *views.MyPosts {
	return views.NewMyPosts(a.API, a.Notifier)
}

func (a *App) NewPost() *views.NewPost {
	return views.NewNewPost(a.API, a.Notifier, a.Navigate)
}

func (a *App) Profile() *views.Profile {
	return views.NewProfile(a.Session, a.Notifier)
}

func (a *App) Login() *views.Login {
	return views.NewLogin(a.Session, a.Notifier, a.Navigate)
}

func (a *App) Signup() *views.Signup {
	return views.NewSignup(a.Session, a.Notifier, a.Navigate)
}

func (a *App) ForgotPassword() *views.ForgotPassword {
	return views.NewForgotPassword(a.Session, a.Notifier, a.Navigate)
}
