package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/inkspire/inkspire-client/internal/app"
	"github.com/inkspire/inkspire-client/internal/handlers"
	"github.com/inkspire/inkspire-client/internal/middleware"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/router"
	"github.com/inkspire/inkspire-client/internal/session"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/inkspire/inkspire-client/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server is the local web front end. It renders the same controllers the
// CLI drives, holding one instance of each for the life of the process.
type Server struct {
	app    *app.App
	engine *gin.Engine
	hub    *Hub
	stop   []func()
}

// New builds the engine and subscribes the websocket hub to client state.
// ctx bounds the background goroutines of the rate limiters.
func New(ctx context.Context, a *app.App) *Server {
	s := &Server{
		app: a,
		hub: NewHub(a.Notifier.Clear),
	}

	s.stop = append(s.stop,
		a.Notifier.Subscribe(func(n notify.Notification) {
			s.hub.Publish(EventNotification, n)
		}),
		a.PlansUpdated.Subscribe(func(plans []models.LearningPlan) {
			s.hub.Publish(EventPlansUpdated, plans)
		}),
		a.Navigation.Subscribe(func(path string) {
			s.hub.Publish(EventNavigate, path)
		}),
		a.Session.OnChange(func(state session.State) {
			s.hub.Publish(EventSession, state)
		}),
	)

	s.engine = s.routes(ctx)
	return s
}

// Handler exposes the engine for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(ctx context.Context) *gin.Engine {
	cfg := s.app.Config
	a := s.app

	planList := a.PlanList()
	plansHandler := handlers.NewPlansHandler(planList, a.CreatePlan(), a.LearningPlans(), a.Session, a.Notifier)
	remindersHandler := handlers.NewRemindersHandler(a.Reminders(), a.Notifier)
	postsHandler := handlers.NewPostsHandler(a.Feed(), a.MyPosts(), a.NewPost(), a.Notifier)
	profileHandler := handlers.NewProfileHandler(a.Profile(), a.Notifier)
	authHandler := handlers.NewAuthHandler(a.Login(), a.Signup(), a.ForgotPassword(), a.Session, a.Notifier)
	notificationHandler := handlers.NewNotificationHandler(a.Notifier)
	healthHandler := handlers.NewHealthHandler(a.Session.Ready())
	logsHandler := handlers.NewLogsHandler()

	s.stop = append(s.stop, planList.Unmount)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	r.Use(middleware.ObservabilityMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Serve.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.SameOriginMiddleware(cfg.Serve.AllowedOrigins...))

	general := middleware.NewRateLimiter(ctx, rate.Limit(cfg.Serve.RateLimit), cfg.Serve.RateBurst)
	auth := middleware.NewRateLimiter(ctx, 1, 5) // credential endpoints: 1 req/sec, burst of 5
	r.Use(general.Middleware())

	r.GET("/healthcheck", healthHandler.Healthcheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	r.POST("/logs", middleware.BodySizeLimitMiddleware(1<<20), logsHandler.ReceiveFrontendLogs)
	r.GET("/ws", s.serveWebsocket)
	r.GET("/routes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"routes": a.Routes.Routes()})
	})
	r.GET("/session", authHandler.Session)
	r.POST("/logout", authHandler.Logout)
	r.GET("/notification", notificationHandler.Current)
	r.DELETE("/notification", notificationHandler.Dismiss)

	views := r.Group("")
	views.Use(a.Guard.Middleware())

	views.GET("/login", authHandler.Form(router.ViewLogin))
	views.POST("/login", auth.Middleware(), middleware.BodySizeLimitMiddleware(64<<10), authHandler.Login)
	views.GET("/signup", authHandler.Form(router.ViewSignup))
	views.POST("/signup", auth.Middleware(), middleware.BodySizeLimitMiddleware(64<<10), authHandler.Signup)
	views.GET("/forgot-password", authHandler.Form(router.ViewForgotPassword))
	views.POST("/forgot-password", auth.Middleware(), middleware.BodySizeLimitMiddleware(64<<10), authHandler.ResetPassword)

	views.GET("/", plansHandler.Dashboard)
	views.GET("/learning-plans", plansHandler.LearningPlans)
	views.GET("/plans", plansHandler.List)
	views.PUT("/plans/:id", plansHandler.Update)
	views.DELETE("/plans/:id", plansHandler.Delete)
	views.PUT("/plans/:id/milestones/:milestoneId/status", plansHandler.SetMilestoneStatus)
	views.POST("/plans/:id/materials", middleware.BodySizeLimitMiddleware(middleware.MaxUploadBytes), plansHandler.UploadMaterial)
	views.GET("/plans/:id/materials/:index", plansHandler.DownloadMaterial)
	views.DELETE("/plans/:id/materials/:index", plansHandler.DeleteMaterial)
	views.GET("/create-plan", plansHandler.CreateForm)
	views.POST("/create-plan", plansHandler.Create)
	views.GET("/reminders", remindersHandler.List)
	views.DELETE("/reminders/:id", remindersHandler.Delete)

	views.GET("/profile", profileHandler.GetProfile)
	views.PUT("/profile", profileHandler.UpdateProfile)

	views.GET("/feed", postsHandler.Feed)
	views.GET("/posts", postsHandler.MyPosts)
	views.PUT("/posts/:id", postsHandler.Update)
	views.DELETE("/posts/:id", postsHandler.Delete)
	views.POST("/posts/:id/comments", postsHandler.AddComment)
	views.PUT("/posts/:id/comments/:commentId", postsHandler.EditComment)
	views.DELETE("/posts/:id/comments/:commentId", postsHandler.DeleteComment)
	views.POST("/posts/:id/likes", postsHandler.ToggleLike)
	views.GET("/newpost", postsHandler.ComposeForm)
	views.POST("/newpost", middleware.BodySizeLimitMiddleware(middleware.MaxUploadBytes), postsHandler.Create)

	return r
}

func (s *Server) serveWebsocket(c *gin.Context) {
	allowed := middleware.OriginAllowed(s.app.Config.Serve.AllowedOrigins...)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed(origin, r.Host)
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := NewClient(s.hub, conn)
	if !s.hub.Register(client) {
		conn.Close() //nolint:errcheck
		return
	}

	go client.WritePump()
	go client.ReadPump()

	// Late joiners see the current slot straight away
	s.hub.Publish(EventNotification, s.app.Notifier.Current())
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()
	go s.hub.Run(hubCtx)

	defer func() {
		for _, stop := range s.stop {
			stop()
		}
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}
