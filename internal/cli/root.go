// Package cli is the terminal front end. Every command enters a view
// through the route guard, drives the same controller the web front end
// uses and prints the notifications the controller raises.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkspire/inkspire-client/config"
	"github.com/inkspire/inkspire-client/internal/app"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/inkspire/inkspire-client/pkg/tracing"
)

// Options configure a command tree
type Options struct {
	LoadConfig func() (*config.Config, error)
	AppOptions []app.Option
	Out        io.Writer
	Err        io.Writer
	// Observability initializes logging and tracing from the loaded config
	Observability bool
}

type env struct {
	opts      Options
	ephemeral bool
	logLevel  string

	cfg      *config.Config
	app      *app.App
	out      io.Writer
	errOut   io.Writer
	notified bool
	cleanup  []func()
}

// NewRootCmd creates the inkspire command tree
func NewRootCmd(opts Options) *cobra.Command {
	cmd, _ := newRoot(opts)
	return cmd
}

func newRoot(opts Options) (*cobra.Command, *env) {
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	e := &env{opts: opts, out: opts.Out, errOut: opts.Err}

	rootCmd := &cobra.Command{
		Use:           "inkspire",
		Short:         "Learning plans, reminders and posts for InkSpire",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.teardown()
		},
	}
	rootCmd.SetOut(opts.Out)
	rootCmd.SetErr(opts.Err)

	rootCmd.PersistentFlags().BoolVar(&e.ephemeral, "ephemeral", false, "keep the session in memory for this run only")
	rootCmd.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "override LOG_LEVEL")

	rootCmd.AddCommand(
		newLoginCommand(e),
		newSignupCommand(e),
		newResetPasswordCommand(e),
		newLogoutCommand(e),
		newWhoamiCommand(e),
		newProfileCommand(e),
		newDashboardCommand(e),
		newPlansCommand(e),
		newLearningPlansCommand(e),
		newRemindersCommand(e),
		newPostsCommand(e),
		newFeedCommand(e),
		newRoutesCommand(e),
		newServeCommand(e),
	)

	return rootCmd, e
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context, opts Options, args []string) int {
	rootCmd, e := newRoot(opts)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	e.teardown()
	if err == nil {
		return 0
	}
	if !e.notified {
		fmt.Fprintln(e.errOut, "Error:", errors.UserMessage(err, "Something went wrong"))
	}
	return 1
}

func (e *env) setup(ctx context.Context) error {
	cfg, err := e.opts.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if e.ephemeral {
		cfg.Storage.Driver = config.StorageDriverMemory
	}
	if e.logLevel != "" {
		cfg.Logging.Level = e.logLevel
	}
	e.cfg = cfg

	if e.opts.Observability {
		if err := logger.Initialize(logger.Config{
			Level:       cfg.Logging.Level,
			LogDir:      cfg.Logging.Dir,
			Environment: cfg.App.Env,
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		e.cleanup = append(e.cleanup, logger.Sync)

		tracerShutdown, err := tracing.InitTracer(
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceVersion,
			cfg.App.Env,
			cfg.Observability.ExporterEndpoint,
		)
		if err != nil {
			logger.Warn("Tracing unavailable", zap.Error(err))
		} else {
			e.cleanup = append(e.cleanup, func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracerShutdown(shutdownCtx); err != nil {
					logger.Warn("Failed to shutdown tracer", zap.Error(err))
				}
			})
		}
	}

	a, err := app.New(ctx, cfg, e.opts.AppOptions...)
	if err != nil {
		return err
	}
	e.app = a
	e.cleanup = append(e.cleanup, func() {
		if err := a.Close(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	})

	e.cleanup = append(e.cleanup, a.Notifier.Subscribe(e.print))
	a.Restore(ctx)
	return nil
}

// teardown runs cleanups in reverse order. It is safe to call twice.
func (e *env) teardown() {
	for i := len(e.cleanup) - 1; i >= 0; i-- {
		e.cleanup[i]()
	}
	e.cleanup = nil
}

func (e *env) print(n notify.Notification) {
	if !n.Visible {
		return
	}
	if n.Severity == notify.SeverityError {
		e.notified = true
	}
	fmt.Fprintf(e.errOut, "[%s] %s\n", n.Severity, n.Message)
}

// enter runs the route guard for path the way navigation would
func (e *env) enter(ctx context.Context, path string) error {
	decision, err := e.app.Guard.Evaluate(ctx, path)
	if err != nil {
		return err
	}
	if !decision.Allow {
		e.app.Notifier.ShowError("Please log in to continue. Run `inkspire login` first.")
		return fmt.Errorf("%w: %s requires a session", errors.ErrUnauthorized, path)
	}
	return nil
}
