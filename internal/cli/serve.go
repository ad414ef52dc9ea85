package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkspire/inkspire-client/internal/server"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/inkspire/inkspire-client/pkg/profiling"
)

func newServeCommand(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = e.cfg.Serve.Addr
			}

			stopProfiler, err := profiling.Start(e.cfg.Profiling, e.cfg.Observability.ServiceVersion, e.cfg.Storage.Profile, e.cfg.App.Env)
			if err != nil {
				logger.Warn("Continuous profiling unavailable", zap.Error(err))
			} else {
				defer stopProfiler()
			}

			logger.Info("Starting InkSpire web front end",
				zap.String("addr", addr),
				zap.String("api", e.app.API.BaseURL()),
				zap.String("environment", e.cfg.App.Env))

			return server.New(ctx, e.app).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, defaults to SERVE_ADDR")
	return cmd
}
