package main

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/internal/config"
	"github.com/goliatone/go-roleform/internal/metrics"
	"github.com/goliatone/go-roleform/internal/server"
	"github.com/goliatone/go-roleform/pkg/session"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			schema, err := orch.Schema(ctx, nil)
			if err != nil {
				return err
			}
			themeCfg, err := orch.ResolveTheme(a.cfg.Theme.Name, a.cfg.Theme.Variant)
			if err != nil {
				return err
			}

			srv, err := server.New(schema,
				server.WithSessions(session.NewManager(a.cfg.Session.IdleTimeout, session.WithLogger(a.logger))),
				server.WithTheme(themeCfg),
				server.WithMetrics(metrics.NewWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)),
				server.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			go srv.RunCleanup(ctx, a.cfg.Session.CleanupInterval)

			a.logger.Info("serving role form",
				zap.String("address", a.cfg.Server.Addr),
				zap.Int("roles", len(schema.Pairs())),
			)
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr, a.cfg.Server.ShutdownTimeout)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address")
	flags.Duration("idle-timeout", 0, "drop sessions idle for longer than this")
	a.bind(flags, map[string]string{
		"addr":         config.KeyServerAddr,
		"idle-timeout": config.KeySessionIdle,
	})
	return cmd
}
