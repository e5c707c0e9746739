package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/risk-dashboard/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env := initEnv(cfg)

		// A missing reference table only disables the income histogram.
		table, refErr := env.loadReference(ctx)

		if cfg.Cache.Warm {
			if err := env.Cache.Warm(ctx); err != nil {
				zap.L().Warn("cache warm-up incomplete", zap.Error(err))
			}
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv, err := server.New(server.Deps{
			Dashboard: env.newDashboard(table),
			Predictor: env.Prediction,
			Clients:   env.Cache,
			Metrics:   env.Metrics,
			Health: func() map[string]any {
				st := env.Cache.Stats()
				return map[string]any{
					"reference_rows":  table.Len(),
					"reference_ready": refErr == nil,
					"cache_entries":   st.Entries,
					"cache_hits":      st.Hits,
					"cache_misses":    st.Misses,
				}
			},
		}, server.Options{
			Port:         port,
			ReadTimeout:  secs(cfg.Server.ReadTimeoutSecs),
			WriteTimeout: secs(cfg.Server.WriteTimeoutSecs),
			CORSOrigins:  cfg.Server.CORSOrigins,
		})
		if err != nil {
			return err
		}
		httpSrv := srv.HTTPServer()

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("api", cfg.API.BaseURL),
		)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
