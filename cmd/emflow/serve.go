package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hawkeye-rf/emflow"
	"github.com/hawkeye-rf/emflow/internal/cli"
	httpAdapter "github.com/hawkeye-rf/emflow/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve run history, inspection and metrics over HTTP",
	Long: `Starts a JSON API: GET /healthz, GET /runs, GET /runs/{id}, POST /inspect and
GET /metrics (Prometheus).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		e, err := newEnv(ctx, "")
		if err != nil {
			return err
		}
		defer e.Close()
		if addr == "" {
			addr = e.cfg.Serve.Addr
		}

		handler := httpAdapter.NewHandler(e.stack.Engine,
			httpAdapter.WithMetrics(e.stack.Metrics.Handler()),
			httpAdapter.WithLogger(e.logger),
			httpAdapter.WithVersion(emflow.Version),
		)
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			e.logger.Info("emflow server listening", "address", addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			e.logger.Info("shutting down", "signal", ctx.Signal())
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			e.logger.Info("emflow server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default serve.addr, :8080)")
}
