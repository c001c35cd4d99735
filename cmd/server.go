package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/internal/data/repository"
	"yamdb/internal/jobs"
	"yamdb/internal/wire"
	"yamdb/pkg/cache"
	"yamdb/pkg/database"
	"yamdb/pkg/mailer"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := setup(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		config, logger := rt.config, rt.logger
		logger.Info("Starting application",
			zap.String("app", config.App.Name),
			zap.String("port", config.App.Port),
			zap.Bool("debug", config.App.Debug),
		)

		if autoMigrate {
			if _, err := database.Migrate(ctx, rt.db, logger); err != nil {
				return err
			}
		}

		// Initialize all repositories
		repos := repository.NewRepository(rt.db, logger)

		limiter, err := cache.NewLimiter(config.Redis.URL, logger)
		if err != nil {
			return err
		}
		defer limiter.Close()

		// Wire all dependencies
		app := wire.Wiring(repos, mailer.New(config.Email, logger), limiter, config, logger)

		scheduler, err := jobs.NewScheduler(config.Jobs.CleanupCron, repos.User, logger)
		if err != nil {
			return err
		}
		scheduler.Start()

		err = APIServer(ctx, app.Router, config.App.Port, logger)

		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		scheduler.Stop(stopCtx)

		return err
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

// APIServer serves route until ctx is cancelled, then drains in-flight requests.
func APIServer(ctx context.Context, route *chi.Mux, port string, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           route,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
