package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"nany-todo/internal/backend/googletasks"
	"nany-todo/internal/config"
	"nany-todo/internal/database"
	"nany-todo/internal/logging"
	"nany-todo/internal/repositories"
	"nany-todo/internal/routes"
	"nany-todo/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(os.Stderr, cfg.Log.Level)
	if logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var keys *services.APIKeyService
	if cfg.Auth.JWTSecret != "" {
		if keys, err = services.NewAPIKeyService(cfg.Auth.JWTSecret); err != nil {
			return err
		}
	}

	board := services.NewBoard(store, logger)
	// 起動時に1回だけ読み込む。失敗しても空の一覧で起動する
	if err := board.LoadTasks(ctx); err == nil {
		logger.Info("todos loaded", "count", len(board.View().Tasks))
	}

	router, err := routes.SetupRouter(routes.Dependencies{
		Store:        store,
		Board:        board,
		Logger:       logger,
		Keys:         keys,
		DB:           db,
		AllowOrigins: cfg.Server.AllowOrigins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr, "backend", cfg.Store.Backend)
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// openStore は設定のバックエンドに応じた TaskStore を作ります。SQL の場合は *sql.DB も返します。
func openStore(ctx context.Context, cfg *config.Config) (services.TaskStore, *sql.DB, error) {
	switch cfg.Store.Backend {
	case config.BackendGoogleTasks:
		client, err := googletasks.New(ctx, cfg.GoogleTasks)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	case config.BackendSQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewTaskRepository(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %q", cfg.Store.Backend)
	}
}
