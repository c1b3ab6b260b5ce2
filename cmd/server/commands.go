package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mizan/config"
	"mizan/internal/database"
	"mizan/internal/logger"
	"mizan/internal/metrics"
	"mizan/internal/repository"
	"mizan/internal/router"
	"mizan/internal/service"
	"mizan/pkg/cache"
	"mizan/pkg/llm"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Mizan daily balance API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.AddCommand(newServeCommand(), newMigrateCommand(), newActionCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema, seed the catalog and serve HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the schema and seed the action catalog, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			defer closeDB(db)
			if err := database.Setup(db, log); err != nil {
				return err
			}
			log.Info("migration complete")
			return nil
		},
	}
}

func newActionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Manage the action catalog",
	}
	cmd.AddCommand(
		newSetActiveCommand("activate", "Make an action checkable again", true),
		newSetActiveCommand("deactivate", "Retire an action from the catalog", false),
	)
	return cmd
}

func newSetActiveCommand(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid action id %q", args[0])
			}
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			defer closeDB(db)
			if err := database.Setup(db, log); err != nil {
				return err
			}

			svc := service.NewActionService(db, repository.NewActionRepository(db), repository.NewDailyActionRepository(db))
			if err := svc.SetActive(cmd.Context(), uint(id), active); err != nil {
				return err
			}
			log.Info("action updated", zap.Uint64("action_id", id), zap.Bool("active", active))
			return nil
		},
	}
}

func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Env: cfg.Server.Env})
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database: %w", err)
	}
	return cfg, log, db, nil
}

func runServe(ctx context.Context) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db)
	if err := database.Setup(db, log); err != nil {
		return err
	}

	deps := router.Deps{Log: log, Metrics: metrics.New()}
	if cfg.Advice.APIKey != "" {
		deps.LLM = llm.NewOpenAIClient(cfg.Advice.BaseURL, cfg.Advice.APIKey, cfg.Advice.Model)
	} else {
		log.Info("advice generation disabled: OPENAI_API_KEY not set, serving fallback advice")
	}
	if rc := cache.NewRedisAdviceCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); rc != nil {
		defer rc.Close()
		deps.AdviceCache = rc
		log.Info("advice cache enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	engine, release := router.Setup(cfg, db, deps)
	defer release()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
