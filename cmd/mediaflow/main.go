package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/config"
	"github.com/h00x7r/Media-Flow/internal/logging"
	"github.com/h00x7r/Media-Flow/internal/mediastore/local"
	"github.com/h00x7r/Media-Flow/internal/reminder"
	"github.com/h00x7r/Media-Flow/internal/seed"
	"github.com/h00x7r/Media-Flow/internal/service"
	"github.com/h00x7r/Media-Flow/internal/stylist"
	claudestylist "github.com/h00x7r/Media-Flow/internal/stylist/claude"
	ollamastylist "github.com/h00x7r/Media-Flow/internal/stylist/ollama"
	"github.com/h00x7r/Media-Flow/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := run(cfg, logger); err != nil {
		logger.Error("mediaflow stopped", "error", err)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg.StoreBackend, cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer st.close()

	media, err := local.NewLocalMediaStore(cfg.MediaPath)
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %w", err)
	}
	defer func() {
		if err := media.Close(); err != nil {
			logger.Error("failed to close media store", "error", err)
		}
	}()

	feed, closeFeed, err := newActivityFeed(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFeed()

	generator, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.SeedFile != "" {
		if err := applySeed(ctx, cfg, st, logger); err != nil {
			return err
		}
	}

	styles := service.NewStyleGuideService(generator, feed, logger)
	svcs := web.Services{
		Projects:   service.NewProjectService(st.projects, st.proofs, media, feed, cfg.DefaultCoverImage, logger),
		MoodBoards: service.NewMoodBoardService(st.boards, media, styles, feed, cfg.DefaultCoverImage, logger),
		Styles:     styles,
		Dashboard:  service.NewDashboardService(st.projects, st.proofs, st.boards, feed, logger),
	}

	scheduler := reminder.NewScheduler(cfg.ReminderSchedule, cfg.ReminderWindow, st.projects, feed, logger)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	var limiter *rate.Limiter
	if cfg.AIRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.AIRateLimit), cfg.AIRateBurst)
	}
	server := web.NewServer(svcs, media, feed, limiter, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func newGenerator(cfg *config.Config, logger *slog.Logger) (stylist.Generator, error) {
	switch cfg.AIBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, errors.New("CLAUDE_API_KEY is required when AI_BACKEND=claude")
		}
		logger.Info("using Claude AI backend", "model", cfg.ClaudeModel)
		return claudestylist.NewClaudeGenerator(cfg.ClaudeAPIKey, cfg.ClaudeModel,
			claudestylist.WithTimeout(cfg.AITimeout)), nil
	case "ollama":
		logger.Info("using Ollama AI backend", "model", cfg.OllamaModel)
		return ollamastylist.NewOllamaGenerator(cfg.OllamaHost, cfg.OllamaModel, cfg.AITimeout), nil
	default:
		return nil, fmt.Errorf("unknown AI_BACKEND %q", cfg.AIBackend)
	}
}

func newActivityFeed(ctx context.Context, cfg *config.Config, logger *slog.Logger) (activity.Feed, func(), error) {
	switch cfg.ActivityBackend {
	case "memory":
		return activity.NewMemoryFeed(activity.DefaultCapacity), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}
		if err := client.Ping(ctx).Err(); err != nil {
			closeClient()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("using redis activity feed", "addr", cfg.RedisAddr)
		return activity.NewRedisFeed(client, activity.DefaultCapacity), closeClient, nil
	default:
		return nil, nil, fmt.Errorf("unknown ACTIVITY_BACKEND %q", cfg.ActivityBackend)
	}
}

func applySeed(ctx context.Context, cfg *config.Config, st *stores, logger *slog.Logger) error {
	fixture, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	loader := seed.NewLoader(st.projects, st.boards, cfg.DefaultCoverImage, logger)
	if _, err := loader.Apply(ctx, fixture); err != nil {
		return fmt.Errorf("failed to apply seed %s: %w", cfg.SeedFile, err)
	}
	return nil
}
