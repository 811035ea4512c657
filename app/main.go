package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cipherkeeper/capitol-feed/app/api"
	"github.com/cipherkeeper/capitol-feed/app/cfg"
	"github.com/cipherkeeper/capitol-feed/app/database"
	"github.com/cipherkeeper/capitol-feed/app/feed"
	"github.com/cipherkeeper/capitol-feed/app/llm"
	"github.com/cipherkeeper/capitol-feed/app/schedule"
	"github.com/cipherkeeper/capitol-feed/app/session"
	"github.com/cipherkeeper/capitol-feed/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Capitol Feed server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	itemRepo := database.NewItemRepo(db)
	scheduleRepo := database.NewScheduleRepo(db)
	sessionRepo := database.NewSessionRepo(db)

	sources, err := feed.LoadSources(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load feed sources", "file", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Feed sources loaded", "count", len(sources))

	httpClient := &http.Client{}
	parser := feed.NewParser()
	normalizer := feed.NewNormalizer()

	var completer session.Completer
	if appCfg.AnthropicAPIKey != "" {
		completer = llm.NewClient(appCfg.AnthropicAPIKey, appCfg.LLMModel)
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set, house next-meeting extraction disabled")
	}

	resolver := session.NewResolver(httpClient, completer, itemRepo, sessionRepo,
		appCfg.HouseStatusURL, appCfg.SenateScheduleURL, appCfg.UserAgent)
	fetcher := schedule.NewFetcher(httpClient, appCfg.PotusScheduleURL, appCfg.UserAgent)

	scheduler := tasks.NewScheduler()
	for _, source := range sources {
		scheduler.Register(tasks.Job{
			Name:     "feed:" + source.Tag,
			Interval: time.Duration(appCfg.FeedRefreshMinutes) * time.Minute,
			Make: func() tasks.TaskInterface {
				return tasks.NewProcessFeedTask(source, httpClient, parser, normalizer, itemRepo, appCfg.UserAgent)
			},
		})
	}
	scheduler.Register(tasks.Job{
		Name:     "session-info",
		Interval: time.Duration(appCfg.SessionRefreshMinutes) * time.Minute,
		Make: func() tasks.TaskInterface {
			return tasks.NewSessionInfoTask(resolver)
		},
	})
	scheduler.Register(tasks.Job{
		Name:     "potus-schedule",
		Interval: time.Duration(appCfg.ScheduleRefreshMinutes) * time.Minute,
		Make: func() tasks.TaskInterface {
			return tasks.NewPotusScheduleTask(fetcher, scheduleRepo)
		},
	})

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "jobs", len(sources)+2)
	scheduler.Start()
	defer scheduler.Stop()

	query := feed.NewQuery(itemRepo, scheduleRepo)
	handler := api.NewHandler(query, itemRepo, scheduleRepo, sessionRepo)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Capitol Feed server shutdown complete")
}
