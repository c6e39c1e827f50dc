package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"engdaily/internal/auth"
	"engdaily/internal/config"
	"engdaily/internal/db"
	httpx "engdaily/internal/http"
	"engdaily/internal/jobs"
	"engdaily/internal/notify"
	"engdaily/internal/push"
	"engdaily/internal/quiz"
	"engdaily/internal/reminder"

	"github.com/redis/go-redis/v9"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	jobsRepo := &jobs.Repo{DB: gdb}
	reminderStore := &reminder.Store{DB: gdb}
	generator := quiz.NewGenerator(cfg.QuizAPIKey, cfg.QuizAPIBaseURL, cfg.QuizModel)

	r := httpx.NewRouter(cfg, gdb, rdb, jwtSvc, jobsRepo, generator, log)

	// delivery worker
	worker := &jobs.Worker{
		ID:        "worker-1",
		Repo:      jobsRepo,
		Push:      push.NewClient(),
		Reminders: reminderStore,
		Validate:  push.IsExpoPushToken,
		Log:       log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)

	// notification scheduler
	scanner := &notify.Scanner{
		Reminders: reminderStore,
		Queue:     jobsRepo,
		Loc:       cfg.Timezone,
		Log:       log,
	}
	scheduler := notify.NewScheduler(scanner, cfg.ScanInterval, cfg.Timezone, log)
	if err := scheduler.Start(); err != nil {
		log.Error("scheduler start failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	scheduler.Stop()
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
