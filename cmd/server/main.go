package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"StudyLeaderwebserver/internal/auth"
	"StudyLeaderwebserver/internal/config"
	"StudyLeaderwebserver/internal/httpapi"
	"StudyLeaderwebserver/internal/metrics"
	"StudyLeaderwebserver/internal/migrate"
	"StudyLeaderwebserver/internal/service"
	"StudyLeaderwebserver/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	var (
		authSvc        *service.AuthService
		usersSvc       *service.UsersService
		subjectsSvc    *service.SubjectsService
		sessionsSvc    *service.SessionsService
		statsSvc       *service.StatsService
		leaderboardSvc *service.LeaderboardService
		friendsSvc     *service.FriendsService
		dbPing         func(context.Context) error
	)

	if cfg.DBDSN != "" {
		if err := migrate.Up(context.Background(), cfg.DBDSN); err != nil {
			logger.Error("migrations failed", "err", err)
			os.Exit(1)
		}

		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		users := postgres.NewUsersStore(pgPool)
		subjects := postgres.NewSubjectsStore(pgPool)
		sessions := postgres.NewSessionsStore(pgPool)
		friendships := postgres.NewFriendshipsStore(pgPool)

		gate := &service.AccessGate{Users: users, Friends: friendships}

		authSvc = &service.AuthService{
			Users:  users,
			Verify: auth.NewGoogleVerifier(cfg.GoogleClientID),
			Tokens: auth.NewTokenCodec([]byte(cfg.TokenSecret), cfg.TokenTTL),
		}
		usersSvc = &service.UsersService{Store: users, Gate: gate}
		subjectsSvc = &service.SubjectsService{Store: subjects, Gate: gate}
		sessionsSvc = &service.SessionsService{Store: sessions, Subjects: subjects}
		statsSvc = &service.StatsService{
			Sessions:      sessions,
			Gate:          gate,
			StreakMaxDays: cfg.StreakMaxDays,
			QueryTimeout:  cfg.QueryTimeout,
		}
		leaderboardSvc = &service.LeaderboardService{
			Users:    users,
			Friends:  friendships,
			Sessions: sessions,
		}
		friendsSvc = &service.FriendsService{Users: users, Friendships: friendships}
		dbPing = pgPool.Ping
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:      logger,
		IsProd:      cfg.IsProd(),
		DBPing:      dbPing,
		Auth:        authSvc,
		Users:       usersSvc,
		Subjects:    subjectsSvc,
		Sessions:    sessionsSvc,
		Stats:       statsSvc,
		Leaderboard: leaderboardSvc,
		Friends:     friendsSvc,
		Collector:   collector,
		Gatherer:    registry,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
