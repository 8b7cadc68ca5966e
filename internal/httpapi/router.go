package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"StudyLeaderwebserver/internal/metrics"
	"StudyLeaderwebserver/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth        *service.AuthService
	Users       *service.UsersService
	Subjects    *service.SubjectsService
	Sessions    *service.SessionsService
	Stats       *service.StatsService
	Leaderboard *service.LeaderboardService
	Friends     *service.FriendsService

	Collector *metrics.Collector
	Gatherer  prometheus.Gatherer
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:         logger,
		isProd:         opts.IsProd,
		dbPing:         opts.DBPing,
		authSvc:        opts.Auth,
		usersSvc:       opts.Users,
		subjectsSvc:    opts.Subjects,
		sessionsSvc:    opts.Sessions,
		statsSvc:       opts.Stats,
		leaderboardSvc: opts.Leaderboard,
		friendsSvc:     opts.Friends,
		collector:      opts.Collector,
	}

	publicMux := http.NewServeMux()
	apiMux := http.NewServeMux()

	publicMux.HandleFunc("GET /healthz", api.handleHealthz)
	if opts.Gatherer != nil {
		publicMux.Handle("GET /metrics", metrics.Handler(opts.Gatherer))
	}

	handle := func(pattern string, h http.HandlerFunc) {
		apiMux.HandleFunc(pattern, api.metered(pattern, h))
	}

	handle("POST /v1/auth/signup", api.handleAuthSignup)
	handle("POST /v1/auth/login", api.handleAuthLogin)
	handle("GET /v1/auth/check-username", api.handleAuthCheckUsername)

	handle("GET /v1/users/me", api.requireAuth(api.handleUsersMe))
	handle("PATCH /v1/users/me", api.requireAuth(api.handleUsersMeUpdate))
	handle("GET /v1/users/search", api.requireAuth(api.handleUsersSearch))
	handle("GET /v1/users/count", api.handleUsersCount)
	handle("GET /v1/users/{username}", api.optionalAuth(api.handleUsersGet))

	handle("GET /v1/subjects", api.requireAuth(api.handleSubjectsList))
	handle("POST /v1/subjects", api.requireAuth(api.handleSubjectsCreate))
	handle("PATCH /v1/subjects/{id}", api.requireAuth(api.handleSubjectsUpdate))
	handle("DELETE /v1/subjects/{id}", api.requireAuth(api.handleSubjectsDelete))

	handle("POST /v1/sessions", api.requireAuth(api.handleSessionsCreate))
	handle("GET /v1/sessions", api.requireAuth(api.handleSessionsList))

	handle("GET /v1/stats/summary", api.optionalAuth(api.handleStatsSummary))
	handle("GET /v1/stats/subjects", api.optionalAuth(api.handleStatsSubjects))
	handle("GET /v1/stats/daily", api.optionalAuth(api.handleStatsDaily))
	handle("GET /v1/stats/heatmap", api.optionalAuth(api.handleStatsHeatmap))
	handle("GET /v1/stats/weekly", api.optionalAuth(api.handleStatsWeekly))

	handle("GET /v1/leaderboard", api.optionalAuth(api.handleLeaderboard))

	handle("GET /v1/friends", api.requireAuth(api.handleFriendsList))
	handle("GET /v1/friends/requests", api.requireAuth(api.handleFriendsRequests))
	handle("POST /v1/friends/requests", api.requireAuth(api.handleFriendsCreateRequest))
	handle("POST /v1/friends/requests/{id}/accept", api.requireAuth(api.handleFriendsAccept))
	handle("POST /v1/friends/requests/{id}/decline", api.requireAuth(api.handleFriendsDecline))
	handle("DELETE /v1/friends/{id}", api.requireAuth(api.handleFriendsRemove))

	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := apiMux.Handler(r)
		if pattern == "" {
			handleV1NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") || r.URL.Path == "/v1" {
			apiHandler.ServeHTTP(w, r)
			return
		}
		publicMux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleV1NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc        *service.AuthService
	usersSvc       *service.UsersService
	subjectsSvc    *service.SubjectsService
	sessionsSvc    *service.SessionsService
	statsSvc       *service.StatsService
	leaderboardSvc *service.LeaderboardService
	friendsSvc     *service.FriendsService

	collector *metrics.Collector
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
