package http

import (
	"log/slog"
	"net/http"
	"time"

	"engdaily/internal/auth"
	"engdaily/internal/config"
	"engdaily/internal/http/handler"
	mw "engdaily/internal/http/middleware"
	"engdaily/internal/jobs"
	"engdaily/internal/quiz"
	"engdaily/internal/reminder"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func NewRouter(
	cfg config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	jwtSvc *auth.JWT,
	jobsRepo *jobs.Repo,
	generator handler.QuizGenerator,
	log *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	resultSvc := &quiz.ResultService{DB: db, Loc: cfg.Timezone}

	uh := &handler.UserHandler{DB: db, JWT: jwtSvc}
	r.Route("/api/users", func(r chi.Router) {
		// Registration issues the token, so it is the one unauthenticated
		// write; the limiter keeps abusive device churn in check.
		r.With(mw.RateLimit(rdb, 30, 15*time.Minute, log)).Post("/", uh.Create)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtSvc))
			r.Get("/", uh.List)
			r.Get("/{id}", uh.Get)
			r.Put("/{id}", uh.Update)
		})
	})

	nh := &handler.NotificationHandler{
		Store: &reminder.Store{DB: db},
		Queue: jobsRepo,
	}
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/user/{userID}", nh.ListForUser)
		r.Post("/", nh.Create)
		r.Delete("/{id}", nh.Delete)
		r.Get("/queue/status", nh.QueueStatus)
	})

	qh := &handler.QuizHandler{Generator: generator, Results: resultSvc, Log: log}
	r.Route("/api/quiz", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))
		r.Post("/create", qh.Create)
	})

	qrh := &handler.QuizResultHandler{Results: resultSvc}
	r.Route("/api/quiz-results", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))
		r.Post("/", qrh.Save)
		r.Get("/", qrh.List)
	})

	return r
}
