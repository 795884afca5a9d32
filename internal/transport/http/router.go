package http

import (
	"net/http"
	"time"

	"codemcq-service/internal/app"
	"codemcq-service/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Attempts   *app.AttemptService
	Dashboard  *app.DashboardService
	Challenges *app.ChallengeService
	Quizzes    app.QuizBank
}

// RouterConfig carries transport-level settings.
type RouterConfig struct {
	CORSOrigins   []string
	TimerInterval time.Duration
}

// NewRouter mounts the public catalog and health endpoints and the
// token-guarded attempt, dashboard and challenge endpoints.
func NewRouter(svc Services, verifier *auth.Verifier, cfg RouterConfig) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	attempts := NewAttemptHandler(svc.Attempts, svc.Dashboard)
	catalog := NewCatalogHandler(svc.Quizzes)
	challenges := NewChallengeHandler(svc.Challenges)
	timer := NewTimerHandler(svc.Attempts, cfg.TimerInterval)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeOK(w, map[string]string{"service": "codemcq"}, "")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", catalog.List)
		r.Get("/catalog/languages", catalog.Languages)

		r.Group(func(r chi.Router) {
			r.Use(auth.Guard(verifier, denyUnauthenticated))

			r.Get("/dashboard", attempts.Dashboard)

			r.Post("/attempts", attempts.Start)
			r.Route("/attempts/{attemptID}", func(r chi.Router) {
				r.Get("/questions/{position}", attempts.Question)
				r.Post("/answers", attempts.Answer)
				r.Post("/finalize", attempts.Finalize)
				r.Get("/result", attempts.Result)
				r.Get("/timer", timer.ServeWS)
			})

			r.Get("/challenges", challenges.List)
			r.Route("/challenges/{challengeID}", func(r chi.Router) {
				r.Get("/", challenges.Get)
				r.Get("/submissions", challenges.Submissions)
				r.Post("/submissions", challenges.Submit)
			})
		})
	})

	return r
}
