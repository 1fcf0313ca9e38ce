package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/secmon-lab/eoms/pkg/utils/metrics"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	authUC AuthUseCase
	now    func() time.Time
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithClock replaces time.Now for the non-compliance endpoint
func WithClock(now func() time.Time) Options {
	return func(s *Server) {
		s.now = now
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		authUC: uc.Auth,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", healthzHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Get("/me", meHandler)

		r.Route("/campuses", func(r chi.Router) {
			r.Get("/", listCampusesHandler(uc.MasterData))
			r.Get("/{id}", getCampusHandler(uc.MasterData))
			r.Put("/{id}", putCampusHandler(uc.MasterData))
		})

		r.Route("/units", func(r chi.Router) {
			r.Get("/", listUnitsHandler(uc.MasterData))
			r.Get("/{id}", getUnitHandler(uc.MasterData))
			r.Put("/{id}", putUnitHandler(uc.MasterData))
		})

		r.Route("/cycles", func(r chi.Router) {
			r.Get("/", listCyclesHandler(uc.MasterData))
			r.Post("/", putCycleHandler(uc.MasterData))
			r.Get("/{id}", getCycleHandler(uc.MasterData))
		})

		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", listSubmissionsHandler(uc.Submission))
			r.Post("/", createSubmissionHandler(uc.Submission))
			r.Get("/{id}", getSubmissionHandler(uc.Submission))
			r.Post("/{id}/submit", submitDraftHandler(uc.Submission))
			r.Post("/{id}/approve", approveSubmissionHandler(uc.Submission))
			r.Post("/{id}/reject", rejectSubmissionHandler(uc.Submission))
			r.Post("/{id}/resubmit", resubmitHandler(uc.Submission))
		})

		r.Route("/risks", func(r chi.Router) {
			r.Get("/", listRisksHandler(uc.Risk))
			r.Post("/", registerRiskHandler(uc.Risk))
			r.Get("/matrix", riskMatrixHandler(uc.Risk))
			r.Get("/funnel", riskFunnelHandler(uc.Risk))
			r.Get("/{id}", getRiskHandler(uc.Risk))
			r.Post("/{id}/status", updateRiskStatusHandler(uc.Risk))
		})

		r.Route("/findings", func(r chi.Router) {
			r.Get("/", listFindingsHandler(uc.Finding))
			r.Post("/", raiseFindingHandler(uc.Finding))
			r.Get("/{id}", getFindingHandler(uc.Finding))
			r.Get("/{id}/caps", listCAPsHandler(uc.Finding))
			r.Post("/{id}/caps", submitCAPHandler(uc.Finding))
		})
		r.Post("/caps/{id}/review", reviewCAPHandler(uc.Finding))

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboardHandler(uc.Dashboard))
			r.Get("/noncompliance", nonComplianceHandler(uc.Dashboard, s.now))
		})

		r.Post("/chat", chatHandler(uc.Chat))
		r.Get("/chat/history", chatHistoryHandler(uc.Chat))

		r.Post("/links/validate", validateLinkHandler(uc.Link))

		r.Route("/admin/deletions", func(r chi.Router) {
			r.Post("/", requestDeletionHandler(uc.Admin))
			r.Post("/confirm", confirmDeletionHandler(uc.Admin))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger attaches a logger carrying the request ID to the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.Default().With("request_id", middleware.GetReqID(ctx))
		next.ServeHTTP(w, r.WithContext(logging.With(ctx, logger)))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
