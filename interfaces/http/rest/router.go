package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"bookreviews-backend/application/ports"
	"bookreviews-backend/interfaces/http/rest/handlers"
	"bookreviews-backend/interfaces/http/rest/middleware"
	"bookreviews-backend/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	repo     ports.ReviewRepository
	events   ports.EventPublisher
	metrics  ports.Metrics
	verifier auth.Verifier
	logger   *zap.Logger

	// web serves the embedded browser client; nil when running behind the
	// Lambda entrypoint, where the client is hosted separately.
	web http.Handler
}

// NewRouter creates a new router instance
func NewRouter(
	repo ports.ReviewRepository,
	events ports.EventPublisher,
	metrics ports.Metrics,
	verifier auth.Verifier,
	logger *zap.Logger,
) *Router {
	return &Router{
		repo:     repo,
		events:   events,
		metrics:  metrics,
		verifier: verifier,
		logger:   logger,
	}
}

// WithWebClient mounts a static client handler at the root
func (rt *Router) WithWebClient(web http.Handler) *Router {
	rt.web = web
	return rt
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS preflight handling; the response envelope sets the permissive
	// headers on actual responses.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)

	reviewHandler := handlers.NewReviewHandler(rt.repo, rt.events, rt.metrics, rt.logger)

	router.Route("/reviews", func(r chi.Router) {
		// Reads and creation are open; creation picks up identity when a
		// valid token accompanies the request.
		r.With(middleware.MaybeAuthenticate(rt.verifier, rt.logger)).Post("/", reviewHandler.Create)
		r.Get("/", reviewHandler.List)
		r.Get("/{reviewID}", reviewHandler.Get)

		// Mutations always require a verified identity; ownership is then
		// checked against the stored record.
		r.With(middleware.Authenticate(rt.verifier, rt.logger)).Put("/{reviewID}", reviewHandler.Update)
		r.With(middleware.Authenticate(rt.verifier, rt.logger)).Delete("/{reviewID}", reviewHandler.Delete)
	})

	if rt.web != nil {
		router.Handle("/*", rt.web)
	}

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
