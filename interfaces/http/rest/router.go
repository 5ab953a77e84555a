package rest

import (
	"net/http"

	"backtrace-backend/application/engine"
	"backtrace-backend/application/search"
	"backtrace-backend/infrastructure/config"
	"backtrace-backend/interfaces/http/rest/handlers"
	"backtrace-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	engine    *engine.Engine
	search    *search.Service
	wsHandler http.Handler
	logger    *zap.Logger
}

// NewRouter creates a new router instance. wsHandler may be nil when the
// deployment has no live connection endpoint (Lambda).
func NewRouter(
	cfg *config.Config,
	eng *engine.Engine,
	searchService *search.Service,
	wsHandler http.Handler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		engine:    eng,
		search:    searchService,
		wsHandler: wsHandler,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		nodeHandler := handlers.NewNodeHandler(rt.engine, rt.logger)
		r.Route("/nodes", func(r chi.Router) {
			r.Post("/resource", nodeHandler.CreateResource)
			r.Post("/question", nodeHandler.CreateQuestion)
			r.Delete("/{nodeID}", nodeHandler.DeleteNode)
			r.Put("/{nodeID}/level", nodeHandler.UpdateLevel)
			r.Put("/{nodeID}/position", nodeHandler.UpdatePosition)
		})

		edgeHandler := handlers.NewEdgeHandler(rt.engine, rt.logger)
		r.Post("/edges", edgeHandler.CreateEdge)

		graphHandler := handlers.NewGraphHandler(rt.engine, rt.logger)
		r.Get("/graph", graphHandler.GetGraph)

		pendingHandler := handlers.NewPendingHandler(rt.engine, rt.logger)
		r.Route("/pending", func(r chi.Router) {
			r.Get("/", pendingHandler.Get)
			r.Delete("/", pendingHandler.Cancel)
			r.Post("/resource", pendingHandler.RequestResource)
			r.Post("/resource/submit", pendingHandler.SubmitResource)
			r.Post("/question", pendingHandler.RequestQuestion)
			r.Post("/question/submit", pendingHandler.SubmitQuestion)
		})

		searchHandler := handlers.NewSearchHandler(rt.search, rt.logger)
		r.Post("/search", searchHandler.Search)
	})

	// Live graph stream
	if rt.wsHandler != nil {
		router.Handle("/ws", rt.wsHandler)
	}

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
