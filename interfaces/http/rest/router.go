// Package rest wires the HTTP surface over the command and query buses
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"nodular/application/commands/bus"
	querybus "nodular/application/queries/bus"
	"nodular/interfaces/http/rest/handlers"
	"nodular/interfaces/http/rest/middleware"
	"nodular/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		bubbleHandler := handlers.NewBubbleHandler(rt.commandBus, rt.logger)
		r.Route("/bubbles", func(r chi.Router) {
			r.Post("/", bubbleHandler.CreateBubble)
			r.Delete("/{bubbleID}", bubbleHandler.DeleteBubble)
			r.Patch("/{bubbleID}", bubbleHandler.UpdateBubble)
			r.Post("/{bubbleID}/move", bubbleHandler.MoveBubble)
			r.Post("/{bubbleID}/collapse", bubbleHandler.ToggleCollapse)
		})

		connectionHandler := handlers.NewConnectionHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Route("/connections", func(r chi.Router) {
			r.Post("/", connectionHandler.CreateConnection)
			r.Post("/check", connectionHandler.CheckConnection)
			r.Delete("/", connectionHandler.DeleteConnection)
		})

		graphHandler := handlers.NewGraphHandler(rt.queryBus, rt.logger)
		r.Get("/graph", graphHandler.GetGraph)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
