package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/iftm/client-service/internal/interface/http/handler"
	"github.com/iftm/client-service/internal/interface/http/middleware"
	"go.uber.org/zap"
)

func NewRouter(handlers *handler.Handlers, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// Routes
	r.Get("/health", handlers.Client.HealthCheck)

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", handlers.Client.FindAllPaged)
		r.Get("/findAll", handlers.Client.FindAll)
		r.Get("/income", handlers.Client.FindByIncome)
		r.Post("/", handlers.Client.Insert)
		r.Get("/{id}", handlers.Client.FindByID)
		r.Put("/{id}", handlers.Client.Update)
		r.Delete("/{id}", handlers.Client.Delete)
	})

	return r
}
