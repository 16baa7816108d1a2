package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/food-dashboard/internal/config"
	"github.com/Lixing-Zhang/food-dashboard/internal/handlers"
	"github.com/Lixing-Zhang/food-dashboard/internal/middleware"
	"github.com/Lixing-Zhang/food-dashboard/internal/realtime"
	"github.com/Lixing-Zhang/food-dashboard/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a chi router serving the /foods collection.
// hub may be nil, in which case /foods/events is not mounted.
func New(auth config.AuthConfig, foods *service.FoodService, hub *realtime.Hub, log *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", middleware.APIKeyHeader},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(log, func() int {
		all, err := foods.ListFoods(context.Background())
		if err != nil {
			return 0
		}
		return len(all)
	})
	r.Get("/health", healthHandler.ServeHTTP)

	foodHandler := handlers.NewFoodHandler(foods, log)
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(auth))

		r.Route("/foods", func(r chi.Router) {
			if hub != nil {
				r.Get("/events", realtime.ServeWS(hub, log))
			}
			foodHandler.RegisterRoutes(r)
		})
	})

	return r
}
