package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/flextrack/timetrack-be/internal/api/handlers"
	"github.com/flextrack/timetrack-be/internal/auth"
	"github.com/flextrack/timetrack-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(allowedOrigin string, userService services.UserServiceProvider, tokenService services.TokenServiceProvider, hoursService services.HoursServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	tokenHandler := handlers.NewTokenHandler(tokenService)
	userHandler := handlers.NewUserHandler(userService, hoursService)
	hoursHandler := handlers.NewHoursHandler(hoursService)

	r.Route("/api", func(r chi.Router) {
		// Token issuance is the only credential-authenticated endpoint;
		// registration is the only unauthenticated one.
		r.With(auth.Basic(userService)).Post("/tokens", tokenHandler.Issue)
		r.Post("/users", userHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(auth.Bearer(tokenService))

			r.Delete("/tokens", tokenHandler.Revoke)

			r.Get("/users", userHandler.GetMe)
			r.Put("/users", userHandler.Update)
			r.Get("/users/summary", userHandler.Summary)

			r.Route("/working-hours", func(r chi.Router) {
				r.Get("/", hoursHandler.List)
				r.Post("/", hoursHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", hoursHandler.Get)
					r.Put("/", hoursHandler.Update)
					r.Delete("/", hoursHandler.Delete)
				})
			})
		})
	})

	return r
}
