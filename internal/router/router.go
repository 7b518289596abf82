package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/teamcook/account-api/internal/api/account"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AccountHandler         *account.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter wires the application routes. Server-wide middleware (logger,
// requestID, recoverer) are applied before mounting this router in main.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// Public routes: signup and login require no prior identity.
	r.Group(func(r chi.Router) {
		r.Post("/signup", cfg.AccountHandler.Signup)
		r.Post("/login", cfg.AccountHandler.Login)
	})

	// Protected routes: every request passes through the identity resolver.
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)

		r.Get("/users/me", cfg.AccountHandler.ReadSelf)
		r.Delete("/users/me", cfg.AccountHandler.DeleteSelf)
	})

	return r
}
