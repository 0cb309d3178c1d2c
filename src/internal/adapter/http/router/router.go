package router

import (
	"net/http"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/http/middleware"
	"github.com/rs/cors"
)

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type Options struct {
	AllowedOrigins []string
	AuthMiddleware func(http.Handler) http.Handler
}

// New mounts the controllers on one mux. Health and docs stay outside the
// auth middleware; every route gets CORS and the account identity header.
func New(
	transferController RouteRegistrar,
	accountController RouteRegistrar,
	healthController RouteRegistrar,
	opts Options,
) http.Handler {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	if transferController != nil {
		transferController.RegisterRoutes(mux, opts.AuthMiddleware)
	}
	if accountController != nil {
		accountController.RegisterRoutes(mux, opts.AuthMiddleware)
	}
	if healthController != nil {
		healthController.RegisterRoutes(mux, nil)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Auth-Token", middleware.AccountIDHeader},
		MaxAge:         86400,
	})

	return corsHandler.Handler(middleware.AccountIdentity(mux))
}
