/**
 * @description
 * This file sets up the HTTP router for the ledger-service using the
 * go-chi/chi router. It defines the API routes and applies middleware for
 * logging, panic recovery, timeouts, CORS, and optional rate limiting.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appmiddleware "github.com/transfa/ledger-service/pkg/middleware"
)

// AccountRoutes creates and returns the router for the ledger service.
// rateLimitPerMinute of 0 disables rate limiting.
func AccountRoutes(h *AccountHandlers, rateLimitPerMinute int) http.Handler {
	r := chi.NewRouter()

	// Standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))
	if rateLimitPerMinute > 0 {
		r.Use(appmiddleware.RateLimitMiddleware(rateLimitPerMinute))
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Post("/", h.CreateAccountHandler)
	r.Post("/transfer", h.TransferHandler)
	r.Post("/savings/yield-interest", h.YieldSavingsInterestHandler)

	r.Route("/{number}", func(r chi.Router) {
		r.Get("/", h.GetAccountHandler)
		r.Get("/balance", h.GetBalanceHandler)
		r.Post("/debit", h.DebitHandler)
		r.Post("/credit", h.CreditHandler)
		r.Post("/yield-interest", h.YieldInterestHandler)
	})

	return r
}
