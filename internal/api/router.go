// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/authz"
	"github.com/tomtom215/shelfwise/internal/middleware"
)

// compressionLevel is the gzip level for JSON responses.
const compressionLevel = 5

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler *Handler
	edge    *Edge
	authn   *auth.Middleware
	authz   *authz.Middleware
}

// NewRouter creates a router. A nil edge allows no cross-origin requests
// and applies no rate limit.
func NewRouter(handler *Handler, edge *Edge, authn *auth.Middleware, authzMW *authz.Middleware) *Router {
	if edge == nil {
		edge = NewEdge(EdgeOptions{})
	}
	return &Router{
		handler: handler,
		edge:    edge,
		authn:   authn,
		authz:   authzMW,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.edge.cors) // global so OPTIONS preflight reaches it

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.edge.limit)
		r.Use(middleware.SecurityHeaders)
		r.Use(chimiddleware.AllowContentType("application/json"))
		r.Use(chimiddleware.Compress(compressionLevel, "application/json"))

		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/", router.handler.Recommend)
			r.Get("/profiles", router.handler.Profiles)
			r.Get("/users/{userID}", router.handler.UserRecommendations)
		})

		r.Post("/search/log", router.handler.LogSearch)
		r.Get("/books/search", router.handler.SearchBooks)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(router.authn.Authenticate)

			r.With(router.authz.Authorize(authz.ObjectPreferences, authz.ActionRead)).
				Get("/preferences", router.handler.GetPreferences)
			r.With(router.authz.Authorize(authz.ObjectPreferences, authz.ActionWrite)).
				Put("/preferences", router.handler.PutPreferences)
			r.With(router.authz.Authorize(authz.ObjectArtifacts, authz.ActionReload)).
				Post("/admin/artifacts/reload", router.handler.ReloadArtifacts)
		})
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
