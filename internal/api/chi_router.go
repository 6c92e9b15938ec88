// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/authz"
	"github.com/tomtom215/moviehub/internal/middleware"
)

// requestTimeout bounds non-streaming handlers.
const requestTimeout = 30 * time.Second

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
	ws            http.Handler
	uploads       http.Handler
	uploadsPrefix string
}

// NewRouter creates a router. ws serves the live feed; it may be nil.
func NewRouter(handler *Handler, authMW *auth.Middleware, authzMW *authz.Middleware, ws http.Handler) *Router {
	return &Router{
		handler:       handler,
		auth:          authMW,
		authz:         authzMW,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFrom(handler.cfg.Security)),
		ws:            ws,
	}
}

// ServeUploads mounts a file handler for locally stored images.
func (router *Router) ServeUploads(prefix string, h http.Handler) {
	router.uploadsPrefix = "/" + strings.Trim(prefix, "/")
	router.uploads = h
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Applied to every route, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Get("/", h.Index)
		r.Get("/health", h.Health)
		r.Get("/health/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if router.uploads != nil {
		r.Group(func(r chi.Router) {
			r.Use(APISecurityHeaders())
			r.Get(router.uploadsPrefix+"/*", router.uploads.ServeHTTP)
		})
	}

	base := h.cfg.Server.BasePath
	if base == "" {
		r.Group(router.apiRoutes)
	} else {
		r.Route(base, router.apiRoutes)
	}
	return r
}

// apiRoutes registers the resource routes relative to the base path.
func (router *Router) apiRoutes(r chi.Router) {
	h := router.handler
	requireAuth := router.auth.RequireAuth
	require := router.authz.Require

	r.Use(APISecurityHeaders())
	r.Use(router.chiMiddleware.RateLimit())

	if h.cfg.Server.BasePath != "" {
		r.Get("/health", h.APIHealth)
	}
	if router.ws != nil {
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket)).Get("/ws", router.ws.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))
		r.Use(MaxBodyBytes(h.cfg.Server.MaxBodyBytes))

		r.Route("/auth", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAuth))
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(requireAuth, require(authz.ObjectProfile)).Get("/profile", h.Profile)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWriteOnly())
			r.Group(func(r chi.Router) {
				r.Use(require(authz.ObjectMovies))
				r.Get("/", h.ListMovies)
				r.Get("/{id}", h.GetMovie)
			})
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, require(authz.ObjectMovies))
				r.Post("/", h.CreateMovie)
				r.Put("/{id}", h.UpdateMovie)
				r.Delete("/{id}", h.DeleteMovie)
			})
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, require(authz.ObjectVotes))
				r.Post("/{id}/vote", h.Vote)
				r.Get("/{id}/vote", h.UserVote)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWriteOnly())
			r.Group(func(r chi.Router) {
				r.Use(require(authz.ObjectComments))
				r.Get("/movies/{movieId}", h.ListComments)
				r.Get("/{id}", h.GetComment)
			})
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, require(authz.ObjectComments))
				r.Post("/movies/{movieId}", h.CreateComment)
				r.Put("/{id}", h.UpdateComment)
				r.Delete("/{id}", h.DeleteComment)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, require(authz.ObjectAdmin))
			r.Get("/stats", h.AdminStats)
			r.Get("/users", h.AdminListUsers)
			r.Get("/users/{id}", h.AdminGetUser)
			r.Put("/users/{id}", h.AdminUpdateRole)
			r.Put("/users/{id}/role", h.AdminUpdateRole)
			r.Delete("/users/{id}", h.AdminDeleteUser)
			r.Post("/movies/{id}/recount", h.AdminRecountVotes)
		})
	})
}
