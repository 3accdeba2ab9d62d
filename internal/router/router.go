// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains for the
// Engaged API. Routes are organized into public and staff groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/handlers"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/middleware"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/session"
)

// New creates the configured chi router with all middleware and route
// groups wired up.
func New(
	sessionStore *session.Store,
	auth *handlers.Auth,
	types *handlers.Types,
	drafts *handlers.Drafts,
	posts *handlers.Posts,
	series *handlers.Series,
	users *handlers.Users,
	public *handlers.Public,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Login carries its own rate limiter against credential guessing.
		loginLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.With(loginLimiter.Middleware).Post("/auth/login", auth.Login)
		r.Post("/auth/logout", auth.Logout)
		r.With(middleware.RequireAuth).Get("/auth/me", auth.Me)

		// Public read surface. Sessions are loaded but not required;
		// visibility rules downgrade gracefully for anonymous callers.
		r.Get("/feed", public.Feed)
		r.Get("/feed/{id}", public.Post)
		r.Post("/feed/{id}/view", public.RecordView)
		r.Get("/series", public.SeriesList)
		r.Get("/series/{ref}", public.SeriesDetail)
		r.Get("/content-types", types.List)

		// Staff surface: drafting, lifecycle, series management.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireStaff)

			r.Route("/drafts", func(r chi.Router) {
				r.Get("/", drafts.List)
				r.Post("/", drafts.Create)
				r.Post("/sync", drafts.Sync)
				r.Get("/check/new", drafts.CheckNew)
				r.Get("/check/{postID}", drafts.CheckForPost)
				r.Get("/{id}", drafts.Get)
				r.Put("/{id}", drafts.Autosave)
				r.Delete("/{id}", drafts.Delete)
				r.Post("/{id}/publish", drafts.Publish)

				// Retention sweep, admin only.
				r.With(middleware.RequireAdmin).Post("/cleanup", drafts.Cleanup)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", posts.List)
				r.Post("/", posts.Create)
				r.Get("/{id}", posts.Get)
				r.Put("/{id}", posts.Update)
				r.Post("/{id}/publish", posts.Publish)
				r.Post("/{id}/schedule", posts.Schedule)
				r.Post("/{id}/cancel-schedule", posts.CancelSchedule)
				r.Post("/{id}/unpublish", posts.Unpublish)
				r.Delete("/{id}", posts.SoftDelete)
				r.Post("/{id}/restore", posts.Restore)
			})

			r.Route("/manage/series", func(r chi.Router) {
				r.Get("/", series.List)
				r.Post("/", series.Create)
				r.Get("/{id}", series.Get)
				r.Put("/{id}", series.Update)
				r.Delete("/{id}", series.SoftDelete)
				r.Post("/{id}/restore", series.Restore)
				r.Get("/{id}/posts", series.Members)
				r.Post("/{id}/posts", series.AddPost)
				r.Delete("/{id}/posts/{postID}", series.RemovePost)
				r.Put("/{id}/posts/order", series.Reorder)
			})

			// Content type administration, admin only. Method routes,
			// not a mounted subrouter: the public listing already owns
			// GET on this path.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/content-types", types.Create)
				r.Put("/content-types/{id}", types.Update)
				r.Put("/content-types/{id}/enabled", types.SetEnabled)
				r.Delete("/content-types/{id}", types.Delete)

				// Account administration.
				r.Get("/users", users.List)
				r.Put("/users/{id}/active", users.SetActive)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
