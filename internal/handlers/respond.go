// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API surface. Handlers stay thin:
// decode, call a core service, map the result to a status code.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/core"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/middleware"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

// errorResponse is the uniform error body of the API.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError emits the uniform error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// serviceError maps a core error to its HTTP status and writes it.
// Unknown errors are logged and returned as a bare 500.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, core.ErrDuplicateSlug),
		errors.Is(err, core.ErrSystemTypeImmutable),
		errors.Is(err, core.ErrTypeInUse),
		errors.Is(err, core.ErrInvalidTransition),
		errors.Is(err, core.ErrPostInSeries):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidSlug),
		errors.Is(err, core.ErrInvalidSchedule),
		errors.Is(err, core.ErrInvalidContentType),
		errors.Is(err, core.ErrIncompleteReorder),
		errors.Is(err, core.ErrEmptyDraft):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode unmarshals the request body into v. A malformed body writes a
// 400 and returns false.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// urlID parses the named chi URL parameter as a UUID. A bad id writes a
// 400 and returns false.
func urlID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// actor extracts the caller identity from the session. The auth
// middleware guarantees a session on protected routes; a missing one
// here means a wiring bug, answered with 401.
func actor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return models.Actor{}, false
	}
	return sess.Actor(), true
}

// optionalActor returns the caller identity if a session exists, or the
// zero Actor for anonymous callers. Public routes use this to apply
// visibility rules.
func optionalActor(r *http.Request) models.Actor {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return models.Actor{}
	}
	return sess.Actor()
}
