// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/middleware"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/session"
)

// userRequest builds a request authenticated as the given actor, with an
// optional {id} URL param and JSON body. The guard paths under test run
// before any database access, so the handler's store stays nil.
func userRequest(actor models.Actor, id string, body string) *http.Request {
	r := httptest.NewRequest("PUT", "/api/v1/users", strings.NewReader(body))
	ctx := context.WithValue(r.Context(), middleware.SessionKey, &session.Data{
		UserID: actor.ID,
		Role:   actor.Role,
	})
	rctx := chi.NewRouteContext()
	if id != "" {
		rctx.URLParams.Add("id", id)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func TestUsersListRequiresAdmin(t *testing.T) {
	h := NewUsers(nil)
	mod := models.Actor{ID: uuid.New(), Role: models.RoleModerator}

	w := httptest.NewRecorder()
	h.List(w, userRequest(mod, "", ""))

	if w.Code != http.StatusForbidden {
		t.Errorf("moderator listing users: got %d, want 403", w.Code)
	}
}

func TestUsersSetActiveRequiresAdmin(t *testing.T) {
	h := NewUsers(nil)
	mod := models.Actor{ID: uuid.New(), Role: models.RoleModerator}

	w := httptest.NewRecorder()
	h.SetActive(w, userRequest(mod, uuid.NewString(), `{"is_active":false}`))

	if w.Code != http.StatusForbidden {
		t.Errorf("moderator deactivating a user: got %d, want 403", w.Code)
	}
}

func TestUsersSetActiveRequiresFlag(t *testing.T) {
	h := NewUsers(nil)
	admin := models.Actor{ID: uuid.New(), Role: models.RoleAdmin}

	w := httptest.NewRecorder()
	h.SetActive(w, userRequest(admin, uuid.NewString(), `{}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("missing is_active: got %d, want 400", w.Code)
	}
}

func TestUsersSetActiveRejectsSelfDeactivation(t *testing.T) {
	h := NewUsers(nil)
	admin := models.Actor{ID: uuid.New(), Role: models.RoleAdmin}

	w := httptest.NewRecorder()
	h.SetActive(w, userRequest(admin, admin.ID.String(), `{"is_active":false}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("self-deactivation: got %d, want 400", w.Code)
	}
}
