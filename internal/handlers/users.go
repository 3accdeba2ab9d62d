// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/policy"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/store"
)

// Users groups the admin user-administration handlers.
type Users struct {
	users *store.UserStore
}

// NewUsers creates the user administration handler group.
func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// List returns every account, oldest first.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	if !policy.CanManageUsers(act) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	users, err := h.users.List()
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// SetActive enables or disables an account. Admins cannot deactivate
// their own account.
func (h *Users) SetActive(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	if !policy.CanManageUsers(act) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req setActiveRequest
	if !decode(w, r, &req) {
		return
	}
	if req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "is_active is required")
		return
	}
	if id == act.ID && !*req.IsActive {
		writeError(w, http.StatusBadRequest, "cannot deactivate your own account")
		return
	}

	u, err := h.users.FindByID(id)
	if err != nil {
		serviceError(w, err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.users.SetActive(id, *req.IsActive); err != nil {
		serviceError(w, err)
		return
	}
	u.IsActive = *req.IsActive
	writeJSON(w, http.StatusOK, u)
}
