// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/core"
)

// Types groups the content type registry handlers. Mutations are
// admin-gated at the router; the registry enforces the same predicate
// again underneath.
type Types struct {
	registry *core.Registry
}

// NewTypes creates the content type handler group.
func NewTypes(registry *core.Registry) *Types {
	return &Types{registry: registry}
}

type typeRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type typeUpdateRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// List returns content types in display order. ?enabled=true narrows to
// types offered for new content.
func (h *Types) List(w http.ResponseWriter, r *http.Request) {
	enabledOnly := r.URL.Query().Get("enabled") == "true"
	types, err := h.registry.List(enabledOnly)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// Create adds a custom content type.
func (h *Types) Create(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	var req typeRequest
	if !decode(w, r, &req) {
		return
	}

	ct, err := h.registry.Create(act, req.Name, req.Slug, req.Description, req.SortOrder)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ct)
}

// Update edits a content type. Absent fields are left unchanged.
func (h *Types) Update(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req typeUpdateRequest
	if !decode(w, r, &req) {
		return
	}

	ct, err := h.registry.Update(act, id, core.TypeUpdate{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

// SetEnabled toggles whether a type is offered for new content.
func (h *Types) SetEnabled(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req setEnabledRequest
	if !decode(w, r, &req) {
		return
	}

	ct, err := h.registry.SetEnabled(act, id, req.Enabled)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

// Delete removes a custom content type with no remaining references.
func (h *Types) Delete(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.registry.Delete(act, id); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
