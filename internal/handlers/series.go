// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/cache"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/core"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

// Series groups the staff series handlers.
type Series struct {
	series *core.Series
	feed   *cache.FeedCache
}

// NewSeries creates the series handler group.
func NewSeries(series *core.Series, feed *cache.FeedCache) *Series {
	return &Series{series: series, feed: feed}
}

// invalidateFeed drops the cached public feed. Membership mutations
// rewrite series_id and series_order on posts that appear in cached
// payloads, so they invalidate like post lifecycle transitions do.
func (h *Series) invalidateFeed(ctx context.Context) {
	if h.feed != nil {
		h.feed.InvalidateAll(ctx)
	}
}

type seriesRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	CoverImage       *string `json:"cover_image"`
	Visibility       string  `json:"visibility"`
	IsFeatured       bool    `json:"is_featured"`
	FeaturedPriority int     `json:"featured_priority"`
}

type addPostRequest struct {
	PostID uuid.UUID `json:"post_id"`
	Order  *int      `json:"order,omitempty"`
}

type addPostResponse struct {
	Order int `json:"order"`
}

type reorderRequest struct {
	PostIDs []uuid.UUID `json:"post_ids"`
}

// params converts the request body into service parameters, validating
// the visibility value if one was sent.
func (req *seriesRequest) params(w http.ResponseWriter) (core.SeriesParams, bool) {
	visibility := models.SeriesVisibility(req.Visibility)
	if req.Visibility != "" && !visibility.Valid() {
		writeError(w, http.StatusBadRequest, "invalid visibility")
		return core.SeriesParams{}, false
	}
	return core.SeriesParams{
		Title:            req.Title,
		Description:      req.Description,
		CoverImage:       req.CoverImage,
		Visibility:       visibility,
		IsFeatured:       req.IsFeatured,
		FeaturedPriority: req.FeaturedPriority,
	}, true
}

// List returns the series the caller may see.
func (h *Series) List(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	list, err := h.series.List(act)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create makes a new series.
func (h *Series) Create(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	var req seriesRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateSeries(req.Title, req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	params, ok := req.params(w)
	if !ok {
		return
	}

	ser, err := h.series.Create(act, params)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ser)
}

// Get returns a series for staff views, trashed included.
func (h *Series) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	ser, err := h.series.Get(id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ser)
}

// Update edits a series' fields. The slug is stable once created.
func (h *Series) Update(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req seriesRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateSeries(req.Title, req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	params, ok := req.params(w)
	if !ok {
		return
	}

	ser, err := h.series.Update(act, id, params)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ser)
}

// SoftDelete moves the series to the trash.
func (h *Series) SoftDelete(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	ser, err := h.series.SoftDelete(act, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ser)
}

// Restore brings the series back from the trash.
func (h *Series) Restore(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	ser, err := h.series.Restore(act, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ser)
}

// Members returns the ordered posts of a series.
func (h *Series) Members(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.series.Get(id); err != nil {
		serviceError(w, err)
		return
	}
	members, err := h.series.Members(id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// AddPost places a post into the series and returns its assigned order.
func (h *Series) AddPost(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req addPostRequest
	if !decode(w, r, &req) {
		return
	}
	if req.PostID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "post_id is required")
		return
	}

	order, err := h.series.AddPost(act, id, req.PostID, req.Order)
	if err != nil {
		serviceError(w, err)
		return
	}
	h.invalidateFeed(r.Context())
	writeJSON(w, http.StatusOK, addPostResponse{Order: order})
}

// RemovePost takes a post out of the series.
func (h *Series) RemovePost(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	postID, ok := urlID(w, r, "postID")
	if !ok {
		return
	}

	if err := h.series.RemovePost(act, id, postID); err != nil {
		serviceError(w, err)
		return
	}
	h.invalidateFeed(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Reorder replaces the series' full ordering with the supplied list.
func (h *Series) Reorder(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.series.Reorder(act, id, req.PostIDs); err != nil {
		serviceError(w, err)
		return
	}
	h.invalidateFeed(r.Context())
	members, err := h.series.Members(id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}
