// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/cache"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/core"
)

// Public groups the unauthenticated read surface: the published feed,
// single published posts, and visible series. Feed responses are cached
// in Valkey; lifecycle transitions invalidate the cache.
type Public struct {
	posts  *core.Posts
	series *core.Series
	feed   *cache.FeedCache
}

// NewPublic creates the public handler group.
func NewPublic(posts *core.Posts, series *core.Series, feed *cache.FeedCache) *Public {
	return &Public{posts: posts, series: series, feed: feed}
}

// Feed returns the live posts, newest first. ?type= narrows by content
// type id. Anonymous responses are served from cache when possible.
func (h *Public) Feed(w http.ResponseWriter, r *http.Request) {
	var typeID *uuid.UUID
	cacheKey := "posts:all"
	if v := r.URL.Query().Get("type"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid type")
			return
		}
		typeID = &id
		cacheKey = "posts:type:" + v
	}

	if h.feed != nil {
		if payload, ok := h.feed.Get(r.Context(), cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	posts, err := h.posts.ListPublished(typeID)
	if err != nil {
		serviceError(w, err)
		return
	}

	payload, err := json.Marshal(posts)
	if err != nil {
		slog.Error("feed encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if h.feed != nil {
		h.feed.Set(r.Context(), cacheKey, payload)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Post returns one live post.
func (h *Public) Post(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	post, err := h.posts.GetPublished(id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// RecordView bumps a live post's view counter. Fire-and-forget from the
// client's perspective; the response carries no body.
func (h *Public) RecordView(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.posts.RecordView(id); err != nil {
		slog.Error("record view failed", "post_id", id, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// SeriesList returns the series visible to the caller.
func (h *Public) SeriesList(w http.ResponseWriter, r *http.Request) {
	list, err := h.series.List(optionalActor(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// SeriesDetail returns one visible series by id or slug, with its live
// posts in order.
func (h *Public) SeriesDetail(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	ser, err := h.series.GetVisible(optionalActor(r), ref)
	if err != nil {
		serviceError(w, err)
		return
	}
	members, err := h.series.PublishedMembers(ser.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"series": ser,
		"posts":  members,
	})
}
