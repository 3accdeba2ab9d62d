// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/cache"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/core"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/store"
)

// Posts groups the staff post handlers. Lifecycle transitions invalidate
// the public feed cache, so readers never see a stale published set.
type Posts struct {
	posts *core.Posts
	feed  *cache.FeedCache
}

// NewPosts creates the post handler group.
func NewPosts(posts *core.Posts, feed *cache.FeedCache) *Posts {
	return &Posts{posts: posts, feed: feed}
}

type postRequest struct {
	Title            string  `json:"title"`
	Content          string  `json:"content"`
	ContentType      string  `json:"content_type"` // type id or slug
	IsFeatured       bool    `json:"is_featured"`
	FeaturedPriority int     `json:"featured_priority"`
	CommentsEnabled  *bool   `json:"comments_enabled"`
	ReactionsEnabled *bool   `json:"reactions_enabled"`
	FeaturedImage    *string `json:"featured_image"`
	VideoURL         *string `json:"video_url"`
	AudioURL         *string `json:"audio_url"`
}

type scheduleRequest struct {
	PublishAt time.Time `json:"publish_at"`
}

// params converts the request body into service parameters. Engagement
// flags default to enabled when absent.
func (req *postRequest) params() core.PostParams {
	enabled := func(b *bool) bool {
		if b == nil {
			return true
		}
		return *b
	}
	return core.PostParams{
		Title:            req.Title,
		Content:          req.Content,
		ContentTypeRef:   req.ContentType,
		IsFeatured:       req.IsFeatured,
		FeaturedPriority: req.FeaturedPriority,
		CommentsEnabled:  enabled(req.CommentsEnabled),
		ReactionsEnabled: enabled(req.ReactionsEnabled),
		FeaturedImage:    req.FeaturedImage,
		VideoURL:         req.VideoURL,
		AudioURL:         req.AudioURL,
	}
}

// validate checks the request's field limits and media URLs.
func (req *postRequest) validate() string {
	if msg := validatePost(req.Title, req.Content); msg != "" {
		return msg
	}
	for _, u := range []*string{req.FeaturedImage, req.VideoURL, req.AudioURL} {
		if u == nil {
			continue
		}
		if msg := validateMediaURL(*u); msg != "" {
			return msg
		}
	}
	return ""
}

// List returns posts matching the query filters: status, type, author,
// series, and include_deleted for trash views.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}

	var f store.Filter
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := models.PostStatus(v)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		f.Status = &status
	}
	for param, dst := range map[string]**uuid.UUID{
		"type":   &f.ContentTypeID,
		"author": &f.AuthorID,
		"series": &f.SeriesID,
	} {
		if v := q.Get(param); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid "+param)
				return
			}
			*dst = &id
		}
	}
	f.IncludeDeleted = q.Get("include_deleted") == "true"

	posts, err := h.posts.List(act, f)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Create makes a new post in DRAFT status.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	var req postRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := h.posts.Create(act, req.params())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Get returns a post for staff views, trashed included.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	post, err := h.posts.Get(id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Update applies direct edits to a post's fields.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req postRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := h.posts.Update(act, id, req.params())
	if err != nil {
		serviceError(w, err)
		return
	}
	h.invalidateFeed(r.Context())
	writeJSON(w, http.StatusOK, post)
}

// Publish moves the post to PUBLISHED immediately.
func (h *Posts) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.posts.PublishNow)
}

// Schedule queues the post for a future publish time.
func (h *Posts) Schedule(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req scheduleRequest
	if !decode(w, r, &req) {
		return
	}

	post, err := h.posts.Schedule(act, id, req.PublishAt)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// CancelSchedule reverts a scheduled post to DRAFT.
func (h *Posts) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.posts.CancelSchedule)
}

// Unpublish takes a live post back to DRAFT.
func (h *Posts) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.posts.Unpublish)
}

// SoftDelete moves the post to the trash.
func (h *Posts) SoftDelete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.posts.SoftDelete)
}

// Restore brings the post back from the trash.
func (h *Posts) Restore(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.posts.Restore)
}

// transition runs a no-body lifecycle operation and invalidates the
// public feed, since every one of them can change what is live.
func (h *Posts) transition(w http.ResponseWriter, r *http.Request, op func(models.Actor, uuid.UUID) (*models.Post, error)) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	post, err := op(act, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	h.invalidateFeed(r.Context())
	writeJSON(w, http.StatusOK, post)
}

func (h *Posts) invalidateFeed(ctx context.Context) {
	if h.feed != nil {
		h.feed.InvalidateAll(ctx)
	}
}
