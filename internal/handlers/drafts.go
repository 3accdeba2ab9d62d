// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/cache"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/config"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/core"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

// Drafts groups the autosave draft handlers.
type Drafts struct {
	drafts        *core.Drafts
	feed          *cache.FeedCache
	retentionDays int
}

// NewDrafts creates the draft handler group.
func NewDrafts(drafts *core.Drafts, feed *cache.FeedCache, cfg *config.Config) *Drafts {
	return &Drafts{drafts: drafts, feed: feed, retentionDays: cfg.DraftRetentionDays}
}

type draftRequest struct {
	Data         models.DraftData `json:"draft_data"`
	TargetPostID *uuid.UUID       `json:"target_post_id,omitempty"`
}

type autosaveRequest struct {
	Data models.DraftData `json:"draft_data"`
}

type syncRequest struct {
	Entries []core.SyncEntry `json:"entries"`
}

type cleanupResponse struct {
	Removed int64 `json:"removed"`
}

// List returns the caller's drafts, most recently saved first.
func (h *Drafts) List(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	drafts, err := h.drafts.List(act)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

// Create starts a draft. With a target post the call is idempotent per
// (owner, target) and resumes the existing shadow draft.
func (h *Drafts) Create(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	var req draftRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateDraftData(req.Data.Title, req.Data.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	d, err := h.drafts.Create(act, req.Data, req.TargetPostID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// Get returns one of the caller's drafts.
func (h *Drafts) Get(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.drafts.Get(act, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Autosave overwrites the draft payload, last write wins.
func (h *Drafts) Autosave(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req autosaveRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateDraftData(req.Data.Title, req.Data.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	d, err := h.drafts.Autosave(act, id, req.Data)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CheckForPost reports whether the caller has a pending draft for the
// given post. The editor probes this on open; no draft is a 204, not an
// error.
func (h *Drafts) CheckForPost(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	postID, ok := urlID(w, r, "postID")
	if !ok {
		return
	}

	d, err := h.drafts.CheckForPost(act, &postID)
	if err != nil {
		serviceError(w, err)
		return
	}
	if d == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CheckNew reports the caller's most recent unattached draft, if any.
func (h *Drafts) CheckNew(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}

	d, err := h.drafts.CheckForPost(act, nil)
	if err != nil {
		serviceError(w, err)
		return
	}
	if d == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Sync replays a queue of offline edits. Entries succeed or fail
// independently; the response reports both sides.
func (h *Drafts) Sync(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	var req syncRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.drafts.SyncBatch(act, req.Entries)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Publish converts the draft into a post and deletes the draft. The
// draft payload may carry a PUBLISHED status, so the public feed is
// invalidated the same way a direct lifecycle transition is.
func (h *Drafts) Publish(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	post, err := h.drafts.Publish(act, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	if h.feed != nil {
		h.feed.InvalidateAll(r.Context())
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete discards one of the caller's drafts.
func (h *Drafts) Delete(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.drafts.Delete(act, id); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cleanup sweeps drafts idle longer than the retention window.
func (h *Drafts) Cleanup(w http.ResponseWriter, r *http.Request) {
	act, ok := actor(w, r)
	if !ok {
		return
	}

	removed, err := h.drafts.CleanupOlderThan(act, h.retentionDays)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cleanupResponse{Removed: removed})
}
