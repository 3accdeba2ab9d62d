// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package core

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/policy"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/store"
)

// Drafts owns the autosave lifecycle. Drafts are strictly private to
// their owner (not even admins read another user's draft buffers), and
// a draft targeting an existing post is unique per (owner, post), so an
// author can never fork two divergent shadow copies.
type Drafts struct {
	db        *sql.DB
	drafts    *store.DraftStore
	posts     *store.PostStore
	registry  *Registry
	lifecycle *Posts
}

// NewDrafts creates the draft service.
func NewDrafts(db *sql.DB, drafts *store.DraftStore, posts *store.PostStore, registry *Registry, lifecycle *Posts) *Drafts {
	return &Drafts{db: db, drafts: drafts, posts: posts, registry: registry, lifecycle: lifecycle}
}

// Create starts (or resumes) a draft. With a target post, the call is
// idempotent by (owner, target): when a shadow draft already exists it is
// updated and returned instead of a duplicate being created. Without a
// target, a fresh unattached draft is created each time.
func (s *Drafts) Create(actor models.Actor, data models.DraftData, targetPostID *uuid.UUID) (*models.Draft, error) {
	if !policy.CanCreateContent(actor) {
		return nil, ErrForbidden
	}
	if err := s.validateTypeRef(data.ContentType); err != nil {
		return nil, err
	}

	if targetPostID == nil {
		return s.drafts.Insert(actor.ID, data)
	}

	post, err := s.posts.FindByID(*targetPostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("target post: %w", ErrNotFound)
	}
	if !policy.CanModifyPost(actor, post) {
		return nil, ErrForbidden
	}

	return s.drafts.UpsertForTarget(actor.ID, *targetPostID, data)
}

// Autosave overwrites the draft payload. Safe at high frequency and
// strictly last-write-wins: concurrent partial edits are not merged, and
// a stale version number is not rejected.
func (s *Drafts) Autosave(actor models.Actor, id uuid.UUID, data models.DraftData) (*models.Draft, error) {
	if _, err := s.owned(actor, id); err != nil {
		return nil, err
	}
	if err := s.validateTypeRef(data.ContentType); err != nil {
		return nil, err
	}

	d, err := s.drafts.Autosave(id, data)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("draft: %w", ErrNotFound)
	}
	return d, nil
}

// Get retrieves one of the actor's drafts.
func (s *Drafts) Get(actor models.Actor, id uuid.UUID) (*models.Draft, error) {
	return s.owned(actor, id)
}

// List returns the actor's drafts, most recently saved first.
func (s *Drafts) List(actor models.Actor) ([]models.Draft, error) {
	return s.drafts.ListByOwner(actor.ID)
}

// CheckForPost reports whether the actor has a pending draft: for a
// specific post when targetPostID is set, otherwise the most recent
// unattached draft. Returns nil (no error) when there is none; the
// editor probes this on open.
func (s *Drafts) CheckForPost(actor models.Actor, targetPostID *uuid.UUID) (*models.Draft, error) {
	if targetPostID != nil {
		return s.drafts.FindForTarget(actor.ID, *targetPostID)
	}
	return s.drafts.LatestUnattached(actor.ID)
}

// SyncEntry is one queued offline edit replayed by a client.
type SyncEntry struct {
	Data         models.DraftData `json:"draft_data"`
	TargetPostID *uuid.UUID       `json:"target_post_id,omitempty"`
}

// SyncError reports why one entry of a batch failed.
type SyncError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// SyncResult summarizes a batch sync: ids written, per-entry failures.
type SyncResult struct {
	Synced []uuid.UUID `json:"synced"`
	Errors []SyncError `json:"errors"`
}

// SyncBatch replays a queue of offline drafts. Entries are processed
// independently: one bad entry is reported and skipped, never blocking
// the rest.
func (s *Drafts) SyncBatch(actor models.Actor, entries []SyncEntry) (*SyncResult, error) {
	if !policy.CanCreateContent(actor) {
		return nil, ErrForbidden
	}

	result := &SyncResult{}
	for i, entry := range entries {
		d, err := s.Create(actor, entry.Data, entry.TargetPostID)
		if err != nil {
			result.Errors = append(result.Errors, SyncError{Index: i, Reason: err.Error()})
			continue
		}
		result.Synced = append(result.Synced, d.ID)
	}
	return result, nil
}

// Publish converts the draft into a post and deletes the draft, in one
// transaction. On any failure the transaction rolls back and the draft
// survives untouched, so user work is never lost to a failed publish.
func (s *Drafts) Publish(actor models.Actor, id uuid.UUID) (*models.Post, error) {
	draft, err := s.owned(actor, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("publish draft: begin: %w", err)
	}
	defer tx.Rollback()

	post, err := s.lifecycle.publishFromDraft(tx, actor, draft)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.DeleteTx(tx, draft.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("publish draft: commit: %w", err)
	}

	slog.Info("draft published",
		"draft_id", draft.ID,
		"post_id", post.ID,
		"new_post", draft.TargetPostID == nil,
	)
	return post, nil
}

// Delete discards one of the actor's drafts.
func (s *Drafts) Delete(actor models.Actor, id uuid.UUID) error {
	if _, err := s.owned(actor, id); err != nil {
		return err
	}
	return s.drafts.Delete(id)
}

// CleanupOlderThan removes drafts idle longer than the retention window
// and returns how many were swept. Admin only.
func (s *Drafts) CleanupOlderThan(actor models.Actor, days int) (int64, error) {
	if actor.Role != models.RoleAdmin {
		return 0, ErrForbidden
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	n, err := s.drafts.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, err
	}
	slog.Info("draft retention sweep", "removed", n, "older_than_days", days)
	return n, nil
}

// owned fetches a draft and enforces strict ownership.
func (s *Drafts) owned(actor models.Actor, id uuid.UUID) (*models.Draft, error) {
	d, err := s.drafts.FindByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("draft: %w", ErrNotFound)
	}
	if d.OwnerID != actor.ID {
		return nil, ErrForbidden
	}
	return d, nil
}

// validateTypeRef resolves a non-empty content type reference. Disabled
// types pass; a draft of an older post may legitimately carry one.
func (s *Drafts) validateTypeRef(ref string) error {
	if ref == "" {
		return nil
	}
	if _, err := s.registry.Resolve(ref); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%q: %w", ref, ErrInvalidContentType)
		}
		return err
	}
	return nil
}
