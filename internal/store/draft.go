// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

const draftColumns = `id, owner_id, target_post_id, draft_data, version, created_at, last_autosave_at`

// DraftStore handles persistence for autosaved drafts.
type DraftStore struct {
	db *sql.DB
}

// NewDraftStore creates a DraftStore backed by the given database.
func NewDraftStore(db *sql.DB) *DraftStore {
	return &DraftStore{db: db}
}

func scanDraft(sc scanner) (*models.Draft, error) {
	d := &models.Draft{}
	var raw []byte
	err := sc.Scan(&d.ID, &d.OwnerID, &d.TargetPostID, &raw, &d.Version, &d.CreatedAt, &d.LastAutosaveAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &d.Data); err != nil {
		return nil, fmt.Errorf("decode draft data: %w", err)
	}
	return d, nil
}

// Insert creates a draft with no target post (a brand-new post in
// progress). Multiple unattached drafts per owner are allowed.
func (s *DraftStore) Insert(ownerID uuid.UUID, data models.DraftData) (*models.Draft, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode draft data: %w", err)
	}

	d, err := scanDraft(s.db.QueryRow(`
		INSERT INTO drafts (owner_id, draft_data)
		VALUES ($1, $2)
		RETURNING `+draftColumns,
		ownerID, raw))
	if err != nil {
		return nil, fmt.Errorf("insert draft: %w", err)
	}
	return d, nil
}

// UpsertForTarget creates the shadow draft for (owner, target post), or,
// if one already exists, overwrites its payload and bumps its version.
// The partial unique index on (owner_id, target_post_id) makes this
// atomic under concurrent requests: two racing calls converge on a
// single row instead of forking divergent copies.
func (s *DraftStore) UpsertForTarget(ownerID, targetPostID uuid.UUID, data models.DraftData) (*models.Draft, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode draft data: %w", err)
	}

	d, err := scanDraft(s.db.QueryRow(`
		INSERT INTO drafts (owner_id, target_post_id, draft_data)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, target_post_id) WHERE target_post_id IS NOT NULL
		DO UPDATE SET
			draft_data = EXCLUDED.draft_data,
			version = drafts.version + 1,
			last_autosave_at = NOW()
		RETURNING `+draftColumns,
		ownerID, targetPostID, raw))
	if err != nil {
		return nil, fmt.Errorf("upsert draft for target: %w", err)
	}
	return d, nil
}

// Autosave overwrites the draft payload, last write wins. No merge is
// attempted and no version check rejects the write: the version counter
// exists for observability only.
func (s *DraftStore) Autosave(id uuid.UUID, data models.DraftData) (*models.Draft, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode draft data: %w", err)
	}

	d, err := scanDraft(s.db.QueryRow(`
		UPDATE drafts SET draft_data = $1, version = version + 1, last_autosave_at = NOW()
		WHERE id = $2
		RETURNING `+draftColumns,
		raw, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("autosave draft: %w", err)
	}
	return d, nil
}

// FindByID retrieves a draft by id. Returns nil if not found.
func (s *DraftStore) FindByID(id uuid.UUID) (*models.Draft, error) {
	d, err := scanDraft(s.db.QueryRow(`SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find draft by id: %w", err)
	}
	return d, nil
}

// ListByOwner returns the owner's drafts, most recently saved first.
func (s *DraftStore) ListByOwner(ownerID uuid.UUID) ([]models.Draft, error) {
	rows, err := s.db.Query(`
		SELECT `+draftColumns+` FROM drafts
		WHERE owner_id = $1
		ORDER BY last_autosave_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []models.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, *d)
	}
	return drafts, rows.Err()
}

// FindForTarget returns the owner's shadow draft for a post, or nil.
func (s *DraftStore) FindForTarget(ownerID, targetPostID uuid.UUID) (*models.Draft, error) {
	d, err := scanDraft(s.db.QueryRow(`
		SELECT `+draftColumns+` FROM drafts
		WHERE owner_id = $1 AND target_post_id = $2
	`, ownerID, targetPostID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find draft for target: %w", err)
	}
	return d, nil
}

// LatestUnattached returns the owner's most recently saved draft that has
// no target post, or nil. Backs the "resume where you left off" check
// when opening the new-post editor.
func (s *DraftStore) LatestUnattached(ownerID uuid.UUID) (*models.Draft, error) {
	d, err := scanDraft(s.db.QueryRow(`
		SELECT `+draftColumns+` FROM drafts
		WHERE owner_id = $1 AND target_post_id IS NULL
		ORDER BY last_autosave_at DESC
		LIMIT 1
	`, ownerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest unattached draft: %w", err)
	}
	return d, nil
}

// Delete removes a draft by id.
func (s *DraftStore) Delete(id uuid.UUID) error {
	return s.deleteIn(s.db, id)
}

// DeleteTx is Delete inside a caller-managed transaction. The publish
// flow uses it so the draft disappears only if the post write commits.
func (s *DraftStore) DeleteTx(tx *sql.Tx, id uuid.UUID) error {
	return s.deleteIn(tx, id)
}

func (s *DraftStore) deleteIn(q dbtx, id uuid.UUID) error {
	_, err := q.Exec(`DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// DeleteOlderThan removes drafts not autosaved since the cutoff and
// returns how many were removed. Backs the retention sweep.
func (s *DraftStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM drafts WHERE last_autosave_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old drafts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete old drafts: %w", err)
	}
	return n, nil
}
