// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

const typeColumns = `id, slug, name, description, is_system, is_enabled, sort_order, created_at, updated_at`

// ContentTypeStore handles persistence for the content type registry.
type ContentTypeStore struct {
	db *sql.DB
}

// NewContentTypeStore creates a ContentTypeStore backed by the given database.
func NewContentTypeStore(db *sql.DB) *ContentTypeStore {
	return &ContentTypeStore{db: db}
}

func scanContentType(sc scanner) (*models.ContentType, error) {
	t := &models.ContentType{}
	err := sc.Scan(
		&t.ID, &t.Slug, &t.Name, &t.Description, &t.IsSystem,
		&t.IsEnabled, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FindByID retrieves a content type by id. Returns nil if not found.
// Disabled types are returned too: existing posts must keep resolving.
func (s *ContentTypeStore) FindByID(id uuid.UUID) (*models.ContentType, error) {
	t, err := scanContentType(s.db.QueryRow(`
		SELECT `+typeColumns+` FROM content_types WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content type by id: %w", err)
	}
	return t, nil
}

// FindBySlug retrieves a content type by slug, case-insensitively.
// Returns nil if not found.
func (s *ContentTypeStore) FindBySlug(slug string) (*models.ContentType, error) {
	t, err := scanContentType(s.db.QueryRow(`
		SELECT `+typeColumns+` FROM content_types WHERE slug = LOWER($1)
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content type by slug: %w", err)
	}
	return t, nil
}

// List returns content types ordered by sort_order then name. When
// enabledOnly is true, disabled types are filtered out; this is the
// query behind selection dropdowns for new content.
func (s *ContentTypeStore) List(enabledOnly bool) ([]models.ContentType, error) {
	query := `SELECT ` + typeColumns + ` FROM content_types`
	if enabledOnly {
		query += ` WHERE is_enabled`
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list content types: %w", err)
	}
	defer rows.Close()

	var types []models.ContentType
	for rows.Next() {
		t, err := scanContentType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content type: %w", err)
		}
		types = append(types, *t)
	}
	return types, rows.Err()
}

// Create inserts a new custom content type and returns it.
func (s *ContentTypeStore) Create(slug, name, description string, sortOrder int) (*models.ContentType, error) {
	t, err := scanContentType(s.db.QueryRow(`
		INSERT INTO content_types (slug, name, description, is_system, is_enabled, sort_order)
		VALUES ($1, $2, $3, FALSE, TRUE, $4)
		RETURNING `+typeColumns,
		slug, name, description, sortOrder))
	if err != nil {
		return nil, fmt.Errorf("create content type: %w", err)
	}
	return t, nil
}

// Update persists the mutable fields of a content type.
func (s *ContentTypeStore) Update(t *models.ContentType) error {
	_, err := s.db.Exec(`
		UPDATE content_types SET
			slug = $1, name = $2, description = $3, sort_order = $4,
			updated_at = NOW()
		WHERE id = $5
	`, t.Slug, t.Name, t.Description, t.SortOrder, t.ID)
	if err != nil {
		return fmt.Errorf("update content type: %w", err)
	}
	return nil
}

// SetEnabled toggles whether a type appears in selection lists.
func (s *ContentTypeStore) SetEnabled(id uuid.UUID, enabled bool) error {
	_, err := s.db.Exec(`
		UPDATE content_types SET is_enabled = $1, updated_at = NOW() WHERE id = $2
	`, enabled, id)
	if err != nil {
		return fmt.Errorf("set content type enabled: %w", err)
	}
	return nil
}

// Delete removes a content type row.
func (s *ContentTypeStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM content_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content type: %w", err)
	}
	return nil
}

// CountReferences returns how many posts reference the type. Soft-deleted
// posts count: trash is reversible, so a trashed post still pins its type.
func (s *ContentTypeStore) CountReferences(id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE content_type_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count content type references: %w", err)
	}
	return count, nil
}
