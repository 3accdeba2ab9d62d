// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

const seriesColumns = `id, title, slug, description, cover_image, author_id, visibility,
	is_featured, featured_priority, total_views, is_deleted, deleted_at, deleted_by,
	created_at, updated_at`

// SeriesStore handles persistence for series and their post membership.
// Membership lives on the posts table (series_id, series_order); every
// operation that renumbers members runs in a single transaction and
// serializes on the series row, so the dense 1..N ordering is never
// observable half-applied.
type SeriesStore struct {
	db *sql.DB
}

// NewSeriesStore creates a SeriesStore backed by the given database.
func NewSeriesStore(db *sql.DB) *SeriesStore {
	return &SeriesStore{db: db}
}

func scanSeries(sc scanner) (*models.Series, error) {
	ser := &models.Series{}
	err := sc.Scan(
		&ser.ID, &ser.Title, &ser.Slug, &ser.Description, &ser.CoverImage,
		&ser.AuthorID, &ser.Visibility, &ser.IsFeatured, &ser.FeaturedPriority,
		&ser.TotalViews, &ser.IsDeleted, &ser.DeletedAt, &ser.DeletedBy,
		&ser.CreatedAt, &ser.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ser, nil
}

// FindByID retrieves a series by id, including trashed ones.
// Returns nil if not found.
func (s *SeriesStore) FindByID(id uuid.UUID) (*models.Series, error) {
	ser, err := scanSeries(s.db.QueryRow(`SELECT `+seriesColumns+` FROM series WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find series by id: %w", err)
	}
	return ser, nil
}

// FindBySlug retrieves a non-trashed series by slug. Returns nil if not found.
func (s *SeriesStore) FindBySlug(slug string) (*models.Series, error) {
	ser, err := scanSeries(s.db.QueryRow(`
		SELECT `+seriesColumns+` FROM series WHERE slug = $1 AND NOT is_deleted
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find series by slug: %w", err)
	}
	return ser, nil
}

// SlugExists reports whether any series row (trashed included) holds the slug.
func (s *SeriesStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM series WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("series slug exists: %w", err)
	}
	return exists, nil
}

// List returns series newest first. Hidden series are filtered out unless
// includeHidden is set; trashed series unless includeDeleted is set.
func (s *SeriesStore) List(includeHidden, includeDeleted bool) ([]models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE TRUE`
	if !includeDeleted {
		query += ` AND NOT is_deleted`
	}
	if !includeHidden {
		query += ` AND visibility <> 'HIDDEN'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []models.Series
	for rows.Next() {
		ser, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, *ser)
	}
	return out, rows.Err()
}

// Create inserts a new series and returns it.
func (s *SeriesStore) Create(ser *models.Series) (*models.Series, error) {
	created, err := scanSeries(s.db.QueryRow(`
		INSERT INTO series (title, slug, description, cover_image, author_id, visibility,
		                    is_featured, featured_priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+seriesColumns,
		ser.Title, ser.Slug, ser.Description, ser.CoverImage, ser.AuthorID,
		ser.Visibility, ser.IsFeatured, ser.FeaturedPriority))
	if err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}
	return created, nil
}

// Update persists the editable fields of a series.
func (s *SeriesStore) Update(ser *models.Series) (*models.Series, error) {
	updated, err := scanSeries(s.db.QueryRow(`
		UPDATE series SET
			title = $1, description = $2, cover_image = $3, visibility = $4,
			is_featured = $5, featured_priority = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+seriesColumns,
		ser.Title, ser.Description, ser.CoverImage, ser.Visibility,
		ser.IsFeatured, ser.FeaturedPriority, ser.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update series: %w", err)
	}
	return updated, nil
}

// SetDeleted moves a series in or out of the trash. Member posts keep
// their membership either way; a restored series comes back intact.
func (s *SeriesStore) SetDeleted(id uuid.UUID, deleted bool, by *uuid.UUID) (*models.Series, error) {
	var deletedAt *time.Time
	if deleted {
		now := time.Now()
		deletedAt = &now
	} else {
		by = nil
	}

	ser, err := scanSeries(s.db.QueryRow(`
		UPDATE series SET is_deleted = $1, deleted_at = $2, deleted_by = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+seriesColumns,
		deleted, deletedAt, by, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set series deleted: %w", err)
	}
	return ser, nil
}

// Members returns the series' posts ordered by series_order ascending.
func (s *SeriesStore) Members(seriesID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+` FROM posts
		WHERE series_id = $1
		ORDER BY series_order ASC
	`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list series members: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series member: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// AddPost puts a post into the series at the requested position and
// returns the assigned order. With no requested position the post is
// appended; otherwise existing members at or after the position shift up
// by one so the sequence stays dense. Returns ErrPostInSeries if the post
// already belongs to a series.
func (s *SeriesStore) AddPost(seriesID, postID uuid.UUID, requested *int) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("add post to series: begin: %w", err)
	}
	defer tx.Rollback()

	order, err := s.addPost(tx, seriesID, postID, requested)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add post to series: commit: %w", err)
	}
	return order, nil
}

// AddPostTx is AddPost inside a caller-managed transaction. The
// publish-from-draft flow uses it so post creation and series placement
// commit together.
func (s *SeriesStore) AddPostTx(tx *sql.Tx, seriesID, postID uuid.UUID, requested *int) (int, error) {
	return s.addPost(tx, seriesID, postID, requested)
}

func (s *SeriesStore) addPost(tx *sql.Tx, seriesID, postID uuid.UUID, requested *int) (int, error) {
	if err := s.lockSeries(tx, seriesID); err != nil {
		return 0, err
	}

	var maxOrder int
	err := tx.QueryRow(`
		SELECT COALESCE(MAX(series_order), 0) FROM posts WHERE series_id = $1
	`, seriesID).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("series max order: %w", err)
	}

	order := maxOrder + 1
	if requested != nil {
		order = *requested
		if order < 1 {
			order = 1
		}
		if order > maxOrder+1 {
			order = maxOrder + 1
		}
	}

	// Make room: shift members at or after the slot up by one.
	if order <= maxOrder {
		_, err = tx.Exec(`
			UPDATE posts SET series_order = series_order + 1
			WHERE series_id = $1 AND series_order >= $2
		`, seriesID, order)
		if err != nil {
			return 0, fmt.Errorf("shift series members: %w", err)
		}
	}

	// The series_id IS NULL guard re-checks membership under the lock;
	// a rollback reverts the shift above if the post raced into a series.
	res, err := tx.Exec(`
		UPDATE posts SET series_id = $1, series_order = $2, updated_at = NOW()
		WHERE id = $3 AND series_id IS NULL
	`, seriesID, order, postID)
	if err != nil {
		return 0, fmt.Errorf("assign series membership: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("assign series membership: %w", err)
	}
	if n == 0 {
		return 0, ErrPostInSeries
	}
	return order, nil
}

// RemovePost takes a post out of the series and renumbers the members
// that followed it, keeping the sequence dense. Returns ErrNotInSeries
// if the post is not a member.
func (s *SeriesStore) RemovePost(seriesID, postID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("remove post from series: begin: %w", err)
	}
	defer tx.Rollback()

	if err := s.lockSeries(tx, seriesID); err != nil {
		return err
	}

	var removed int
	err = tx.QueryRow(`
		UPDATE posts SET series_id = NULL, series_order = NULL, updated_at = NOW()
		WHERE id = $1 AND series_id = $2
		RETURNING series_order
	`, postID, seriesID).Scan(&removed)
	if err == sql.ErrNoRows {
		return ErrNotInSeries
	}
	if err != nil {
		return fmt.Errorf("clear series membership: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE posts SET series_order = series_order - 1
		WHERE series_id = $1 AND series_order > $2
	`, seriesID, removed)
	if err != nil {
		return fmt.Errorf("renumber series members: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("remove post from series: commit: %w", err)
	}
	return nil
}

// Reorder replaces the series' entire ordering with the supplied post id
// sequence. The list must contain exactly the current members, each once;
// otherwise ErrMembershipMismatch is returned and nothing changes.
func (s *SeriesStore) Reorder(seriesID uuid.UUID, orderedPostIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("reorder series: begin: %w", err)
	}
	defer tx.Rollback()

	if err := s.lockSeries(tx, seriesID); err != nil {
		return err
	}

	rows, err := tx.Query(`SELECT id FROM posts WHERE series_id = $1`, seriesID)
	if err != nil {
		return fmt.Errorf("reorder series: members: %w", err)
	}
	current := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("reorder series: scan member: %w", err)
		}
		current[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reorder series: members: %w", err)
	}

	// Exact-set check: no silent drops, no duplicates, no strangers.
	if len(orderedPostIDs) != len(current) {
		return ErrMembershipMismatch
	}
	seen := make(map[uuid.UUID]bool, len(orderedPostIDs))
	for _, id := range orderedPostIDs {
		if !current[id] || seen[id] {
			return ErrMembershipMismatch
		}
		seen[id] = true
	}

	for i, id := range orderedPostIDs {
		_, err := tx.Exec(`
			UPDATE posts SET series_order = $1, updated_at = NOW()
			WHERE id = $2 AND series_id = $3
		`, i+1, id, seriesID)
		if err != nil {
			return fmt.Errorf("reorder series: assign order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reorder series: commit: %w", err)
	}
	return nil
}

// RefreshTotalViews recomputes the cached per-series view total from its
// members. Called after view increments on member posts.
func (s *SeriesStore) RefreshTotalViews(seriesID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE series SET total_views = (
			SELECT COALESCE(SUM(views_count), 0) FROM posts
			WHERE series_id = $1 AND NOT is_deleted
		)
		WHERE id = $1
	`, seriesID)
	if err != nil {
		return fmt.Errorf("refresh series views: %w", err)
	}
	return nil
}

// lockSeries takes a row lock on the series, serializing concurrent
// membership operations for it.
func (s *SeriesStore) lockSeries(tx *sql.Tx, seriesID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(`SELECT id FROM series WHERE id = $1 FOR UPDATE`, seriesID).Scan(&id)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("lock series: %w", err)
	}
	return nil
}
