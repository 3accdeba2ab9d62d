// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

// postColumns lists all columns for posts SELECTs, in scanPost order.
const postColumns = `id, title, content, content_type_id, author_id, status, published_at,
	is_featured, featured_priority, comments_enabled, reactions_enabled,
	featured_image, video_url, audio_url, series_id, series_order,
	views_count, is_deleted, deleted_at, deleted_by, created_at, updated_at`

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

func scanPost(sc scanner) (*models.Post, error) {
	p := &models.Post{}
	err := sc.Scan(
		&p.ID, &p.Title, &p.Content, &p.ContentTypeID, &p.AuthorID, &p.Status,
		&p.PublishedAt, &p.IsFeatured, &p.FeaturedPriority, &p.CommentsEnabled,
		&p.ReactionsEnabled, &p.FeaturedImage, &p.VideoURL, &p.AudioURL,
		&p.SeriesID, &p.SeriesOrder, &p.ViewsCount, &p.IsDeleted,
		&p.DeletedAt, &p.DeletedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID retrieves a post by id, including trashed posts.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	return s.findByID(s.db, id)
}

// FindByIDTx is FindByID inside a caller-managed transaction.
func (s *PostStore) FindByIDTx(tx *sql.Tx, id uuid.UUID) (*models.Post, error) {
	return s.findByID(tx, id)
}

func (s *PostStore) findByID(q dbtx, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(q.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Filter narrows a post listing. Nil fields are ignored.
type Filter struct {
	Status         *models.PostStatus
	ContentTypeID  *uuid.UUID
	AuthorID       *uuid.UUID
	SeriesID       *uuid.UUID
	IncludeDeleted bool
}

// List returns posts matching the filter, newest first.
func (s *PostStore) List(f Filter) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE TRUE`
	var args []any

	if !f.IncludeDeleted {
		query += ` AND NOT is_deleted`
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.ContentTypeID != nil {
		args = append(args, *f.ContentTypeID)
		query += ` AND content_type_id = $` + strconv.Itoa(len(args))
	}
	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		query += ` AND author_id = $` + strconv.Itoa(len(args))
	}
	if f.SeriesID != nil {
		args = append(args, *f.SeriesID)
		query += ` AND series_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// ListPublished returns live posts ordered by publish date descending,
// optionally narrowed to one content type. Used for the public feed.
func (s *PostStore) ListPublished(contentTypeID *uuid.UUID) ([]models.Post, error) {
	status := models.PostStatusPublished
	return s.List(Filter{Status: &status, ContentTypeID: contentTypeID})
}

// Create inserts a new post and returns it with generated fields.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	return s.create(s.db, p)
}

// CreateTx is Create inside a caller-managed transaction.
func (s *PostStore) CreateTx(tx *sql.Tx, p *models.Post) (*models.Post, error) {
	return s.create(tx, p)
}

func (s *PostStore) create(q dbtx, p *models.Post) (*models.Post, error) {
	created, err := scanPost(q.QueryRow(`
		INSERT INTO posts (title, content, content_type_id, author_id, status, published_at,
		                   is_featured, featured_priority, comments_enabled, reactions_enabled,
		                   featured_image, video_url, audio_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+postColumns,
		p.Title, p.Content, p.ContentTypeID, p.AuthorID, p.Status, p.PublishedAt,
		p.IsFeatured, p.FeaturedPriority, p.CommentsEnabled, p.ReactionsEnabled,
		p.FeaturedImage, p.VideoURL, p.AudioURL))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update persists the editable fields of a post. Status, publish
// timestamps, counters, trash flags, and series membership are owned by
// their dedicated operations and deliberately not touched here.
func (s *PostStore) Update(p *models.Post) (*models.Post, error) {
	return s.update(s.db, p)
}

// UpdateTx is Update inside a caller-managed transaction.
func (s *PostStore) UpdateTx(tx *sql.Tx, p *models.Post) (*models.Post, error) {
	return s.update(tx, p)
}

func (s *PostStore) update(q dbtx, p *models.Post) (*models.Post, error) {
	updated, err := scanPost(q.QueryRow(`
		UPDATE posts SET
			title = $1, content = $2, content_type_id = $3,
			is_featured = $4, featured_priority = $5,
			comments_enabled = $6, reactions_enabled = $7,
			featured_image = $8, video_url = $9, audio_url = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING `+postColumns,
		p.Title, p.Content, p.ContentTypeID,
		p.IsFeatured, p.FeaturedPriority,
		p.CommentsEnabled, p.ReactionsEnabled,
		p.FeaturedImage, p.VideoURL, p.AudioURL, p.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// SetStatus records a lifecycle transition: the new status and the
// publish timestamp that goes with it (nil clears it).
func (s *PostStore) SetStatus(id uuid.UUID, status models.PostStatus, publishedAt *time.Time) (*models.Post, error) {
	return s.setStatus(s.db, id, status, publishedAt)
}

// SetStatusTx is SetStatus inside a caller-managed transaction.
func (s *PostStore) SetStatusTx(tx *sql.Tx, id uuid.UUID, status models.PostStatus, publishedAt *time.Time) (*models.Post, error) {
	return s.setStatus(tx, id, status, publishedAt)
}

func (s *PostStore) setStatus(q dbtx, id uuid.UUID, status models.PostStatus, publishedAt *time.Time) (*models.Post, error) {
	p, err := scanPost(q.QueryRow(`
		UPDATE posts SET status = $1, published_at = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+postColumns,
		status, publishedAt, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set post status: %w", err)
	}
	return p, nil
}

// SetDeleted moves a post in or out of the trash. Status is untouched:
// trash is a visibility overlay, not a lifecycle state.
func (s *PostStore) SetDeleted(id uuid.UUID, deleted bool, by *uuid.UUID) (*models.Post, error) {
	var deletedAt *time.Time
	if deleted {
		now := time.Now()
		deletedAt = &now
	} else {
		by = nil
	}

	p, err := scanPost(s.db.QueryRow(`
		UPDATE posts SET is_deleted = $1, deleted_at = $2, deleted_by = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+postColumns,
		deleted, deletedAt, by, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set post deleted: %w", err)
	}
	return p, nil
}

// IncrementViews bumps the view counter of a live post. Returns false if
// the post is not currently visible to the public.
func (s *PostStore) IncrementViews(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE posts SET views_count = views_count + 1
		WHERE id = $1 AND status = $2 AND NOT is_deleted
	`, id, models.PostStatusPublished)
	if err != nil {
		return false, fmt.Errorf("increment post views: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment post views: %w", err)
	}
	return n > 0, nil
}

// PublishDue flips scheduled posts whose publish time has arrived to
// PUBLISHED and returns them. The stored published_at is kept as-is: it
// is already ≤ now by the WHERE clause.
func (s *PostStore) PublishDue(now time.Time) ([]models.Post, error) {
	rows, err := s.db.Query(`
		UPDATE posts SET status = $1, updated_at = NOW()
		WHERE status = $2 AND published_at IS NOT NULL AND published_at <= $3 AND NOT is_deleted
		RETURNING `+postColumns,
		models.PostStatusPublished, models.PostStatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("publish due posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Delete hard-removes a post row. Administrative cleanup only; user
// flows always go through the trash instead.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
