// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package core

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/policy"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/store"
)

// Posts owns the lifecycle state machine for published and publishable
// content: DRAFT → SCHEDULED → PUBLISHED, with the trash flag as an
// orthogonal overlay. Every transition re-resolves the post's content
// type through the registry, and every mutation passes an authorization
// predicate first.
type Posts struct {
	db       *sql.DB
	posts    *store.PostStore
	series   *store.SeriesStore
	registry *Registry
}

// NewPosts creates the post lifecycle service.
func NewPosts(db *sql.DB, posts *store.PostStore, series *store.SeriesStore, registry *Registry) *Posts {
	return &Posts{db: db, posts: posts, series: series, registry: registry}
}

// PostParams carries the editable fields of a post.
type PostParams struct {
	Title            string
	Content          string
	ContentTypeRef   string // type id or slug
	IsFeatured       bool
	FeaturedPriority int
	CommentsEnabled  bool
	ReactionsEnabled bool
	FeaturedImage    *string
	VideoURL         *string
	AudioURL         *string
}

// Create makes a new post in DRAFT status, authored by the actor.
func (s *Posts) Create(actor models.Actor, p PostParams) (*models.Post, error) {
	if !policy.CanCreateContent(actor) {
		return nil, ErrForbidden
	}

	ct, err := s.resolveType(p.ContentTypeRef)
	if err != nil {
		return nil, err
	}

	return s.posts.Create(&models.Post{
		Title:            p.Title,
		Content:          p.Content,
		ContentTypeID:    ct.ID,
		AuthorID:         actor.ID,
		Status:           models.PostStatusDraft,
		IsFeatured:       p.IsFeatured,
		FeaturedPriority: p.FeaturedPriority,
		CommentsEnabled:  p.CommentsEnabled,
		ReactionsEnabled: p.ReactionsEnabled,
		FeaturedImage:    p.FeaturedImage,
		VideoURL:         p.VideoURL,
		AudioURL:         p.AudioURL,
	})
}

// Get retrieves a post for staff views, trashed posts included.
func (s *Posts) Get(id uuid.UUID) (*models.Post, error) {
	p, err := s.posts.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("post: %w", ErrNotFound)
	}
	return p, nil
}

// GetPublished retrieves a post only if it is live. Public surface.
func (s *Posts) GetPublished(id uuid.UUID) (*models.Post, error) {
	p, err := s.posts.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsPublished() {
		return nil, fmt.Errorf("post: %w", ErrNotFound)
	}
	return p, nil
}

// List returns posts matching the filter. Trashed posts are only visible
// to admins; moderators see their own trash.
func (s *Posts) List(actor models.Actor, f store.Filter) ([]models.Post, error) {
	if f.IncludeDeleted && actor.Role != models.RoleAdmin {
		f.AuthorID = &actor.ID
	}
	return s.posts.List(f)
}

// ListPublished returns the live feed, newest first.
func (s *Posts) ListPublished(contentTypeID *uuid.UUID) ([]models.Post, error) {
	return s.posts.ListPublished(contentTypeID)
}

// Update applies direct edits to a post's fields. Status, publish
// timestamps, counters, and series order are not reachable from here;
// they belong to their dedicated transitions.
func (s *Posts) Update(actor models.Actor, id uuid.UUID, p PostParams) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyPost(actor, post) {
		return nil, ErrForbidden
	}

	ct, err := s.resolveType(p.ContentTypeRef)
	if err != nil {
		return nil, err
	}

	post.Title = p.Title
	post.Content = p.Content
	post.ContentTypeID = ct.ID
	post.IsFeatured = p.IsFeatured
	post.FeaturedPriority = p.FeaturedPriority
	post.CommentsEnabled = p.CommentsEnabled
	post.ReactionsEnabled = p.ReactionsEnabled
	post.FeaturedImage = p.FeaturedImage
	post.VideoURL = p.VideoURL
	post.AudioURL = p.AudioURL

	return s.posts.Update(post)
}

// PublishNow moves a draft or scheduled post to PUBLISHED immediately.
// Publishing an already-published post is a no-op. The publish timestamp
// is set to now unless a first publish already stamped it in the past;
// re-publishing never rewrites history.
func (s *Posts) PublishNow(actor models.Actor, id uuid.UUID) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanPublish(actor, post) {
		return nil, ErrForbidden
	}
	if err := s.checkType(post); err != nil {
		return nil, err
	}

	if post.Status == models.PostStatusPublished {
		return post, nil
	}

	now := time.Now()
	publishedAt := post.PublishedAt
	if publishedAt == nil || publishedAt.After(now) {
		publishedAt = &now
	}
	return s.posts.SetStatus(id, models.PostStatusPublished, publishedAt)
}

// Schedule moves a draft to SCHEDULED for a future publish time.
func (s *Posts) Schedule(actor models.Actor, id uuid.UUID, at time.Time) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanPublish(actor, post) {
		return nil, ErrForbidden
	}
	if err := s.checkType(post); err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusDraft {
		return nil, fmt.Errorf("schedule from %s: %w", post.Status, ErrInvalidTransition)
	}
	if !at.After(time.Now()) {
		return nil, fmt.Errorf("%s: %w", at.Format(time.RFC3339), ErrInvalidSchedule)
	}
	return s.posts.SetStatus(id, models.PostStatusScheduled, &at)
}

// CancelSchedule reverts a scheduled post to DRAFT and clears the
// pending publish time.
func (s *Posts) CancelSchedule(actor models.Actor, id uuid.UUID) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanPublish(actor, post) {
		return nil, ErrForbidden
	}
	if err := s.checkType(post); err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusScheduled {
		return nil, fmt.Errorf("cancel schedule from %s: %w", post.Status, ErrInvalidTransition)
	}
	return s.posts.SetStatus(id, models.PostStatusDraft, nil)
}

// Unpublish takes a live post back to DRAFT. The view counter and other
// engagement history describe the past and are preserved.
func (s *Posts) Unpublish(actor models.Actor, id uuid.UUID) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanPublish(actor, post) {
		return nil, ErrForbidden
	}
	if err := s.checkType(post); err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		return nil, fmt.Errorf("unpublish from %s: %w", post.Status, ErrInvalidTransition)
	}
	return s.posts.SetStatus(id, models.PostStatusDraft, nil)
}

// SoftDelete moves a post to the trash. The publish status is untouched,
// so a restore brings the post back exactly as it was.
func (s *Posts) SoftDelete(actor models.Actor, id uuid.UUID) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanDelete(actor, post) {
		return nil, ErrForbidden
	}
	if post.IsDeleted {
		return post, nil
	}
	return s.posts.SetDeleted(id, true, &actor.ID)
}

// Restore brings a post back from the trash.
func (s *Posts) Restore(actor models.Actor, id uuid.UUID) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanDelete(actor, post) {
		return nil, ErrForbidden
	}
	if !post.IsDeleted {
		return post, nil
	}
	return s.posts.SetDeleted(id, false, nil)
}

// RecordView bumps a live post's view counter and refreshes its series'
// cached total when it belongs to one. Silently ignores posts that are
// not publicly visible.
func (s *Posts) RecordView(id uuid.UUID) error {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return nil
	}

	bumped, err := s.posts.IncrementViews(id)
	if err != nil {
		return err
	}
	if bumped && post.SeriesID != nil {
		return s.series.RefreshTotalViews(*post.SeriesID)
	}
	return nil
}

// PublishDue publishes every scheduled post whose time has arrived and
// returns them. Driven by a ticker in main; the state change itself is a
// single atomic statement.
func (s *Posts) PublishDue(now time.Time) ([]models.Post, error) {
	published, err := s.posts.PublishDue(now)
	if err != nil {
		return nil, err
	}
	for i := range published {
		slog.Info("scheduled post published",
			"post_id", published[i].ID,
			"title", published[i].Title,
			"published_at", published[i].PublishedAt,
		)
	}
	return published, nil
}

// PublishFromDraft converts a draft into a post create-or-update inside
// its own transaction. The draft itself is not deleted here; the draft
// service wraps this together with the draft delete so a failure leaves
// the draft as the surviving source of truth.
func (s *Posts) PublishFromDraft(actor models.Actor, draft *models.Draft) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("publish from draft: begin: %w", err)
	}
	defer tx.Rollback()

	post, err := s.publishFromDraft(tx, actor, draft)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("publish from draft: commit: %w", err)
	}
	return post, nil
}

// publishFromDraft applies a draft inside a caller-managed transaction.
// A draft without a target creates a post; a draft targeting an existing
// post merges onto it, preserving its id, created_at, and accumulated
// counters: editing a published post never destroys its history.
func (s *Posts) publishFromDraft(tx *sql.Tx, actor models.Actor, draft *models.Draft) (*models.Post, error) {
	data := draft.Data
	wantPublished := data.Status == string(models.PostStatusPublished)

	if draft.TargetPostID == nil {
		if !policy.CanCreateContent(actor) {
			return nil, ErrForbidden
		}
		if strings.TrimSpace(data.Title) == "" {
			return nil, ErrEmptyDraft
		}

		ct, err := s.resolveType(data.ContentType)
		if err != nil {
			return nil, err
		}

		post := &models.Post{
			Title:            data.Title,
			Content:          data.Content,
			ContentTypeID:    ct.ID,
			AuthorID:         draft.OwnerID,
			Status:           models.PostStatusDraft,
			CommentsEnabled:  boolOr(data.CommentsEnabled, true),
			ReactionsEnabled: boolOr(data.ReactionsEnabled, true),
			FeaturedImage:    strOrNil(data.FeaturedImage),
			VideoURL:         strOrNil(data.VideoURL),
			AudioURL:         strOrNil(data.AudioURL),
		}
		if wantPublished {
			now := time.Now()
			post.Status = models.PostStatusPublished
			post.PublishedAt = &now
		}

		created, err := s.posts.CreateTx(tx, post)
		if err != nil {
			return nil, err
		}
		return s.placeInSeries(tx, created, data)
	}

	post, err := s.posts.FindByIDTx(tx, *draft.TargetPostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("target post: %w", ErrNotFound)
	}
	if !policy.CanModifyPost(actor, post) {
		return nil, ErrForbidden
	}

	// Merge the draft's captured fields onto the post. Absent fields
	// keep their current values; id, created_at, and views_count are
	// never part of the payload and survive untouched.
	if data.Title != "" {
		post.Title = data.Title
	}
	if data.Content != "" {
		post.Content = data.Content
	}
	if data.ContentType != "" {
		ct, err := s.resolveType(data.ContentType)
		if err != nil {
			return nil, err
		}
		post.ContentTypeID = ct.ID
	} else if err := s.checkType(post); err != nil {
		return nil, err
	}
	if data.CommentsEnabled != nil {
		post.CommentsEnabled = *data.CommentsEnabled
	}
	if data.ReactionsEnabled != nil {
		post.ReactionsEnabled = *data.ReactionsEnabled
	}
	if data.FeaturedImage != "" {
		post.FeaturedImage = &data.FeaturedImage
	}
	if data.VideoURL != "" {
		post.VideoURL = &data.VideoURL
	}
	if data.AudioURL != "" {
		post.AudioURL = &data.AudioURL
	}

	updated, err := s.posts.UpdateTx(tx, post)
	if err != nil {
		return nil, err
	}

	if wantPublished && updated.Status != models.PostStatusPublished {
		now := time.Now()
		publishedAt := updated.PublishedAt
		if publishedAt == nil || publishedAt.After(now) {
			publishedAt = &now
		}
		updated, err = s.posts.SetStatusTx(tx, updated.ID, models.PostStatusPublished, publishedAt)
		if err != nil {
			return nil, err
		}
	}

	return s.placeInSeries(tx, updated, data)
}

// placeInSeries delegates series placement to the ordering layer when the
// draft payload references a series and the post is not yet in one.
func (s *Posts) placeInSeries(tx *sql.Tx, post *models.Post, data models.DraftData) (*models.Post, error) {
	if data.SeriesID == nil || post.SeriesID != nil {
		return post, nil
	}

	order, err := s.series.AddPostTx(tx, *data.SeriesID, post.ID, data.SeriesOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("series: %w", ErrNotFound)
		}
		if errors.Is(err, store.ErrPostInSeries) {
			return nil, ErrPostInSeries
		}
		return nil, err
	}
	post.SeriesID = data.SeriesID
	post.SeriesOrder = &order
	return post, nil
}

// checkType re-resolves the post's content type reference. The schema's
// foreign key makes a dangling reference nearly impossible, but every
// lifecycle transition verifies it anyway and fails loudly if the
// registry cannot resolve it.
func (s *Posts) checkType(post *models.Post) error {
	if _, err := s.registry.Resolve(post.ContentTypeID.String()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%s: %w", post.ContentTypeID, ErrInvalidContentType)
		}
		return err
	}
	return nil
}

// resolveType resolves a type reference from user input, mapping an
// unknown reference to InvalidContentType.
func (s *Posts) resolveType(ref string) (*models.ContentType, error) {
	if ref == "" {
		return nil, fmt.Errorf("missing reference: %w", ErrInvalidContentType)
	}
	ct, err := s.registry.Resolve(ref)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%q: %w", ref, ErrInvalidContentType)
		}
		return nil, err
	}
	return ct, nil
}

func boolOr(b *bool, def bool) bool {
	if b != nil {
		return *b
	}
	return def
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
