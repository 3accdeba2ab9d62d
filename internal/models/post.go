// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusScheduled PostStatus = "SCHEDULED"
	PostStatusPublished PostStatus = "PUBLISHED"
)

// Valid reports whether s is one of the known publishing states.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}

// Post is an authored, classified unit of content: a sermon, announcement,
// article, or any custom content type. Its publishing state moves through
// DRAFT → SCHEDULED → PUBLISHED; the trash flag (IsDeleted) is an
// orthogonal, reversible visibility overlay and never changes the status.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	ContentTypeID uuid.UUID  `json:"content_type_id"`
	AuthorID      uuid.UUID  `json:"author_id"`
	Status        PostStatus `json:"status"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`

	// Homepage editorial controls.
	IsFeatured       bool `json:"is_featured"`
	FeaturedPriority int  `json:"featured_priority"`

	// Interaction settings consumed by the comments/reactions subsystem.
	CommentsEnabled  bool `json:"comments_enabled"`
	ReactionsEnabled bool `json:"reactions_enabled"`

	// Media references are opaque URLs; upload storage lives elsewhere.
	FeaturedImage *string `json:"featured_image,omitempty"`
	VideoURL      *string `json:"video_url,omitempty"`
	AudioURL      *string `json:"audio_url,omitempty"`

	// Series membership. A post belongs to at most one series;
	// SeriesOrder values within a series are dense, starting at 1.
	SeriesID    *uuid.UUID `json:"series_id,omitempty"`
	SeriesOrder *int       `json:"series_order,omitempty"`

	ViewsCount int        `json:"views_count"`
	IsDeleted  bool       `json:"is_deleted"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	DeletedBy  *uuid.UUID `json:"deleted_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPublished reports whether the post is live and not trashed.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished && !p.IsDeleted
}
