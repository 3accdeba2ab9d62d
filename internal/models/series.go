// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SeriesVisibility controls who can see a series.
type SeriesVisibility string

const (
	SeriesPublic      SeriesVisibility = "PUBLIC"
	SeriesMembersOnly SeriesVisibility = "MEMBERS_ONLY"
	SeriesHidden      SeriesVisibility = "HIDDEN"
)

// Valid reports whether v is a known visibility value.
func (v SeriesVisibility) Valid() bool {
	switch v {
	case SeriesPublic, SeriesMembersOnly, SeriesHidden:
		return true
	}
	return false
}

// Series is an ordered grouping of related posts, such as a multi-week
// sermon series. Member posts keep their own content type; their order
// within the series is a dense 1..N sequence maintained on the posts.
type Series struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	CoverImage  *string          `json:"cover_image,omitempty"`
	AuthorID    uuid.UUID        `json:"author_id"`
	Visibility  SeriesVisibility `json:"visibility"`

	IsFeatured       bool `json:"is_featured"`
	FeaturedPriority int  `json:"featured_priority"`

	TotalViews int `json:"total_views"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *uuid.UUID `json:"deleted_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
