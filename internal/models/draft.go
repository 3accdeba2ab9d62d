// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftData is the autosaved edit buffer payload, stored as JSONB.
// It mirrors the editable surface of a post; every field is optional
// because autosaves capture whatever the editor holds at that moment.
type DraftData struct {
	Title       string `json:"title,omitempty"`
	Content     string `json:"content,omitempty"`
	ContentType string `json:"content_type,omitempty"` // type id or slug
	Status      string `json:"status,omitempty"`       // requested status on publish

	FeaturedImage string `json:"featured_image,omitempty"`
	VideoURL      string `json:"video_url,omitempty"`
	AudioURL      string `json:"audio_url,omitempty"`

	CommentsEnabled  *bool `json:"comments_enabled,omitempty"`
	ReactionsEnabled *bool `json:"reactions_enabled,omitempty"`

	SeriesID    *uuid.UUID `json:"series_id,omitempty"`
	SeriesOrder *int       `json:"series_order,omitempty"`
}

// Draft is an in-progress, autosaved copy of content. A draft with a nil
// TargetPostID is a new, not-yet-published post; a draft with TargetPostID
// set is a shadow copy of an existing post being edited. Publishing merges
// it onto the target, so the live post is never mutated mid-edit.
//
// At most one draft exists per (owner, target post) pair, so an author can
// never fork two divergent shadow copies of the same post.
type Draft struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	TargetPostID   *uuid.UUID `json:"target_post_id,omitempty"`
	Data           DraftData  `json:"draft_data"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAutosaveAt time.Time  `json:"last_autosave_at"`
}
