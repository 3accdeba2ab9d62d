// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType is an admin-governed classification label for posts and
// drafts (e.g. "Sermon", "Announcement"). Types are data, not an enum:
// admins add custom types at runtime. System types are seeded at install
// time and can never be renamed, disabled, or deleted.
type ContentType struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"` // Immutable identifier, e.g. "sermon"
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsSystem    bool      `json:"is_system"`
	IsEnabled   bool      `json:"is_enabled"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Slugs of the system content types seeded at installation.
const (
	TypeSlugSermon       = "sermon"
	TypeSlugAnnouncement = "announcement"
	TypeSlugArticle      = "article"
	TypeSlugDevotional   = "devotional"
)
