// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

// Package core implements the content lifecycle rules: the content type
// registry, draft autosave and publishing, the post state machine, and
// series membership ordering. Services in this package enforce every
// invariant; the stores underneath only persist.
package core

import "errors"

// Every failure names the violated rule so the presentation layer can
// render actionable messaging. Handlers map these sentinels to HTTP
// status codes; services return them wrapped with %w.
var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller failed an authorization predicate.
	ErrForbidden = errors.New("you do not have permission to perform this action")

	// ErrDuplicateSlug means a content type with the slug already exists.
	ErrDuplicateSlug = errors.New("a content type with this slug already exists")

	// ErrInvalidSlug means the slug fails the allowed-character pattern.
	ErrInvalidSlug = errors.New("slug may contain only lowercase letters, digits, hyphens, and underscores")

	// ErrSystemTypeImmutable guards the seeded system content types.
	ErrSystemTypeImmutable = errors.New("system content types cannot be renamed, disabled, or deleted")

	// ErrTypeInUse blocks deleting a content type that posts still reference.
	ErrTypeInUse = errors.New("content type is still referenced by existing posts")

	// ErrInvalidContentType means a post or draft references a content
	// type that does not resolve by id or slug.
	ErrInvalidContentType = errors.New("content type reference does not resolve")

	// ErrInvalidSchedule means the requested publish time is not in the future.
	ErrInvalidSchedule = errors.New("scheduled publish time must be in the future")

	// ErrInvalidTransition means the post's current status does not allow
	// the requested lifecycle operation.
	ErrInvalidTransition = errors.New("operation is not allowed in the post's current status")

	// ErrIncompleteReorder means a reorder list does not contain exactly
	// the series' current members.
	ErrIncompleteReorder = errors.New("reorder list must contain each current series member exactly once")

	// ErrPostInSeries blocks adding a post that already belongs to a series.
	ErrPostInSeries = errors.New("post already belongs to a series")

	// ErrEmptyDraft means a draft without a title was asked to publish.
	ErrEmptyDraft = errors.New("draft has no title to publish")
)
