// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for content fields.
const (
	maxTitleLen       = 300
	maxBodyLen        = 100_000
	maxDescriptionLen = 1_000
	maxURLLen         = 2_000
)

// validatePost checks post input and returns the first error found.
func validatePost(title, content string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(content) > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateSeries checks series input and returns the first error found.
func validateSeries(title, description string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	return ""
}

// validateDraftData checks the free-form draft payload. Drafts are
// work in progress, so only size limits apply; emptiness is fine.
func validateDraftData(title, content string) string {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(content) > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateMediaURL checks an optional media URL field.
func validateMediaURL(u string) string {
	if utf8.RuneCountInString(u) > maxURLLen {
		return "URL is too long (max 2,000 characters)."
	}
	return ""
}
