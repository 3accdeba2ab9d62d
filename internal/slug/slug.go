// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation and validation.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// typeSlug is the allowed pattern for content type identifiers.
	typeSlug = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Advent Series 2026" → "advent-series-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// ValidTypeSlug reports whether s is a legal content type slug: non-empty,
// at most 50 characters, lowercase letters, digits, hyphens, underscores.
// Type slugs are immutable identifiers, so the rule is stricter than the
// generated slugs used for series URLs.
func ValidTypeSlug(s string) bool {
	if s == "" || len(s) > 50 {
		return false
	}
	return typeSlug.MatchString(s)
}
