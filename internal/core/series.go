// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package core

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/policy"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/slug"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/store"
)

// Series owns series grouping and the ordered membership of posts. After
// any successful membership operation the member orders are exactly 1..N:
// dense, gap-free, unique. A post belongs to at most one series.
type Series struct {
	series *store.SeriesStore
	posts  *store.PostStore
}

// NewSeries creates the series service.
func NewSeries(series *store.SeriesStore, posts *store.PostStore) *Series {
	return &Series{series: series, posts: posts}
}

// SeriesParams carries the editable fields of a series.
type SeriesParams struct {
	Title            string
	Description      string
	CoverImage       *string
	Visibility       models.SeriesVisibility
	IsFeatured       bool
	FeaturedPriority int
}

// Create makes a new series with a unique slug derived from the title.
func (s *Series) Create(actor models.Actor, p SeriesParams) (*models.Series, error) {
	if !policy.CanCreateContent(actor) {
		return nil, ErrForbidden
	}

	visibility := p.Visibility
	if visibility == "" {
		visibility = models.SeriesPublic
	}

	seriesSlug, err := s.uniqueSlug(p.Title)
	if err != nil {
		return nil, err
	}

	return s.series.Create(&models.Series{
		Title:            p.Title,
		Slug:             seriesSlug,
		Description:      p.Description,
		CoverImage:       p.CoverImage,
		AuthorID:         actor.ID,
		Visibility:       visibility,
		IsFeatured:       p.IsFeatured,
		FeaturedPriority: p.FeaturedPriority,
	})
}

// Get retrieves a series for staff views, trashed included.
func (s *Series) Get(id uuid.UUID) (*models.Series, error) {
	ser, err := s.series.FindByID(id)
	if err != nil {
		return nil, err
	}
	if ser == nil {
		return nil, fmt.Errorf("series: %w", ErrNotFound)
	}
	return ser, nil
}

// GetVisible retrieves a live series subject to the caller's visibility:
// anonymous callers see PUBLIC only, signed-in members also MEMBERS_ONLY,
// staff see everything.
func (s *Series) GetVisible(actor models.Actor, ref string) (*models.Series, error) {
	var (
		ser *models.Series
		err error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		ser, err = s.series.FindByID(id)
	} else {
		ser, err = s.series.FindBySlug(ref)
	}
	if err != nil {
		return nil, err
	}
	if ser == nil || ser.IsDeleted || !visibleTo(actor, ser.Visibility) {
		return nil, fmt.Errorf("series: %w", ErrNotFound)
	}
	return ser, nil
}

// List returns series the actor may see, newest first.
func (s *Series) List(actor models.Actor) ([]models.Series, error) {
	all, err := s.series.List(actor.Role.IsStaff(), false)
	if err != nil {
		return nil, err
	}
	if actor.Role.IsStaff() {
		return all, nil
	}

	visible := all[:0]
	for _, ser := range all {
		if visibleTo(actor, ser.Visibility) {
			visible = append(visible, ser)
		}
	}
	return visible, nil
}

// Update edits a series' fields. The slug is stable once created.
func (s *Series) Update(actor models.Actor, id uuid.UUID, p SeriesParams) (*models.Series, error) {
	ser, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageSeries(actor, ser) {
		return nil, ErrForbidden
	}

	ser.Title = p.Title
	ser.Description = p.Description
	ser.CoverImage = p.CoverImage
	if p.Visibility != "" {
		ser.Visibility = p.Visibility
	}
	ser.IsFeatured = p.IsFeatured
	ser.FeaturedPriority = p.FeaturedPriority

	return s.series.Update(ser)
}

// SoftDelete moves a series to the trash. Membership is kept, so a
// restore brings the series back with its ordering intact.
func (s *Series) SoftDelete(actor models.Actor, id uuid.UUID) (*models.Series, error) {
	ser, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageSeries(actor, ser) {
		return nil, ErrForbidden
	}
	if ser.IsDeleted {
		return ser, nil
	}
	return s.series.SetDeleted(id, true, &actor.ID)
}

// Restore brings a series back from the trash.
func (s *Series) Restore(actor models.Actor, id uuid.UUID) (*models.Series, error) {
	ser, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageSeries(actor, ser) {
		return nil, ErrForbidden
	}
	if !ser.IsDeleted {
		return ser, nil
	}
	return s.series.SetDeleted(id, false, nil)
}

// Members returns the ordered posts of a series.
func (s *Series) Members(seriesID uuid.UUID) ([]models.Post, error) {
	return s.series.Members(seriesID)
}

// PublishedMembers returns only the live posts of a series, in order.
// Public surface.
func (s *Series) PublishedMembers(seriesID uuid.UUID) ([]models.Post, error) {
	members, err := s.series.Members(seriesID)
	if err != nil {
		return nil, err
	}
	live := members[:0]
	for _, p := range members {
		if p.IsPublished() {
			live = append(live, p)
		}
	}
	return live, nil
}

// AddPost places a post into the series and returns its assigned order.
// With no requested order the post is appended; a requested order that
// collides shifts later members up by one to keep the sequence dense.
func (s *Series) AddPost(actor models.Actor, seriesID, postID uuid.UUID, requestedOrder *int) (int, error) {
	ser, err := s.Get(seriesID)
	if err != nil {
		return 0, err
	}
	if ser.IsDeleted {
		return 0, fmt.Errorf("series: %w", ErrNotFound)
	}
	if !policy.CanManageSeries(actor, ser) {
		return 0, ErrForbidden
	}

	post, err := s.posts.FindByID(postID)
	if err != nil {
		return 0, err
	}
	if post == nil || post.IsDeleted {
		return 0, fmt.Errorf("post: %w", ErrNotFound)
	}
	if post.SeriesID != nil {
		return 0, ErrPostInSeries
	}

	order, err := s.series.AddPost(seriesID, postID, requestedOrder)
	if err != nil {
		if errors.Is(err, store.ErrPostInSeries) {
			return 0, ErrPostInSeries
		}
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("series: %w", ErrNotFound)
		}
		return 0, err
	}
	return order, nil
}

// RemovePost takes a post out of the series; members that followed it
// are renumbered down so orders stay 1..N.
func (s *Series) RemovePost(actor models.Actor, seriesID, postID uuid.UUID) error {
	ser, err := s.Get(seriesID)
	if err != nil {
		return err
	}
	if !policy.CanManageSeries(actor, ser) {
		return ErrForbidden
	}

	err = s.series.RemovePost(seriesID, postID)
	if errors.Is(err, store.ErrNotInSeries) {
		return fmt.Errorf("post is not in this series: %w", ErrNotFound)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("series: %w", ErrNotFound)
	}
	return err
}

// Reorder replaces the series' full ordering. The supplied list must be
// a permutation of the current membership (nothing silently dropped,
// nothing duplicated) or the call fails with IncompleteReorder.
func (s *Series) Reorder(actor models.Actor, seriesID uuid.UUID, orderedPostIDs []uuid.UUID) error {
	ser, err := s.Get(seriesID)
	if err != nil {
		return err
	}
	if !policy.CanManageSeries(actor, ser) {
		return ErrForbidden
	}

	err = s.series.Reorder(seriesID, orderedPostIDs)
	if errors.Is(err, store.ErrMembershipMismatch) {
		return ErrIncompleteReorder
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("series: %w", ErrNotFound)
	}
	return err
}

// uniqueSlug derives a slug from the title, suffixing a counter until it
// no longer collides with an existing series.
func (s *Series) uniqueSlug(title string) (string, error) {
	base := slug.Generate(title)
	if base == "" {
		base = "series"
	}

	candidate := base
	for i := 1; ; i++ {
		exists, err := s.series.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

// visibleTo applies the series visibility rules for non-staff callers.
func visibleTo(actor models.Actor, v models.SeriesVisibility) bool {
	if actor.Role.IsStaff() {
		return true
	}
	switch v {
	case models.SeriesPublic:
		return true
	case models.SeriesMembersOnly:
		return actor.Role == models.RoleMember
	default:
		return false
	}
}
