// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

package core

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/policy"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/slug"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/store"
)

// Registry owns the set of content type classifications. System types
// (seeded at install) are frozen: their slug, name, and system flag never
// change, and they can never be disabled or deleted. Custom types are
// admin-managed, but a type referenced by any post cannot be deleted;
// soft-deleted posts count, since trash is reversible.
type Registry struct {
	types *store.ContentTypeStore
}

// NewRegistry creates a Registry over the given content type store.
func NewRegistry(types *store.ContentTypeStore) *Registry {
	return &Registry{types: types}
}

// Resolve looks a content type up by id or slug. Disabled types resolve
// too: disabling only removes a type from selection lists going forward,
// it never breaks existing references.
func (r *Registry) Resolve(ref string) (*models.ContentType, error) {
	var (
		t   *models.ContentType
		err error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		t, err = r.types.FindByID(id)
	} else {
		t, err = r.types.FindBySlug(ref)
	}
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("content type %q: %w", ref, ErrNotFound)
	}
	return t, nil
}

// List returns content types in display order. enabledOnly is what
// selection dropdowns use; admin screens list everything.
func (r *Registry) List(enabledOnly bool) ([]models.ContentType, error) {
	return r.types.List(enabledOnly)
}

// Create adds a custom content type. Admin only. The slug must match the
// allowed pattern and must not collide with an existing type's slug.
func (r *Registry) Create(actor models.Actor, name, typeSlug, description string, sortOrder int) (*models.ContentType, error) {
	if !policy.CanManageTypes(actor) {
		return nil, ErrForbidden
	}
	if !slug.ValidTypeSlug(typeSlug) {
		return nil, fmt.Errorf("%q: %w", typeSlug, ErrInvalidSlug)
	}

	existing, err := r.types.FindBySlug(typeSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%q: %w", typeSlug, ErrDuplicateSlug)
	}

	return r.types.Create(typeSlug, name, description, sortOrder)
}

// TypeUpdate carries the fields an update may change. Nil means "leave as is".
type TypeUpdate struct {
	Slug        *string
	Name        *string
	Description *string
	SortOrder   *int
}

// Update edits a content type. Admin only. On a system type, any attempt
// to change the slug or name fails; description and sort order stay
// editable so admins can still curate presentation.
func (r *Registry) Update(actor models.Actor, id uuid.UUID, upd TypeUpdate) (*models.ContentType, error) {
	if !policy.CanManageTypes(actor) {
		return nil, ErrForbidden
	}

	t, err := r.types.FindByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("content type: %w", ErrNotFound)
	}

	if t.IsSystem {
		if upd.Slug != nil && *upd.Slug != t.Slug {
			return nil, fmt.Errorf("slug: %w", ErrSystemTypeImmutable)
		}
		if upd.Name != nil && *upd.Name != t.Name {
			return nil, fmt.Errorf("name: %w", ErrSystemTypeImmutable)
		}
	}

	if upd.Slug != nil && *upd.Slug != t.Slug {
		if !slug.ValidTypeSlug(*upd.Slug) {
			return nil, fmt.Errorf("%q: %w", *upd.Slug, ErrInvalidSlug)
		}
		existing, err := r.types.FindBySlug(*upd.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != t.ID {
			return nil, fmt.Errorf("%q: %w", *upd.Slug, ErrDuplicateSlug)
		}
		t.Slug = *upd.Slug
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.SortOrder != nil {
		t.SortOrder = *upd.SortOrder
	}

	if err := r.types.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// SetEnabled toggles whether a type is offered for new content. System
// types can never be disabled. Disabling does not touch existing posts:
// their references keep resolving.
func (r *Registry) SetEnabled(actor models.Actor, id uuid.UUID, enabled bool) (*models.ContentType, error) {
	if !policy.CanManageTypes(actor) {
		return nil, ErrForbidden
	}

	t, err := r.types.FindByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("content type: %w", ErrNotFound)
	}
	if t.IsSystem && !enabled {
		return nil, fmt.Errorf("disable: %w", ErrSystemTypeImmutable)
	}

	if err := r.types.SetEnabled(id, enabled); err != nil {
		return nil, err
	}
	t.IsEnabled = enabled
	return t, nil
}

// Delete removes a custom content type. Admin only. System types and
// types still referenced by any post (trashed posts included) refuse.
func (r *Registry) Delete(actor models.Actor, id uuid.UUID) error {
	if !policy.CanManageTypes(actor) {
		return ErrForbidden
	}

	t, err := r.types.FindByID(id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("content type: %w", ErrNotFound)
	}
	if t.IsSystem {
		return fmt.Errorf("delete: %w", ErrSystemTypeImmutable)
	}

	refs, err := r.types.CountReferences(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%d post(s) reference %q: %w", refs, t.Slug, ErrTypeInUse)
	}

	return r.types.Delete(id)
}
