// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

// Package policy holds the authorization predicates applied before every
// mutating operation. It is a pure layer with no I/O; callers translate
// a false result into a Forbidden error, never a silent no-op.
//
// The rules: admins can do anything; moderators can manage only content
// they authored; members and anonymous callers can mutate nothing.
package policy

import (
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

// CanCreateContent reports whether the actor may author new posts,
// drafts, or series.
func CanCreateContent(actor models.Actor) bool {
	return actor.Role.IsStaff()
}

// CanModifyPost reports whether the actor may edit the given post.
func CanModifyPost(actor models.Actor, post *models.Post) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleModerator:
		return post.AuthorID == actor.ID
	default:
		return false
	}
}

// CanPublish reports whether the actor may publish, schedule, or
// unpublish the given post. Publishing rights follow modify rights.
func CanPublish(actor models.Actor, post *models.Post) bool {
	return CanModifyPost(actor, post)
}

// CanDelete reports whether the actor may trash or restore the given post.
func CanDelete(actor models.Actor, post *models.Post) bool {
	return CanModifyPost(actor, post)
}

// CanManageSeries reports whether the actor may edit the given series or
// its membership.
func CanManageSeries(actor models.Actor, series *models.Series) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleModerator:
		return series.AuthorID == actor.ID
	default:
		return false
	}
}

// CanManageTypes reports whether the actor may create, edit, toggle, or
// delete content types. Admin only.
func CanManageTypes(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin
}

// CanManageUsers reports whether the actor may administer user accounts.
// Admin only.
func CanManageUsers(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin
}
