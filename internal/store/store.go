// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

// Package store provides database access for all platform entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Stores persist; they do not decide; lifecycle rules live in core.
package store

import (
	"database/sql"
	"errors"
)

// dbtx abstracts *sql.DB and *sql.Tx so store methods can run standalone
// or inside a caller-managed transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

// Sentinel errors reported by membership operations. The core services
// translate these into the caller-facing error taxonomy.
var (
	// ErrPostInSeries is returned when assigning series membership to a
	// post that already belongs to one.
	ErrPostInSeries = errors.New("store: post already belongs to a series")

	// ErrNotInSeries is returned when removing a post that is not a
	// member of the series.
	ErrNotInSeries = errors.New("store: post is not a member of the series")

	// ErrMembershipMismatch is returned when a reorder list does not
	// match the series' current membership set exactly.
	ErrMembershipMismatch = errors.New("store: reorder list does not match series membership")
)
