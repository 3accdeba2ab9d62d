package store

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

func TestContentTypeSystemSeed(t *testing.T) {
	db := testDB(t)
	s := NewContentTypeStore(db)

	for _, slug := range []string{"sermon", "announcement", "article", "devotional"} {
		ct, err := s.FindBySlug(slug)
		if err != nil {
			t.Fatalf("FindBySlug(%q): %v", slug, err)
		}
		if ct == nil {
			t.Fatalf("system type %q missing", slug)
		}
		if !ct.IsSystem {
			t.Errorf("%q: is_system = false, want true", slug)
		}
		if !ct.IsEnabled {
			t.Errorf("%q: is_enabled = false, want true", slug)
		}
	}
}

func TestContentTypeCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewContentTypeStore(db)

	slug := "test-type-" + uuid.NewString()[:8]
	t.Cleanup(func() { db.Exec("DELETE FROM content_types WHERE slug = $1", slug) })

	ct, err := s.Create(slug, "Test Type", "for tests", 42)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ct.IsSystem {
		t.Error("created type must not be a system type")
	}
	if !ct.IsEnabled {
		t.Error("created type should start enabled")
	}
	if ct.SortOrder != 42 {
		t.Errorf("sort_order = %d, want 42", ct.SortOrder)
	}

	// Lookup is case-insensitive on slug.
	found, err := s.FindBySlug(slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil || found.ID != ct.ID {
		t.Fatal("FindBySlug did not return the created type")
	}

	byID, err := s.FindByID(ct.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Slug != slug {
		t.Fatal("FindByID did not return the created type")
	}
}

func TestContentTypeListEnabledOnly(t *testing.T) {
	db := testDB(t)
	s := NewContentTypeStore(db)

	slug := "test-disabled-" + uuid.NewString()[:8]
	t.Cleanup(func() { db.Exec("DELETE FROM content_types WHERE slug = $1", slug) })

	ct, err := s.Create(slug, "Disabled Type", "", 99)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.SetEnabled(ct.ID, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}

	enabled, err := s.List(true)
	if err != nil {
		t.Fatalf("List(true): %v", err)
	}
	for _, e := range enabled {
		if e.ID == ct.ID {
			t.Error("disabled type appeared in enabled-only listing")
		}
	}

	all, err := s.List(false)
	if err != nil {
		t.Fatalf("List(false): %v", err)
	}
	found := false
	for _, e := range all {
		if e.ID == ct.ID {
			found = true
		}
	}
	if !found {
		t.Error("disabled type missing from unfiltered listing")
	}
}

func TestContentTypeCountReferencesIncludesTrashed(t *testing.T) {
	db := testDB(t)
	s := NewContentTypeStore(db)
	posts := NewPostStore(db)
	author := testUser(t, db, models.RoleModerator)

	slug := "test-refs-" + uuid.NewString()[:8]
	ct, err := s.Create(slug, "Ref Type", "", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM content_types WHERE id = $1", ct.ID) })

	p := testPost(t, db, author.ID)
	if _, err := db.Exec("UPDATE posts SET content_type_id = $1 WHERE id = $2", ct.ID, p.ID); err != nil {
		t.Fatalf("repoint post: %v", err)
	}

	n, err := s.CountReferences(ct.ID)
	if err != nil {
		t.Fatalf("CountReferences: %v", err)
	}
	if n != 1 {
		t.Fatalf("references = %d, want 1", n)
	}

	// Trash is reversible, so a soft-deleted post still counts.
	if _, err := posts.SetDeleted(p.ID, true, &author.ID); err != nil {
		t.Fatalf("SetDeleted: %v", err)
	}
	n, err = s.CountReferences(ct.ID)
	if err != nil {
		t.Fatalf("CountReferences after trash: %v", err)
	}
	if n != 1 {
		t.Fatalf("references after trash = %d, want 1", n)
	}
}
