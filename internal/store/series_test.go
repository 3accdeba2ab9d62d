package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

// assertDense verifies the series members carry orders exactly 1..N in
// listing order. Every membership test re-checks this instead of
// assuming it.
func assertDense(t *testing.T, s *SeriesStore, seriesID uuid.UUID, wantIDs []uuid.UUID) {
	t.Helper()

	members, err := s.Members(seriesID)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != len(wantIDs) {
		t.Fatalf("members = %d, want %d", len(members), len(wantIDs))
	}
	for i, m := range members {
		if m.SeriesOrder == nil || *m.SeriesOrder != i+1 {
			t.Fatalf("member %d: order = %v, want %d", i, m.SeriesOrder, i+1)
		}
		if m.ID != wantIDs[i] {
			t.Fatalf("member %d: id = %s, want %s", i, m.ID, wantIDs[i])
		}
	}
}

func TestSeriesAddPostAppendsAndInserts(t *testing.T) {
	db := testDB(t)
	s := NewSeriesStore(db)
	author := testUser(t, db, models.RoleModerator)
	ser := testSeries(t, db, author.ID)

	a := testPost(t, db, author.ID)
	b := testPost(t, db, author.ID)
	c := testPost(t, db, author.ID)

	for _, p := range []*models.Post{a, b} {
		if _, err := s.AddPost(ser.ID, p.ID, nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	assertDense(t, s, ser.ID, []uuid.UUID{a.ID, b.ID})

	// Insert at position 1 shifts existing members up.
	first := 1
	order, err := s.AddPost(ser.ID, c.ID, &first)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if order != 1 {
		t.Errorf("assigned order = %d, want 1", order)
	}
	assertDense(t, s, ser.ID, []uuid.UUID{c.ID, a.ID, b.ID})
}

func TestSeriesAddPostClampsRequestedOrder(t *testing.T) {
	db := testDB(t)
	s := NewSeriesStore(db)
	author := testUser(t, db, models.RoleModerator)
	ser := testSeries(t, db, author.ID)

	a := testPost(t, db, author.ID)
	b := testPost(t, db, author.ID)

	if _, err := s.AddPost(ser.ID, a.ID, nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	// A requested order past the end clamps to append.
	way := 99
	order, err := s.AddPost(ser.ID, b.ID, &way)
	if err != nil {
		t.Fatalf("add clamped: %v", err)
	}
	if order != 2 {
		t.Errorf("assigned order = %d, want 2", order)
	}
	assertDense(t, s, ser.ID, []uuid.UUID{a.ID, b.ID})
}

func TestSeriesAddPostAlreadyInSeries(t *testing.T) {
	db := testDB(t)
	s := NewSeriesStore(db)
	author := testUser(t, db, models.RoleModerator)
	ser := testSeries(t, db, author.ID)
	other := testSeries(t, db, author.ID)

	p := testPost(t, db, author.ID)
	if _, err := s.AddPost(ser.ID, p.ID, nil); err != nil {
		t.Fatalf("first add: %v", err)
	}

	if _, err := s.AddPost(other.ID, p.ID, nil); !errors.Is(err, ErrPostInSeries) {
		t.Errorf("err = %v, want ErrPostInSeries", err)
	}
	if _, err := s.AddPost(ser.ID, p.ID, nil); !errors.Is(err, ErrPostInSeries) {
		t.Errorf("re-add: err = %v, want ErrPostInSeries", err)
	}
}

func TestSeriesAddPostMissingSeries(t *testing.T) {
	db := testDB(t)
	s := NewSeriesStore(db)
	author := testUser(t, db, models.RoleModerator)
	p := testPost(t, db, author.ID)

	if _, err := s.AddPost(uuid.New(), p.ID, nil); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestSeriesRemovePostRenumbers(t *testing.T) {
	db := testDB(t)
	s := NewSeriesStore(db)
	author := testUser(t, db, models.RoleModerator)
	ser := testSeries(t, db, author.ID)

	a := testPost(t, db, author.ID)
	b := testPost(t, db, author.ID)
	c := testPost(t, db, author.ID)
	for _, p := range []*models.Post{a, b, c} {
		if _, err := s.AddPost(ser.ID, p.ID, nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	// Remove the middle member; the trailing one renumbers down.
	if err := s.RemovePost(ser.ID, b.ID); err != nil {
		t.Fatalf("RemovePost: %v", err)
	}
	assertDense(t, s, ser.ID, []uuid.UUID{a.ID, c.ID})

	removed, err := NewPostStore(db).FindByID(b.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if removed.SeriesID != nil || removed.SeriesOrder != nil {
		t.Error("removed post still carries series membership")
	}

	if err := s.RemovePost(ser.ID, b.ID); !errors.Is(err, ErrNotInSeries) {
		t.Errorf("remove again: err = %v, want ErrNotInSeries", err)
	}
}

func TestSeriesReorder(t *testing.T) {
	db := testDB(t)
	s := NewSeriesStore(db)
	author := testUser(t, db, models.RoleModerator)
	ser := testSeries(t, db, author.ID)

	a := testPost(t, db, author.ID)
	b := testPost(t, db, author.ID)
	c := testPost(t, db, author.ID)
	for _, p := range []*models.Post{a, b, c} {
		if _, err := s.AddPost(ser.ID, p.ID, nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := s.Reorder(ser.ID, []uuid.UUID{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	assertDense(t, s, ser.ID, []uuid.UUID{c.ID, a.ID, b.ID})

	// Not a permutation of the membership: missing, extra, duplicated.
	badLists := [][]uuid.UUID{
		{a.ID, b.ID},
		{a.ID, b.ID, c.ID, uuid.New()},
		{a.ID, a.ID, b.ID},
	}
	for _, bad := range badLists {
		if err := s.Reorder(ser.ID, bad); !errors.Is(err, ErrMembershipMismatch) {
			t.Errorf("Reorder(%d ids): err = %v, want ErrMembershipMismatch", len(bad), err)
		}
	}

	// A failed reorder leaves the ordering untouched.
	assertDense(t, s, ser.ID, []uuid.UUID{c.ID, a.ID, b.ID})
}

func TestSeriesRefreshTotalViews(t *testing.T) {
	db := testDB(t)
	s := NewSeriesStore(db)
	author := testUser(t, db, models.RoleModerator)
	ser := testSeries(t, db, author.ID)

	a := testPost(t, db, author.ID)
	b := testPost(t, db, author.ID)
	for _, p := range []*models.Post{a, b} {
		if _, err := s.AddPost(ser.ID, p.ID, nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if _, err := db.Exec("UPDATE posts SET views_count = 5 WHERE id = $1", a.ID); err != nil {
		t.Fatalf("set views: %v", err)
	}
	if _, err := db.Exec("UPDATE posts SET views_count = 7 WHERE id = $1", b.ID); err != nil {
		t.Fatalf("set views: %v", err)
	}

	if err := s.RefreshTotalViews(ser.ID); err != nil {
		t.Fatalf("RefreshTotalViews: %v", err)
	}

	got, err := s.FindByID(ser.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.TotalViews != 12 {
		t.Errorf("total_views = %d, want 12", got.TotalViews)
	}
}
