// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/database"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching the development
// database credentials.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "engage")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "engage")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a staff user for fixtures and removes it on cleanup.
func testUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	email := "test-" + uuid.NewString()[:8] + "@engage.test"
	u, err := NewUserStore(db).Create(email, "password123", "Test User", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testType returns the seeded sermon system type.
func testType(t *testing.T, db *sql.DB) *models.ContentType {
	t.Helper()

	ct, err := NewContentTypeStore(db).FindBySlug(models.TypeSlugSermon)
	if err != nil {
		t.Fatalf("find system type: %v", err)
	}
	if ct == nil {
		t.Fatal("system types not seeded")
	}
	return ct
}

// testPost creates a draft post for fixtures and removes it on cleanup.
func testPost(t *testing.T, db *sql.DB, authorID uuid.UUID) *models.Post {
	t.Helper()

	p, err := NewPostStore(db).Create(&models.Post{
		Title:         "Test Post " + uuid.NewString()[:8],
		Content:       "body",
		ContentTypeID: testType(t, db).ID,
		AuthorID:      authorID,
		Status:        models.PostStatusDraft,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", p.ID) })
	return p
}

// testSeries creates a series for fixtures and removes it on cleanup.
func testSeries(t *testing.T, db *sql.DB, authorID uuid.UUID) *models.Series {
	t.Helper()

	ser, err := NewSeriesStore(db).Create(&models.Series{
		Title:      "Test Series",
		Slug:       "test-series-" + uuid.NewString()[:8],
		AuthorID:   authorID,
		Visibility: models.SeriesPublic,
	})
	if err != nil {
		t.Fatalf("create test series: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM series WHERE id = $1", ser.ID) })
	return ser
}
