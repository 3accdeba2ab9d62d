// core_test.go provides the shared fixture for service integration
// tests. Tests are skipped if PostgreSQL is not available.
package core

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/database"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/store"
)

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

// fixture wires the full service stack over a real database.
type fixture struct {
	db *sql.DB

	types  *store.ContentTypeStore
	posts  *store.PostStore
	drafts *store.DraftStore
	series *store.SeriesStore

	registry      *Registry
	postService   *Posts
	draftService  *Drafts
	seriesService *Series

	admin     models.Actor
	moderator models.Actor
	member    models.Actor
}

// newFixture connects to the test database, runs migrations, and wires
// the services with one user per role. Skips if the database is down.
func newFixture(t *testing.T) *fixture {
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

	f := &fixture{
		db:     db,
		types:  store.NewContentTypeStore(db),
		posts:  store.NewPostStore(db),
		drafts: store.NewDraftStore(db),
		series: store.NewSeriesStore(db),
	}
	f.registry = NewRegistry(f.types)
	f.postService = NewPosts(db, f.posts, f.series, f.registry)
	f.draftService = NewDrafts(db, f.drafts, f.posts, f.registry, f.postService)
	f.seriesService = NewSeries(f.series, f.posts)

	f.admin = f.user(t, models.RoleAdmin)
	f.moderator = f.user(t, models.RoleModerator)
	f.member = f.user(t, models.RoleMember)
	return f
}

// user creates a fixture user and returns it as an actor.
func (f *fixture) user(t *testing.T, role models.Role) models.Actor {
	t.Helper()

	email := "test-" + uuid.NewString()[:8] + "@engage.test"
	u, err := store.NewUserStore(f.db).Create(email, "password123", "Test User", role)
	if err != nil {
		t.Fatalf("create fixture user: %v", err)
	}
	t.Cleanup(func() { f.db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return models.Actor{ID: u.ID, Role: u.Role}
}

// post creates a draft sermon post owned by the actor.
func (f *fixture) post(t *testing.T, actor models.Actor) *models.Post {
	t.Helper()

	p, err := f.postService.Create(actor, PostParams{
		Title:          "Test Post " + uuid.NewString()[:8],
		Content:        "body",
		ContentTypeRef: models.TypeSlugSermon,
	})
	if err != nil {
		t.Fatalf("create fixture post: %v", err)
	}
	t.Cleanup(func() { f.db.Exec("DELETE FROM posts WHERE id = $1", p.ID) })
	return p
}

// seriesOf creates a series owned by the actor.
func (f *fixture) seriesOf(t *testing.T, actor models.Actor) *models.Series {
	t.Helper()

	ser, err := f.seriesService.Create(actor, SeriesParams{
		Title: "Test Series " + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("create fixture series: %v", err)
	}
	t.Cleanup(func() { f.db.Exec("DELETE FROM series WHERE id = $1", ser.ID) })
	return ser
}

// customType creates a custom content type as admin.
func (f *fixture) customType(t *testing.T) *models.ContentType {
	t.Helper()

	typeSlug := "test-" + uuid.NewString()[:8]
	ct, err := f.registry.Create(f.admin, "Test Type", typeSlug, "", 50)
	if err != nil {
		t.Fatalf("create fixture type: %v", err)
	}
	t.Cleanup(func() { f.db.Exec("DELETE FROM content_types WHERE id = $1", ct.ID) })
	return ct
}
