package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestSessionCreateAndGet(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	userID := uuid.New()
	id, err := store.Create(ctx, w, &Data{
		UserID:      userID,
		Email:       "pastor@engage.test",
		DisplayName: "Pastor Test",
		Role:        models.RoleModerator,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	cookies := w.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(sessionCookie)

	data, err := store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data == nil {
		t.Fatal("session not found")
	}
	if data.UserID != userID {
		t.Errorf("user id = %s, want %s", data.UserID, userID)
	}
	if data.Role != models.RoleModerator {
		t.Errorf("role = %s, want MODERATOR", data.Role)
	}

	actor := data.Actor()
	if actor.ID != userID || actor.Role != models.RoleModerator {
		t.Error("Actor() does not carry the session identity")
	}
}

func TestSessionGetWithoutCookie(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	data, err := store.Get(context.Background(), r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("no cookie must mean no session, not an error")
	}
}

func TestSessionDestroy(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	if _, err := store.Create(ctx, w, &Data{UserID: uuid.New(), Role: models.RoleAdmin}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}

	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	r.AddCookie(sessionCookie)
	w2 := httptest.NewRecorder()

	if err := store.Destroy(ctx, w2, r); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	// The session is gone from the backend.
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(sessionCookie)
	data, err := store.Get(ctx, r2)
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if data != nil {
		t.Error("session survived Destroy")
	}

	// The cookie is expired on the response.
	for _, c := range w2.Result().Cookies() {
		if c.Name == CookieName && c.MaxAge >= 0 {
			t.Error("session cookie not expired")
		}
	}
}
