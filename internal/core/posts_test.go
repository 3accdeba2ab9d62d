package core

import (
	"errors"
	"testing"
	"time"

	"github.com/Gidheav/church-digital-engagement-platform-sub001/internal/models"
)

func TestPostsCreateStartsAsDraft(t *testing.T) {
	f := newFixture(t)

	p := f.post(t, f.moderator)
	if p.Status != models.PostStatusDraft {
		t.Errorf("status = %s, want DRAFT", p.Status)
	}
	if p.PublishedAt != nil {
		t.Error("new post must not carry a publish time")
	}

	if _, err := f.postService.Create(f.member, PostParams{
		Title:          "Nope",
		ContentTypeRef: models.TypeSlugSermon,
	}); !errors.Is(err, ErrForbidden) {
		t.Errorf("member create: err = %v, want ErrForbidden", err)
	}

	if _, err := f.postService.Create(f.moderator, PostParams{
		Title:          "Bad type",
		ContentTypeRef: "no-such-type",
	}); !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("unknown type: err = %v, want ErrInvalidContentType", err)
	}
}

func TestPostsPublishNow(t *testing.T) {
	f := newFixture(t)
	p := f.post(t, f.moderator)

	published, err := f.postService.PublishNow(f.moderator, p.ID)
	if err != nil {
		t.Fatalf("PublishNow: %v", err)
	}
	if published.Status != models.PostStatusPublished {
		t.Errorf("status = %s, want PUBLISHED", published.Status)
	}
	if published.PublishedAt == nil || published.PublishedAt.After(time.Now()) {
		t.Error("publish time must be set and not in the future")
	}

	// Publishing again is a no-op, not an error.
	again, err := f.postService.PublishNow(f.moderator, p.ID)
	if err != nil {
		t.Fatalf("PublishNow again: %v", err)
	}
	if !again.PublishedAt.Equal(*published.PublishedAt) {
		t.Error("re-publish must not rewrite the publish time")
	}
}

func TestPostsScheduleValidation(t *testing.T) {
	f := newFixture(t)
	p := f.post(t, f.moderator)

	// The past and the present are not schedulable.
	for _, at := range []time.Time{time.Now().Add(-time.Hour), time.Now()} {
		if _, err := f.postService.Schedule(f.moderator, p.ID, at); !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("Schedule(%v): err = %v, want ErrInvalidSchedule", at, err)
		}
	}

	future := time.Now().Add(time.Hour)
	scheduled, err := f.postService.Schedule(f.moderator, p.ID, future)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if scheduled.Status != models.PostStatusScheduled {
		t.Errorf("status = %s, want SCHEDULED", scheduled.Status)
	}

	// Scheduling only starts from DRAFT.
	if _, err := f.postService.Schedule(f.moderator, p.ID, future.Add(time.Hour)); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("schedule from SCHEDULED: err = %v, want ErrInvalidTransition", err)
	}
}

func TestPostsCancelSchedule(t *testing.T) {
	f := newFixture(t)
	p := f.post(t, f.moderator)

	if _, err := f.postService.CancelSchedule(f.moderator, p.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel from DRAFT: err = %v, want ErrInvalidTransition", err)
	}

	if _, err := f.postService.Schedule(f.moderator, p.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	reverted, err := f.postService.CancelSchedule(f.moderator, p.ID)
	if err != nil {
		t.Fatalf("CancelSchedule: %v", err)
	}
	if reverted.Status != models.PostStatusDraft {
		t.Errorf("status = %s, want DRAFT", reverted.Status)
	}
	if reverted.PublishedAt != nil {
		t.Error("pending publish time not cleared")
	}
}

func TestPostsUnpublishPreservesViews(t *testing.T) {
	f := newFixture(t)
	p := f.post(t, f.moderator)

	if _, err := f.postService.Unpublish(f.moderator, p.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("unpublish a draft: err = %v, want ErrInvalidTransition", err)
	}

	if _, err := f.postService.PublishNow(f.moderator, p.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := f.postService.RecordView(p.ID); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}

	unpublished, err := f.postService.Unpublish(f.moderator, p.ID)
	if err != nil {
		t.Fatalf("Unpublish: %v", err)
	}
	if unpublished.Status != models.PostStatusDraft {
		t.Errorf("status = %s, want DRAFT", unpublished.Status)
	}
	if unpublished.PublishedAt != nil {
		t.Error("published_at should be cleared on unpublish")
	}
	if unpublished.ViewsCount != 3 {
		t.Errorf("views_count = %d, want 3: history is preserved", unpublished.ViewsCount)
	}
}

func TestPostsSoftDeleteOverlay(t *testing.T) {
	f := newFixture(t)
	p := f.post(t, f.moderator)

	if _, err := f.postService.PublishNow(f.moderator, p.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	trashed, err := f.postService.SoftDelete(f.moderator, p.ID)
	if err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if !trashed.IsDeleted {
		t.Fatal("post not trashed")
	}
	if trashed.Status != models.PostStatusPublished {
		t.Error("trash must not change the publish status")
	}
	if trashed.IsPublished() {
		t.Error("trashed post must not be publicly visible")
	}

	// Idempotent in both directions.
	if _, err := f.postService.SoftDelete(f.moderator, p.ID); err != nil {
		t.Fatalf("SoftDelete again: %v", err)
	}
	restored, err := f.postService.Restore(f.moderator, p.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.IsDeleted {
		t.Error("post not restored")
	}
	if !restored.IsPublished() {
		t.Error("restored post should be live again, exactly as it was")
	}
	if _, err := f.postService.Restore(f.moderator, p.ID); err != nil {
		t.Fatalf("Restore again: %v", err)
	}
}

func TestPostsModeratorOwnershipBoundary(t *testing.T) {
	f := newFixture(t)
	other := f.user(t, models.RoleModerator)
	p := f.post(t, f.moderator)

	ops := map[string]func() error{
		"update": func() error {
			_, err := f.postService.Update(other, p.ID, PostParams{
				Title: "Hijacked", ContentTypeRef: models.TypeSlugSermon,
			})
			return err
		},
		"publish":  func() error { _, err := f.postService.PublishNow(other, p.ID); return err },
		"schedule": func() error { _, err := f.postService.Schedule(other, p.ID, time.Now().Add(time.Hour)); return err },
		"trash":    func() error { _, err := f.postService.SoftDelete(other, p.ID); return err },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrForbidden) {
			t.Errorf("%s by non-owner moderator: err = %v, want ErrForbidden", name, err)
		}
	}

	// An admin passes the same checks on anyone's post.
	if _, err := f.postService.PublishNow(f.admin, p.ID); err != nil {
		t.Errorf("admin publish: %v", err)
	}
}

func TestPostsRecordViewIgnoresHidden(t *testing.T) {
	f := newFixture(t)
	p := f.post(t, f.moderator)

	// Draft post: silently ignored, no error, no count.
	if err := f.postService.RecordView(p.ID); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	got, err := f.postService.Get(p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ViewsCount != 0 {
		t.Errorf("views_count = %d, want 0", got.ViewsCount)
	}
}

func TestPostsPublishDue(t *testing.T) {
	f := newFixture(t)
	p := f.post(t, f.moderator)

	if _, err := f.postService.Schedule(f.moderator, p.ID, time.Now().Add(50*time.Millisecond)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	published, err := f.postService.PublishDue(time.Now())
	if err != nil {
		t.Fatalf("PublishDue: %v", err)
	}
	found := false
	for _, got := range published {
		if got.ID == p.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("due post was not published")
	}

	live, err := f.postService.GetPublished(p.ID)
	if err != nil {
		t.Fatalf("GetPublished: %v", err)
	}
	if live.Status != models.PostStatusPublished {
		t.Errorf("status = %s, want PUBLISHED", live.Status)
	}
}
