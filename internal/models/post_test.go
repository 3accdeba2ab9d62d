package models

import (
	"testing"
	"time"
)

func TestPostStatusValid(t *testing.T) {
	for _, s := range []PostStatus{PostStatusDraft, PostStatusScheduled, PostStatusPublished} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []PostStatus{"", "draft", "LIVE"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestPostIsPublished(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		post Post
		want bool
	}{
		{"published live", Post{Status: PostStatusPublished, PublishedAt: &now}, true},
		{"draft", Post{Status: PostStatusDraft}, false},
		{"scheduled", Post{Status: PostStatusScheduled, PublishedAt: &now}, false},
		{"published but trashed", Post{Status: PostStatusPublished, PublishedAt: &now, IsDeleted: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.IsPublished(); got != tt.want {
				t.Errorf("IsPublished = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeriesVisibilityValid(t *testing.T) {
	for _, v := range []SeriesVisibility{SeriesPublic, SeriesMembersOnly, SeriesHidden} {
		if !v.Valid() {
			t.Errorf("%s should be valid", v)
		}
	}
	if SeriesVisibility("SECRET").Valid() {
		t.Error("unknown visibility should be invalid")
	}
}
