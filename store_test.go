package ogcards

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "posts.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	// Reopening runs the migration again against an existing schema.
	path := filepath.Join(t.TempDir(), "again.db")
	first, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	first.Close()
	second, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	second.Close()
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	published := time.Date(2024, 1, 15, 9, 30, 0, 0, time.FixedZone("CET", 3600))

	post := Post{ID: "test-post", Title: "Test Post", Author: "Ann", Published: published}
	if err := s.SavePost(ctx, post); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	got, err := s.GetPost(ctx, "test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title || got.Author != post.Author {
		t.Errorf("GetPost = %+v, want %+v", got, post)
	}
	if !got.Published.Equal(published) {
		t.Errorf("Published = %v, want %v", got.Published, published)
	}

	post.Title = "Updated"
	if err := s.SavePost(ctx, post); err != nil {
		t.Fatalf("SavePost update failed: %v", err)
	}
	got, _ = s.GetPost(ctx, "test-post")
	if got.Title != "Updated" {
		t.Errorf("Title after update = %q", got.Title)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetPost(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost() error = %v, want ErrNotFound", err)
	}
}

func TestStoreSortedPosts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	posts := []Post{
		{ID: "old", Title: "Old", Published: day(1)},
		{ID: "new", Title: "New", Published: day(20)},
		{ID: "undated", Title: "Undated"},
		{ID: "draft", Title: "Draft", Published: day(25), Draft: true},
	}
	for _, p := range posts {
		if err := s.SavePost(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	sorted, err := s.SortedPosts(ctx)
	if err != nil {
		t.Fatalf("SortedPosts: %v", err)
	}
	want := []string{"new", "old", "undated"}
	if len(sorted) != len(want) {
		t.Fatalf("SortedPosts = %+v, want %v", sorted, want)
	}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d] = %q, want %q", i, sorted[i].ID, id)
		}
	}
	if !sorted[2].Published.IsZero() {
		t.Error("undated post should have a zero date")
	}

	all, err := s.ListAllPosts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[0].ID != "draft" || !all[0].Draft {
		t.Errorf("ListAllPosts = %+v, want the draft first", all)
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	if err := s.SavePost(ctx, Post{ID: "gone", Title: "Gone"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePost(ctx, "gone"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := s.GetPost(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("post still present: %v", err)
	}
}
