package ogcards

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type chanInvalidator chan struct{}

func (c chanInvalidator) Invalidate() {
	select {
	case c <- struct{}{}:
	default:
	}
}

func TestWatchInvalidatesOnPostChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hits := make(chanInvalidator, 1)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, hits) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-hits:
		t.Fatal("non-post file should not invalidate")
	case <-time.After(watchDebounce + 200*time.Millisecond):
	}

	if err := os.WriteFile(filepath.Join(dir, "post.md"), []byte("---\ntitle: x\n---\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-hits:
	case <-time.After(5 * time.Second):
		t.Fatal("post write did not invalidate")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), chanInvalidator(make(chan struct{}, 1)))
	if err == nil {
		t.Fatal("Watch on a missing directory should fail")
	}
}
