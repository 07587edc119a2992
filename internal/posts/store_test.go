package posts_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mdblog/internal/posts"
)

func newStore(t *testing.T) *posts.Store {
	t.Helper()
	s, err := posts.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	filename, err := s.Create(ctx, "Hello World!", "alice", "body")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filename != "hello-world.md" {
		t.Errorf("filename = %q, want hello-world.md", filename)
	}

	p, err := s.Get(ctx, filename)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Title != "Hello World!" || p.Author != "alice" || p.Body != "body" {
		t.Errorf("got %+v", p)
	}
}

func TestCreateConflict(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "Hello World!", "alice", "one"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A distinct title that normalizes to the same slug is a conflict, not
	// a silent overwrite.
	_, err := s.Create(ctx, "Hello, World", "bob", "two")
	if !errors.Is(err, posts.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	p, err := s.Get(ctx, "hello-world.md")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Author != "alice" || p.Body != "one" {
		t.Errorf("original post was clobbered: %+v", p)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing.md"); !errors.Is(err, posts.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Traversal and non-post names behave as absent.
	for _, name := range []string{"../etc/passwd", "a/b.md", "notes.txt", ""} {
		if _, err := s.Get(ctx, name); !errors.Is(err, posts.ErrNotFound) {
			t.Errorf("Get(%q): expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestUpdateInPlace(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	filename, err := s.Create(ctx, "Hello World", "alice", "v1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Update(ctx, filename, "Hello World", "alice", "v2")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != filename {
		t.Errorf("filename changed: %q", got)
	}

	p, _ := s.Get(ctx, filename)
	if p.Body != "v2" {
		t.Errorf("body = %q, want v2", p.Body)
	}
}

func TestUpdateRenames(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	old, err := s.Create(ctx, "Old Title", "alice", "body")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	renamed, err := s.Update(ctx, old, "New Title", "alice", "body")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if renamed != "new-title.md" {
		t.Errorf("renamed = %q, want new-title.md", renamed)
	}

	if _, err := s.Get(ctx, old); !errors.Is(err, posts.ErrNotFound) {
		t.Errorf("old file should be gone, got %v", err)
	}
	p, err := s.Get(ctx, renamed)
	if err != nil {
		t.Fatalf("get renamed: %v", err)
	}
	if p.Title != "New Title" {
		t.Errorf("title = %q", p.Title)
	}
}

func TestUpdateMissing(t *testing.T) {
	s := newStore(t)
	if _, err := s.Update(context.Background(), "missing.md", "T", "a", "b"); !errors.Is(err, posts.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	filename, err := s.Create(ctx, "Doomed", "alice", "body")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, filename); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, filename); !errors.Is(err, posts.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, filename); !errors.Is(err, posts.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	s, err := posts.NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := s.Create(ctx, title, "alice", "body"); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	// Filesystem mtime resolution can be coarse; pin explicit times.
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"first.md", "second.md", "third.md"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(filepath.Join(dir, name), ts, ts); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	want := []string{"third.md", "second.md", "first.md"}
	for i, w := range want {
		if list[i].Filename != w {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Filename, w)
		}
	}
}

func TestListSkipsNonPosts(t *testing.T) {
	dir := t.TempDir()
	s, err := posts.NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, err := s.Create(ctx, "Real Post", "alice", "body"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Filename != "real-post.md" {
		t.Errorf("list = %+v", list)
	}
}
