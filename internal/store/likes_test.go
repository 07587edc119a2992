package store_test

import (
	"context"
	"sync"
	"testing"

	"mdblog/internal/store"
	"mdblog/internal/testutil"
)

func newLikeStores(t *testing.T) (*store.UserStore, *store.LikeStore) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return store.NewUserStore(db), store.NewLikeStore(db)
}

func registerUser(t *testing.T, us *store.UserStore, name string) int64 {
	t.Helper()
	u, err := us.Register(context.Background(), name, name+"@example.com", "secret1")
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u.ID
}

func TestToggle(t *testing.T) {
	us, ls := newLikeStores(t)
	ctx := context.Background()
	alice := registerUser(t, us, "alice")

	liked, err := ls.Toggle(ctx, alice, "hello-world.md")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !liked {
		t.Error("first toggle should like")
	}
	if n, _ := ls.Count(ctx, "hello-world.md"); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	if ok, _ := ls.HasLiked(ctx, alice, "hello-world.md"); !ok {
		t.Error("HasLiked = false, want true")
	}

	// Toggling again returns to the original state.
	liked, err = ls.Toggle(ctx, alice, "hello-world.md")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if liked {
		t.Error("second toggle should unlike")
	}
	if n, _ := ls.Count(ctx, "hello-world.md"); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	if ok, _ := ls.HasLiked(ctx, alice, "hello-world.md"); ok {
		t.Error("HasLiked = true, want false")
	}
}

func TestTwoAccountsLikeSamePost(t *testing.T) {
	us, ls := newLikeStores(t)
	ctx := context.Background()
	alice := registerUser(t, us, "alice")
	bob := registerUser(t, us, "bob")

	if _, err := ls.Toggle(ctx, alice, "hello-world.md"); err != nil {
		t.Fatalf("toggle alice: %v", err)
	}
	if _, err := ls.Toggle(ctx, bob, "hello-world.md"); err != nil {
		t.Fatalf("toggle bob: %v", err)
	}
	if n, _ := ls.Count(ctx, "hello-world.md"); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	if _, err := ls.Toggle(ctx, alice, "hello-world.md"); err != nil {
		t.Fatalf("unlike alice: %v", err)
	}
	if n, _ := ls.Count(ctx, "hello-world.md"); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	if ok, _ := ls.HasLiked(ctx, alice, "hello-world.md"); ok {
		t.Error("alice HasLiked = true, want false")
	}
	if ok, _ := ls.HasLiked(ctx, bob, "hello-world.md"); !ok {
		t.Error("bob HasLiked = false, want true")
	}
}

// Concurrent toggles for the same pair must never leave more than one row;
// the unique constraint is the backstop, not application logic.
func TestConcurrentToggles(t *testing.T) {
	us, ls := newLikeStores(t)
	ctx := context.Background()
	alice := registerUser(t, us, "alice")

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			// Errors from lock contention are tolerable here; row count
			// is the property under test.
			_, _ = ls.Toggle(ctx, alice, "raced.md")
		}()
	}
	wg.Wait()

	count, err := ls.Count(ctx, "raced.md")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 && count != 1 {
		t.Errorf("row count = %d, want 0 or 1", count)
	}
}

func TestCountsAndLikedBy(t *testing.T) {
	us, ls := newLikeStores(t)
	ctx := context.Background()
	alice := registerUser(t, us, "alice")
	bob := registerUser(t, us, "bob")

	for _, f := range []string{"a.md", "b.md"} {
		if _, err := ls.Toggle(ctx, alice, f); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	if _, err := ls.Toggle(ctx, bob, "a.md"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	counts, err := ls.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["a.md"] != 2 || counts["b.md"] != 1 {
		t.Errorf("counts = %v", counts)
	}

	liked, err := ls.LikedBy(ctx, alice)
	if err != nil {
		t.Fatalf("likedBy: %v", err)
	}
	if !liked["a.md"] || !liked["b.md"] || len(liked) != 2 {
		t.Errorf("likedBy = %v", liked)
	}
}

func TestPurgeForPost(t *testing.T) {
	us, ls := newLikeStores(t)
	ctx := context.Background()
	alice := registerUser(t, us, "alice")
	bob := registerUser(t, us, "bob")

	for _, id := range []int64{alice, bob} {
		if _, err := ls.Toggle(ctx, id, "doomed.md"); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	if _, err := ls.Toggle(ctx, alice, "kept.md"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := ls.PurgeForPost(ctx, "doomed.md"); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n, _ := ls.Count(ctx, "doomed.md"); n != 0 {
		t.Errorf("count after purge = %d, want 0", n)
	}
	if n, _ := ls.Count(ctx, "kept.md"); n != 1 {
		t.Errorf("unrelated post affected: count = %d", n)
	}
}

func TestPurgeForUser(t *testing.T) {
	us, ls := newLikeStores(t)
	ctx := context.Background()
	alice := registerUser(t, us, "alice")
	bob := registerUser(t, us, "bob")

	if _, err := ls.Toggle(ctx, alice, "a.md"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := ls.Toggle(ctx, bob, "a.md"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := ls.PurgeForUser(ctx, alice); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if ok, _ := ls.HasLiked(ctx, alice, "a.md"); ok {
		t.Error("alice's like survived purge")
	}
	if ok, _ := ls.HasLiked(ctx, bob, "a.md"); !ok {
		t.Error("bob's like was removed")
	}
}

func TestRekey(t *testing.T) {
	us, ls := newLikeStores(t)
	ctx := context.Background()
	alice := registerUser(t, us, "alice")
	bob := registerUser(t, us, "bob")

	// alice liked both old and new names; bob only the old.
	if _, err := ls.Toggle(ctx, alice, "old.md"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := ls.Toggle(ctx, alice, "new.md"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := ls.Toggle(ctx, bob, "old.md"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := ls.Rekey(ctx, "old.md", "new.md"); err != nil {
		t.Fatalf("rekey: %v", err)
	}

	if n, _ := ls.Count(ctx, "old.md"); n != 0 {
		t.Errorf("old count = %d, want 0", n)
	}
	if n, _ := ls.Count(ctx, "new.md"); n != 2 {
		t.Errorf("new count = %d, want 2", n)
	}
	if ok, _ := ls.HasLiked(ctx, bob, "new.md"); !ok {
		t.Error("bob's like did not move")
	}
}
