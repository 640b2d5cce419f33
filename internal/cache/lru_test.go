package cache

import (
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "alpha")
	c.Set("b", "beta")
	if v, ok := c.Get("a"); !ok || v != "alpha" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}

	// a was used last, so b is evicted
	c.Set("c", "gamma")
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}

	c.Set("a", "again")
	if v, _ := c.Get("a"); v != "again" {
		t.Errorf("overwrite failed, got %q", v)
	}
}

func TestLRUCache_TTL(t *testing.T) {
	now := time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("summary", 1)
	c.Set("other", 2)
	now = now.Add(30 * time.Second)
	if _, ok := c.Get("summary"); !ok {
		t.Fatal("entry should still be fresh")
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get("summary"); ok {
		t.Error("entry should have expired")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCache_DeleteAndPurge(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be deleted")
	}

	c.Purge()
	if c.Size() != 0 {
		t.Errorf("Size() after Purge = %d", c.Size())
	}
	c.Set("d", 4)
	if v, ok := c.Get("d"); !ok || v != 4 {
		t.Error("cache should be usable after Purge")
	}
}

func TestManager_CleanNow(t *testing.T) {
	now := time.Now()
	a := NewLRUCache[int](10, time.Second)
	a.now = func() time.Time { return now }
	a.Set("x", 1)
	a.Set("y", 2)

	m := NewManager(nil)
	m.Register(a)
	now = now.Add(2 * time.Second)

	if n := m.CleanNow(); n != 2 {
		t.Errorf("CleanNow() = %d, want 2", n)
	}

	m.StartCleanup(10 * time.Millisecond)
	m.Stop()
}
