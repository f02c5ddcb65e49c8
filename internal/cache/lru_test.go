package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("unexpected a: %v %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("unexpected size %d", c.Size())
	}
}

func TestLRUExpires(t *testing.T) {
	c := NewLRUCache[string, int](10, time.Minute)
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(2 * time.Minute)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Fatal("a should have expired")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected 1 expired entry, got %d", n)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("unexpected c: %v %v", v, ok)
	}
}

func TestLRUDelete(t *testing.T) {
	c := NewLRUCache[int, string](2, time.Minute)
	c.Set(1, "x")
	c.Delete(1)
	c.Delete(2)
	if c.Size() != 0 {
		t.Fatalf("unexpected size %d", c.Size())
	}
}
