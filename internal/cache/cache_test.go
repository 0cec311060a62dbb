package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUCache_GetSetEvict(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}

	// a was just used, so b is the eviction candidate
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", c.Size())
	}

	c.Set("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Fatalf("overwrite failed, got %d", v)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("a should be deleted")
	}

	if st := c.Stats(); st.Hits != 2 || st.Misses != 2 || st.Size != 1 {
		t.Fatalf("Stats() = %+v", st)
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
	now = now.Add(30 * time.Second)
	c.Set("fresh", "v")

	now = now.Add(45 * time.Second)
	if _, ok := c.Get("k0"); ok {
		t.Fatal("k0 should have expired")
	}
	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("CleanExpired() = %d, want 2", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("fresh entry should survive")
	}
}

func TestLRUCache_Purge(t *testing.T) {
	c := NewLRUCache[int](5, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("Size() after Purge = %d", c.Size())
	}
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatal("cache unusable after Purge")
	}
}

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(nil)
	c := NewLRUCache[int](5, time.Nanosecond)
	m.Register(c)

	c.Set("a", 1)
	time.Sleep(time.Millisecond)
	if n := m.CleanNow(); n != 1 {
		t.Fatalf("CleanNow() = %d, want 1", n)
	}

	// Stop before start must not block
	NewManager(nil).Stop()

	m.StartCleanup(time.Hour)
	m.Stop()
}
