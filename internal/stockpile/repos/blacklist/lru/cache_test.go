package lru

import (
	"testing"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
)

func TestDecisionCache_HitMissAndPut(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	d := domain.BlacklistDecision{Blocked: true, Matched: "10.100.*"}

	if _, ok := c.Get("10.100.200.1"); ok {
		t.Fatalf("expected miss before put")
	}
	c.Put("10.100.200.1", d)

	got, ok := c.Get("10.100.200.1")
	if !ok || !got.Blocked || got.Matched != "10.100.*" {
		t.Fatalf("unexpected get: ok=%v got=%+v", ok, got)
	}

	hits, misses, _ := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("stats hits=%d misses=%d, want 1/1", hits, misses)
	}
}

func TestDecisionCache_EvictionAndLen(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a.example.com", domain.BlacklistDecision{Blocked: true})
	c.Put("b.example.com", domain.BlacklistDecision{Blocked: true})
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2", got)
	}
	c.Put("c.example.com", domain.AllowDecision())
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2 after eviction", got)
	}
	if _, _, ev := c.Stats(); ev != 1 {
		t.Fatalf("evictions=%d want=1", ev)
	}
	if _, ok := c.Get("a.example.com"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
}

func TestDecisionCache_PurgeCountsEvictions(t *testing.T) {
	c, err := New(3)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a", domain.AllowDecision())
	c.Put("b", domain.AllowDecision())
	c.Put("c", domain.AllowDecision())

	c.Purge()
	if got := c.Len(); got != 0 {
		t.Fatalf("len=%d want=0 after purge", got)
	}
	if _, _, ev := c.Stats(); ev != 3 {
		t.Fatalf("evictions=%d want=3", ev)
	}
}

func TestDisabledCache(t *testing.T) {
	for _, size := range []int{0, -1} {
		c, err := New(size)
		if err != nil {
			t.Fatalf("New(%d) error: %v", size, err)
		}
		c.Put("a", domain.BlacklistDecision{Blocked: true})
		if _, ok := c.Get("a"); ok {
			t.Fatalf("disabled cache should always miss")
		}
		c.Purge()
		if c.Len() != 0 {
			t.Fatalf("disabled cache should be empty")
		}
		if h, m, e := c.Stats(); h != 0 || m != 0 || e != 0 {
			t.Fatalf("disabled cache should report zero stats")
		}
	}
}
