package memcache

import (
	"testing"
	"time"

	"dasha/internal/domain"
)

func buildTimeline(t *testing.T) *domain.Timeline {
	t.Helper()
	tl, err := domain.BuildTimeline(domain.TimelineRequest{MoonLongitude: 0, BirthJD: 2451545, Years: 120, Depth: 2})
	if err != nil {
		t.Fatalf("BuildTimeline failed: %v", err)
	}
	return tl
}

func TestTimelineCache_GetSet(t *testing.T) {
	c := New(time.Minute, 0)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss on empty cache")
	}

	tl := buildTimeline(t)
	c.Set("k", tl)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got.Periods) != len(tl.Periods) {
		t.Errorf("expected %d periods, got %d", len(tl.Periods), len(got.Periods))
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestTimelineCache_ReturnsCopies(t *testing.T) {
	c := New(time.Minute, 0)
	tl := buildTimeline(t)
	c.Set("k", tl)

	// mutating the original after Set must not leak into the cache
	tl.Periods[0].Lord = domain.Mercury

	first, _ := c.Get("k")
	if first.Periods[0].Lord != domain.Ketu {
		t.Errorf("cache holds caller's tree: got %s", first.Periods[0].Lord)
	}

	first.Periods[0].Children[0].Lord = domain.Mercury
	second, _ := c.Get("k")
	if second.Periods[0].Children[0].Lord != domain.Ketu {
		t.Error("mutating a returned timeline changed the cache")
	}
}

func TestTimelineCache_Expiry(t *testing.T) {
	c := New(10*time.Millisecond, 0)
	c.Set("k", buildTimeline(t))

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestTimelineCache_Flush(t *testing.T) {
	c := New(time.Minute, 0)
	c.Set("a", buildTimeline(t))
	c.Set("b", buildTimeline(t))
	c.Flush()

	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}
