package domain

import (
	"errors"
	"math"
	"testing"
)

const j2000 = 2451545.0

func mustTimeline(t *testing.T, req TimelineRequest) *Timeline {
	t.Helper()
	tl, err := BuildTimeline(req)
	if err != nil {
		t.Fatalf("BuildTimeline failed: %v", err)
	}
	return tl
}

func TestBuildTimeline_MahaSequence(t *testing.T) {
	tl := mustTimeline(t, TimelineRequest{MoonLongitude: 0, BirthJD: j2000, Years: 125, Depth: 1})

	if len(tl.Periods) != 10 {
		t.Fatalf("expected 10 Maha periods, got %d", len(tl.Periods))
	}
	for i, p := range tl.Periods {
		want := Ketu.Advance(i)
		if p.Lord != want {
			t.Errorf("period %d: expected %s, got %s", i, want, p.Lord)
		}
		if p.Level != LevelMaha {
			t.Errorf("period %d: expected Maha level, got %s", i, p.Level)
		}
		if len(p.Children) != 0 {
			t.Errorf("period %d: depth 1 must not have children", i)
		}
	}
	if tl.Periods[9].Lord != Ketu {
		t.Errorf("expected the cycle to restart at Ketu, got %s", tl.Periods[9].Lord)
	}

	first := tl.Periods[0]
	if first.Start != j2000 || !first.Partial {
		t.Errorf("expected first period to start at birth and be partial: %+v", first)
	}
	if first.Years != 7 {
		t.Errorf("expected 7 years of Ketu, got %v", first.Years)
	}
	if tl.Periods[1].Partial {
		t.Error("second period must not be partial")
	}
	if !approx(tl.Periods[1].Duration(), 20*DefaultDaysPerYear, 1e-6) {
		t.Errorf("expected Venus to run %v days, got %v", 20*DefaultDaysPerYear, tl.Periods[1].Duration())
	}
}

func TestBuildTimeline_StopsAtRequestedYears(t *testing.T) {
	tl := mustTimeline(t, TimelineRequest{MoonLongitude: 0, BirthJD: j2000, Years: 120, Depth: 1})
	if len(tl.Periods) != 9 {
		t.Errorf("expected 9 periods for one cycle, got %d", len(tl.Periods))
	}
	if !approx(tl.End(), j2000+120*DefaultDaysPerYear, 1e-6) {
		t.Errorf("expected timeline to end after 120 years, got %v", tl.End())
	}
	if tl.Truncated {
		t.Error("timeline must not be truncated")
	}
}

func TestBuildTimeline_Continuity(t *testing.T) {
	for _, lon := range []float64{0, 20.0 / 3.0, 123.456, 359.5} {
		tl := mustTimeline(t, TimelineRequest{MoonLongitude: lon, BirthJD: j2000, Years: 120, Depth: 4})
		checkContiguous(t, tl.Periods, lon)
		for _, p := range tl.Periods {
			checkChildren(t, p, lon)
		}
	}
}

func checkContiguous(t *testing.T, ps []Period, lon float64) {
	t.Helper()
	for i := 0; i < len(ps)-1; i++ {
		if math.Abs(ps[i].End-ps[i+1].Start) > 1e-6 {
			t.Errorf("lon %v: gap between %s and %s at level %s", lon, ps[i].Lord, ps[i+1].Lord, ps[i].Level)
		}
	}
}

func checkChildren(t *testing.T, p Period, lon float64) {
	t.Helper()
	if len(p.Children) == 0 {
		return
	}
	checkContiguous(t, p.Children, lon)

	first, last := p.Children[0], p.Children[len(p.Children)-1]
	if first.Start != p.Start {
		t.Errorf("lon %v: first child of %s starts at %v, parent at %v", lon, p.Lord, first.Start, p.Start)
	}
	if last.End != p.End {
		t.Errorf("lon %v: last child of %s ends at %v, parent at %v", lon, p.Lord, last.End, p.End)
	}

	var sum float64
	for _, c := range p.Children {
		if c.Level != p.Level+1 {
			t.Errorf("child level %s under %s", c.Level, p.Level)
		}
		if c.Duration() <= 0 {
			t.Errorf("lon %v: non-positive child duration %v", lon, c.Duration())
		}
		sum += c.Duration()
		checkChildren(t, c, lon)
	}
	if math.Abs(sum-p.Duration()) > 1e-6 {
		t.Errorf("lon %v: children of %s span %v days, parent %v", lon, p.Lord, sum, p.Duration())
	}
}

func TestBuildTimeline_FullPeriodsStartWithOwnLord(t *testing.T) {
	tl := mustTimeline(t, TimelineRequest{MoonLongitude: 123.456, BirthJD: j2000, Years: 120, Depth: 3})

	err := tl.Walk(func(p Period) error {
		if p.Partial || len(p.Children) == 0 {
			return nil
		}
		if len(p.Children) != LordCount {
			t.Errorf("full %s period has %d children", p.Lord, len(p.Children))
		}
		if p.Children[0].Lord != p.Lord {
			t.Errorf("full %s period starts with %s", p.Lord, p.Children[0].Lord)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
}

func TestBuildTimeline_PartialBirthPeriod(t *testing.T) {
	tl := mustTimeline(t, TimelineRequest{MoonLongitude: 20.0 / 3.0, BirthJD: j2000, Years: 120, Depth: 2})

	maha := tl.Periods[0]
	if maha.Lord != Ketu || !approx(maha.Years, 3.5, 1e-9) {
		t.Fatalf("expected 3.5 years of Ketu, got %s %v", maha.Lord, maha.Years)
	}

	// 3.5 of 7 years elapsed: Ketu, Venus, Sun, Moon and Mars Antars are over
	want := []Lord{Rahu, Jupiter, Saturn, Mercury}
	if len(maha.Children) != len(want) {
		t.Fatalf("expected %d Antar periods, got %d", len(want), len(maha.Children))
	}
	for i, c := range maha.Children {
		if c.Lord != want[i] {
			t.Errorf("Antar %d: expected %s, got %s", i, want[i], c.Lord)
		}
		if c.Partial != (i == 0) {
			t.Errorf("Antar %d: unexpected partial=%v", i, c.Partial)
		}
	}

	rahu := maha.Children[0]
	if rahu.Start != j2000 {
		t.Errorf("expected Rahu to start at birth, got %v", rahu.Start)
	}
	// Rahu Antar of Ketu ends 68/120 of the way through the full 7 years
	if !approx(rahu.Years, 7*68.0/120-3.5, 1e-9) {
		t.Errorf("expected Rahu balance %v, got %v", 7*68.0/120-3.5, rahu.Years)
	}
}

func TestBuildTimeline_FirstAntarMatchesKPSubLord(t *testing.T) {
	for lon := 0.123; lon < FullCircle; lon += 7.77 {
		tl := mustTimeline(t, TimelineRequest{MoonLongitude: lon, BirthJD: j2000, Years: 1, Depth: 2})
		kp, err := ResolveSubLords(lon, 2)
		if err != nil {
			t.Fatalf("ResolveSubLords(%v) failed: %v", lon, err)
		}
		if got := tl.Periods[0].Children[0].Lord; got != kp.SubLord {
			t.Errorf("lon %v: first Antar %s, KP sub-lord %s", lon, got, kp.SubLord)
		}
	}
}

func TestBuildTimeline_Truncated(t *testing.T) {
	tl := mustTimeline(t, TimelineRequest{MoonLongitude: 0, BirthJD: j2000, Years: 1e9, Depth: 1})
	if !tl.Truncated {
		t.Error("expected truncated timeline")
	}
	if len(tl.Periods) != MaxMahaPeriods {
		t.Errorf("expected %d periods, got %d", MaxMahaPeriods, len(tl.Periods))
	}
}

func TestBuildTimeline_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  TimelineRequest
	}{
		{"zero depth", TimelineRequest{BirthJD: j2000, Years: 120, Depth: 0}},
		{"depth beyond Prana", TimelineRequest{BirthJD: j2000, Years: 120, Depth: 6}},
		{"zero years", TimelineRequest{BirthJD: j2000, Years: 0, Depth: 1}},
		{"NaN longitude", TimelineRequest{MoonLongitude: math.NaN(), BirthJD: j2000, Years: 120, Depth: 1}},
		{"infinite birth", TimelineRequest{BirthJD: math.Inf(1), Years: 120, Depth: 1}},
		{"negative days per year", TimelineRequest{BirthJD: j2000, Years: 120, Depth: 1, DaysPerYear: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildTimeline(tt.req); !errors.Is(err, ErrOutOfRangeInput) {
				t.Errorf("expected ErrOutOfRangeInput, got %v", err)
			}
		})
	}
}

func TestTimeline_CloneIsDeep(t *testing.T) {
	tl := mustTimeline(t, TimelineRequest{MoonLongitude: 0, BirthJD: j2000, Years: 120, Depth: 2})
	c := tl.Clone()
	c.Periods[0].Children[0].Lord = Mercury

	if tl.Periods[0].Children[0].Lord != Ketu {
		t.Error("modifying the clone changed the original")
	}
}

func TestTimeline_WalkStops(t *testing.T) {
	tl := mustTimeline(t, TimelineRequest{MoonLongitude: 0, BirthJD: j2000, Years: 120, Depth: 2})
	stop := errors.New("stop")
	visited := 0
	err := tl.Walk(func(p Period) error {
		visited++
		if visited == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected stop error, got %v", err)
	}
	if visited != 3 {
		t.Errorf("expected 3 visits, got %d", visited)
	}
}
