package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLocate_ZeroOffsetIsRotationStart(t *testing.T) {
	for _, start := range Sequence() {
		loc, err := Locate(start, 120, 0)
		if err != nil {
			t.Fatalf("Locate(%s) failed: %v", start, err)
		}
		if loc.Lord != start {
			t.Errorf("start %s: expected first lord %s, got %s", start, start, loc.Lord)
		}
		if loc.Offset != 0 {
			t.Errorf("start %s: expected zero local offset, got %v", start, loc.Offset)
		}
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name       string
		start      Lord
		total      float64
		offset     float64
		wantLord   Lord
		wantOffset float64
		wantSpan   float64
	}{
		{"inside first segment", Ketu, 120, 6.999, Ketu, 6.999, 7},
		{"just past first boundary", Ketu, 120, 7.001, Venus, 0.001, 20},
		{"exact boundary belongs to next lord", Ketu, 120, 7, Venus, 0, 20},
		{"rotation starting at Venus", Venus, 20, 3.5, Sun, 3.5 - 20.0*20/120, 1},
		{"exactly at total clamps to last", Ketu, 120, 120, Mercury, 17, 17},
		{"floating error past total clamps", Ketu, 120, 120 + 1e-12, Mercury, 17, 17},
		{"wraps past total", Ketu, 120, 127, Venus, 0, 20},
		{"negative wraps", Ketu, 120, -1, Mercury, 16, 17},
		{"tiny negative snaps to zero", Ketu, 120, -1e-12, Ketu, 0, 7},
		{"several cycles", Moon, 120, 360 + 5, Moon, 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Locate(tt.start, tt.total, tt.offset)
			if err != nil {
				t.Fatalf("Locate failed: %v", err)
			}
			if loc.Lord != tt.wantLord {
				t.Errorf("expected lord %s, got %s", tt.wantLord, loc.Lord)
			}
			if !approx(loc.Offset, tt.wantOffset, 1e-9) {
				t.Errorf("expected offset %v, got %v", tt.wantOffset, loc.Offset)
			}
			if !approx(loc.Span(), tt.wantSpan, 1e-9) {
				t.Errorf("expected span %v, got %v", tt.wantSpan, loc.Span())
			}
		})
	}
}

func TestLocate_WholeCyclesGiveUnsignedZero(t *testing.T) {
	for _, offset := range []float64{-120, -240, 240} {
		loc, err := Locate(Venus, 120, offset)
		if err != nil {
			t.Fatalf("Locate(%v) failed: %v", offset, err)
		}
		if loc.Lord != Venus {
			t.Errorf("offset %v: expected Venus, got %s", offset, loc.Lord)
		}
		if loc.Offset != 0 || math.Signbit(loc.Offset) {
			t.Errorf("offset %v: expected +0 local offset, got %v (signbit %v)", offset, loc.Offset, math.Signbit(loc.Offset))
		}
	}
}

func TestLocate_ComputedBoundarySwitchesLord(t *testing.T) {
	// Venus/Venus ends at 20*20/120 within a 20-unit Venus span
	b := boundary(20, 20)

	loc, _ := Locate(Venus, 20, b)
	if loc.Lord != Sun {
		t.Errorf("at boundary: expected Sun, got %s", loc.Lord)
	}

	loc, _ = Locate(Venus, 20, b-1e-6)
	if loc.Lord != Venus {
		t.Errorf("below boundary: expected Venus, got %s", loc.Lord)
	}

	loc, _ = Locate(Venus, 20, b+1e-6)
	if loc.Lord != Sun {
		t.Errorf("above boundary: expected Sun, got %s", loc.Lord)
	}
}

func TestLocate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		start  Lord
		total  float64
		offset float64
	}{
		{"zero total", Ketu, 0, 1},
		{"negative total", Ketu, -5, 1},
		{"infinite total", Ketu, math.Inf(1), 1},
		{"NaN offset", Ketu, 120, math.NaN()},
		{"invalid lord", NoLord, 120, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Locate(tt.start, tt.total, tt.offset)
			if !errors.Is(err, ErrOutOfRangeInput) {
				t.Errorf("expected ErrOutOfRangeInput, got %v", err)
			}
		})
	}
}

func TestSegments_PartitionExactly(t *testing.T) {
	for _, start := range Sequence() {
		for _, total := range []float64{120, 1, NakshatraSpan, 20 * DefaultDaysPerYear} {
			segs := Segments(start, total)
			if len(segs) != LordCount {
				t.Fatalf("expected %d segments, got %d", LordCount, len(segs))
			}
			if segs[0].Start != 0 {
				t.Errorf("first segment must start at 0, got %v", segs[0].Start)
			}
			if segs[LordCount-1].End != total {
				t.Errorf("last segment must end at %v, got %v", total, segs[LordCount-1].End)
			}
			for i := 0; i < LordCount-1; i++ {
				if segs[i].End != segs[i+1].Start {
					t.Errorf("gap between segment %d and %d: %v != %v", i, i+1, segs[i].End, segs[i+1].Start)
				}
				if segs[i+1].Lord != segs[i].Lord.Next() {
					t.Errorf("segment %d: expected %s after %s", i+1, segs[i].Lord.Next(), segs[i+1].Lord)
				}
			}
			if segs[0].Lord != start {
				t.Errorf("expected rotation to start at %s, got %s", start, segs[0].Lord)
			}
		}
	}
}

func TestDrillDown_StartOfCycle(t *testing.T) {
	levels, err := DrillDown(Ketu, 120, 0, 5, 0)
	if err != nil {
		t.Fatalf("DrillDown failed: %v", err)
	}
	if len(levels) != 5 {
		t.Fatalf("expected 5 levels, got %d", len(levels))
	}
	for _, lv := range levels {
		if lv.Lord != Ketu {
			t.Errorf("level %d: expected Ketu, got %s", lv.Depth, lv.Lord)
		}
	}
}

func TestDrillDown_ReRotatesAtFoundLord(t *testing.T) {
	tests := []struct {
		offset float64
		want   []Lord
	}{
		{7.001, []Lord{Venus, Venus}},
		{10.5, []Lord{Venus, Sun}},
		{0.5, []Lord{Ketu, Venus}},
	}

	for _, tt := range tests {
		levels, err := DrillDown(Ketu, 120, tt.offset, len(tt.want), 0)
		if err != nil {
			t.Fatalf("DrillDown(%v) failed: %v", tt.offset, err)
		}
		for i, want := range tt.want {
			if levels[i].Lord != want {
				t.Errorf("offset %v level %d: expected %s, got %s", tt.offset, i+1, want, levels[i].Lord)
			}
		}
	}
}

func TestDrillDown_AbsolutePositions(t *testing.T) {
	levels, err := DrillDown(Ketu, 120, 10.5, 2, 0)
	if err != nil {
		t.Fatalf("DrillDown failed: %v", err)
	}

	venus, sun := levels[0], levels[1]
	if !approx(venus.Start, 7, 1e-12) || !approx(venus.Span, 20, 1e-12) || !approx(venus.Offset, 3.5, 1e-12) {
		t.Errorf("unexpected Maha level: %+v", venus)
	}
	if !approx(sun.Start, 7+20.0/6, 1e-9) {
		t.Errorf("expected Sun to start at %v, got %v", 7+20.0/6, sun.Start)
	}
	if !approx(sun.Span, 1, 1e-12) {
		t.Errorf("expected Sun span 1, got %v", sun.Span)
	}
	if !approx(sun.Start+sun.Offset, 10.5, 1e-9) {
		t.Errorf("expected point at 10.5, got %v", sun.Start+sun.Offset)
	}
	if !approx(sun.Remaining(), sun.End()-10.5, 1e-9) {
		t.Errorf("remaining %v inconsistent with end %v", sun.Remaining(), sun.End())
	}
}

func TestDrillDown_UnderflowMarksUndetermined(t *testing.T) {
	levels, err := DrillDown(Ketu, 1e-6, 0, 5, 1e-9)
	if !errors.Is(err, ErrDepthExceedsResolution) {
		t.Fatalf("expected ErrDepthExceedsResolution, got %v", err)
	}

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
	if resErr.Level != 3 {
		t.Errorf("expected resolution to fail at level 3, got %d", resErr.Level)
	}

	if len(levels) != 5 {
		t.Fatalf("expected 5 levels, got %d", len(levels))
	}
	for i, lv := range levels {
		determined := i < 2
		if lv.Determined != determined {
			t.Errorf("level %d: expected determined=%v", i+1, determined)
		}
		if !determined && lv.Lord != NoLord {
			t.Errorf("level %d: expected NoLord, got %s", i+1, lv.Lord)
		}
		if lv.Depth != i+1 {
			t.Errorf("expected depth %d, got %d", i+1, lv.Depth)
		}
	}
}

func TestDrillDown_InvalidDepth(t *testing.T) {
	if _, err := DrillDown(Ketu, 120, 0, 0, 0); !errors.Is(err, ErrOutOfRangeInput) {
		t.Errorf("expected ErrOutOfRangeInput, got %v", err)
	}
}

func TestDrillDown_VenusSunMars(t *testing.T) {
	// 10.5 years into a cycle that starts with Ketu
	got, err := DrillDown(Ketu, 120, 10.5, 3, 0)
	if err != nil {
		t.Fatalf("DrillDown failed: %v", err)
	}

	want := []Level{
		{Depth: 1, Lord: Venus, Start: 7, Span: 20, Offset: 3.5, Determined: true},
		{Depth: 2, Lord: Sun, Start: 7 + 20.0/6, Span: 1, Offset: 1.0 / 6, Determined: true},
		{Depth: 3, Lord: Mars, Start: 7 + 20.0/6 + 16.0/120, Span: 7.0 / 120, Offset: 1.0/6 - 16.0/120, Determined: true},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("DrillDown mismatch (-want +got):\n%s", diff)
	}
}
