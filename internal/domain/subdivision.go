package domain

import "math"

// boundaryTolerance is the distance, in cycle years (1/120 of any span),
// within which a point is treated as sitting on a segment boundary. A point
// that close to the end of a segment belongs to the following one.
const boundaryTolerance = 1e-9

// Segment is one lord's share of a parent span. Start and End are offsets
// from the start of the parent span.
type Segment struct {
	Lord  Lord
	Start float64
	End   float64
}

// Span returns the segment length
func (s Segment) Span() float64 {
	return s.End - s.Start
}

// Segments partitions [0, total) into the nine weighted shares, starting
// the rotation at start. Boundaries are computed from integer cumulative
// weights so that seg[i].End == seg[i+1].Start exactly.
func Segments(start Lord, total float64) []Segment {
	segs := make([]Segment, LordCount)
	cum := 0
	for i := range segs {
		lord := start.Advance(i)
		next := cum + lord.Weight()
		segs[i] = Segment{
			Lord:  lord,
			Start: boundary(total, cum),
			End:   boundary(total, next),
		}
		cum = next
	}
	return segs
}

func boundary(total float64, cumWeight int) float64 {
	if cumWeight == TotalYears {
		return total
	}
	return total * float64(cumWeight) / TotalYears
}

// Location is the result of Locate: the segment owning a point plus the
// point's offset from that segment's start.
type Location struct {
	Segment
	Offset float64
}

// Remaining returns the span left in the segment after the point
func (l Location) Remaining() float64 {
	return l.Span() - l.Offset
}

// Locate finds the lord owning offset within a cycle of length total whose
// rotation starts at start. Offsets outside [0, total) wrap by modulo, except
// for floating error just past total, which clamps to the last segment.
func Locate(start Lord, total, offset float64) (Location, error) {
	if !start.Valid() {
		return Location{}, &RangeError{Field: "start lord", Value: float64(start), Want: "0..8"}
	}
	if !isFinite(total) || total <= 0 {
		return Location{}, &RangeError{Field: "total span", Value: total, Want: "> 0"}
	}
	if !isFinite(offset) {
		return Location{}, &RangeError{Field: "offset", Value: offset, Want: "finite"}
	}

	offset = normalizeOffset(offset, total)
	units := offset / total * TotalYears

	cum := 0
	for i := 0; i < LordCount; i++ {
		lord := start.Advance(i)
		next := cum + lord.Weight()
		if i == LordCount-1 || units < float64(next)-boundaryTolerance {
			seg := Segment{Lord: lord, Start: boundary(total, cum), End: boundary(total, next)}
			local := offset - seg.Start
			if local < 0 {
				// snapped forward onto this segment's start
				local = 0
			}
			if span := seg.Span(); local > span {
				local = span
			}
			return Location{Segment: seg, Offset: local}, nil
		}
		cum = next
	}

	// unreachable: the last iteration always returns
	return Location{}, &RangeError{Field: "offset", Value: offset, Want: "[0, total)"}
}

func normalizeOffset(offset, total float64) float64 {
	tol := total * boundaryTolerance / TotalYears
	switch {
	case offset >= 0 && offset < total:
		return offset
	case offset >= total && offset <= total+tol:
		return total
	case offset < 0 && offset >= -tol:
		return 0
	}
	offset = math.Mod(offset, total)
	if offset < 0 {
		offset += total
	}
	if offset >= total || offset == 0 {
		// also clears the sign of a -0 left by Mod
		offset = 0
	}
	return offset
}

// Level is one entry of a drill-down. Start is measured from the origin of
// the outermost span, so levels can be mapped back to absolute positions.
type Level struct {
	Depth      int
	Lord       Lord
	Start      float64
	Span       float64
	Offset     float64
	Determined bool
}

// End returns the absolute end of the level's segment
func (l Level) End() float64 {
	return l.Start + l.Span
}

// Remaining returns the span left in the level's segment after the point
func (l Level) Remaining() float64 {
	return l.Span - l.Offset
}

// DrillDown locates offset and then re-applies Locate inside the found
// segment, with the found lord starting the next rotation, until depth
// levels are produced. When a segment span falls to floor or below, that
// level and all deeper ones are returned undetermined along with a
// *ResolutionError.
func DrillDown(start Lord, total, offset float64, depth int, floor float64) ([]Level, error) {
	if depth < 1 {
		return nil, &RangeError{Field: "depth", Value: float64(depth), Want: ">= 1"}
	}
	if floor < 0 {
		floor = 0
	}

	levels := make([]Level, depth)
	lord, span, off, origin := start, total, offset, 0.0

	for k := 0; k < depth; k++ {
		loc, err := Locate(lord, span, off)
		if err != nil {
			return nil, err
		}
		if loc.Span() <= floor {
			markUndetermined(levels[k:], k+1)
			return levels, &ResolutionError{Level: k + 1, Span: loc.Span(), Floor: floor}
		}

		levels[k] = Level{
			Depth:      k + 1,
			Lord:       loc.Lord,
			Start:      origin + loc.Start,
			Span:       loc.Span(),
			Offset:     loc.Offset,
			Determined: true,
		}

		origin += loc.Start
		lord, span, off = loc.Lord, loc.Span(), loc.Offset
	}

	return levels, nil
}

func markUndetermined(levels []Level, firstDepth int) {
	for i := range levels {
		levels[i] = Level{Depth: firstDepth + i, Lord: NoLord}
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
