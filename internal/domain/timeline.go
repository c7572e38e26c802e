package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DashaLevel names a depth of the Dasha hierarchy
type DashaLevel int

const (
	LevelMaha DashaLevel = iota + 1
	LevelAntar
	LevelPratyantar
	LevelSookshma
	LevelPrana
)

const (
	// MaxDashaDepth is the deepest named Dasha level (Prana)
	MaxDashaDepth = int(LevelPrana)

	// DefaultDaysPerYear is the Julian year, used for every years→days
	// conversion unless a caller supplies its own factor
	DefaultDaysPerYear = 365.25

	// MaxMahaPeriods bounds timeline generation
	MaxMahaPeriods = 1024
)

func (l DashaLevel) String() string {
	switch l {
	case LevelMaha:
		return "Maha"
	case LevelAntar:
		return "Antar"
	case LevelPratyantar:
		return "Pratyantar"
	case LevelSookshma:
		return "Sookshma"
	case LevelPrana:
		return "Prana"
	default:
		return "Unknown"
	}
}

// ParseLevel resolves a level by name or number
func ParseLevel(s string) (DashaLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > MaxDashaDepth {
			return 0, &RangeError{Field: "level", Value: float64(n), Want: "1..5"}
		}
		return DashaLevel(n), nil
	}
	for l := LevelMaha; l <= LevelPrana; l++ {
		if strings.ToLower(l.String()) == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown dasha level %q", s)
}

// Period is one node of a Dasha timeline. Start and End are Julian Days.
// Partial marks the period running at birth at its level: it starts at
// the birth moment rather than at the start of its full share.
type Period struct {
	Lord     Lord
	Level    DashaLevel
	Start    float64
	End      float64
	Years    float64
	Partial  bool
	Children []Period
}

// Duration returns the period length in days
func (p Period) Duration() float64 {
	return p.End - p.Start
}

// Contains reports whether jd falls in [Start, End)
func (p Period) Contains(jd float64) bool {
	return jd >= p.Start && jd < p.End
}

// TimelineRequest holds the inputs of BuildTimeline
type TimelineRequest struct {
	MoonLongitude float64
	BirthJD       float64
	// Years of life to cover; generation stops at the first Maha period
	// ending at or after BirthJD + Years
	Years float64
	// Depth is the number of levels to generate (1=Maha .. 5=Prana)
	Depth int
	// DaysPerYear defaults to DefaultDaysPerYear when zero
	DaysPerYear float64
}

// Timeline is an ordered, gapless sequence of Maha periods with nested
// sub-periods down to Depth
type Timeline struct {
	BirthJD     float64
	DaysPerYear float64
	Depth       int
	Balance     BirthBalance
	Periods     []Period
	// Truncated is set when MaxMahaPeriods stopped generation early
	Truncated bool
}

// Start returns the first period's start
func (t *Timeline) Start() float64 {
	if len(t.Periods) == 0 {
		return t.BirthJD
	}
	return t.Periods[0].Start
}

// End returns the last period's end
func (t *Timeline) End() float64 {
	if len(t.Periods) == 0 {
		return t.BirthJD
	}
	return t.Periods[len(t.Periods)-1].End
}

// BuildTimeline generates the Dasha timeline for a birth
func BuildTimeline(req TimelineRequest) (*Timeline, error) {
	dpy := req.DaysPerYear
	if dpy == 0 {
		dpy = DefaultDaysPerYear
	}
	if !isFinite(dpy) || dpy <= 0 {
		return nil, &RangeError{Field: "days per year", Value: dpy, Want: "> 0"}
	}
	if !isFinite(req.Years) || req.Years <= 0 {
		return nil, &RangeError{Field: "years", Value: req.Years, Want: "> 0"}
	}
	if req.Depth < 1 || req.Depth > MaxDashaDepth {
		return nil, &RangeError{Field: "depth", Value: float64(req.Depth), Want: "1..5"}
	}
	if !isFinite(req.BirthJD) {
		return nil, &RangeError{Field: "birth JD", Value: req.BirthJD, Want: "finite"}
	}

	bal, err := ComputeBirthBalance(req.MoonLongitude)
	if err != nil {
		return nil, err
	}

	t := &Timeline{
		BirthJD:     req.BirthJD,
		DaysPerYear: dpy,
		Depth:       req.Depth,
		Balance:     bal,
	}

	// Ends are always birth + cumulative years, so error never accumulates
	// across periods and each start is the previous end verbatim.
	covered := bal.BalanceYears
	lord := bal.Lord
	weight := float64(lord.Weight())
	first := Period{
		Lord:    lord,
		Level:   LevelMaha,
		Start:   req.BirthJD,
		End:     req.BirthJD + covered*dpy,
		Years:   covered,
		Partial: true,
	}
	fullStart := req.BirthJD - bal.ElapsedYears()*dpy
	first.Children = subPeriods(lord, weight, fullStart, first.Start, first.End, true, LevelAntar, req.Depth, dpy)
	t.Periods = append(t.Periods, first)

	for covered < req.Years {
		if len(t.Periods) >= MaxMahaPeriods {
			t.Truncated = true
			break
		}
		lord = lord.Next()
		weight = float64(lord.Weight())
		start := t.Periods[len(t.Periods)-1].End
		covered += weight

		p := Period{
			Lord:  lord,
			Level: LevelMaha,
			Start: start,
			End:   req.BirthJD + covered*dpy,
			Years: weight,
		}
		p.Children = subPeriods(lord, weight, start, start, p.End, false, LevelAntar, req.Depth, dpy)
		t.Periods = append(t.Periods, p)
	}

	return t, nil
}

// subPeriods splits a parent whose full share of fullYears would begin at
// fullStart. The parent actually runs [begin, end); when begin is past
// fullStart (the birth period) the children already over are skipped and
// the child containing begin is located and truncated to start there.
func subPeriods(parent Lord, fullYears, fullStart, begin, end float64, partial bool, level DashaLevel, depth int, dpy float64) []Period {
	if int(level) > depth {
		return nil
	}

	fullDays := fullYears * dpy
	segs := Segments(parent, fullDays)

	first := 0
	if begin > fullStart {
		loc, err := Locate(parent, fullDays, begin-fullStart)
		if err == nil {
			first = (loc.Lord.Index() - parent.Index() + LordCount) % LordCount
		}
	}

	children := make([]Period, 0, LordCount-first)
	for i := first; i < LordCount; i++ {
		seg := segs[i]
		segStart := fullStart + seg.Start
		start, stop := segStart, fullStart+seg.End
		isFirst := i == first
		if isFirst {
			start = begin
		}
		if i == LordCount-1 {
			stop = end
		}

		childYears := fullYears * float64(seg.Lord.Weight()) / TotalYears
		p := Period{
			Lord:    seg.Lord,
			Level:   level,
			Start:   start,
			End:     stop,
			Years:   (stop - start) / dpy,
			Partial: partial && isFirst,
		}
		p.Children = subPeriods(seg.Lord, childYears, segStart, start, stop, p.Partial, level+1, depth, dpy)
		children = append(children, p)
	}
	return children
}

// Clone returns a deep copy of the timeline
func (t *Timeline) Clone() *Timeline {
	if t == nil {
		return nil
	}
	c := *t
	c.Periods = clonePeriods(t.Periods)
	return &c
}

func clonePeriods(ps []Period) []Period {
	if ps == nil {
		return nil
	}
	out := make([]Period, len(ps))
	for i, p := range ps {
		out[i] = p
		out[i].Children = clonePeriods(p.Children)
	}
	return out
}

// Walk visits every period depth-first, parents before children. Returning
// an error from fn stops the walk.
func (t *Timeline) Walk(fn func(p Period) error) error {
	return walkPeriods(t.Periods, fn)
}

func walkPeriods(ps []Period, fn func(p Period) error) error {
	for _, p := range ps {
		if err := fn(p); err != nil {
			return err
		}
		if err := walkPeriods(p.Children, fn); err != nil {
			return err
		}
	}
	return nil
}
