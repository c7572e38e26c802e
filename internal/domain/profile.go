package domain

import (
	"strings"
	"time"
)

// Profile is a named birth: the Moon's sidereal longitude and the birth
// moment as a Julian Day
type Profile struct {
	ID            string // UUID (primary key)
	Name          string // Unique, user facing
	MoonLongitude float64
	BirthJD       float64
	CreatedAt     time.Time
}

// PeriodRecord is one materialized timeline node
type PeriodRecord struct {
	ProfileID string
	Seq       int    // Depth-first position in the timeline
	Path      string // Lord chain from the Maha down, e.g. "Venus/Sun"
	Level     DashaLevel
	Lord      Lord
	Start     float64
	End       float64
	Partial   bool
}

// MaterializeStats holds statistics from a materialize operation
type MaterializeStats struct {
	PeriodsDeleted  int
	PeriodsInserted int
	Duration        time.Duration
}

// Records flattens the timeline depth-first into period records
func (t *Timeline) Records(profileID string) []PeriodRecord {
	var out []PeriodRecord
	var walk func(ps []Period, chain []string)
	walk = func(ps []Period, chain []string) {
		for _, p := range ps {
			path := append(chain, p.Lord.String())
			out = append(out, PeriodRecord{
				ProfileID: profileID,
				Seq:       len(out),
				Path:      strings.Join(path, "/"),
				Level:     p.Level,
				Lord:      p.Lord,
				Start:     p.Start,
				End:       p.End,
				Partial:   p.Partial,
			})
			walk(p.Children, path[:len(path):len(path)])
		}
	}
	walk(t.Periods, nil)
	return out
}
