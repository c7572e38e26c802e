package domain

// MaxKPDepth covers star, sub and sub-sub lords
const MaxKPDepth = 3

// AngleFloorDegrees is the narrowest arc the KP resolver will subdivide
const AngleFloorDegrees = 1e-9

// SubLords is the KP lord chain of an ecliptic longitude. SubLord and
// SubSubLord are NoLord when not requested.
type SubLords struct {
	Position   NakshatraPosition
	StarLord   Lord
	SubLord    Lord
	SubSubLord Lord
	// Levels holds the weighted levels below the star (sub, sub-sub) with
	// absolute start longitudes
	Levels []Level
}

// ResolveSubLords returns the star lord and, for depth 2 and 3, the sub
// and sub-sub lords. The star is a flat 1/27 partition; deeper levels are
// weighted subdivisions of the 13°20′ arc starting at the star lord.
func ResolveSubLords(lon float64, depth int) (SubLords, error) {
	if depth < 1 || depth > MaxKPDepth {
		return SubLords{}, &RangeError{Field: "depth", Value: float64(depth), Want: "1..3"}
	}

	pos, err := NakshatraAt(lon)
	if err != nil {
		return SubLords{}, err
	}

	res := SubLords{
		Position:   pos,
		StarLord:   pos.Nakshatra.Lord,
		SubLord:    NoLord,
		SubSubLord: NoLord,
	}
	if depth == 1 {
		return res, nil
	}

	levels, err := DrillDown(res.StarLord, NakshatraSpan, pos.Degrees, depth-1, AngleFloorDegrees)
	if levels == nil {
		return SubLords{}, err
	}
	for i := range levels {
		if levels[i].Determined {
			levels[i].Start += pos.Nakshatra.Start()
		}
	}
	res.Levels = levels
	res.SubLord = levels[0].Lord
	if len(levels) > 1 {
		res.SubSubLord = levels[1].Lord
	}
	return res, err
}

// SubDivision is one row of the KP sub table
type SubDivision struct {
	Nakshatra Nakshatra
	StarLord  Lord
	SubLord   Lord
	Start     float64
	End       float64
}

// SubTable lists the 243 sub divisions of the zodiac, nine per nakshatra
func SubTable() []SubDivision {
	table := make([]SubDivision, 0, NakshatraCount*LordCount)
	for _, nak := range Nakshatras() {
		base := nak.Start()
		for _, seg := range Segments(nak.Lord, NakshatraSpan) {
			end := base + seg.End
			if seg.End == NakshatraSpan {
				end = nak.End()
			}
			table = append(table, SubDivision{
				Nakshatra: nak,
				StarLord:  nak.Lord,
				SubLord:   seg.Lord,
				Start:     base + seg.Start,
				End:       end,
			})
		}
	}
	return table
}
