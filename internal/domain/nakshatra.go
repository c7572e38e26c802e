package domain

import "math"

const (
	// NakshatraCount is the number of lunar mansions in the zodiac
	NakshatraCount = 27
	// FullCircle is the zodiac length in degrees
	FullCircle = 360.0
	// NakshatraSpan is the arc of one nakshatra, 13°20′
	NakshatraSpan = FullCircle / NakshatraCount

	// wrapEpsilon snaps longitudes this close to 0°/360° onto 0°
	wrapEpsilon = 1e-12
)

var nakshatraNames = [NakshatraCount]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// Nakshatra identifies one of the 27 equal arcs of the zodiac
type Nakshatra struct {
	Index int
	Name  string
	Lord  Lord
}

// Start returns the arc's starting longitude
func (n Nakshatra) Start() float64 {
	return float64(n.Index) * NakshatraSpan
}

// End returns the arc's ending longitude
func (n Nakshatra) End() float64 {
	if n.Index == NakshatraCount-1 {
		return FullCircle
	}
	return float64(n.Index+1) * NakshatraSpan
}

// NakshatraByIndex returns the nakshatra at index i (0-26). The lord map is
// the nine-lord cycle repeated three times.
func NakshatraByIndex(i int) (Nakshatra, error) {
	if i < 0 || i >= NakshatraCount {
		return Nakshatra{}, &RangeError{Field: "nakshatra index", Value: float64(i), Want: "0..26"}
	}
	return Nakshatra{Index: i, Name: nakshatraNames[i], Lord: Lord(i % LordCount)}, nil
}

// Nakshatras returns all 27 nakshatras in zodiac order
func Nakshatras() []Nakshatra {
	all := make([]Nakshatra, NakshatraCount)
	for i := range all {
		all[i], _ = NakshatraByIndex(i)
	}
	return all
}

// NormalizeLongitude reduces a longitude into [0, 360)
func NormalizeLongitude(lon float64) (float64, error) {
	if !isFinite(lon) {
		return 0, &RangeError{Field: "longitude", Value: lon, Want: "finite degrees"}
	}
	lon = math.Mod(lon, FullCircle)
	if lon < 0 {
		lon += FullCircle
	}
	if lon < wrapEpsilon || math.Abs(lon-FullCircle) < wrapEpsilon {
		return 0, nil
	}
	return lon, nil
}

// NakshatraPosition is a longitude resolved to its nakshatra
type NakshatraPosition struct {
	Longitude float64
	Nakshatra Nakshatra
	// Degrees traversed inside the nakshatra arc
	Degrees float64
}

// Fraction returns the traversed share of the arc, in [0, 1)
func (p NakshatraPosition) Fraction() float64 {
	return p.Degrees / NakshatraSpan
}

// NakshatraAt resolves a longitude to its nakshatra. A longitude within the
// subdivision tolerance of the next arc's start belongs to that arc.
func NakshatraAt(lon float64) (NakshatraPosition, error) {
	lon, err := NormalizeLongitude(lon)
	if err != nil {
		return NakshatraPosition{}, err
	}

	idx := int(lon / NakshatraSpan)
	if idx >= NakshatraCount {
		idx = NakshatraCount - 1
	}
	deg := lon - float64(idx)*NakshatraSpan
	if deg < 0 {
		deg = 0
	}
	if NakshatraSpan-deg <= NakshatraSpan*boundaryTolerance/TotalYears {
		if idx == NakshatraCount-1 {
			idx, deg, lon = 0, 0, 0
		} else {
			idx, deg = idx+1, 0
		}
	}

	nak, err := NakshatraByIndex(idx)
	if err != nil {
		return NakshatraPosition{}, err
	}
	return NakshatraPosition{Longitude: lon, Nakshatra: nak, Degrees: deg}, nil
}
