package domain

import (
	"fmt"
	"strings"
)

// Lord is one of the nine rulers of the Vimshottari cycle
type Lord int

// NoLord marks a level that could not be determined
const NoLord Lord = -1

const (
	Ketu Lord = iota
	Venus
	Sun
	Moon
	Mars
	Rahu
	Jupiter
	Saturn
	Mercury
)

const (
	// LordCount is the number of lords in the cycle
	LordCount = 9
	// TotalYears is the length of one full Vimshottari cycle
	TotalYears = 120
)

var lordNames = [LordCount]string{
	"Ketu", "Venus", "Sun", "Moon", "Mars", "Rahu", "Jupiter", "Saturn", "Mercury",
}

var lordWeights = [LordCount]int{7, 20, 6, 10, 7, 18, 16, 19, 17}

// cumulativeWeights[i] is the sum of the weights of the first i lords
var cumulativeWeights = func() [LordCount + 1]int {
	var c [LordCount + 1]int
	for i, w := range lordWeights {
		c[i+1] = c[i] + w
	}
	return c
}()

func (l Lord) String() string {
	if !l.Valid() {
		return "Undetermined"
	}
	return lordNames[l]
}

// Valid reports whether l is one of the nine lords
func (l Lord) Valid() bool {
	return l >= Ketu && l <= Mercury
}

// Weight returns the lord's share of the 120-year cycle, in years
func (l Lord) Weight() int {
	if !l.Valid() {
		return 0
	}
	return lordWeights[l]
}

// Index returns the lord's position in the cycle (0-8)
func (l Lord) Index() int {
	return int(l)
}

// Next returns the cyclic successor
func (l Lord) Next() Lord {
	return l.Advance(1)
}

// Advance returns the lord n steps after l in the cycle
func (l Lord) Advance(n int) Lord {
	return Lord(((int(l)+n)%LordCount + LordCount) % LordCount)
}

// Sequence returns the nine lords in cycle order
func Sequence() []Lord {
	seq := make([]Lord, LordCount)
	for i := range seq {
		seq[i] = Lord(i)
	}
	return seq
}

// YearsBefore returns the total weight of the lords preceding l when the
// cycle starts at Ketu
func YearsBefore(l Lord) int {
	if !l.Valid() {
		return 0
	}
	return cumulativeWeights[l]
}

// ParseLord parses a lord name, case-insensitively
func ParseLord(name string) (Lord, error) {
	name = strings.TrimSpace(name)
	for i, n := range lordNames {
		if strings.EqualFold(n, name) {
			return Lord(i), nil
		}
	}
	return NoLord, fmt.Errorf("unknown lord: %q", name)
}
