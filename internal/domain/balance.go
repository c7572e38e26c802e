package domain

// BirthBalance is the Maha Dasha running at birth and how much of it is left
type BirthBalance struct {
	Position NakshatraPosition
	Lord     Lord
	// ElapsedFraction is the share of the lord's period already run at birth
	ElapsedFraction float64
	BalanceYears    float64
}

// RemainingFraction returns the share of the lord's period still to run
func (b BirthBalance) RemainingFraction() float64 {
	return 1 - b.ElapsedFraction
}

// ElapsedYears returns the years of the birth lord's period run before birth
func (b BirthBalance) ElapsedYears() float64 {
	return float64(b.Lord.Weight()) * b.ElapsedFraction
}

// BalanceDays converts the balance into days
func (b BirthBalance) BalanceDays(daysPerYear float64) float64 {
	return b.BalanceYears * daysPerYear
}

// CycleOffsetYears returns the birth moment's position inside a 120-year
// cycle that starts with Ketu
func (b BirthBalance) CycleOffsetYears() float64 {
	return float64(YearsBefore(b.Lord)) + b.ElapsedYears()
}

// ComputeBirthBalance derives the birth Maha Dasha from the Moon's sidereal
// longitude. The balance lies in (0, weight]: a Moon exactly on a nakshatra
// boundary starts the next lord at its full share.
func ComputeBirthBalance(moonLon float64) (BirthBalance, error) {
	pos, err := NakshatraAt(moonLon)
	if err != nil {
		return BirthBalance{}, err
	}

	lord := pos.Nakshatra.Lord
	elapsed := pos.Fraction()
	return BirthBalance{
		Position:        pos,
		Lord:            lord,
		ElapsedFraction: elapsed,
		BalanceYears:    float64(lord.Weight()) * (1 - elapsed),
	}, nil
}
