package domain

// PeriodBalance is a running period with what is left of it
type PeriodBalance struct {
	Lord         Lord
	BalanceYears float64
	EndJD        float64
	TotalYears   float64
}

// Summary is the compact Dasha report: birth dasha plus the Maha and Antar
// periods running at the current moment
type Summary struct {
	Birth PeriodBalance
	Maha  PeriodBalance
	Antar PeriodBalance
}

// Summarize reports the birth balance and the Maha/Antar periods running at
// currentJD
func Summarize(moonLon, birthJD, currentJD, daysPerYear float64) (Summary, error) {
	if daysPerYear == 0 {
		daysPerYear = DefaultDaysPerYear
	}

	bal, err := ComputeBirthBalance(moonLon)
	if err != nil {
		return Summary{}, err
	}
	state, err := CurrentStateAt(moonLon, birthJD, currentJD, int(LevelAntar), daysPerYear)
	if err != nil {
		return Summary{}, err
	}

	maha, _ := state.At(LevelMaha)
	antar, _ := state.At(LevelAntar)
	return Summary{
		Birth: PeriodBalance{
			Lord:         bal.Lord,
			BalanceYears: bal.BalanceYears,
			EndJD:        birthJD + bal.BalanceDays(daysPerYear),
			TotalYears:   float64(bal.Lord.Weight()),
		},
		Maha: PeriodBalance{
			Lord:         maha.Lord,
			BalanceYears: maha.RemainingYears(daysPerYear),
			EndJD:        maha.End,
			TotalYears:   float64(maha.Lord.Weight()),
		},
		Antar: PeriodBalance{
			Lord:         antar.Lord,
			BalanceYears: antar.RemainingYears(daysPerYear),
			EndJD:        antar.End,
			TotalYears:   float64(maha.Lord.Weight()*antar.Lord.Weight()) / TotalYears,
		},
	}, nil
}
