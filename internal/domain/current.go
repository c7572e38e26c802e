package domain

import (
	"errors"
	"math"
	"sort"
)

// TimeFloorDays is the smallest period the resolvers will report, one
// second. Shorter spans are returned undetermined.
const TimeFloorDays = 1.0 / 86400

// ActivePeriod is the period running at a target moment at one level.
// Remaining is in days.
type ActivePeriod struct {
	Level      DashaLevel
	Lord       Lord
	Start      float64
	End        float64
	Remaining  float64
	Partial    bool
	Determined bool
}

// RemainingYears converts Remaining to years
func (a ActivePeriod) RemainingYears(daysPerYear float64) float64 {
	return a.Remaining / daysPerYear
}

// CurrentState lists the active period at every level, Maha first
type CurrentState struct {
	TargetJD float64
	Levels   []ActivePeriod
}

// At returns the active period at level
func (s CurrentState) At(level DashaLevel) (ActivePeriod, bool) {
	i := int(level) - 1
	if i < 0 || i >= len(s.Levels) {
		return ActivePeriod{}, false
	}
	return s.Levels[i], true
}

// Lord returns the lord active at level, or NoLord
func (s CurrentState) Lord(level DashaLevel) Lord {
	if a, ok := s.At(level); ok && a.Determined {
		return a.Lord
	}
	return NoLord
}

// CurrentState walks the timeline down to depth levels (0 means the
// timeline's own depth) and reports the period containing target at each.
func (t *Timeline) CurrentState(target float64, depth int) (CurrentState, error) {
	if depth == 0 {
		depth = t.Depth
	}
	if depth < 1 || depth > t.Depth {
		return CurrentState{}, &RangeError{Field: "depth", Value: float64(depth), Want: "1..timeline depth"}
	}
	if !isFinite(target) {
		return CurrentState{}, &RangeError{Field: "target JD", Value: target, Want: "finite"}
	}
	if len(t.Periods) == 0 || target < t.Start() || target >= t.End() {
		return CurrentState{}, &GeneratedRangeError{Target: target, Start: t.Start(), End: t.End()}
	}

	state := CurrentState{TargetJD: target, Levels: make([]ActivePeriod, 0, depth)}
	periods := t.Periods
	for len(state.Levels) < depth && len(periods) > 0 {
		i := sort.Search(len(periods), func(i int) bool { return periods[i].End > target })
		if i == len(periods) || !periods[i].Contains(target) {
			break
		}
		p := periods[i]
		state.Levels = append(state.Levels, ActivePeriod{
			Level:      p.Level,
			Lord:       p.Lord,
			Start:      p.Start,
			End:        p.End,
			Remaining:  p.End - target,
			Partial:    p.Partial,
			Determined: true,
		})
		periods = p.Children
	}
	return state, nil
}

// CurrentStateAt resolves the active periods without building a timeline.
// Past the birth Maha, the birth's place in a Ketu-first 120-year cycle plus
// the elapsed time gives an offset that is drilled down from Ketu over the
// whole cycle, so targets more than 120 years after birth wrap around.
func CurrentStateAt(moonLon, birthJD, targetJD float64, depth int, daysPerYear float64) (CurrentState, error) {
	if daysPerYear == 0 {
		daysPerYear = DefaultDaysPerYear
	}
	if !isFinite(daysPerYear) || daysPerYear <= 0 {
		return CurrentState{}, &RangeError{Field: "days per year", Value: daysPerYear, Want: "> 0"}
	}
	if depth < 1 || depth > MaxDashaDepth {
		return CurrentState{}, &RangeError{Field: "depth", Value: float64(depth), Want: "1..5"}
	}
	if !isFinite(birthJD) || !isFinite(targetJD) {
		return CurrentState{}, &RangeError{Field: "julian day", Value: targetJD, Want: "finite"}
	}
	if targetJD < birthJD {
		return CurrentState{}, &GeneratedRangeError{Target: targetJD, Start: birthJD, End: math.Inf(1)}
	}

	bal, err := ComputeBirthBalance(moonLon)
	if err != nil {
		return CurrentState{}, err
	}

	if targetJD-birthJD < bal.BalanceDays(daysPerYear) {
		return birthPeriodState(bal, birthJD, targetJD, depth, daysPerYear)
	}

	cycleDays := TotalYears * daysPerYear
	offset := math.Mod(bal.CycleOffsetYears()*daysPerYear+(targetJD-birthJD), cycleDays)
	levels, drillErr := DrillDown(Ketu, cycleDays, offset, depth, TimeFloorDays)
	if levels == nil {
		return CurrentState{}, drillErr
	}

	state := CurrentState{TargetJD: targetJD, Levels: make([]ActivePeriod, len(levels))}
	for i, lv := range levels {
		state.Levels[i] = activeFromLevel(lv, targetJD)
	}
	return state, drillErr
}

// birthPeriodState resolves a target inside the birth Maha. The Maha is
// the birth lord by construction and the deeper levels are drilled inside
// its full span from where that span would have begun, so a birth balance
// of any size is kept.
func birthPeriodState(bal BirthBalance, birthJD, targetJD float64, depth int, daysPerYear float64) (CurrentState, error) {
	end := birthJD + bal.BalanceDays(daysPerYear)
	state := CurrentState{TargetJD: targetJD, Levels: make([]ActivePeriod, 1, depth)}
	state.Levels[0] = ActivePeriod{
		Level:      LevelMaha,
		Lord:       bal.Lord,
		Start:      birthJD,
		End:        end,
		Remaining:  end - targetJD,
		Partial:    true,
		Determined: true,
	}
	if depth == 1 {
		return state, nil
	}

	fullStart := birthJD - bal.ElapsedYears()*daysPerYear
	fullDays := float64(bal.Lord.Weight()) * daysPerYear
	levels, drillErr := DrillDown(bal.Lord, fullDays, targetJD-fullStart, depth-1, TimeFloorDays)
	if levels == nil {
		return CurrentState{}, drillErr
	}
	var resErr *ResolutionError
	if errors.As(drillErr, &resErr) {
		resErr.Level++
	}

	for _, lv := range levels {
		lv.Depth++
		a := activeFromLevel(lv, targetJD)
		if a.Determined && a.Start < birthJD+TimeFloorDays {
			a.Start = birthJD
			a.Partial = true
		}
		state.Levels = append(state.Levels, a)
	}
	return state, drillErr
}

func activeFromLevel(lv Level, targetJD float64) ActivePeriod {
	a := ActivePeriod{Level: DashaLevel(lv.Depth), Lord: lv.Lord, Determined: lv.Determined}
	if lv.Determined {
		a.Start = targetJD - lv.Offset
		a.End = targetJD + lv.Remaining()
		a.Remaining = lv.Remaining()
	}
	return a
}
