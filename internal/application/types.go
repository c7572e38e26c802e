package application

import "dasha/internal/domain"

// Re-export domain types for use by adapters
type (
	Lord         = domain.Lord
	DashaLevel   = domain.DashaLevel
	Period       = domain.Period
	Timeline     = domain.Timeline
	BirthBalance = domain.BirthBalance
	CurrentState = domain.CurrentState
	ActivePeriod = domain.ActivePeriod
	SubLords     = domain.SubLords
	SubDivision  = domain.SubDivision
	Summary      = domain.Summary
	Profile      = domain.Profile
	PeriodRecord = domain.PeriodRecord
)

const (
	LevelMaha       = domain.LevelMaha
	LevelAntar      = domain.LevelAntar
	LevelPratyantar = domain.LevelPratyantar
	LevelSookshma   = domain.LevelSookshma
	LevelPrana      = domain.LevelPrana
)

// ParseLord resolves a lord by name
func ParseLord(name string) (Lord, error) {
	return domain.ParseLord(name)
}

// ParseLevel resolves a Dasha level by name ("maha", "antar", ...) or
// number ("1".."5")
func ParseLevel(s string) (DashaLevel, error) {
	return domain.ParseLevel(s)
}
