package commands

import (
	"context"
	"fmt"

	"dasha/internal/application"
	"dasha/internal/domain"
)

// SummarizeCommand reports the birth Dasha and the Maha and Antar periods
// running at CurrentJD
type SummarizeCommand struct {
	MoonLongitude float64
	BirthJD       float64
	CurrentJD     float64
	DaysPerYear   float64
}

// NewSummarizeCommand creates a new SummarizeCommand
func NewSummarizeCommand(moonLon, birthJD, currentJD, daysPerYear float64) *SummarizeCommand {
	return &SummarizeCommand{
		MoonLongitude: moonLon,
		BirthJD:       birthJD,
		CurrentJD:     currentJD,
		DaysPerYear:   daysPerYear,
	}
}

// Validate checks the command input
func (c *SummarizeCommand) Validate() error {
	if err := application.ValidateLongitude("moonLongitude", c.MoonLongitude); err != nil {
		return err
	}
	if err := application.ValidateJulianDay("birthJD", c.BirthJD); err != nil {
		return err
	}
	return application.ValidateJulianDay("currentJD", c.CurrentJD)
}

// Execute runs the summary command
func (c *SummarizeCommand) Execute(ctx context.Context) (*domain.Summary, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s, err := domain.Summarize(c.MoonLongitude, c.BirthJD, c.CurrentJD, c.DaysPerYear)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize: %w", err)
	}
	return &s, nil
}
