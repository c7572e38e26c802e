package commands

import (
	"context"
	"errors"
	"fmt"

	"dasha/internal/application"
	"dasha/internal/domain"
)

// CurrentResult contains the periods active at the target moment.
// Unresolved is set when the deepest levels fell below the one-second
// floor; those levels are reported undetermined.
type CurrentResult struct {
	State      domain.CurrentState
	Unresolved *domain.ResolutionError
}

// CurrentStateCommand resolves the active period at every level. With a
// Timeline it searches the generated tree; otherwise it uses the closed
// form and needs no timeline.
type CurrentStateCommand struct {
	Timeline      *domain.Timeline
	MoonLongitude float64
	BirthJD       float64
	TargetJD      float64
	Depth         int
	DaysPerYear   float64
}

// NewCurrentStateCommand creates a closed-form CurrentStateCommand
func NewCurrentStateCommand(moonLon, birthJD, targetJD float64, depth int, daysPerYear float64) *CurrentStateCommand {
	return &CurrentStateCommand{
		MoonLongitude: moonLon,
		BirthJD:       birthJD,
		TargetJD:      targetJD,
		Depth:         depth,
		DaysPerYear:   daysPerYear,
	}
}

// Validate checks the command input
func (c *CurrentStateCommand) Validate() error {
	if err := application.ValidateJulianDay("targetJD", c.TargetJD); err != nil {
		return err
	}
	if c.Timeline != nil {
		if c.Depth == 0 {
			return nil
		}
		return application.ValidateDepth("depth", c.Depth, c.Timeline.Depth)
	}
	if err := application.ValidateLongitude("moonLongitude", c.MoonLongitude); err != nil {
		return err
	}
	if err := application.ValidateJulianDay("birthJD", c.BirthJD); err != nil {
		return err
	}
	return application.ValidateDashaDepth(c.Depth)
}

// Execute runs the current state command
func (c *CurrentStateCommand) Execute(ctx context.Context) (*CurrentResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var (
		state domain.CurrentState
		err   error
	)
	if c.Timeline != nil {
		state, err = c.Timeline.CurrentState(c.TargetJD, c.Depth)
	} else {
		state, err = domain.CurrentStateAt(c.MoonLongitude, c.BirthJD, c.TargetJD, c.Depth, c.DaysPerYear)
	}

	var resErr *domain.ResolutionError
	switch {
	case err == nil:
		return &CurrentResult{State: state}, nil
	case errors.As(err, &resErr):
		return &CurrentResult{State: state, Unresolved: resErr}, nil
	default:
		return nil, fmt.Errorf("failed to resolve current state: %w", err)
	}
}
