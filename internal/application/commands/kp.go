package commands

import (
	"context"
	"errors"
	"fmt"

	"dasha/internal/application"
	"dasha/internal/domain"
)

// ResolveSubLordsCommand resolves the KP star, sub and sub-sub lords of a
// longitude
type ResolveSubLordsCommand struct {
	Longitude float64
	Depth     int
}

// NewResolveSubLordsCommand creates a new ResolveSubLordsCommand
func NewResolveSubLordsCommand(lon float64, depth int) *ResolveSubLordsCommand {
	return &ResolveSubLordsCommand{Longitude: lon, Depth: depth}
}

// Validate checks the command input
func (c *ResolveSubLordsCommand) Validate() error {
	if err := application.ValidateLongitude("longitude", c.Longitude); err != nil {
		return err
	}
	return application.ValidateKPDepth(c.Depth)
}

// Execute runs the command. A sub-sub arc below the resolution floor is
// reported as NoLord rather than failing.
func (c *ResolveSubLordsCommand) Execute(ctx context.Context) (*domain.SubLords, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res, err := domain.ResolveSubLords(c.Longitude, c.Depth)
	if err != nil && !errors.Is(err, domain.ErrDepthExceedsResolution) {
		return nil, fmt.Errorf("failed to resolve sub lords: %w", err)
	}
	return &res, nil
}

// SubTableCommand lists KP sub divisions, optionally for a single nakshatra
type SubTableCommand struct {
	// Nakshatra is a 1-based index; 0 lists the whole zodiac
	Nakshatra int
}

// NewSubTableCommand creates a new SubTableCommand
func NewSubTableCommand(nakshatra int) *SubTableCommand {
	return &SubTableCommand{Nakshatra: nakshatra}
}

// Validate checks the command input
func (c *SubTableCommand) Validate() error {
	if c.Nakshatra < 0 || c.Nakshatra > domain.NakshatraCount {
		return &application.ValidationError{
			Field:   "nakshatra",
			Message: fmt.Sprintf("nakshatra must be between 1 and %d, got: %d", domain.NakshatraCount, c.Nakshatra),
		}
	}
	return nil
}

// Execute runs the sub table command
func (c *SubTableCommand) Execute(ctx context.Context) ([]domain.SubDivision, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	table := domain.SubTable()
	if c.Nakshatra == 0 {
		return table, nil
	}
	i := (c.Nakshatra - 1) * domain.LordCount
	return table[i : i+domain.LordCount], nil
}
