package commands

import (
	"context"
	"fmt"

	"dasha/internal/application"
	"dasha/internal/domain"
)

// BalanceResult contains the birth Dasha balance
type BalanceResult struct {
	Balance domain.BirthBalance
	Message string
}

// ComputeBalanceCommand derives the birth Maha Dasha and its balance from
// the Moon's sidereal longitude
type ComputeBalanceCommand struct {
	MoonLongitude float64
}

// NewComputeBalanceCommand creates a new ComputeBalanceCommand
func NewComputeBalanceCommand(moonLon float64) *ComputeBalanceCommand {
	return &ComputeBalanceCommand{MoonLongitude: moonLon}
}

// Validate checks the command input
func (c *ComputeBalanceCommand) Validate() error {
	return application.ValidateLongitude("moonLongitude", c.MoonLongitude)
}

// Execute runs the balance command
func (c *ComputeBalanceCommand) Execute(ctx context.Context) (*BalanceResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	bal, err := domain.ComputeBirthBalance(c.MoonLongitude)
	if err != nil {
		return nil, fmt.Errorf("failed to compute birth balance: %w", err)
	}

	return &BalanceResult{
		Balance: bal,
		Message: fmt.Sprintf("%s Maha Dasha, %.4f of %d years remaining (Moon in %s)",
			bal.Lord, bal.BalanceYears, bal.Lord.Weight(), bal.Position.Nakshatra.Name),
	}, nil
}
