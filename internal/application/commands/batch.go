package commands

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dasha/internal/application"
	"dasha/internal/domain"
	"dasha/internal/logging"
	"dasha/internal/ports"
)

// NamedLongitude is a labelled point to resolve, e.g. a planet or a cusp
type NamedLongitude struct {
	Name      string
	Longitude float64
}

// ParsePoints reads a comma separated list of name=longitude pairs, e.g.
// "Sun=123.4,Moon=45.6". A bare number is named after its position.
func ParsePoints(s string) ([]NamedLongitude, error) {
	var points []NamedLongitude
	for i, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, value, ok := strings.Cut(field, "=")
		if !ok {
			name, value = fmt.Sprintf("#%d", i+1), field
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, &application.ValidationError{Field: "points", Message: fmt.Sprintf("invalid longitude in %q", field)}
		}
		points = append(points, NamedLongitude{Name: strings.TrimSpace(name), Longitude: lon})
	}
	if len(points) == 0 {
		return nil, &application.ValidationError{Field: "points", Message: "at least one point is required"}
	}
	return points, nil
}

// SubLordsEntry is the resolution of one NamedLongitude
type SubLordsEntry struct {
	Name     string
	SubLords domain.SubLords
	Err      error
}

// BatchSubLordsCommand resolves KP lords for many points concurrently.
// Results keep the input order; a bad point fails only its own entry.
type BatchSubLordsCommand struct {
	logger  *zap.Logger
	Workers int
	Depth   int
	Points  []NamedLongitude
}

// NewBatchSubLordsCommand creates a new BatchSubLordsCommand
func NewBatchSubLordsCommand(logger *zap.Logger, workers, depth int, points []NamedLongitude) *BatchSubLordsCommand {
	logger = logging.OrNop(logger)
	return &BatchSubLordsCommand{logger: logger, Workers: workers, Depth: depth, Points: points}
}

// Validate checks the command input
func (c *BatchSubLordsCommand) Validate() error {
	return application.ValidateKPDepth(c.Depth)
}

// Execute runs the batch
func (c *BatchSubLordsCommand) Execute(ctx context.Context) ([]SubLordsEntry, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := make([]SubLordsEntry, len(c.Points))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workerCount(c.Workers))

	for i, pt := range c.Points {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := NewResolveSubLordsCommand(pt.Longitude, c.Depth).Execute(egCtx)
			out[i] = SubLordsEntry{Name: pt.Name, Err: err}
			if err == nil {
				out[i].SubLords = *res
			} else {
				c.logger.Debug("sub lord resolution failed", zap.String("name", pt.Name), zap.Error(err))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProfileState is the current state of one stored profile
type ProfileState struct {
	Profile domain.Profile
	Result  *CurrentResult
	Err     error
}

// BatchCurrentStateCommand resolves the current state of every stored
// profile at TargetJD concurrently
type BatchCurrentStateCommand struct {
	store       ports.ProfileStore
	logger      *zap.Logger
	Workers     int
	TargetJD    float64
	Depth       int
	DaysPerYear float64
}

// NewBatchCurrentStateCommand creates a new BatchCurrentStateCommand
func NewBatchCurrentStateCommand(store ports.ProfileStore, logger *zap.Logger, workers int, targetJD float64, depth int, daysPerYear float64) *BatchCurrentStateCommand {
	logger = logging.OrNop(logger)
	return &BatchCurrentStateCommand{
		store:       store,
		logger:      logger,
		Workers:     workers,
		TargetJD:    targetJD,
		Depth:       depth,
		DaysPerYear: daysPerYear,
	}
}

// Validate checks the command input
func (c *BatchCurrentStateCommand) Validate() error {
	if err := application.ValidateJulianDay("targetJD", c.TargetJD); err != nil {
		return err
	}
	return application.ValidateDashaDepth(c.Depth)
}

// Execute runs the batch
func (c *BatchCurrentStateCommand) Execute(ctx context.Context) ([]ProfileState, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	profiles, err := c.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ProfileState, len(profiles))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workerCount(c.Workers))

	for i, p := range profiles {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := NewCurrentStateCommand(p.MoonLongitude, p.BirthJD, c.TargetJD, c.Depth, c.DaysPerYear).Execute(egCtx)
			out[i] = ProfileState{Profile: p, Result: res, Err: err}
			if err != nil {
				c.logger.Debug("current state failed", zap.String("profile_id", p.ID), zap.Error(err))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func workerCount(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
