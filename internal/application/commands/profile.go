package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dasha/internal/application"
	"dasha/internal/domain"
	"dasha/internal/logging"
	"dasha/internal/ports"
)

// resolveProfile looks a profile up by ID, falling back to its name
func resolveProfile(ctx context.Context, store ports.ProfileStore, ref string) (*domain.Profile, error) {
	if err := application.ValidateRequired("profile", ref); err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)

	if _, err := uuid.Parse(ref); err == nil {
		p, err := store.GetProfile(ctx, ref)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, application.ErrNotFound) {
			return nil, err
		}
	}

	p, err := store.GetProfileByName(ctx, ref)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return nil, &application.ProfileError{Ref: ref, Reason: "not found", Err: application.ErrNotFound}
		}
		return nil, err
	}
	return p, nil
}

// AddProfileResult contains the result of adding a profile
type AddProfileResult struct {
	Profile *domain.Profile
	Message string
}

// AddProfileCommand stores a named birth
type AddProfileCommand struct {
	store         ports.ProfileStore
	logger        *zap.Logger
	Name          string
	MoonLongitude float64
	BirthJD       float64
}

// NewAddProfileCommand creates a new AddProfileCommand
func NewAddProfileCommand(store ports.ProfileStore, logger *zap.Logger, name string, moonLon, birthJD float64) *AddProfileCommand {
	logger = logging.OrNop(logger)
	return &AddProfileCommand{
		store:         store,
		logger:        logger,
		Name:          name,
		MoonLongitude: moonLon,
		BirthJD:       birthJD,
	}
}

// Validate checks if the add operation is valid
func (c *AddProfileCommand) Validate() error {
	if err := application.ValidateRequired("name", c.Name); err != nil {
		return err
	}
	if _, err := uuid.Parse(strings.TrimSpace(c.Name)); err == nil {
		return &application.ValidationError{Field: "name", Message: "name must not be a UUID"}
	}
	if err := application.ValidateLongitude("moonLongitude", c.MoonLongitude); err != nil {
		return err
	}
	return application.ValidateJulianDay("birthJD", c.BirthJD)
}

// Execute runs the add profile command
func (c *AddProfileCommand) Execute(ctx context.Context) (*AddProfileResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(c.Name)
	if _, err := c.store.GetProfileByName(ctx, name); err == nil {
		return nil, &application.ProfileError{Ref: name, Reason: "name already in use", Err: application.ErrAlreadyExists}
	} else if !errors.Is(err, application.ErrNotFound) {
		return nil, fmt.Errorf("failed to check profile name: %w", err)
	}

	lon, err := domain.NormalizeLongitude(c.MoonLongitude)
	if err != nil {
		return nil, err
	}

	p := &domain.Profile{
		ID:            uuid.NewString(),
		Name:          name,
		MoonLongitude: lon,
		BirthJD:       c.BirthJD,
		CreatedAt:     time.Now().UTC(),
	}
	if err := c.store.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	c.logger.Info("profile added", zap.String("profile_id", p.ID), zap.String("name", p.Name))
	return &AddProfileResult{
		Profile: p,
		Message: fmt.Sprintf("Added profile: %s (%s)", p.Name, p.ID),
	}, nil
}

// ListProfilesCommand lists stored profiles
type ListProfilesCommand struct {
	store ports.ProfileStore
}

// NewListProfilesCommand creates a new ListProfilesCommand
func NewListProfilesCommand(store ports.ProfileStore) *ListProfilesCommand {
	return &ListProfilesCommand{store: store}
}

// Execute runs the list command
func (c *ListProfilesCommand) Execute(ctx context.Context) ([]domain.Profile, error) {
	return c.store.ListProfiles(ctx)
}

// ShowProfileResult contains a profile with its birth balance and the
// number of materialized periods
type ShowProfileResult struct {
	Profile *domain.Profile
	Balance domain.BirthBalance
	Periods int
}

// ShowProfileCommand fetches one profile by ID or name
type ShowProfileCommand struct {
	store ports.ProfileStore
	Ref   string
}

// NewShowProfileCommand creates a new ShowProfileCommand
func NewShowProfileCommand(store ports.ProfileStore, ref string) *ShowProfileCommand {
	return &ShowProfileCommand{store: store, Ref: ref}
}

// Execute runs the show command
func (c *ShowProfileCommand) Execute(ctx context.Context) (*ShowProfileResult, error) {
	p, err := resolveProfile(ctx, c.store, c.Ref)
	if err != nil {
		return nil, err
	}

	bal, err := domain.ComputeBirthBalance(p.MoonLongitude)
	if err != nil {
		return nil, err
	}
	n, err := c.store.CountPeriods(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count periods: %w", err)
	}
	return &ShowProfileResult{Profile: p, Balance: bal, Periods: n}, nil
}

// DeleteProfileCommand removes a profile and its materialized periods
type DeleteProfileCommand struct {
	store  ports.ProfileStore
	logger *zap.Logger
	Ref    string
}

// NewDeleteProfileCommand creates a new DeleteProfileCommand
func NewDeleteProfileCommand(store ports.ProfileStore, logger *zap.Logger, ref string) *DeleteProfileCommand {
	logger = logging.OrNop(logger)
	return &DeleteProfileCommand{store: store, logger: logger, Ref: ref}
}

// Execute runs the delete command
func (c *DeleteProfileCommand) Execute(ctx context.Context) (*domain.Profile, error) {
	p, err := resolveProfile(ctx, c.store, c.Ref)
	if err != nil {
		return nil, err
	}
	if err := c.store.DeleteProfile(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("failed to delete profile: %w", err)
	}
	c.logger.Info("profile deleted", zap.String("profile_id", p.ID))
	return p, nil
}

// MaterializeResult contains the outcome of a materialize run
type MaterializeResult struct {
	Profile *domain.Profile
	Stats   domain.MaterializeStats
	Message string
}

// MaterializeCommand writes a profile's flattened timeline into the period
// table, replacing any earlier run, in one transaction
type MaterializeCommand struct {
	store       ports.ProfileStore
	cache       ports.TimelineCache
	logger      *zap.Logger
	Ref         string
	Years       float64
	Depth       int
	DaysPerYear float64
}

// NewMaterializeCommand creates a new MaterializeCommand. cache may be nil.
func NewMaterializeCommand(store ports.ProfileStore, cache ports.TimelineCache, logger *zap.Logger, ref string, years float64, depth int, daysPerYear float64) *MaterializeCommand {
	logger = logging.OrNop(logger)
	return &MaterializeCommand{
		store:       store,
		cache:       cache,
		logger:      logger,
		Ref:         ref,
		Years:       years,
		Depth:       depth,
		DaysPerYear: daysPerYear,
	}
}

// Execute runs the materialize command
func (c *MaterializeCommand) Execute(ctx context.Context) (*MaterializeResult, error) {
	start := time.Now()

	p, err := resolveProfile(ctx, c.store, c.Ref)
	if err != nil {
		return nil, err
	}

	built, err := NewBuildTimelineCommand(c.cache, c.logger, p.MoonLongitude, p.BirthJD, c.Years, c.Depth, c.DaysPerYear).Execute(ctx)
	if err != nil {
		return nil, err
	}
	records := built.Timeline.Records(p.ID)

	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stats domain.MaterializeStats
	if stats.PeriodsDeleted, err = tx.DeletePeriods(p.ID); err != nil {
		return nil, fmt.Errorf("failed to clear periods: %w", err)
	}
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := tx.InsertPeriod(&records[i]); err != nil {
			return nil, fmt.Errorf("failed to insert period %s: %w", records[i].Path, err)
		}
		stats.PeriodsInserted++
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit periods: %w", err)
	}
	stats.Duration = time.Since(start)

	c.logger.Info("timeline materialized",
		zap.String("profile_id", p.ID),
		zap.Int("deleted", stats.PeriodsDeleted),
		zap.Int("inserted", stats.PeriodsInserted),
		zap.Duration("duration", stats.Duration))

	return &MaterializeResult{
		Profile: p,
		Stats:   stats,
		Message: fmt.Sprintf("Materialized %d periods for %s", stats.PeriodsInserted, p.Name),
	}, nil
}

// PeriodsCommand queries materialized periods overlapping a JD window
type PeriodsCommand struct {
	store  ports.ProfileStore
	Ref    string
	Level  domain.DashaLevel
	FromJD float64
	ToJD   float64
}

// NewPeriodsCommand creates a new PeriodsCommand
func NewPeriodsCommand(store ports.ProfileStore, ref string, level domain.DashaLevel, fromJD, toJD float64) *PeriodsCommand {
	return &PeriodsCommand{store: store, Ref: ref, Level: level, FromJD: fromJD, ToJD: toJD}
}

// Validate checks the query window
func (c *PeriodsCommand) Validate() error {
	if err := application.ValidateDashaDepth(int(c.Level)); err != nil {
		return err
	}
	if err := application.ValidateJulianDay("fromJD", c.FromJD); err != nil {
		return err
	}
	if err := application.ValidateJulianDay("toJD", c.ToJD); err != nil {
		return err
	}
	if c.ToJD <= c.FromJD {
		return &application.ValidationError{Field: "toJD", Message: "to JD must be after from JD"}
	}
	return nil
}

// Execute runs the periods query
func (c *PeriodsCommand) Execute(ctx context.Context) ([]domain.PeriodRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p, err := resolveProfile(ctx, c.store, c.Ref)
	if err != nil {
		return nil, err
	}
	return c.store.PeriodsBetween(ctx, p.ID, c.Level, c.FromJD, c.ToJD)
}
