package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dasha/internal/application"
	"dasha/internal/domain"
	"dasha/internal/logging"
	"dasha/internal/ports"
)

// TimelineResult contains a generated timeline
type TimelineResult struct {
	Timeline *domain.Timeline
	Cached   bool
}

// BuildTimelineCommand generates a Dasha timeline, memoized through an
// optional cache
type BuildTimelineCommand struct {
	cache         ports.TimelineCache
	logger        *zap.Logger
	MoonLongitude float64
	BirthJD       float64
	Years         float64
	Depth         int
	DaysPerYear   float64
}

// NewBuildTimelineCommand creates a new BuildTimelineCommand. cache may be nil.
func NewBuildTimelineCommand(cache ports.TimelineCache, logger *zap.Logger, moonLon, birthJD, years float64, depth int, daysPerYear float64) *BuildTimelineCommand {
	logger = logging.OrNop(logger)
	return &BuildTimelineCommand{
		cache:         cache,
		logger:        logger,
		MoonLongitude: moonLon,
		BirthJD:       birthJD,
		Years:         years,
		Depth:         depth,
		DaysPerYear:   daysPerYear,
	}
}

// Validate checks the command input
func (c *BuildTimelineCommand) Validate() error {
	if err := application.ValidateLongitude("moonLongitude", c.MoonLongitude); err != nil {
		return err
	}
	if err := application.ValidateJulianDay("birthJD", c.BirthJD); err != nil {
		return err
	}
	if err := application.ValidatePositive("years", c.Years); err != nil {
		return err
	}
	if c.DaysPerYear != 0 {
		if err := application.ValidatePositive("daysPerYear", c.DaysPerYear); err != nil {
			return err
		}
	}
	return application.ValidateDashaDepth(c.Depth)
}

// CacheKey identifies the timeline the command would generate
func (c *BuildTimelineCommand) CacheKey() string {
	dpy := c.DaysPerYear
	if dpy == 0 {
		dpy = domain.DefaultDaysPerYear
	}
	return fmt.Sprintf("%.12f|%.9f|%g|%d|%g", c.MoonLongitude, c.BirthJD, c.Years, c.Depth, dpy)
}

// Execute runs the timeline command
func (c *BuildTimelineCommand) Execute(ctx context.Context) (*TimelineResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	key := c.CacheKey()
	if c.cache != nil {
		if tl, ok := c.cache.Get(key); ok {
			c.logger.Debug("timeline cache hit", zap.String("key", key))
			return &TimelineResult{Timeline: tl, Cached: true}, nil
		}
	}

	tl, err := domain.BuildTimeline(domain.TimelineRequest{
		MoonLongitude: c.MoonLongitude,
		BirthJD:       c.BirthJD,
		Years:         c.Years,
		Depth:         c.Depth,
		DaysPerYear:   c.DaysPerYear,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline: %w", err)
	}
	if tl.Truncated {
		c.logger.Warn("timeline truncated",
			zap.Float64("years", c.Years),
			zap.Int("max_maha_periods", domain.MaxMahaPeriods))
	}

	c.logger.Debug("timeline built",
		zap.Float64("moon_longitude", c.MoonLongitude),
		zap.Float64("birth_jd", c.BirthJD),
		zap.Int("depth", c.Depth),
		zap.Int("maha_periods", len(tl.Periods)))

	if c.cache != nil {
		c.cache.Set(key, tl)
	}
	return &TimelineResult{Timeline: tl}, nil
}
