package ports

import (
	"context"

	"dasha/internal/domain"
)

// ProfileStore persists birth profiles and their materialized timelines.
// Lookups of a missing profile return application.ErrNotFound.
type ProfileStore interface {
	// Lifecycle
	Open(dbPath string) error
	Close() error

	// Profile queries
	SaveProfile(ctx context.Context, p *domain.Profile) error
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	GetProfileByName(ctx context.Context, name string) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	DeleteProfile(ctx context.Context, id string) error

	// Period queries return records overlapping [from, to) at one level,
	// ordered by start
	PeriodsBetween(ctx context.Context, profileID string, level domain.DashaLevel, from, to float64) ([]domain.PeriodRecord, error)
	CountPeriods(ctx context.Context, profileID string) (int, error)

	// Batch updates (for materialize)
	BeginTx(ctx context.Context) (PeriodTx, error)
}

// PeriodTx represents a transaction for atomic period table updates
type PeriodTx interface {
	DeletePeriods(profileID string) (int, error)
	InsertPeriod(rec *domain.PeriodRecord) error

	// Transaction control
	Commit() error
	Rollback() error
}
