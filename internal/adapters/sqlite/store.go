package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"dasha/internal/application"
	"dasha/internal/domain"
	"dasha/internal/logging"
	"dasha/internal/ports"
)

const schemaVersion = "1"

// Store implements ports.ProfileStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
	logger *zap.Logger
}

// Ensure Store implements ProfileStore
var _ ports.ProfileStore = (*Store)(nil)

// NewStore creates a new SQLite store
func NewStore(logger *zap.Logger) *Store {
	return &Store{logger: logging.OrNop(logger)}
}

// DefaultPath returns the database location under the XDG data directory
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "dasha", "dasha.db")
}

// Open initializes the database at dbPath, creating it if needed
func (s *Store) Open(dbPath string) error {
	if dbPath == "" {
		dbPath = DefaultPath()
	}
	// Expand ~ in path
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	s.dbPath = dbPath

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode for better concurrency; foreign keys for period cleanup
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			moon_longitude REAL NOT NULL,
			birth_jd REAL NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS periods (
			profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			path TEXT NOT NULL,
			level INTEGER NOT NULL,
			lord INTEGER NOT NULL,
			start_jd REAL NOT NULL,
			end_jd REAL NOT NULL,
			partial INTEGER NOT NULL,
			PRIMARY KEY (profile_id, seq)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_periods_window ON periods(profile_id, level, start_jd);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	s.logger.Debug("database opened", zap.String("path", dbPath))
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the opened database path
func (s *Store) Path() string {
	return s.dbPath
}

// SchemaVersion returns the schema version recorded in the database
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	var version string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	return version, err
}

// SaveProfile inserts a profile or updates the one with the same ID
func (s *Store) SaveProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, moon_longitude, birth_jd, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			moon_longitude = excluded.moon_longitude,
			birth_jd = excluded.birth_jd
	`, p.ID, p.Name, p.MoonLongitude, p.BirthJD, p.CreatedAt.UnixNano())
	return err
}

const profileColumns = `id, name, moon_longitude, birth_jd, created_at`

// GetProfile retrieves a profile by ID
func (s *Store) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// GetProfileByName retrieves a profile by name
func (s *Store) GetProfileByName(ctx context.Context, name string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE name = ?`, name)
	return scanProfile(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*domain.Profile, error) {
	var p domain.Profile
	var created int64
	err := row.Scan(&p.ID, &p.Name, &p.MoonLongitude, &p.BirthJD, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, application.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(0, created).UTC()
	return &p, nil
}

// ListProfiles returns all profiles ordered by name
func (s *Store) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes a profile and its periods
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM periods WHERE profile_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return application.ErrNotFound
	}
	return tx.Commit()
}

// PeriodsBetween returns the periods at level overlapping [from, to)
func (s *Store) PeriodsBetween(ctx context.Context, profileID string, level domain.DashaLevel, from, to float64) ([]domain.PeriodRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT profile_id, seq, path, level, lord, start_jd, end_jd, partial
		FROM periods
		WHERE profile_id = ? AND level = ? AND start_jd < ? AND end_jd > ?
		ORDER BY start_jd
	`, profileID, int(level), to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PeriodRecord
	for rows.Next() {
		var r domain.PeriodRecord
		var lvl, lord int
		if err := rows.Scan(&r.ProfileID, &r.Seq, &r.Path, &lvl, &lord, &r.Start, &r.End, &r.Partial); err != nil {
			return nil, err
		}
		r.Level = domain.DashaLevel(lvl)
		r.Lord = domain.Lord(lord)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountPeriods returns the number of materialized periods of a profile
func (s *Store) CountPeriods(ctx context.Context, profileID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM periods WHERE profile_id = ?`, profileID).Scan(&n)
	return n, err
}

// BeginTx starts a new transaction
func (s *Store) BeginTx(ctx context.Context) (ports.PeriodTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO periods (profile_id, seq, path, level, lord, start_jd, end_jd, partial)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &periodTx{tx: tx, insert: stmt}, nil
}
