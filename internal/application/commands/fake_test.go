package commands

import (
	"context"
	"sort"
	"strings"
	"sync"

	"dasha/internal/application"
	"dasha/internal/domain"
	"dasha/internal/ports"
)

// memStore is an in-memory ports.ProfileStore for command tests
type memStore struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	periods  map[string][]domain.PeriodRecord
	commits  int
}

var _ ports.ProfileStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		profiles: make(map[string]domain.Profile),
		periods:  make(map[string][]domain.PeriodRecord),
	}
}

func (s *memStore) Open(string) error { return nil }
func (s *memStore) Close() error      { return nil }

func (s *memStore) SaveProfile(ctx context.Context, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = *p
	return nil
}

func (s *memStore) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) GetProfileByName(ctx context.Context, name string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, application.ErrNotFound
}

func (s *memStore) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) DeleteProfile(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return application.ErrNotFound
	}
	delete(s.profiles, id)
	delete(s.periods, id)
	return nil
}

func (s *memStore) PeriodsBetween(ctx context.Context, profileID string, level domain.DashaLevel, from, to float64) ([]domain.PeriodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PeriodRecord
	for _, r := range s.periods[profileID] {
		if r.Level == level && r.Start < to && r.End > from {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) CountPeriods(ctx context.Context, profileID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.periods[profileID]), nil
}

func (s *memStore) BeginTx(ctx context.Context) (ports.PeriodTx, error) {
	return &memTx{store: s, pending: make(map[string][]domain.PeriodRecord)}, nil
}

type memTx struct {
	store   *memStore
	cleared []string
	pending map[string][]domain.PeriodRecord
	done    bool
}

func (t *memTx) DeletePeriods(profileID string) (int, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.cleared = append(t.cleared, profileID)
	return len(t.store.periods[profileID]), nil
}

func (t *memTx) InsertPeriod(rec *domain.PeriodRecord) error {
	t.pending[rec.ProfileID] = append(t.pending[rec.ProfileID], *rec)
	return nil
}

func (t *memTx) Commit() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, id := range t.cleared {
		delete(t.store.periods, id)
	}
	for id, recs := range t.pending {
		t.store.periods[id] = append(t.store.periods[id], recs...)
	}
	t.store.commits++
	t.done = true
	return nil
}

func (t *memTx) Rollback() error {
	t.done = true
	return nil
}

// mapCache is a ports.TimelineCache backed by a map
type mapCache struct {
	mu    sync.Mutex
	items map[string]*domain.Timeline
	gets  int
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]*domain.Timeline)}
}

func (c *mapCache) Get(key string) (*domain.Timeline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	t, ok := c.items[key]
	return t, ok
}

func (c *mapCache) Set(key string, t *domain.Timeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = t
}

func (c *mapCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*domain.Timeline)
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
