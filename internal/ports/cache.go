package ports

import "dasha/internal/domain"

// TimelineCache memoizes generated timelines. Implementations hand out
// copies so callers may not mutate a cached tree.
type TimelineCache interface {
	Get(key string) (*domain.Timeline, bool)
	Set(key string, t *domain.Timeline)
	Flush()
}
