package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/llmvitals/llmvitals/internal/domain"
)

// Store keeps monitoring results in memory. Used by tests and by store-less
// runs of the results API.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	results []*domain.MonitoringResult
}

func New() *Store {
	return &Store{results: make([]*domain.MonitoringResult, 0, 128)}
}

func (m *Store) Append(ctx context.Context, r *domain.MonitoringResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *r
	cp.ID = m.nextID
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	m.results = append(m.results, &cp)
	return nil
}

func (m *Store) ListByMonitor(ctx context.Context, monitor string, limit, offset int) ([]*domain.MonitoringResult, error) {
	limit = clampLimit(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.MonitoringResult
	for _, r := range m.results {
		if monitor == "" || r.MonitorName == monitor {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// clampLimit applies the shared page-size rule: non-positive means the
// default page, and nothing exceeds the hard cap.
func clampLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func (m *Store) BySeries(ctx context.Context, seriesID string) ([]*domain.MonitoringResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.MonitoringResult
	for _, r := range m.results {
		if r.SeriesID == seriesID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *Store) Monitors(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, r := range m.results {
		seen[r.MonitorName] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
