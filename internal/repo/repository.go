package repo

import (
	"context"

	"github.com/llmvitals/llmvitals/internal/domain"
)

// ResultStore is the append-only persistence port for terminal probe
// outcomes. Writes are advisory: callers log failures and move on. A write
// may be retried for the same series id; duplicate rows are tolerated.
// Implementations must be safe for concurrent use.
type ResultStore interface {
	Append(ctx context.Context, r *domain.MonitoringResult) error

	// Read side, used by the results API.
	ListByMonitor(ctx context.Context, monitor string, limit, offset int) ([]*domain.MonitoringResult, error)
	BySeries(ctx context.Context, seriesID string) ([]*domain.MonitoringResult, error)
	Monitors(ctx context.Context) ([]string, error)
}
