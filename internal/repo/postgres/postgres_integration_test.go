//go:build integration

package postgres

// go test -tags=integration ./internal/repo/postgres -count=1

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/llmvitals/llmvitals/internal/domain"
)

func TestResultsAppendAndQuery(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL empty")
	}

	ctx := context.Background()
	store, err := New(ctx, dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	series := "it-" + time.Now().UTC().Format("20060102T150405.000000000")
	code := 503
	r := &domain.MonitoringResult{
		Timestamp:   time.Now().UTC(),
		MonitorName: "it-svc-embed",
		EndpointURL: "https://svc.example.com",
		ModelName:   "embed",
		State:       domain.StateFail,
		StatusCode:  &code,
		Message:     "503 Service Unavailable",
		SeriesID:    series,
		Environment: "integration",
	}

	if err := store.Append(ctx, r); err != nil {
		t.Fatalf("append: %v", err)
	}
	// retried write for the same series must also succeed
	if err := store.Append(ctx, r); err != nil {
		t.Fatalf("retried append: %v", err)
	}

	rows, err := store.BySeries(ctx, series)
	if err != nil {
		t.Fatalf("by series: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0].MonitorName != "it-svc-embed" || *rows[0].StatusCode != 503 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}

	list, err := store.ListByMonitor(ctx, "it-svc-embed", 10, 0)
	if err != nil || len(list) == 0 {
		t.Fatalf("list: %v (%d rows)", err, len(list))
	}

	names, err := store.Monitors(ctx)
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	found := false
	for _, n := range names {
		if n == "it-svc-embed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("monitor name missing from %v", names)
	}
}
