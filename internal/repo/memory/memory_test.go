package memory

import (
	"context"
	"testing"
	"time"

	"github.com/llmvitals/llmvitals/internal/domain"
)

func row(monitor, series string, state domain.State, ts time.Time) *domain.MonitoringResult {
	code := 200
	if state == domain.StateFail {
		code = 500
	}
	return &domain.MonitoringResult{
		Timestamp:   ts,
		MonitorName: monitor,
		EndpointURL: "https://svc.example.com",
		ModelName:   "gpt-4",
		State:       state,
		StatusCode:  &code,
		SeriesID:    series,
		Environment: "test",
	}
}

func TestStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, series := range []string{"s1", "s2", "s3"} {
		if err := s.Append(ctx, row("svc-gpt-4", series, domain.StateComplete, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	_ = s.Append(ctx, row("other-embed", "s4", domain.StateFail, base))

	got, err := s.ListByMonitor(ctx, "svc-gpt-4", 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	// newest first
	if got[0].SeriesID != "s3" || got[1].SeriesID != "s2" {
		t.Fatalf("wrong order: %s, %s", got[0].SeriesID, got[1].SeriesID)
	}

	got, err = s.ListByMonitor(ctx, "svc-gpt-4", 10, 2)
	if err != nil || len(got) != 1 || got[0].SeriesID != "s1" {
		t.Fatalf("offset paging wrong: %v %v", got, err)
	}
}

func TestStore_ZeroLimitMeansDefaultPage(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 105; i++ {
		_ = s.Append(ctx, row("svc-gpt-4", "s", domain.StateComplete, base.Add(time.Duration(i)*time.Second)))
	}

	got, err := s.ListByMonitor(ctx, "svc-gpt-4", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("limit 0 must page like the default, got %d rows", len(got))
	}
}

func TestStore_DuplicateSeriesTolerated(t *testing.T) {
	ctx := context.Background()
	s := New()
	r := row("svc-gpt-4", "dup", domain.StateComplete, time.Now().UTC())

	if err := s.Append(ctx, r); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(ctx, r); err != nil {
		t.Fatalf("retried append must succeed: %v", err)
	}
	got, err := s.BySeries(ctx, "dup")
	if err != nil || len(got) != 2 {
		t.Fatalf("want 2 rows for retried series, got %d err=%v", len(got), err)
	}
}

func TestStore_Monitors(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Append(ctx, row("b", "s1", domain.StateComplete, time.Now()))
	_ = s.Append(ctx, row("a", "s2", domain.StateComplete, time.Now()))
	_ = s.Append(ctx, row("a", "s3", domain.StateFail, time.Now()))

	names, err := s.Monitors(ctx)
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("want [a b], got %v", names)
	}
}
