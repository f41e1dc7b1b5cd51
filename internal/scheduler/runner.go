package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/llmvitals/llmvitals/internal/domain"
	"github.com/llmvitals/llmvitals/internal/probe"
	"github.com/llmvitals/llmvitals/internal/repo"
)

// CronParser is the schedule grammar shared with config validation, so a bad
// expression fails at load time instead of at runner start.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Pinger reports execution events to the uptime exporter. Implementations
// must be safe for concurrent use and must never block longer than their own
// bounded retries.
type Pinger interface {
	Ping(ctx context.Context, monitor string, state domain.State, seriesID string, statusCode int, message string)
}

// Job binds one probe to its monitor identity and schedule.
type Job struct {
	Monitor     string
	EndpointURL string
	Model       string
	Schedule    string // cron expression; empty in one-shot mode
	Prober      probe.Prober

	running atomic.Bool
}

// Runner drives probe executions, one-shot or on recurring schedules. Each
// execution gets a fresh series id, a start ping, a hard timeout, a terminal
// ping carrying the same series id, and an optional store write - in that
// order.
type Runner struct {
	Logger      *zap.Logger
	Pinger      Pinger
	Results     repo.ResultStore // nil disables persistence
	Environment string
	Timeout     time.Duration

	jobs []*Job
	wg   sync.WaitGroup
}

func NewRunner(
	logger *zap.Logger,
	pinger Pinger,
	results repo.ResultStore,
	environment string,
	timeout time.Duration,
	jobs []*Job,
) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Runner{
		Logger:      logger,
		Pinger:      pinger,
		Results:     results,
		Environment: environment,
		Timeout:     timeout,
		jobs:        jobs,
	}
}

// Execute runs one probe execution end to end and returns its outcome.
func (r *Runner) Execute(ctx context.Context, j *Job) domain.Outcome {
	series := uuid.NewString()
	r.Pinger.Ping(ctx, j.Monitor, domain.StateRunning, series, 0, "")

	pctx, cancel := context.WithTimeout(ctx, r.Timeout)
	res := j.Prober.Probe(pctx)
	cancel()

	out := domain.Outcome{
		Monitor:    j.Monitor,
		State:      res.State,
		StatusCode: res.StatusCode,
		Message:    res.Message,
		Duration:   res.Duration,
		SeriesID:   series,
	}
	r.Pinger.Ping(ctx, j.Monitor, out.State, series, out.StatusCode, out.Message)
	r.persist(ctx, j, out)

	r.Logger.Info("probe_executed",
		zap.String("monitor", j.Monitor),
		zap.String("state", string(out.State)),
		zap.Int("status", out.StatusCode),
		zap.Duration("duration", out.Duration),
		zap.String("series", series),
	)
	return out
}

// RunOnce executes every job exactly once, concurrently, and returns all
// outcomes. A cancelled ctx does not abort started executions: each stays
// bounded by its own timeout and still delivers its terminal ping.
func (r *Runner) RunOnce(ctx context.Context) []domain.Outcome {
	execCtx := context.WithoutCancel(ctx)

	outs := make([]domain.Outcome, len(r.jobs))
	var wg sync.WaitGroup
	for i, j := range r.jobs {
		wg.Add(1)
		go func(i int, j *Job) {
			defer wg.Done()
			outs[i] = r.Execute(execCtx, j)
		}(i, j)
	}
	wg.Wait()
	return outs
}

// Run drives jobs on their cron schedules until ctx is cancelled. Each
// distinct schedule ticks independently. Shutdown waits for in-flight
// executions, which stay bounded by their own timeout, so none is left
// without a terminal ping.
func (r *Runner) Run(ctx context.Context) error {
	c := cron.New(cron.WithParser(CronParser))

	// In-flight work outlives a cancelled run context on purpose.
	execCtx := context.WithoutCancel(ctx)

	groups := r.bySchedule()
	for schedule, jobs := range groups {
		jobs := jobs
		if _, err := c.AddFunc(schedule, func() { r.tick(execCtx, jobs) }); err != nil {
			return fmt.Errorf("schedule %q: %w", schedule, err)
		}
	}

	r.Logger.Info("runner_started",
		zap.Int("jobs", len(r.jobs)),
		zap.Int("schedules", len(groups)),
	)

	// immediate pass, then cron takes over
	r.tick(execCtx, r.jobs)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	r.wg.Wait()
	r.Logger.Info("runner_stopped")
	return nil
}

// tick starts one execution per job. A job whose previous execution is still
// running is skipped for this tick; the skip is logged, never silent.
func (r *Runner) tick(ctx context.Context, jobs []*Job) {
	for _, j := range jobs {
		if !j.running.CompareAndSwap(false, true) {
			r.Logger.Warn("probe_skipped_still_running", zap.String("monitor", j.Monitor))
			continue
		}
		r.wg.Add(1)
		go func(j *Job) {
			defer r.wg.Done()
			defer j.running.Store(false)
			r.Execute(ctx, j)
		}(j)
	}
}

func (r *Runner) bySchedule() map[string][]*Job {
	groups := make(map[string][]*Job)
	for _, j := range r.jobs {
		groups[j.Schedule] = append(groups[j.Schedule], j)
	}
	return groups
}

// persist appends the terminal row, best-effort. Running states are never
// stored.
func (r *Runner) persist(ctx context.Context, j *Job, out domain.Outcome) {
	if r.Results == nil || !out.State.Terminal() {
		return
	}
	code := out.StatusCode
	row := &domain.MonitoringResult{
		Timestamp:   time.Now().UTC(),
		MonitorName: j.Monitor,
		EndpointURL: j.EndpointURL,
		ModelName:   j.Model,
		State:       out.State,
		StatusCode:  &code,
		Message:     out.Message,
		SeriesID:    out.SeriesID,
		Environment: r.Environment,
	}
	if err := r.Results.Append(ctx, row); err != nil {
		r.Logger.Warn("result_append_error",
			zap.String("monitor", j.Monitor),
			zap.String("series", out.SeriesID),
			zap.Error(err),
		)
	}
}
