package monitor

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/llmvitals/llmvitals/internal/config"
	"github.com/llmvitals/llmvitals/internal/domain"
	"github.com/llmvitals/llmvitals/internal/exporter"
	"github.com/llmvitals/llmvitals/internal/probe"
	"github.com/llmvitals/llmvitals/internal/repo"
	"github.com/llmvitals/llmvitals/internal/repo/postgres"
	"github.com/llmvitals/llmvitals/internal/scheduler"
)

// Process exit codes. External job runners key off these to classify an
// invocation.
const (
	ExitOK           = 0
	ExitProbeFailure = 1
	ExitConfigError  = 2
	ExitTimeout      = 124
)

// Monitor wires a resolved configuration into a runner and exposes a single
// Run entry point returning the process exit code.
type Monitor struct {
	cfg    *config.Config
	log    *zap.Logger
	runner *scheduler.Runner
	close  func()
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Monitor, error) {
	var results repo.ResultStore
	closeStore := func() {}
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, fmt.Errorf("result store: %w", err)
		}
		results = pg
		closeStore = pg.Close
	}

	pinger := exporter.New(exporter.Config{
		BaseURL:           cfg.Exporter.BaseURL,
		APIKey:            cfg.Exporter.APIKey,
		Environment:       cfg.Environment,
		Timeout:           cfg.Timeout,
		Attempts:          cfg.PingAttempts,
		Backoff:           cfg.PingBackoff,
		Schedule:          cfg.Schedule,
		Group:             cfg.Exporter.Group,
		FailureTolerance:  cfg.Exporter.FailureTolerance,
		ScheduleTolerance: cfg.Exporter.ScheduleTolerance,
		MinSuccessFreq:    cfg.Exporter.MinSuccessFreq,
		ProbeTimeout:      cfg.Timeout,
	}, log)

	jobs, err := buildJobs(cfg)
	if err != nil {
		closeStore()
		return nil, err
	}

	return &Monitor{
		cfg:    cfg,
		log:    log,
		runner: scheduler.NewRunner(log, pinger, results, cfg.Environment, cfg.Timeout, jobs),
		close:  closeStore,
	}, nil
}

// buildJobs maps every configured model probe onto its execution behavior.
// The switch is exhaustive over probe kinds; config validation already
// rejected anything else.
func buildJobs(cfg *config.Config) ([]*scheduler.Job, error) {
	var jobs []*scheduler.Job
	for _, ep := range cfg.DomainEndpoints() {
		for _, m := range ep.Models {
			var p probe.Prober
			switch m.Kind {
			case domain.KindChat:
				p = probe.NewChatProbe(ep.URL, m.Name)
			case domain.KindEmbedding:
				p = probe.NewEmbeddingProbe(ep.URL, m.Name)
			case domain.KindCollection:
				p = &probe.CollectionProbe{Collection: m.Collection, Runner: &probe.NewmanRunner{}}
			default:
				return nil, fmt.Errorf("unknown probe kind %q", m.Kind)
			}
			jobs = append(jobs, &scheduler.Job{
				Monitor:     m.MonitorName(ep.Name),
				EndpointURL: ep.URL,
				Model:       m.Name,
				Schedule:    m.Schedule,
				Prober:      p,
			})
		}
	}
	return jobs, nil
}

// Run executes the configured probe set and returns the process exit code:
// 0 when every probe completed, 124 when the only failures were timeouts,
// 1 otherwise. Recurring mode runs until ctx is cancelled; lifecycle is the
// supervisor's call, so a clean stop exits 0.
func (m *Monitor) Run(ctx context.Context) int {
	defer m.close()

	if m.cfg.Recurring() {
		if err := m.runner.Run(ctx); err != nil {
			m.log.Error("runner_error", zap.Error(err))
			return ExitConfigError
		}
		return ExitOK
	}

	outs := m.runner.RunOnce(ctx)

	var errs error
	failed := false
	timeoutOnly := true
	for _, o := range outs {
		if o.State == domain.StateComplete {
			continue
		}
		failed = true
		if o.StatusCode != probe.StatusTimeout {
			timeoutOnly = false
		}
		errs = multierr.Append(errs, fmt.Errorf("%s: status %d: %s", o.Monitor, o.StatusCode, o.Message))
	}

	if !failed {
		m.log.Info("all_probes_complete", zap.Int("probes", len(outs)))
		return ExitOK
	}
	m.log.Error("probes_failed", zap.Error(errs))
	if timeoutOnly {
		return ExitTimeout
	}
	return ExitProbeFailure
}
