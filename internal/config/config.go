package config

import (
	"time"

	"github.com/llmvitals/llmvitals/internal/domain"
)

// Config is the resolved configuration for one monitor process.
type Config struct {
	Environment string `mapstructure:"environment"`
	LogDir      string `mapstructure:"log_dir"`
	APIAddr     string `mapstructure:"api_addr"` // results API bind address
	DatabaseURL string `mapstructure:"database_url"`

	// Schedule is the default cadence. Empty means one-shot: every probe
	// runs exactly once and the process exits.
	Schedule string        `mapstructure:"schedule"`
	Timeout  time.Duration `mapstructure:"timeout"`

	PingAttempts int           `mapstructure:"ping_attempts"`
	PingBackoff  time.Duration `mapstructure:"ping_backoff"`

	Exporter  ExporterConfig   `mapstructure:"exporter" validate:"required"`
	Endpoints []EndpointConfig `mapstructure:"endpoints" validate:"min=1,dive"`
}

type ExporterConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
	Group   string `mapstructure:"group"`

	FailureTolerance  int `mapstructure:"failure_tolerance"`
	ScheduleTolerance int `mapstructure:"schedule_tolerance"`
	MinSuccessFreq    int `mapstructure:"min_success_freq"`
}

type EndpointConfig struct {
	Name   string        `mapstructure:"name" validate:"required"`
	URL    string        `mapstructure:"url" validate:"required,url"`
	Models []ModelConfig `mapstructure:"models" validate:"min=1,dive"`
}

type ModelConfig struct {
	Name       string `mapstructure:"name" validate:"required"`
	Kind       string `mapstructure:"kind" validate:"required"`
	Monitor    string `mapstructure:"monitor"`
	Schedule   string `mapstructure:"schedule"`
	Collection string `mapstructure:"collection"`
}

// Recurring reports whether the process runs on schedules or one-shot.
func (c *Config) Recurring() bool {
	return c.Schedule != ""
}

// EffectiveSchedule resolves a model's cadence against the default.
func (c *Config) EffectiveSchedule(m ModelConfig) string {
	if m.Schedule != "" {
		return m.Schedule
	}
	return c.Schedule
}

// DomainEndpoints converts the validated configuration into domain values.
func (c *Config) DomainEndpoints() []domain.Endpoint {
	out := make([]domain.Endpoint, 0, len(c.Endpoints))
	for _, e := range c.Endpoints {
		ep := domain.Endpoint{Name: e.Name, URL: e.URL}
		for _, m := range e.Models {
			ep.Models = append(ep.Models, domain.ModelProbe{
				Name:       m.Name,
				Kind:       domain.ProbeKind(m.Kind),
				Monitor:    m.Monitor,
				Schedule:   c.EffectiveSchedule(m),
				Collection: m.Collection,
			})
		}
		out = append(out, ep)
	}
	return out
}
