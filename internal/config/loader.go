package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/llmvitals/llmvitals/internal/domain"
)

// cronParser mirrors the runner's grammar so a schedule rejected here is the
// only kind the runner would reject too.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Load reads the YAML config at path with environment overrides
// (EXPORTER_BASE_URL, DATABASE_URL, ...) and validates it. All
// configuration errors are fatal here, before any probe runs.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "production")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("api_addr", "127.0.0.1:8080")
	v.SetDefault("database_url", "")

	v.SetDefault("timeout", "10s")
	v.SetDefault("ping_attempts", 2)
	v.SetDefault("ping_backoff", "300ms")

	v.SetDefault("exporter.base_url", "https://cronitor.link")
	v.SetDefault("exporter.api_key", "")
}

func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return formatValidationErrors(ve)
		}
		return err
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive")
	}
	if cfg.Schedule != "" {
		if _, err := cronParser.Parse(cfg.Schedule); err != nil {
			return fmt.Errorf("config: schedule %q: %w", cfg.Schedule, err)
		}
	}

	seen := make(map[string]string) // monitor name -> endpoint/model that claimed it
	for _, e := range cfg.Endpoints {
		for _, m := range e.Models {
			where := e.Name + "/" + m.Name

			kind, err := domain.ParseProbeKind(m.Kind)
			if err != nil {
				return fmt.Errorf("config: %s: %w", where, err)
			}
			if kind == domain.KindCollection && m.Collection == "" {
				return fmt.Errorf("config: %s: collection probes need a collection file", where)
			}

			monitor := domain.ModelProbe{Name: m.Name, Monitor: m.Monitor}.MonitorName(e.Name)
			if prev, dup := seen[monitor]; dup {
				return fmt.Errorf("config: monitor %q used by both %s and %s", monitor, prev, where)
			}
			seen[monitor] = where

			if m.Schedule != "" {
				if cfg.Schedule == "" {
					return fmt.Errorf("config: %s: schedule override requires a default schedule", where)
				}
				if _, err := cronParser.Parse(m.Schedule); err != nil {
					return fmt.Errorf("config: %s: schedule %q: %w", where, m.Schedule, err)
				}
			}
		}
	}
	return nil
}

func formatValidationErrors(ve validator.ValidationErrors) error {
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, fe := range ve {
		fmt.Fprintf(&sb, "- field '%s' failed on '%s'\n", fe.Namespace(), fe.Tag())
	}
	return errors.New(strings.TrimSpace(sb.String()))
}
