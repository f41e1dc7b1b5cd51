package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "llmvitals.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
environment: staging
schedule: "*/5 * * * *"
timeout: 5s
exporter:
  base_url: https://cronitor.link
endpoints:
  - name: svc
    url: https://svc.example.com
    models:
      - name: gpt-4
        kind: chat
      - name: embed
        kind: embedding
        monitor: svc-embeddings
        schedule: "@every 1m"
`

func TestLoad_ParsesAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment != "staging" || cfg.Timeout != 5*time.Second {
		t.Fatalf("basic fields wrong: %+v", cfg)
	}
	if !cfg.Recurring() {
		t.Fatalf("schedule set, want recurring mode")
	}
	if cfg.PingAttempts != 2 || cfg.PingBackoff != 300*time.Millisecond {
		t.Fatalf("ping defaults wrong: %+v", cfg)
	}

	eps := cfg.DomainEndpoints()
	if len(eps) != 1 || len(eps[0].Models) != 2 {
		t.Fatalf("endpoints wrong: %+v", eps)
	}
	if got := eps[0].Models[0].MonitorName("svc"); got != "svc-gpt-4" {
		t.Fatalf("derived monitor name wrong: %q", got)
	}
	if eps[0].Models[0].Schedule != "*/5 * * * *" {
		t.Fatalf("default schedule not applied: %q", eps[0].Models[0].Schedule)
	}
	if eps[0].Models[1].Schedule != "@every 1m" {
		t.Fatalf("schedule override lost: %q", eps[0].Models[1].Schedule)
	}
}

func TestLoad_OneShotWhenNoSchedule(t *testing.T) {
	yaml := strings.Replace(validYAML, `schedule: "*/5 * * * *"`, "", 1)
	yaml = strings.Replace(yaml, `schedule: "@every 1m"`, "", 1)
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recurring() {
		t.Fatalf("no schedule, want one-shot mode")
	}
}

func TestLoad_RejectsUnknownKind(t *testing.T) {
	yaml := strings.Replace(validYAML, "kind: chat", "kind: completion", 1)
	if _, err := Load(writeConfig(t, yaml)); err == nil || !strings.Contains(err.Error(), "unknown probe kind") {
		t.Fatalf("want unknown-kind error, got %v", err)
	}
}

func TestLoad_RejectsDuplicateMonitorNames(t *testing.T) {
	yaml := strings.Replace(validYAML, "monitor: svc-embeddings", "monitor: svc-gpt-4", 1)
	if _, err := Load(writeConfig(t, yaml)); err == nil || !strings.Contains(err.Error(), "monitor") {
		t.Fatalf("want duplicate-monitor error, got %v", err)
	}
}

func TestLoad_RejectsBadSchedule(t *testing.T) {
	yaml := strings.Replace(validYAML, `"@every 1m"`, `"every so often"`, 1)
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("want schedule parse error")
	}
}

func TestLoad_RejectsCollectionWithoutFile(t *testing.T) {
	yaml := strings.Replace(validYAML, "kind: embedding", "kind: collection", 1)
	if _, err := Load(writeConfig(t, yaml)); err == nil || !strings.Contains(err.Error(), "collection") {
		t.Fatalf("want collection-file error, got %v", err)
	}
}

func TestLoad_RejectsMissingEndpoints(t *testing.T) {
	yaml := `
exporter:
  base_url: https://cronitor.link
endpoints: []
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("want validation error for empty endpoints")
	}
}

func TestLoad_EnvOverridesExporterBaseURL(t *testing.T) {
	t.Setenv("EXPORTER_BASE_URL", "https://pings.internal.example.com")
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Exporter.BaseURL != "https://pings.internal.example.com" {
		t.Fatalf("env override ignored: %q", cfg.Exporter.BaseURL)
	}
}
