package domain

import (
	"fmt"
	"time"
)

// State is the lifecycle state of one probe execution as reported to the
// exporter. Running is never terminal.
type State string

const (
	StateRunning  State = "run"
	StateComplete State = "complete"
	StateFail     State = "fail"
)

// Terminal reports whether the state ends a probe execution.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFail
}

// ProbeKind selects the execution behavior of a model probe.
type ProbeKind string

const (
	KindChat       ProbeKind = "chat"
	KindEmbedding  ProbeKind = "embedding"
	KindCollection ProbeKind = "collection"
)

// ParseProbeKind rejects unknown kinds so they fail at configuration load,
// not at execution time.
func ParseProbeKind(s string) (ProbeKind, error) {
	switch ProbeKind(s) {
	case KindChat, KindEmbedding, KindCollection:
		return ProbeKind(s), nil
	}
	return "", fmt.Errorf("unknown probe kind %q", s)
}

// ModelProbe is one check definition under an endpoint.
type ModelProbe struct {
	Name       string    `json:"name"`
	Kind       ProbeKind `json:"kind"`
	Monitor    string    `json:"monitor,omitempty"`    // exporter monitor id; empty = derived
	Schedule   string    `json:"schedule,omitempty"`   // cron override; empty = default
	Collection string    `json:"collection,omitempty"` // collection file, kind=collection only
}

// MonitorName resolves the exporter monitor identifier for this probe.
func (m ModelProbe) MonitorName(endpoint string) string {
	if m.Monitor != "" {
		return m.Monitor
	}
	return endpoint + "-" + m.Name
}

// Endpoint is one probed base URL with its model probes.
type Endpoint struct {
	Name   string       `json:"name"`
	URL    string       `json:"url"`
	Models []ModelProbe `json:"models"`
}

// Outcome is the result of one probe execution. SeriesID is generated once
// per execution and shared by the start ping, the terminal ping and the
// persisted row.
type Outcome struct {
	Monitor    string        `json:"monitor"`
	State      State         `json:"state"`
	StatusCode int           `json:"status_code"`
	Message    string        `json:"message,omitempty"`
	Duration   time.Duration `json:"duration"`
	SeriesID   string        `json:"series_id"`
}
