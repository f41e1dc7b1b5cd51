package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// enrich pushes the monitor definition (schedule, tolerances, assertions) to
// the exporter's management API so dashboards and alerting thresholds stay
// in sync with the probe config. Requires an API key; best-effort like the
// pings.
func (c *Client) enrich(ctx context.Context, monitor string) {
	if c.cfg.APIKey == "" {
		return
	}
	body, err := json.Marshal(c.enrichPayload(monitor))
	if err != nil {
		c.log.Warn("exporter_enrich_failed", zap.String("monitor", monitor), zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		c.log.Warn("exporter_enrich_failed", zap.String("monitor", monitor), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.APIKey, "")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("exporter_enrich_failed", zap.String("monitor", monitor), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		c.log.Warn("exporter_enrich_failed",
			zap.String("monitor", monitor),
			zap.String("status", resp.Status),
		)
		return
	}
	c.log.Debug("exporter_enriched", zap.String("monitor", monitor))
}

func (c *Client) enrichPayload(monitor string) map[string]any {
	m := map[string]any{
		"type": "job",
		"key":  monitor,
	}
	if c.cfg.FailureTolerance > 0 {
		m["failure_tolerance"] = c.cfg.FailureTolerance
	}
	if c.cfg.Schedule != "" {
		m["schedule"] = c.cfg.Schedule
		if c.cfg.ScheduleTolerance > 0 {
			m["schedule_tolerance"] = c.cfg.ScheduleTolerance
		}
	}
	if c.cfg.Group != "" {
		m["group"] = c.cfg.Group
	}

	// The duration assertion doubles the probe timeout so a slow-but-passing
	// probe does not flap the monitor.
	assertions := []string{
		fmt.Sprintf("metric.duration < %ds", int(2*c.cfg.ProbeTimeout.Seconds())),
	}
	if c.cfg.MinSuccessFreq > 0 {
		assertions = append(assertions, fmt.Sprintf("job.completes < %d minute", c.cfg.MinSuccessFreq))
	}
	m["assertions"] = assertions

	return map[string]any{"monitors": []any{m}}
}
