package domain

import "time"

// MonitoringResult is the persisted form of a terminal outcome. Rows are
// append-only; nothing updates or deletes them.
type MonitoringResult struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	MonitorName string    `json:"monitor_name"`
	EndpointURL string    `json:"endpoint_url"`
	ModelName   string    `json:"model_name"`
	State       State     `json:"state"`
	StatusCode  *int      `json:"status_code"` // pointer to allow nil
	Message     string    `json:"message,omitempty"`
	SeriesID    string    `json:"series_id"`
	Environment string    `json:"environment"`
	CreatedAt   time.Time `json:"created_at"`
}
