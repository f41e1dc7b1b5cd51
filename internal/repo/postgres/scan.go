package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/llmvitals/llmvitals/internal/domain"
)

func scanResults(rows pgx.Rows) ([]*domain.MonitoringResult, error) {
	var out []*domain.MonitoringResult
	for rows.Next() {
		var (
			r       domain.MonitoringResult
			state   string
			message *string
		)
		if err := rows.Scan(
			&r.ID, &r.Timestamp, &r.MonitorName, &r.EndpointURL, &r.ModelName,
			&state, &r.StatusCode, &message, &r.SeriesID, &r.Environment, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.State = domain.State(state)
		if message != nil {
			r.Message = *message
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
