package probe

import (
	"context"
	"errors"
	"time"

	"github.com/llmvitals/llmvitals/internal/domain"
)

// CollectionReport summarizes one run of an external request collection.
type CollectionReport struct {
	Failures int
	Summary  string
}

// CollectionRunner executes a request collection. Implementations wrap an
// external runner binary; the probe itself never interprets collections.
type CollectionRunner interface {
	Run(ctx context.Context, collection string) (CollectionReport, error)
}

// CollectionProbe delegates to a CollectionRunner and classifies its report.
// Zero failed assertions is a pass; anything else fails with the runner's
// report in the message.
type CollectionProbe struct {
	Collection string
	Runner     CollectionRunner
}

func (p *CollectionProbe) Probe(ctx context.Context) Result {
	start := time.Now()
	rep, err := p.Runner.Run(ctx, p.Collection)
	d := time.Since(start)
	if err != nil {
		// A killed runner process reports a plain exec error; the deadline
		// on ctx is what distinguishes a timeout.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{State: domain.StateFail, StatusCode: StatusTimeout, Message: timeoutMessage, Duration: d}
		}
		return failure(err, d)
	}
	if rep.Failures > 0 {
		return Result{State: domain.StateFail, Message: truncate(rep.Summary, 400), Duration: d}
	}
	return Result{State: domain.StateComplete, Duration: d}
}
