package probe

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// NewmanRunner shells out to the newman CLI. Newman exits with the number of
// failed assertions, which is exactly what the probe needs.
type NewmanRunner struct {
	Command string // defaults to "newman"
}

func (r *NewmanRunner) Run(ctx context.Context, collection string) (CollectionReport, error) {
	cmd := r.Command
	if cmd == "" {
		cmd = "newman"
	}
	out, err := exec.CommandContext(ctx, cmd, "run", collection, "--reporters", "cli").CombinedOutput()
	summary := lastLines(string(out), 12)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return CollectionReport{Failures: exitErr.ExitCode(), Summary: summary}, nil
		}
		return CollectionReport{}, err
	}
	return CollectionReport{Summary: summary}, nil
}

// lastLines keeps the tail of the runner output, where newman prints its
// failure table.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
