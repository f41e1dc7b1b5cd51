package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/llmvitals/llmvitals/internal/domain"
)

// StatusTimeout is the reserved status code reported when a probe's deadline
// expires before the target answers.
const StatusTimeout = 124

const timeoutMessage = "request timeout"

// Result classifies one probe execution. Probes never return StateRunning;
// that state belongs to the runner's start ping.
type Result struct {
	State      domain.State
	StatusCode int
	Message    string
	Duration   time.Duration
}

// Prober performs a single check against its configured target. The caller
// bounds the execution with a context deadline; on expiry the prober returns
// a fail result with StatusTimeout instead of hanging or panicking.
type Prober interface {
	Probe(ctx context.Context) Result
}

// failure maps a transport-level error: deadline expiry gets the reserved
// timeout code, everything else (DNS, refused connection) gets status 0.
func failure(err error, d time.Duration) Result {
	if isTimeout(err) {
		return Result{State: domain.StateFail, StatusCode: StatusTimeout, Message: timeoutMessage, Duration: d}
	}
	return Result{State: domain.StateFail, Message: err.Error(), Duration: d}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// postJSON issues one JSON POST and hands back status, raw body and elapsed
// time. Classification of errors stays with the callers.
func postJSON(ctx context.Context, client *http.Client, url string, payload any) (int, []byte, time.Duration, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, 0, err
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, time.Since(start), err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, time.Since(start), err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	d := time.Since(start)
	if err != nil {
		return 0, nil, d, err
	}
	return resp.StatusCode, raw, d, nil
}

func httpMessage(status int, raw []byte) string {
	return fmt.Sprintf("HTTP %d: %s", status, truncate(strings.TrimSpace(string(raw)), 200))
}

// truncate cuts s to at most n bytes without splitting a rune, so the
// message stays valid UTF-8 when it is query-escaped later.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
