package exporter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/llmvitals/llmvitals/internal/domain"
)

// DefaultAPIURL is the exporter's monitor management API, used only for
// monitor enrichment when an API key is configured.
const DefaultAPIURL = "https://cronitor.io/api/monitors"

type Config struct {
	BaseURL     string // ping base, e.g. https://cronitor.link
	APIURL      string // monitor API; empty = DefaultAPIURL
	APIKey      string // empty disables enrichment
	Environment string

	Timeout  time.Duration // per ping request
	Attempts int           // bounded retry per ping
	Backoff  time.Duration

	// Enrichment knobs, forwarded to the exporter's monitor definition.
	Schedule          string
	Group             string
	FailureTolerance  int
	ScheduleTolerance int
	MinSuccessFreq    int
	ProbeTimeout      time.Duration // feeds the duration assertion
}

// Client reports probe executions to the uptime exporter. Every call is
// best-effort: failures are logged and never surface to the probe's own
// outcome. Safe for concurrent use.
type Client struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
	host   string
}

func New(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 2
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 300 * time.Millisecond
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	host, _ := os.Hostname()
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
		host:   host,
	}
}

// PingURL builds the ping request for one execution event. Terminal states
// always carry a status code; the run state never does.
func (c *Client) PingURL(monitor string, state domain.State, seriesID string, statusCode int, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s?state=%s&series=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		url.PathEscape(monitor),
		state,
		url.QueryEscape(seriesID),
	)
	if state.Terminal() {
		b.WriteString("&status_code=" + strconv.Itoa(statusCode))
	}
	fmt.Fprintf(&b, "&env=%s&host=%s",
		url.QueryEscape(c.cfg.Environment),
		url.QueryEscape(c.host),
	)
	if message != "" {
		b.WriteString("&message=" + url.QueryEscape(message))
	}
	return b.String()
}

// Ping reports one execution event. Attempts are bounded; the last error is
// logged at warn and swallowed.
func (c *Client) Ping(ctx context.Context, monitor string, state domain.State, seriesID string, statusCode int, message string) {
	target := c.PingURL(monitor, state, seriesID, statusCode, message)

	var lastErr error
	for attempt := 0; attempt < c.cfg.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
			case <-time.After(c.cfg.Backoff):
			}
			if ctx.Err() != nil {
				break
			}
		}
		if lastErr = c.get(ctx, target); lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		c.log.Warn("exporter_ping_failed",
			zap.String("monitor", monitor),
			zap.String("state", string(state)),
			zap.String("series", seriesID),
			zap.Error(lastErr),
		)
		return
	}
	if state == domain.StateRunning {
		c.enrich(ctx, monitor)
	}
}

func (c *Client) get(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("exporter %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
