package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/llmvitals/llmvitals/internal/domain"
)

// testPrompt is the fixed prompt used by chat and embedding probes. One
// token in, one token out keeps the check cheap on metered endpoints.
const testPrompt = "test"

// ChatProbe checks an OpenAI-compatible chat completion endpoint with a
// single one-token request.
type ChatProbe struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewChatProbe(baseURL, model string) *ChatProbe {
	return &ChatProbe{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []json.RawMessage `json:"choices"`
}

func (p *ChatProbe) URL() string {
	return p.BaseURL + "/v1/chat/completions"
}

func (p *ChatProbe) Probe(ctx context.Context) Result {
	payload := chatRequest{
		Model:     p.Model,
		Messages:  []chatMessage{{Role: "user", Content: testPrompt}},
		MaxTokens: 1,
	}
	status, raw, d, err := postJSON(ctx, p.Client, p.URL(), payload)
	if err != nil {
		return failure(err, d)
	}
	if status < 200 || status > 299 {
		return Result{State: domain.StateFail, StatusCode: status, Message: httpMessage(status, raw), Duration: d}
	}
	var body chatResponse
	if json.Unmarshal(raw, &body) != nil || len(body.Choices) == 0 {
		return Result{State: domain.StateFail, StatusCode: status, Message: "malformed completion body", Duration: d}
	}
	return Result{State: domain.StateComplete, StatusCode: status, Duration: d}
}
