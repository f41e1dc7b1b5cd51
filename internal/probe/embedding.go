package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/llmvitals/llmvitals/internal/domain"
)

// EmbeddingProbe checks an OpenAI-compatible embedding endpoint with a fixed
// test input.
type EmbeddingProbe struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewEmbeddingProbe(baseURL, model string) *EmbeddingProbe {
	return &EmbeddingProbe{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  &http.Client{},
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []json.RawMessage `json:"data"`
}

func (p *EmbeddingProbe) URL() string {
	return p.BaseURL + "/v1/embeddings"
}

func (p *EmbeddingProbe) Probe(ctx context.Context) Result {
	payload := embeddingRequest{Model: p.Model, Input: testPrompt}
	status, raw, d, err := postJSON(ctx, p.Client, p.URL(), payload)
	if err != nil {
		return failure(err, d)
	}
	if status < 200 || status > 299 {
		return Result{State: domain.StateFail, StatusCode: status, Message: httpMessage(status, raw), Duration: d}
	}
	var body embeddingResponse
	if json.Unmarshal(raw, &body) != nil || len(body.Data) == 0 {
		return Result{State: domain.StateFail, StatusCode: status, Message: "malformed embedding body", Duration: d}
	}
	return Result{State: domain.StateComplete, StatusCode: status, Duration: d}
}
