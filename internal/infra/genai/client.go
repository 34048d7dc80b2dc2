// Package genai is the adapter for the Gemini generateContent REST API.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/observability"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("genai")

// Client calls the generative model. Every request is a single attempt:
// the circuit breaker fails fast while the service is down and the
// bulkhead caps in-flight calls, but nothing is retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	metrics    *observability.Metrics
}

// NewClient creates a new Client.
func NewClient(
	httpClient *http.Client,
	baseURL, apiKey, model string,
	cb *gobreaker.CircuitBreaker,
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		cb:         cb,
		bulkhead:   bulkhead,
		metrics:    metrics,
	}
}

// GenerateContent sends one prompt and returns the first candidate's text.
func (c *Client) GenerateContent(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	ctx, span := tracer.Start(ctx, "GenAIClient.GenerateContent")
	defer span.End()
	span.SetAttributes(
		attribute.String("genai.model", c.model),
		attribute.Bool("genai.json", req.ResponseMIMEType != ""),
	)

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: "genai", Err: err}
	}
	defer c.bulkhead.Release()

	result, err := c.cb.Execute(func() (any, error) {
		resp, err := c.do(ctx, req)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", resilience.ErrAbandoned, err)
		}
		return resp, err
	})
	if errors.Is(err, resilience.ErrAbandoned) {
		c.metrics.IncrGenAICall("abandoned")
		return nil, &domain.ErrExternalService{Service: "genai", Err: err}
	}
	if err != nil {
		c.metrics.IncrGenAICall("error")
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &domain.ErrCircuitOpen{Service: "genai"}
		}
		return nil, &domain.ErrExternalService{Service: "genai", Err: err}
	}
	c.metrics.IncrGenAICall("success")

	resp := result.(*domain.GenerateResponse)
	c.metrics.RecordTokens(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	span.SetAttributes(attribute.Int("genai.tokens", resp.Usage.TotalTokens))
	return resp, nil
}

func (c *Client) do(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	body, err := json.Marshal(newWireRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http call to genai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("genai API returned status %d", resp.StatusCode)
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode genai response: %w", err)
	}

	text, ok := wire.text()
	if !ok {
		return nil, errors.New("genai response has no candidates")
	}

	return &domain.GenerateResponse{
		Text: text,
		Usage: domain.TokenUsage{
			PromptTokens:     wire.UsageMetadata.PromptTokenCount,
			CompletionTokens: wire.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      wire.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
