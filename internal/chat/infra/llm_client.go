package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/debtfree/debtfree-go/internal/chat/domain"
	maindomain "github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/infra/observability"
	"github.com/debtfree/debtfree-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("chat/infra")

const (
	serviceName  = "llm"
	maxErrorBody = 512
)

// ============================================================
// LLMClient: OpenAI-compatible chat completions client
// ============================================================
//
//	POST {baseURL}/v1/chat/completions
//	Authorization: Bearer {apiKey}
//	{"model": "...", "messages": [{"role": "system", "content": "..."}, ...]}

// LLMConfig configures the completions endpoint.
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LLMClient calls the language model behind a circuit breaker, with retries
// and a per-call timeout.
type LLMClient struct {
	httpClient *http.Client
	cfg        LLMConfig
	cb         *gobreaker.CircuitBreaker
	retry      resilience.Config
	metrics    *observability.Metrics
}

// NewLLMClient creates the client. A trailing slash on BaseURL is ignored.
func NewLLMClient(httpClient *http.Client, cfg LLMConfig, cb *gobreaker.CircuitBreaker, retry resilience.Config, metrics *observability.Metrics) *LLMClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &LLMClient{
		httpClient: httpClient,
		cfg:        cfg,
		cb:         cb,
		retry:      retry,
		metrics:    metrics,
	}
}

type completionBody struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
}

type completionResult struct {
	Choices []struct {
		Message domain.Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends the conversation and returns the first choice.
//
// Errors are typed: ErrUnavailable without an API key, ErrCircuitOpen while
// the breaker is open, ErrTimeout on deadline, ErrExternalService otherwise
// (wrapping a *domain.StatusError for non-2xx answers).
func (c *LLMClient) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	ctx, span := tracer.Start(ctx, "LLMClient.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.cfg.Model),
		attribute.Int("llm.messages", len(req.Messages)),
	)

	if c.cfg.APIKey == "" {
		return nil, &maindomain.ErrUnavailable{Service: serviceName, Reason: "no API key configured"}
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(completionBody{
		Model:       c.cfg.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	result, err := c.cb.Execute(func() (any, error) {
		var out *domain.CompletionResponse
		innerErr := resilience.RetryWithBackoff(ctx, c.retry, func() error {
			resp, err := c.post(ctx, body)
			if err != nil {
				return err
			}
			out = resp
			return nil
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return out, nil
	})
	if err != nil {
		c.metrics.IncrExternalError(serviceName)
		span.RecordError(err)
		return nil, classify(ctx, err)
	}

	resp := result.(*domain.CompletionResponse)
	span.SetAttributes(attribute.Int("llm.completion_tokens", resp.CompletionTokens))
	return resp, nil
}

func (c *LLMClient) post(ctx context.Context, body []byte) (*domain.CompletionResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, resilience.Permanent(fmt.Errorf("create http request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http call to llm: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &domain.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		// rate limits and server errors may clear up; the rest will not
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, resilience.Permanent(statusErr)
	}

	var decoded completionResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, errors.New("llm returned no choices")
	}
	return &domain.CompletionResponse{
		Content:          strings.TrimSpace(decoded.Choices[0].Message.Content),
		PromptTokens:     decoded.Usage.PromptTokens,
		CompletionTokens: decoded.Usage.CompletionTokens,
	}, nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &maindomain.ErrCircuitOpen{Service: serviceName}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &maindomain.ErrTimeout{Operation: "llm completion"}
	default:
		return &maindomain.ErrExternalService{Service: serviceName, Err: err}
	}
}
