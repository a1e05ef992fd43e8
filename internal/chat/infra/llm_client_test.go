package infra_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/debtfree/debtfree-go/internal/chat/domain"
	"github.com/debtfree/debtfree-go/internal/chat/infra"
	maindomain "github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/infra/observability"
	"github.com/debtfree/debtfree-go/internal/infra/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond}

func newClient(t *testing.T, url, key string) *infra.LLMClient {
	t.Helper()
	return infra.NewLLMClient(
		http.DefaultClient,
		infra.LLMConfig{BaseURL: url + "/", APIKey: key, Model: "test-model", Timeout: 2 * time.Second},
		resilience.NewCircuitBreaker(t.Name(), nil),
		fastRetry,
		observability.NewMetrics(),
	)
}

func ask() *domain.CompletionRequest {
	return &domain.CompletionRequest{Messages: []domain.Message{
		{Role: domain.RoleSystem, Content: "snapshot"},
		{Role: domain.RoleUser, Content: "hello"},
	}}
}

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body struct {
			Model    string           `json:"model"`
			Messages []domain.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		assert.Len(t, body.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Pay the Visa first. "}}],"usage":{"prompt_tokens":120,"completion_tokens":30}}`))
	}))
	defer srv.Close()

	resp, err := newClient(t, srv.URL, "secret").Complete(context.Background(), ask())
	require.NoError(t, err)
	assert.Equal(t, "Pay the Visa first.", resp.Content)
	assert.Equal(t, 120, resp.PromptTokens)
	assert.Equal(t, 30, resp.CompletionTokens)
}

func TestComplete_MissingKey(t *testing.T) {
	_, err := newClient(t, "http://127.0.0.1:1", "").Complete(context.Background(), ask())

	var unavailable *maindomain.ErrUnavailable
	require.True(t, errors.As(err, &unavailable), "got %v", err)
	assert.Equal(t, "llm", unavailable.Service)
}

func TestComplete_AuthFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, "wrong").Complete(context.Background(), ask())

	var status *domain.StatusError
	require.True(t, errors.As(err, &status), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, status.StatusCode)
	assert.Equal(t, int32(1), calls.Load())

	var ext *maindomain.ErrExternalService
	assert.True(t, errors.As(err, &ext))
}

func TestComplete_ServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	resp, err := newClient(t, srv.URL, "secret").Complete(context.Background(), ask())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, int32(3), calls.Load())
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, "secret").Complete(context.Background(), ask())
	var ext *maindomain.ErrExternalService
	assert.True(t, errors.As(err, &ext), "got %v", err)
}

func TestComplete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	client := infra.NewLLMClient(
		http.DefaultClient,
		infra.LLMConfig{BaseURL: srv.URL, APIKey: "secret", Model: "m", Timeout: 50 * time.Millisecond},
		resilience.NewCircuitBreaker("timeout", nil),
		resilience.Config{},
		observability.NewMetrics(),
	)
	_, err := client.Complete(context.Background(), ask())

	var timeout *maindomain.ErrTimeout
	assert.True(t, errors.As(err, &timeout), "got %v", err)
}

func TestComplete_CircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := newClient(t, srv.URL, "secret")
	for i := 0; i < 3; i++ {
		_, err := client.Complete(context.Background(), ask())
		require.Error(t, err)
	}

	_, err := client.Complete(context.Background(), ask())
	var open *maindomain.ErrCircuitOpen
	assert.True(t, errors.As(err, &open), "got %v", err)
}
