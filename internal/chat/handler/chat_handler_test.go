package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/debtfree/debtfree-go/internal/chat/domain"
	"github.com/debtfree/debtfree-go/internal/chat/handler"
	chatservice "github.com/debtfree/debtfree-go/internal/chat/service"
	maindomain "github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/infra/cache"
	"github.com/debtfree/debtfree-go/internal/infra/observability"
	"github.com/debtfree/debtfree-go/internal/infra/resilience"
	"github.com/debtfree/debtfree-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type downCompleter struct{}

func (downCompleter) Complete(context.Context, *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	return nil, &maindomain.ErrUnavailable{Service: "llm", Reason: "no API key configured"}
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	return handler.ChatHandler(newAdvisor(t), zap.NewNop())
}

func newAdvisor(t *testing.T) *chatservice.AdvisorService {
	t.Helper()
	plans := cache.New[*maindomain.SimulationResponse](time.Minute)
	history := cache.New[[]domain.Message](time.Minute)
	t.Cleanup(func() {
		plans.Close()
		history.Close()
	})
	metrics := observability.NewMetrics()
	planner := service.NewPlanner(plans, resilience.NewBulkhead(2), metrics, zap.NewNop(), service.Defaults{})
	return chatservice.NewAdvisorService(downCompleter{}, planner, history, nil, metrics, zap.NewNop(), 0)
}

func TestChatHandler_UnavailableStill200(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/advisor/chat", strings.NewReader(`{"message":"help"}`))

	newHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp domain.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Available {
		t.Error("expected available=false")
	}
	if !strings.Contains(resp.Answer, "no API key configured") {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
}

func TestChatHandler_BadRequests(t *testing.T) {
	h := newHandler(t)
	for _, body := range []string{`not json`, `{"message":""}`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/advisor/chat", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestConversationHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/advisor/conversations/{id}", handler.ConversationHandler(newAdvisor(t), zap.NewNop()))

	cases := []struct {
		id   string
		want int
	}{
		{"not-a-uuid", http.StatusBadRequest},
		{"6f1c2a9e-3b7d-4e0a-9c55-2d8f1b7a4e10", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/advisor/conversations/"+tc.id, nil))
		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.id, tc.want, rec.Code)
		}
	}
}
