// Package service implements the chat advisor.
//
// ============================================================
// FLOW: intent routing plus a deterministic context document
// ============================================================
//
//  1. Handler receives POST /v1/advisor/chat with {"message", "plan"}.
//  2. AdvisorService.Ask detects the intent from keywords.
//  3. The plan is validated, summarized and simulated into a text snapshot.
//  4. A ContextStrategy may append an intent-specific section
//     (strategy comparison, extra-payment table).
//  5. Snapshot, recent history and the message go to the language model.
//  6. Any model failure becomes an "unavailable" answer.
package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/debtfree/debtfree-go/internal/chat/domain"
	"github.com/debtfree/debtfree-go/internal/chat/port"
	maindomain "github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/engine"
	"github.com/debtfree/debtfree-go/internal/infra/observability"
	"github.com/debtfree/debtfree-go/internal/service"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var chatTracer = otel.Tracer("chat/service")

// Intents recognized by detectIntent.
const (
	IntentCompare = "compare"
	IntentExtra   = "extra"
	IntentBudget  = "budget"
	IntentGeneral = "general"
)

// DefaultHistoryLimit is the number of messages kept per conversation.
const DefaultHistoryLimit = 10

const temperature = 0.3

// AdvisorService answers questions about a debt plan.
type AdvisorService struct {
	llm          port.Completer
	planner      *service.Planner
	history      port.HistoryStore
	strategies   []ContextStrategy
	metrics      *observability.Metrics
	logger       *zap.Logger
	historyLimit int
}

// NewAdvisorService creates the advisor. A historyLimit below 1 means
// DefaultHistoryLimit.
func NewAdvisorService(
	llm port.Completer,
	planner *service.Planner,
	history port.HistoryStore,
	strategies []ContextStrategy,
	metrics *observability.Metrics,
	logger *zap.Logger,
	historyLimit int,
) *AdvisorService {
	if historyLimit < 1 {
		historyLimit = DefaultHistoryLimit
	}
	return &AdvisorService{
		llm:          llm,
		planner:      planner,
		history:      history,
		strategies:   strategies,
		metrics:      metrics,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// Ask answers one message. It returns an error only for invalid input; a
// failing language model yields Available=false and a diagnostic answer.
func (s *AdvisorService) Ask(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	ctx, span := chatTracer.Start(ctx, "AdvisorService.Ask")
	defer span.End()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &maindomain.ErrValidation{Field: "message", Message: "is required"}
	}

	convID := req.ConversationID
	if convID == "" {
		convID = uuid.NewString()
	} else if _, err := uuid.Parse(convID); err != nil {
		return nil, &maindomain.ErrValidation{Field: "conversationId", Message: "must be a UUID"}
	}

	intent := detectIntent(message)
	span.SetAttributes(
		attribute.String("chat.conversation_id", convID),
		attribute.String("chat.intent", intent),
	)

	doc, err := s.document(ctx, req.Plan)
	if err != nil {
		return nil, err
	}

	chatCtx := &domain.ChatContext{
		ConversationID: convID,
		Query:          message,
		DetectedIntent: intent,
		Plan:           req.Plan,
	}
	for _, strategy := range s.strategies {
		if !strategy.CanHandle(intent) {
			continue
		}
		section, err := strategy.Enrich(ctx, chatCtx)
		if err != nil {
			s.logger.Warn("context enrichment failed", zap.String("intent", intent), zap.Error(err))
		} else if section != "" {
			doc += "\n" + section
		}
		break
	}

	history, _ := s.history.Get(ctx, convID)
	messages := make([]domain.Message, 0, len(history)+2)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: systemPrompt + "\n\n" + doc})
	messages = append(messages, history...)
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: message})

	s.logger.Info("advisor message received",
		zap.String("conversation_id", convID),
		zap.String("intent", intent),
		zap.Int("history", len(history)),
	)

	resp, err := s.llm.Complete(ctx, &domain.CompletionRequest{Messages: messages, Temperature: temperature})
	if err != nil {
		s.metrics.IncrAdvisor("unavailable")
		s.logger.Warn("advisor unavailable", zap.String("conversation_id", convID), zap.Error(err))
		return &domain.ChatResponse{
			ConversationID: convID,
			Available:      false,
			Answer:         unavailableMessage(err),
			Intent:         intent,
		}, nil
	}

	next := make([]domain.Message, 0, len(history)+2)
	next = append(next, history...)
	next = append(next,
		domain.Message{Role: domain.RoleUser, Content: message},
		domain.Message{Role: domain.RoleAssistant, Content: resp.Content},
	)
	if len(next) > s.historyLimit {
		next = next[len(next)-s.historyLimit:]
	}
	s.history.Set(ctx, convID, next)

	s.metrics.IncrAdvisor("answered")
	s.metrics.RecordTokens(resp.PromptTokens, resp.CompletionTokens)

	return &domain.ChatResponse{
		ConversationID: convID,
		Available:      true,
		Answer:         resp.Content,
		Intent:         intent,
		TokensUsed:     resp.PromptTokens + resp.CompletionTokens,
	}, nil
}

// History returns the stored messages of a conversation.
func (s *AdvisorService) History(ctx context.Context, conversationID string) []domain.Message {
	h, _ := s.history.Get(ctx, conversationID)
	return h
}

// Conversation is History for the API: the id must be a UUID and an unknown
// or expired conversation is ErrNotFound.
func (s *AdvisorService) Conversation(ctx context.Context, conversationID string) (*domain.ConversationResponse, error) {
	if _, err := uuid.Parse(conversationID); err != nil {
		return nil, &maindomain.ErrValidation{Field: "conversationId", Message: "must be a UUID"}
	}
	h := s.History(ctx, conversationID)
	if len(h) == 0 {
		return nil, &maindomain.ErrNotFound{Resource: "conversation", ID: conversationID}
	}
	return &domain.ConversationResponse{ConversationID: conversationID, Messages: h}, nil
}

func (s *AdvisorService) document(ctx context.Context, plan *maindomain.PlanRequest) (string, error) {
	if plan == nil {
		return noPlanDocument, nil
	}
	in, err := s.planner.Inputs(plan)
	if err != nil {
		return "", err
	}
	summary := service.Summarize(in)

	var res *engine.Result
	if len(in.Debts) > 0 {
		if res, err = s.planner.Run(ctx, in); err != nil {
			return "", err
		}
	}
	return BuildContextDocument(in, summary, res), nil
}

// unavailableMessage turns a model failure into text for the user.
func unavailableMessage(err error) string {
	var (
		unavailable *maindomain.ErrUnavailable
		open        *maindomain.ErrCircuitOpen
		timeout     *maindomain.ErrTimeout
		status      *domain.StatusError
	)
	switch {
	case errors.As(err, &unavailable):
		return "The AI advisor is not available: " + unavailable.Reason + ". Your plan and numbers are unaffected."
	case errors.As(err, &open):
		return "The AI advisor is temporarily unavailable after repeated failures. Please try again in a minute."
	case errors.As(err, &timeout):
		return "The AI advisor did not answer in time. Please try again."
	case errors.As(err, &status) && (status.StatusCode == http.StatusUnauthorized || status.StatusCode == http.StatusForbidden):
		return "The AI advisor rejected its credentials. Check the configured API key."
	case errors.As(err, &status) && status.StatusCode == http.StatusTooManyRequests:
		return "The AI advisor is over its usage quota right now. Please try again later."
	default:
		return "The AI advisor could not be reached. Please try again later."
	}
}

// ============================================================
// detectIntent: keyword intent detection
// ============================================================

var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{IntentCompare, []string{"avalanche", "snowball", "which strategy", "which method", "compare", "better order", "versus", " vs "}},
	{IntentExtra, []string{"extra", "pay more", "faster", "sooner", "how much more", "additional", "what if i pay"}},
	{IntentBudget, []string{"budget", "expense", "spending", "afford", "save money", "income"}},
}

// detectIntent maps a message to an intent. Earlier groups win.
func detectIntent(message string) string {
	lower := " " + strings.ToLower(message) + " "
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.intent
			}
		}
	}
	return IntentGeneral
}
