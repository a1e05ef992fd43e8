// Package domain holds the types of the POST /v1/advisor/chat route.
//
// The flow:
//  1. The caller sends a message plus the current plan.
//  2. The advisor detects the intent and builds a text snapshot of the plan.
//  3. The snapshot, the recent history and the message go to the LLM.
//  4. The answer is returned as opaque text. Failures become an
//     "unavailable" answer, never an error response.
package domain

import (
	"fmt"

	maindomain "github.com/debtfree/debtfree-go/internal/domain"
)

// ============================================================
// Chat: request/response between the caller and the advisor
// ============================================================

// ChatRequest is the body of POST /v1/advisor/chat.
type ChatRequest struct {
	// ConversationID continues an existing conversation. Empty starts a new one.
	ConversationID string `json:"conversationId,omitempty"`

	Message string `json:"message"`

	// Plan is the caller's current financial snapshot. It is read, never
	// mutated or stored.
	Plan *maindomain.PlanRequest `json:"plan,omitempty"`
}

// ChatResponse is always returned with 200. Available is false when the
// language model could not be reached; Answer then explains why.
type ChatResponse struct {
	ConversationID string `json:"conversationId"`
	Available      bool   `json:"available"`
	Answer         string `json:"answer"`
	Intent         string `json:"intent"`
	TokensUsed     int    `json:"tokensUsed,omitempty"`
}

// ============================================================
// LLM: provider-neutral completion contract
// ============================================================

// Roles of a chat message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is what the advisor sends to the language model.
type CompletionRequest struct {
	Messages    []Message
	Temperature float64
}

// CompletionResponse is the model's reply plus token usage.
type CompletionResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// StatusError is a non-2xx answer from the language model API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm returned status %d: %s", e.StatusCode, e.Body)
}

// ============================================================
// Strategy context
// ============================================================

// ChatContext carries what a context strategy needs to enrich the prompt.
type ChatContext struct {
	ConversationID string
	Query          string
	DetectedIntent string
	Plan           *maindomain.PlanRequest
}

// ConversationResponse is returned by GET /v1/advisor/conversations/{id}.
type ConversationResponse struct {
	ConversationID string    `json:"conversationId"`
	Messages       []Message `json:"messages"`
}
