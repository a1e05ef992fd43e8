// Package port declares what the advisor needs from the outside world.
package port

import (
	"context"

	chatdomain "github.com/debtfree/debtfree-go/internal/chat/domain"
	mainport "github.com/debtfree/debtfree-go/internal/port"
)

// Completer sends a conversation to a language model.
type Completer interface {
	Complete(ctx context.Context, req *chatdomain.CompletionRequest) (*chatdomain.CompletionResponse, error)
}

// HistoryStore keeps the recent messages of each conversation.
type HistoryStore = mainport.Cache[[]chatdomain.Message]
