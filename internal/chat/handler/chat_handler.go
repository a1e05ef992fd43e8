// Package handler exposes the advisor over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/debtfree/debtfree-go/internal/chat/domain"
	"github.com/debtfree/debtfree-go/internal/chat/service"
	maindomain "github.com/debtfree/debtfree-go/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("chat/handler")

const maxBodyBytes = 1 << 20

// ChatHandler serves POST /v1/advisor/chat.
//
// Request:
//
//	{"conversationId": "...", "message": "Should I use snowball?", "plan": {...}}
//
// Response (200 OK, also when the model is down):
//
//	{"conversationId": "...", "available": true, "answer": "...", "intent": "compare"}
func ChatHandler(advisor *service.AdvisorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/advisor/chat")
		defer span.End()

		var req domain.ChatRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: expected {\"message\": \"your question\"}")
			return
		}

		resp, err := advisor.Ask(ctx, &req)
		if err != nil {
			var verr *maindomain.ErrValidation
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Error())
				return
			}
			logger.Error("unexpected error in advisor handler", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ConversationHandler serves GET /v1/advisor/conversations/{id}.
func ConversationHandler(advisor *service.AdvisorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/advisor/conversations/{id}")
		defer span.End()

		resp, err := advisor.Conversation(ctx, chi.URLParam(r, "id"))
		if err != nil {
			var verr *maindomain.ErrValidation
			var notFound *maindomain.ErrNotFound
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusBadRequest, verr.Error())
			case errors.As(err, &notFound):
				writeError(w, http.StatusNotFound, notFound.Error())
			default:
				logger.Error("unexpected error in conversation handler", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
