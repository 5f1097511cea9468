package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/jugadores-api/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const msgInternalError = "Error interno del servidor."

type errorResponse struct {
	Error   string `json:"error"`
	Detalle string `json:"detalle,omitempty"`
}

// writeJSON encodes into a pooled buffer first so an encoding failure can
// still be answered with a 500 instead of a truncated body.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + msgInternalError + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeText(ctx context.Context, w http.ResponseWriter, status int, body string) {
	_, span := startSpan(ctx, "httpapi.writeText")
	defer span.End()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// writeError answers with the caller's message. Server-side failures carry
// the root error text as detalle when exposeDetail is set.
func writeError(ctx context.Context, w http.ResponseWriter, err error, message string, exposeDetail bool) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	status := statusForError(err)
	body := errorResponse{Error: message}
	if exposeDetail && status >= http.StatusInternalServerError {
		body.Detalle = errorDetail(err)
	}

	writeJSON(ctx, w, status, body)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: msgInternalError})
}

func statusForError(err error) int {
	if isInvalidInput(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isInvalidInput(err error) bool {
	return errors.Is(err, usecase.ErrInvalidInput)
}

func errorDetail(err error) string {
	if err == nil {
		return ""
	}
	return crerr.UnwrapAll(err).Error()
}
