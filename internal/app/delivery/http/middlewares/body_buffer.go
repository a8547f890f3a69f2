package middlewares

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"nursecare-service/internal/pkg/utils"
)

// maxWebhookBodyBytes matches the ledger's own event size ceiling.
const maxWebhookBodyBytes = 1 << 16

// BodyBuffer keeps the untouched request bytes in the context. Signature
// verification has to run over exactly what the ledger sent, so nothing may
// decode the body before the handler reads CONTEXT_RAW_BODY.
func (m *Middlewares) BodyBuffer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrReadBody(err))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_RAW_BODY, bodyBytes)
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
