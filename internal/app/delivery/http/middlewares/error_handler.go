package middlewares

import (
	"fmt"
	"net/http"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/utils"
	"runtime/debug"

	"go.uber.org/zap"
)

// ErrorHandler turns a panic in any handler into a 500 envelope.
func (m *Middlewares) ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", rec)
			}
			m.Log.Error("Middlewares.ErrorHandler recovered panic",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.ByteString("stack", debug.Stack()),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, err)
		}()
		next.ServeHTTP(w, r)
	})
}
