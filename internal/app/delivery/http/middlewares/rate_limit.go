package middlewares

import (
	"net/http"
	"nursecare-service/internal/pkg/exceptions"
	"nursecare-service/internal/pkg/utils"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit allows App.MaxRequests per second per client IP and answers the
// overflow with the usual error envelope.
func (m *Middlewares) RateLimit() func(next http.Handler) http.Handler {
	return httprate.Limit(
		m.InternalConfig.App.MaxRequests,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(nil))
		}),
	)
}
