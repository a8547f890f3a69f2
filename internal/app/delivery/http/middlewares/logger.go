package middlewares

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// RequestLogger prints an access line per request to the process logger, in
// the configured timezone. It complements Logging, which goes to the zap files.
func (m *Middlewares) RequestLogger(log *logrus.Logger) func(next http.Handler) http.Handler {
	tz, err := time.LoadLocation(m.InternalConfig.App.Timezone)
	if err != nil {
		log.Warnf("Invalid time zone %q for request logger, using UTC: %v", m.InternalConfig.App.Timezone, err)
		tz = time.UTC
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			log.WithFields(logrus.Fields{
				"remote_addr": r.RemoteAddr,
				"method":      r.Method,
				"uri":         r.RequestURI,
				"status":      rec.statusCode,
				"duration":    time.Since(start).String(),
			}).Info(start.In(tz).Format(time.RFC850))
		})
	}
}
