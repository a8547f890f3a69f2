package controllers

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/responses"
	"nursecare-service/internal/pkg/utils"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthCheckFunc probes one backing service.
type HealthCheckFunc func(ctx context.Context) error

type PageController struct {
	Log    *zap.Logger
	Checks map[string]HealthCheckFunc
}

var (
	pageControllerInstance *PageController
	oncePageController     sync.Once
)

func NewPageController(logger *zap.Logger, checks map[string]HealthCheckFunc) *PageController {
	oncePageController.Do(func() {
		pageControllerInstance = &PageController{
			Log:    logger,
			Checks: checks,
		}
	})
	return pageControllerInstance
}

const pageTemplate = `<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title></head><body><p>%s</p></body></html>`

func writePage(w http.ResponseWriter, title, message string) {
	w.Header().Set(constvars.HeaderContentType, constvars.MIMETextHTMLCharsetUTF8)
	w.WriteHeader(constvars.StatusOK)
	fmt.Fprintf(w, pageTemplate, html.EscapeString(title), html.EscapeString(message))
}

// CheckoutSuccess is where the hosted checkout sends the browser after paying.
// The appointment itself is created by the webhook, not by this page.
func (ctrl *PageController) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Payment completed", constvars.PaymentSuccessPageMessage)
}

func (ctrl *PageController) CheckoutCancel(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Payment cancelled", constvars.PaymentCancelPageMessage)
}

// Liveness only reports that the process serves requests.
func (ctrl *PageController) Liveness(w http.ResponseWriter, r *http.Request) {
	utils.BuildRawJSONResponse(w, constvars.StatusOK, responses.HealthCheck{Status: constvars.HealthCheckSuccess})
}

// Readiness probes every registered dependency and answers 503 if any fails.
func (ctrl *PageController) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(ctrl.Checks))
	for name := range ctrl.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	response := responses.HealthCheck{
		Status:       constvars.HealthCheckSuccess,
		Dependencies: make(map[string]string, len(names)),
	}
	code := constvars.StatusOK
	for _, name := range names {
		if err := ctrl.Checks[name](ctx); err != nil {
			ctrl.Log.Warn("PageController.Readiness dependency unhealthy",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.String("dependency", name),
				zap.Error(err),
			)
			response.Dependencies[name] = err.Error()
			response.Status = constvars.ResponseError
			code = constvars.StatusServiceUnavailable
			continue
		}
		response.Dependencies[name] = constvars.HealthCheckSuccess
	}

	utils.BuildRawJSONResponse(w, code, response)
}
