package middlewares

import (
	"context"
	"net/http"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"nursecare-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

// Authenticate resolves the bearer token into the caller id and role. Account
// management lives elsewhere, so the token is the only source of identity.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())

		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, constvars.AuthorizationBearerPrefix) {
			utils.LogSecurityEvent(m.Log, "missing_bearer_token", requestID, utils.SeverityLow,
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, constvars.AuthorizationBearerPrefix))
		claims, err := m.JWTManager.VerifyToken(r.Context(), token)
		if err != nil {
			utils.LogSecurityEvent(m.Log, "invalid_bearer_token", requestID, utils.SeverityMedium,
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_CALLER_ID_KEY, claims.Subject)
		ctx = context.WithValue(ctx, constvars.CONTEXT_CALLER_ROLE_KEY, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after Authenticate.
func (m *Middlewares) RequireRole(roles ...string) func(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := utils.GetCallerRole(r.Context())
			if _, ok := allowed[role]; !ok {
				utils.LogSecurityEvent(m.Log, "role_not_allowed", utils.GetRequestID(r.Context()), utils.SeverityMedium,
					zap.String(constvars.LoggingCallerIDKey, utils.GetCallerID(r.Context())),
					zap.String(constvars.LoggingCallerRoleKey, role),
					zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				)
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrRoleNotAllowed(nil, role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
