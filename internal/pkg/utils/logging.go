package utils

import (
	"context"
	"time"

	"nursecare-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// Security event severities.
const (
	SeverityInfo   = "info"
	SeverityLow    = "low"
	SeverityMedium = "medium"
)

func LogBusinessEvent(logger *zap.Logger, event string, requestID string, fields ...zap.Field) {
	allFields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBusinessEventKey, event),
		zap.Time(constvars.LoggingTimestampKey, time.Now()),
	}
	allFields = append(allFields, fields...)

	logger.Info("Business event occurred", allFields...)
}

// LogAppointmentEvent records an appointment reaching a new status, e.g.
// "appointment_accept" with status "active".
func LogAppointmentEvent(logger *zap.Logger, event, requestID, appointmentID, status string, fields ...zap.Field) {
	appointmentFields := []zap.Field{
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingAppointmentStatusKey, status),
	}
	LogBusinessEvent(logger, event, requestID, append(appointmentFields, fields...)...)
}

func LogSecurityEvent(logger *zap.Logger, event string, requestID string, severity string, fields ...zap.Field) {
	allFields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSecurityEventKey, event),
		zap.String(constvars.LoggingSeverityKey, severity),
		zap.Time(constvars.LoggingTimestampKey, time.Now()),
	}
	allFields = append(allFields, fields...)

	logger.Warn("Security event detected", allFields...)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok {
		return requestID
	}
	return ""
}
