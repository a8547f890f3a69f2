package jwtmanager

import (
	"context"
	"fmt"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Claims identifies the caller. Subject is the party id, Role is one of
// user, nurse or admin.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 access tokens. Tokens are issued by the
// account service; this service only needs to issue them for seeding.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(internalConfig *config.InternalConfig, log *zap.Logger) *JWTManager {
	ttl := time.Duration(internalConfig.JWT.ExpTimeInHour) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTManager{
		log:    log,
		secret: []byte(internalConfig.JWT.Secret),
		ttl:    ttl,
	}
}

func (j *JWTManager) CreateToken(ctx context.Context, subject, role string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.CreateToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCallerRoleKey, role),
	)

	if strings.TrimSpace(subject) == "" {
		return "", exceptions.ErrTokenGenerate(fmt.Errorf("subject is required"))
	}

	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", exceptions.ErrTokenGenerate(err)
	}
	return signed, nil
}

func (j *JWTManager) VerifyToken(ctx context.Context, token string) (*Claims, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Debug("JWTManager.VerifyToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if strings.TrimSpace(token) == "" {
		return nil, exceptions.ErrTokenMissing(nil)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, exceptions.ErrTokenInvalidOrExpired(err)
	}

	switch claims.Role {
	case constvars.RoleUser, constvars.RoleNurse, constvars.RoleAdmin:
	default:
		return nil, exceptions.ErrTokenInvalidOrExpired(fmt.Errorf("unknown role %q", claims.Role))
	}
	if claims.Subject == "" {
		return nil, exceptions.ErrTokenInvalidOrExpired(fmt.Errorf("token has no subject"))
	}
	return claims, nil
}
