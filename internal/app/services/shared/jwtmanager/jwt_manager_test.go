package jwtmanager

import (
	"context"
	"net/http"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(secret string) *JWTManager {
	return NewJWTManager(&config.InternalConfig{JWT: config.JWT{Secret: secret, ExpTimeInHour: 1}}, zap.NewNop())
}

func TestJWTManager(t *testing.T) {
	ctx := context.Background()

	t.Run("Round Trip Keeps Subject And Role", func(t *testing.T) {
		manager := newTestManager("secret")
		token, err := manager.CreateToken(ctx, "65f000000000000000000001", "nurse")
		require.NoError(t, err)

		claims, err := manager.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "65f000000000000000000001", claims.Subject)
		assert.Equal(t, "nurse", claims.Role)
	})

	t.Run("Token Signed With Other Secret Is Rejected", func(t *testing.T) {
		token, err := newTestManager("other").CreateToken(ctx, "65f000000000000000000001", "user")
		require.NoError(t, err)

		_, err = newTestManager("secret").VerifyToken(ctx, token)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})

	t.Run("Expired Token Is Rejected", func(t *testing.T) {
		claims := Claims{
			Role: "user",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "65f000000000000000000001",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = newTestManager("secret").VerifyToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("Unknown Role Is Rejected", func(t *testing.T) {
		token, err := newTestManager("secret").CreateToken(ctx, "65f000000000000000000001", "guest")
		require.NoError(t, err)

		_, err = newTestManager("secret").VerifyToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("Empty Token Is Missing", func(t *testing.T) {
		_, err := newTestManager("secret").VerifyToken(ctx, "")
		assert.Error(t, err)
	})
}
