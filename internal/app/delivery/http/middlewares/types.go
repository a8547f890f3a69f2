package middlewares

import (
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/services/shared/jwtmanager"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	JWTManager     *jwtmanager.JWTManager
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig, jwtManager *jwtmanager.JWTManager) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		JWTManager:     jwtManager,
	}
}
