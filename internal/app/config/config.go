package config

import (
	"nursecare-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:       utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:       utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:     utils.GetEnvString("MONGODB_DB_NAME", "nursecare"),
			Username:   utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
			ReplicaSet: utils.GetEnvString("MONGODB_REPLICA_SET", "rs0"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "nursecare-ledger"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                     utils.GetEnvString("APP_ENV", "development"),
			Port:                    utils.GetEnvString("APP_PORT", ":8080"),
			Version:                 utils.GetEnvString("APP_VERSION", "v1"),
			BaseURL:                 utils.GetEnvString("APP_BASE_URL", "http://localhost:8080"),
			Timezone:                utils.GetEnvString("APP_TIMEZONE", "Africa/Cairo"),
			EndpointPrefix:          utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:             utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeout:         utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds: utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 15),
		},
		JWT: JWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 24),
		},
		Stripe: Stripe{
			SecretKey:                 utils.GetEnvString("STRIPE_SECRET", ""),
			WebhookSecret:             utils.GetEnvString("STRIPE_WEBHOOK_SECRET", ""),
			Currency:                  utils.GetEnvString("STRIPE_CURRENCY", "egp"),
			WebhookToleranceInSeconds: utils.GetEnvInt("STRIPE_WEBHOOK_TOLERANCE_IN_SECONDS", 300),
		},
		Firebase: Firebase{
			CredentialsFile:   utils.GetEnvString("FIREBASE_CREDENTIALS_FILE", "firebase.json"),
			PushRatePerSecond: utils.GetEnvInt("FIREBASE_PUSH_RATE_PER_SECOND", 50),
			PushBurst:         utils.GetEnvInt("FIREBASE_PUSH_BURST", 10),
		},
		Outbox: Outbox{
			RelayIntervalInSeconds: utils.GetEnvInt("OUTBOX_RELAY_INTERVAL_IN_SECONDS", 5),
			RelayBatchSize:         utils.GetEnvInt("OUTBOX_RELAY_BATCH_SIZE", 50),
			PushIntervalInSeconds:  utils.GetEnvInt("OUTBOX_PUSH_INTERVAL_IN_SECONDS", 5),
			PushBatchSize:          utils.GetEnvInt("OUTBOX_PUSH_BATCH_SIZE", 50),
			ThrottleRetry:          utils.GetEnvInt("OUTBOX_THROTTLE_RETRY", 5),
			Prefetch:               utils.GetEnvInt("OUTBOX_PREFETCH", 50),
		},
		Appointment: Appointment{
			CancellationWindowInMinutes: utils.GetEnvInt("APPOINTMENT_CANCELLATION_WINDOW_IN_MINUTES", 30),
			LockTTLInSeconds:            utils.GetEnvInt("APPOINTMENT_LOCK_TTL_IN_SECONDS", 30),
		},
	}
}
