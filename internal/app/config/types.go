package config

type (
	InternalConfig struct {
		App         App
		JWT         JWT
		Stripe      Stripe
		Firebase    Firebase
		Outbox      Outbox
		Appointment Appointment
	}

	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		RabbitMQ RabbitMQ
		Minio    Minio
		Logger   Logger
	}

	App struct {
		Env                     string
		Port                    string
		Version                 string
		BaseURL                 string
		Timezone                string
		EndpointPrefix          string
		MaxRequests             int
		ShutdownTimeout         int
		RequestTimeoutInSeconds int
	}

	JWT struct {
		Secret        string
		ExpTimeInHour int
	}

	Stripe struct {
		SecretKey                 string
		WebhookSecret             string
		Currency                  string
		WebhookToleranceInSeconds int
	}

	Firebase struct {
		CredentialsFile   string
		PushRatePerSecond int
		PushBurst         int
	}

	Outbox struct {
		RelayIntervalInSeconds int
		RelayBatchSize         int
		PushIntervalInSeconds  int
		PushBatchSize          int
		ThrottleRetry          int
		Prefetch               int
	}

	Appointment struct {
		CancellationWindowInMinutes int
		LockTTLInSeconds            int
	}

	MongoDB struct {
		Port       string
		Host       string
		DbName     string
		Username   string
		Password   string
		ReplicaSet string
	}

	Redis struct {
		Host     string
		Port     string
		Password string
	}

	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}

	Minio struct {
		Host       string
		Port       string
		Username   string
		Password   string
		BucketName string
		UseSSL     bool
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)
