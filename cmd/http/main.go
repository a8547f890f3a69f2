package main

import (
	"context"
	"errors"
	"net/http"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/delivery/http/controllers"
	"nursecare-service/internal/app/delivery/http/middlewares"
	"nursecare-service/internal/app/delivery/http/routers"
	"nursecare-service/internal/app/drivers/database"
	"nursecare-service/internal/app/drivers/logger"
	"nursecare-service/internal/app/drivers/messaging"
	"nursecare-service/internal/app/drivers/push"
	"nursecare-service/internal/app/drivers/storage"
	"nursecare-service/internal/app/services/core/appointments"
	"nursecare-service/internal/app/services/core/chats"
	"nursecare-service/internal/app/services/core/notifications"
	"nursecare-service/internal/app/services/core/parties"
	"nursecare-service/internal/app/services/core/payments"
	"nursecare-service/internal/app/services/shared/clock"
	"nursecare-service/internal/app/services/shared/jwtmanager"
	"nursecare-service/internal/app/services/shared/locker"
	"nursecare-service/internal/app/services/shared/payment_gateway"
	pushDispatcher "nursecare-service/internal/app/services/shared/push"
	"nursecare-service/internal/app/services/shared/pushqueue"
	"nursecare-service/internal/app/services/shared/redis"
	minioStorage "nursecare-service/internal/app/services/shared/storage"
	"nursecare-service/internal/app/services/shared/transaction"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Version and Tag are set at build time with -ldflags "-X main.Version=...".
var (
	Version = "develop"
	Tag     = "0.0.1-rc"
)

var errConnectionClosed = errors.New("connection closed")

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	log.Printf("Starting nursecare-service version %s (%s)", Version, Tag)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.EnsureIndexes(indexCtx, mongoDB.Database(driverConfig.MongoDB.DbName))
	cancelIndex()
	if err != nil {
		log.Fatalf("Error creating mongo indexes: %v", err)
	}
	log.Println("Successfully ensured mongo indexes")

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	err = bootstrapingTheApp(bootstrap, log, location)
	if err != nil {
		log.Fatalf("Error bootstrapping the app: %v", err)
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           chiRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", internalConfig.App.Port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Errorf("Error releasing resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap, accessLog *logrus.Logger, location *time.Location) error {
	dbName := bootstrap.DriverConfig.MongoDB.DbName

	// Shared services
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, bootstrap.Logger)
	transactionManager := transaction.NewMongoTransactionManager(bootstrap.MongoDB, bootstrap.Logger)
	objectStorage := minioStorage.NewMinioStorage(bootstrap.Minio, bootstrap.DriverConfig.Minio.BucketName)
	paymentGateway := payment_gateway.NewStripeService(bootstrap.InternalConfig, bootstrap.Logger)
	jwtManager := jwtmanager.NewJWTManager(bootstrap.InternalConfig, bootstrap.Logger)
	appClock := clock.NewClock(location)

	pushQueue, err := pushqueue.NewService(bootstrap.RabbitMQ, bootstrap.Logger, bootstrap.InternalConfig.Outbox.Prefetch)
	if err != nil {
		return err
	}
	dispatcher := pushDispatcher.NewFirebaseDispatcher(
		push.NewFirebaseMessaging(bootstrap.InternalConfig),
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	// Repositories
	appointmentRepository := appointments.NewAppointmentMongoRepository(bootstrap.MongoDB, dbName)
	userRepository := parties.NewUserMongoRepository(bootstrap.MongoDB, dbName)
	nurseRepository := parties.NewNurseMongoRepository(bootstrap.MongoDB, dbName)
	notificationRepository := notifications.NewNotificationMongoRepository(bootstrap.MongoDB, dbName)
	ledgerEventRepository := payments.NewLedgerEventMongoRepository(bootstrap.MongoDB, dbName)
	chatRepository := chats.NewChatMongoRepository(bootstrap.MongoDB, dbName)

	// Usecases
	chatUsecase := chats.NewChatUsecase(
		chatRepository,
		userRepository,
		nurseRepository,
		appointmentRepository,
		pushQueue,
		objectStorage,
		appClock,
		bootstrap.Logger,
	)
	appointmentUsecase := appointments.NewAppointmentUsecase(
		appointmentRepository,
		userRepository,
		nurseRepository,
		notificationRepository,
		ledgerEventRepository,
		transactionManager,
		chatUsecase,
		paymentGateway,
		lockService,
		objectStorage,
		appClock,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	// Background workers
	workerCtx := context.Background()
	outboxRelay := notifications.NewOutboxRelay(bootstrap.Logger, bootstrap.InternalConfig, lockService, notificationRepository, pushQueue, objectStorage)
	pushWorker := notifications.NewPushWorker(bootstrap.Logger, bootstrap.InternalConfig, lockService, pushQueue, dispatcher, notificationRepository)
	bootstrap.WorkerStops = append(bootstrap.WorkerStops,
		outboxRelay.Start(workerCtx),
		pushWorker.Start(workerCtx),
	)

	// Controllers
	appointmentController := controllers.NewAppointmentController(bootstrap.Logger, appointmentUsecase, bootstrap.InternalConfig)
	webhookController := controllers.NewWebhookController(bootstrap.Logger, appointmentUsecase, bootstrap.InternalConfig)
	chatController := controllers.NewChatController(bootstrap.Logger, chatUsecase, bootstrap.InternalConfig)
	pageController := controllers.NewPageController(bootstrap.Logger, map[string]controllers.HealthCheckFunc{
		"mongodb": func(ctx context.Context) error {
			return bootstrap.MongoDB.Ping(ctx, readpref.Primary())
		},
		"redis": redisRepository.Ping,
		"rabbitmq": func(ctx context.Context) error {
			if bootstrap.RabbitMQ.IsClosed() {
				return errConnectionClosed
			}
			return nil
		},
	})

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig, jwtManager),
		accessLog,
		appointmentController,
		webhookController,
		chatController,
		pageController,
	)
	return nil
}
