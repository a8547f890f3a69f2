package push

import (
	"context"
	"log"
	"nursecare-service/internal/app/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

func NewFirebaseMessaging(internalConfig *config.InternalConfig) *messaging.Client {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(internalConfig.Firebase.CredentialsFile))
	if err != nil {
		log.Fatalf("Failed to initialize firebase app: %s", err.Error())
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize firebase messaging client: %s", err.Error())
	}

	log.Println("Successfully initialized firebase messaging")
	return client
}
