package main

import (
	"context"
	"fmt"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/drivers/database"
	"nursecare-service/internal/app/drivers/logger"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/app/services/core/parties"
	"nursecare-service/internal/app/services/shared/jwtmanager"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/utils"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// seed inserts fake users and nurses for local runs and prints a bearer token
// for each of them plus one admin token.
func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mongoDB := database.NewMongoDB(driverConfig)
	defer mongoDB.Disconnect(context.Background())

	err := database.EnsureIndexes(ctx, mongoDB.Database(driverConfig.MongoDB.DbName))
	if err != nil {
		log.Fatalf("Error creating mongo indexes: %v", err)
	}

	faker := gofakeit.New(uint64(utils.GetEnvInt("SEED_RANDOM_SEED", 0)))
	jwtManager := jwtmanager.NewJWTManager(internalConfig, zapLogger)
	now := time.Now()

	targets := []struct {
		repository contracts.PartyRepository
		role       string
		count      int
	}{
		{parties.NewUserMongoRepository(mongoDB, driverConfig.MongoDB.DbName), constvars.RoleUser, utils.GetEnvInt("SEED_USERS", 3)},
		{parties.NewNurseMongoRepository(mongoDB, driverConfig.MongoDB.DbName), constvars.RoleNurse, utils.GetEnvInt("SEED_NURSES", 3)},
	}

	for _, target := range targets {
		for i := 0; i < target.count; i++ {
			party := newFakeParty(faker, target.repository.Kind(), now)
			if err := target.repository.Create(ctx, party); err != nil {
				log.Fatalf("Error inserting %s: %v", target.role, err)
			}
			token, err := jwtManager.CreateToken(ctx, party.ID.Hex(), target.role)
			if err != nil {
				log.Fatalf("Error signing token for %s: %v", party.ID.Hex(), err)
			}
			fmt.Printf("%-6s %s %-24s %s\n", target.role, party.ID.Hex(), party.Name, token)
		}
	}

	adminToken, err := jwtManager.CreateToken(ctx, primitive.NewObjectID().Hex(), constvars.RoleAdmin)
	if err != nil {
		log.Fatalf("Error signing admin token: %v", err)
	}
	fmt.Printf("%-6s %s\n", constvars.RoleAdmin, adminToken)
}

// newFakeParty fills every bucket with an empty array; the lifecycle updates
// use $addToSet and $pull, which fail on null fields.
func newFakeParty(faker *gofakeit.Faker, kind models.PartyKind, now time.Time) *models.Party {
	party := &models.Party{
		Kind:                  kind,
		Name:                  faker.Name(),
		Email:                 faker.Email(),
		Phone:                 faker.Phone(),
		Photo:                 fmt.Sprintf("%ss/%s.png", kind, faker.UUID()),
		DeviceID:              faker.LetterN(32),
		CurrentAppointments:   []primitive.ObjectID{},
		CompletedAppointments: []primitive.ObjectID{},
		CancelledAppointments: []primitive.ObjectID{},
		Notifications:         []primitive.ObjectID{},
		Chats:                 []primitive.ObjectID{},
		TimeModel: models.TimeModel{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if kind == models.PartyKindNurse {
		party.Requests = []primitive.ObjectID{}
	} else {
		party.RejectedAppointments = []primitive.ObjectID{}
	}
	return party
}
