package routers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/delivery/http/controllers"
	"nursecare-service/internal/app/delivery/http/middlewares"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/app/services/shared/jwtmanager"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/dto/responses"
	"nursecare-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) CreateCheckoutSession(ctx context.Context, userID primitive.ObjectID, request *requests.CreateCheckoutSession) (*responses.CheckoutSession, error) {
	args := m.Called(ctx, userID, request)
	response, _ := args.Get(0).(*responses.CheckoutSession)
	return response, args.Error(1)
}

func (m *MockAppointmentUsecase) HandleLedgerWebhook(ctx context.Context, payload []byte, signature string) (*responses.WebhookAck, error) {
	args := m.Called(ctx, payload, signature)
	ack, _ := args.Get(0).(*responses.WebhookAck)
	return ack, args.Error(1)
}

func (m *MockAppointmentUsecase) transition(method string, ctx context.Context, callerID, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	args := m.MethodCalled(method, ctx, callerID, appointmentID)
	appointment, _ := args.Get(0).(*models.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) AcceptAppointment(ctx context.Context, nurseID, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	return m.transition("AcceptAppointment", ctx, nurseID, appointmentID)
}

func (m *MockAppointmentUsecase) RejectAppointment(ctx context.Context, nurseID, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	return m.transition("RejectAppointment", ctx, nurseID, appointmentID)
}

func (m *MockAppointmentUsecase) UserCancelAppointment(ctx context.Context, userID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error) {
	args := m.Called(ctx, userID, appointmentID, request)
	appointment, _ := args.Get(0).(*models.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) CancelWithTax(ctx context.Context, userID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error) {
	args := m.Called(ctx, userID, appointmentID, request)
	appointment, _ := args.Get(0).(*models.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) NurseCancelAppointment(ctx context.Context, nurseID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error) {
	args := m.Called(ctx, nurseID, appointmentID, request)
	appointment, _ := args.Get(0).(*models.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) UserConfirmAppointment(ctx context.Context, userID, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	return m.transition("UserConfirmAppointment", ctx, userID, appointmentID)
}

func (m *MockAppointmentUsecase) DeleteAppointment(ctx context.Context, appointmentID primitive.ObjectID) error {
	args := m.Called(ctx, appointmentID)
	return args.Error(0)
}

func (m *MockAppointmentUsecase) GetAllAppointments(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	appointments, _ := args.Get(0).([]models.Appointment)
	return appointments, args.Error(1)
}

func (m *MockAppointmentUsecase) GetAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	args := m.Called(ctx, appointmentID)
	appointment, _ := args.Get(0).(*models.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentUsecase) ListPartyAppointments(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID, bucket models.Bucket) ([]models.Appointment, error) {
	args := m.Called(ctx, kind, partyID, bucket)
	appointments, _ := args.Get(0).([]models.Appointment)
	return appointments, args.Error(1)
}

type MockChatUsecase struct {
	mock.Mock
}

func (m *MockChatUsecase) FindOrCreateForPair(ctx context.Context, user, nurse *models.Party) (*models.Chat, bool, error) {
	args := m.Called(ctx, user, nurse)
	chat, _ := args.Get(0).(*models.Chat)
	return chat, args.Bool(1), args.Error(2)
}

func (m *MockChatUsecase) SendMessage(ctx context.Context, senderKind models.PartyKind, senderID primitive.ObjectID, request *requests.SendChatMessage) error {
	args := m.Called(ctx, senderKind, senderID, request)
	return args.Error(0)
}

func (m *MockChatUsecase) GetMyChats(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID) ([]responses.ChatSummary, error) {
	args := m.Called(ctx, kind, partyID)
	chats, _ := args.Get(0).([]responses.ChatSummary)
	return chats, args.Error(1)
}

func (m *MockChatUsecase) GetChat(ctx context.Context, kind models.PartyKind, partyID, chatID primitive.ObjectID) (*models.Chat, error) {
	args := m.Called(ctx, kind, partyID, chatID)
	chat, _ := args.Get(0).(*models.Chat)
	return chat, args.Error(1)
}

func (m *MockChatUsecase) GetChatByAppointment(ctx context.Context, kind models.PartyKind, partyID, appointmentID primitive.ObjectID) (*models.Chat, error) {
	args := m.Called(ctx, kind, partyID, appointmentID)
	chat, _ := args.Get(0).(*models.Chat)
	return chat, args.Error(1)
}

type routerFixture struct {
	router       *chi.Mux
	appointments *MockAppointmentUsecase
	chats        *MockChatUsecase
	jwt          *jwtmanager.JWTManager
	readyErr     error
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	logger := zap.NewNop()
	internalConfig := &config.InternalConfig{
		App: config.App{
			EndpointPrefix:          "api",
			Version:                 "v1",
			Timezone:                "UTC",
			MaxRequests:             1000,
			RequestTimeoutInSeconds: 5,
		},
		JWT: config.JWT{Secret: "router-test-secret", ExpTimeInHour: 1},
	}

	f := &routerFixture{
		router:       chi.NewRouter(),
		appointments: new(MockAppointmentUsecase),
		chats:        new(MockChatUsecase),
		jwt:          jwtmanager.NewJWTManager(internalConfig, logger),
	}

	pageController := &controllers.PageController{
		Log: logger,
		Checks: map[string]controllers.HealthCheckFunc{
			"mongodb": func(ctx context.Context) error { return f.readyErr },
		},
	}

	SetupRoutes(
		f.router,
		internalConfig,
		middlewares.NewMiddlewares(logger, internalConfig, f.jwt),
		nil,
		&controllers.AppointmentController{Log: logger, AppointmentUsecase: f.appointments, InternalConfig: internalConfig},
		&controllers.WebhookController{Log: logger, AppointmentUsecase: f.appointments, InternalConfig: internalConfig},
		&controllers.ChatController{Log: logger, ChatUsecase: f.chats, InternalConfig: internalConfig},
		pageController,
	)
	return f
}

func (f *routerFixture) token(t *testing.T, subject primitive.ObjectID, role string) string {
	t.Helper()
	token, err := f.jwt.CreateToken(context.Background(), subject.Hex(), role)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+token)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestAppointmentRoutes_CheckoutSession(t *testing.T) {
	f := newRouterFixture(t)
	userID := primitive.NewObjectID()
	nurseID := primitive.NewObjectID()

	payload, _ := json.Marshal(map[string]interface{}{
		"appointmentType": constvars.AppointmentTypeFastService,
		"serviceOption":   "opt1",
		"nurse":           nurseID.Hex(),
		"date":            "2026-03-02",
		"time":            "10:00",
	})

	t.Run("Missing Token Is Rejected", func(t *testing.T) {
		rr := f.do(http.MethodPost, "/api/v1/appointments/checkout-session", "", payload)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Nurse Token Is Forbidden", func(t *testing.T) {
		rr := f.do(http.MethodPost, "/api/v1/appointments/checkout-session", f.token(t, nurseID, constvars.RoleNurse), payload)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Invalid Body Is Rejected Before The Usecase", func(t *testing.T) {
		rr := f.do(http.MethodPost, "/api/v1/appointments/checkout-session", f.token(t, userID, constvars.RoleUser), []byte(`{"appointmentType":"massage"}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		f.appointments.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("User Gets Session URL", func(t *testing.T) {
		f.appointments.On("CreateCheckoutSession", mock.Anything, userID, mock.MatchedBy(func(r *requests.CreateCheckoutSession) bool {
			return r.NurseID == nurseID.Hex() && r.ServiceOption == "opt1"
		})).Return(&responses.CheckoutSession{SessionURL: "https://checkout.example/cs_1", Total: 110, Tax: 10}, nil).Once()

		rr := f.do(http.MethodPost, "/api/v1/appointments/checkout-session", f.token(t, userID, constvars.RoleUser), payload)
		require.Equal(t, http.StatusCreated, rr.Code)

		body := decodeEnvelope(t, rr)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "https://checkout.example/cs_1", data["sessionUrl"])
		assert.Equal(t, float64(110), data["total"])
		f.appointments.AssertExpectations(t)
	})
}

func TestAppointmentRoutes_Transitions(t *testing.T) {
	f := newRouterFixture(t)
	userID := primitive.NewObjectID()
	nurseID := primitive.NewObjectID()
	appointmentID := primitive.NewObjectID()

	t.Run("Nurse Accepts", func(t *testing.T) {
		f.appointments.On("AcceptAppointment", mock.Anything, nurseID, appointmentID).
			Return(&models.Appointment{ID: appointmentID, Status: models.AppointmentStatusActive, NurseAcceptance: true}, nil).Once()

		rr := f.do(http.MethodPost, "/api/v1/appointments/nurseAcceptance/"+appointmentID.Hex(), f.token(t, nurseID, constvars.RoleNurse), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		data := decodeEnvelope(t, rr)["data"].(map[string]interface{})
		assert.Equal(t, true, data["nurseAcceptance"])
	})

	t.Run("Malformed Appointment ID", func(t *testing.T) {
		rr := f.do(http.MethodPost, "/api/v1/appointments/nurseRejection/not-an-id", f.token(t, nurseID, constvars.RoleNurse), nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("User Cancel Passes The Reason", func(t *testing.T) {
		f.appointments.On("UserCancelAppointment", mock.Anything, userID, appointmentID, &requests.CancelAppointment{CancelReason: "changed plans"}).
			Return(&models.Appointment{ID: appointmentID, Status: models.AppointmentStatusCancelled}, nil).Once()

		rr := f.do(http.MethodDelete, "/api/v1/appointments/userCancellation/"+appointmentID.Hex(), f.token(t, userID, constvars.RoleUser), []byte(`{"cancelReason":"changed plans"}`))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Cancel Without Body Uses Empty Reason", func(t *testing.T) {
		f.appointments.On("CancelWithTax", mock.Anything, userID, appointmentID, &requests.CancelAppointment{}).
			Return(&models.Appointment{ID: appointmentID, Status: models.AppointmentStatusCancelled}, nil).Once()

		rr := f.do(http.MethodDelete, "/api/v1/appointments/userCancellationWithTax/"+appointmentID.Hex(), f.token(t, userID, constvars.RoleUser), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Precondition Failure Keeps Its Status", func(t *testing.T) {
		f.appointments.On("UserConfirmAppointment", mock.Anything, userID, appointmentID).
			Return(nil, exceptions.ErrConfirmWithoutAcceptance(nil, appointmentID.Hex())).Once()

		rr := f.do(http.MethodPost, "/api/v1/appointments/userConfirmation/"+appointmentID.Hex(), f.token(t, userID, constvars.RoleUser), nil)
		assert.Equal(t, http.StatusPreconditionFailed, rr.Code)
		assert.Equal(t, false, decodeEnvelope(t, rr)["success"])
	})

	t.Run("Deadline Becomes Gateway Timeout", func(t *testing.T) {
		f.appointments.On("NurseCancelAppointment", mock.Anything, nurseID, appointmentID, mock.Anything).
			Return(nil, context.DeadlineExceeded).Once()

		rr := f.do(http.MethodDelete, "/api/v1/appointments/nurseCancellation/"+appointmentID.Hex(), f.token(t, nurseID, constvars.RoleNurse), nil)
		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	})

	t.Run("User Cannot Accept", func(t *testing.T) {
		rr := f.do(http.MethodPost, "/api/v1/appointments/nurseAcceptance/"+appointmentID.Hex(), f.token(t, userID, constvars.RoleUser), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAppointmentRoutes_Listing(t *testing.T) {
	f := newRouterFixture(t)
	userID := primitive.NewObjectID()
	nurseID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()

	t.Run("User Current Bucket", func(t *testing.T) {
		f.appointments.On("ListPartyAppointments", mock.Anything, models.PartyKindUser, userID, models.BucketCurrent).
			Return([]models.Appointment{{ID: primitive.NewObjectID()}}, nil).Once()

		rr := f.do(http.MethodGet, "/api/v1/appointments/user/current", f.token(t, userID, constvars.RoleUser), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, float64(1), decodeEnvelope(t, rr)["results"])
	})

	t.Run("Nurse Requests Bucket", func(t *testing.T) {
		f.appointments.On("ListPartyAppointments", mock.Anything, models.PartyKindNurse, nurseID, models.BucketRequests).
			Return([]models.Appointment{}, nil).Once()

		rr := f.do(http.MethodGet, "/api/v1/appointments/nurse/requests", f.token(t, nurseID, constvars.RoleNurse), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Users Have No Requests Bucket", func(t *testing.T) {
		rr := f.do(http.MethodGet, "/api/v1/appointments/user/requests", f.token(t, userID, constvars.RoleUser), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Admin Lists And Deletes", func(t *testing.T) {
		appointmentID := primitive.NewObjectID()
		f.appointments.On("GetAllAppointments", mock.Anything).Return([]models.Appointment{{ID: appointmentID}}, nil).Once()
		f.appointments.On("DeleteAppointment", mock.Anything, appointmentID).Return(nil).Once()

		token := f.token(t, adminID, constvars.RoleAdmin)
		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/appointments/", token, nil).Code)
		assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/v1/appointments/"+appointmentID.Hex(), token, nil).Code)
	})

	t.Run("Single Appointment Is Admin Only", func(t *testing.T) {
		rr := f.do(http.MethodGet, "/api/v1/appointments/"+primitive.NewObjectID().Hex(), f.token(t, userID, constvars.RoleUser), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestWebhookRoute(t *testing.T) {
	f := newRouterFixture(t)
	raw := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	t.Run("Raw Body And Signature Reach The Usecase", func(t *testing.T) {
		f.appointments.On("HandleLedgerWebhook", mock.Anything, raw, "t=1,v1=abc").
			Return(&responses.WebhookAck{Received: true}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(raw))
		req.Header.Set(constvars.HeaderStripeSignature, "t=1,v1=abc")
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"received":true}`, rr.Body.String())
	})

	t.Run("Bad Signature Is 400", func(t *testing.T) {
		f.appointments.On("HandleLedgerWebhook", mock.Anything, raw, "forged").
			Return(nil, exceptions.ErrLedgerSignature(errors.New("no match"))).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(raw))
		req.Header.Set(constvars.HeaderStripeSignature, "forged")
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestChatRoutes(t *testing.T) {
	f := newRouterFixture(t)
	userID := primitive.NewObjectID()
	nurseID := primitive.NewObjectID()
	chatID := primitive.NewObjectID()

	t.Run("Nurse Sends As Nurse", func(t *testing.T) {
		f.chats.On("SendMessage", mock.Anything, models.PartyKindNurse, nurseID, &requests.SendChatMessage{ChatID: chatID.Hex(), Message: "on my way"}).
			Return(nil).Once()

		body, _ := json.Marshal(requests.SendChatMessage{ChatID: chatID.Hex(), Message: "on my way"})
		rr := f.do(http.MethodPost, "/api/v1/chats/nurseSendMessage", f.token(t, nurseID, constvars.RoleNurse), body)
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("User Cannot Use Nurse Path", func(t *testing.T) {
		rr := f.do(http.MethodGet, "/api/v1/chats/nurse/mine", f.token(t, userID, constvars.RoleUser), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("User Lists Chats", func(t *testing.T) {
		now := time.Now()
		f.chats.On("GetMyChats", mock.Anything, models.PartyKindUser, userID).
			Return([]responses.ChatSummary{{ID: chatID.Hex(), LastMessageAt: &now}}, nil).Once()

		rr := f.do(http.MethodGet, "/api/v1/chats/user/mine", f.token(t, userID, constvars.RoleUser), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Chat By Appointment", func(t *testing.T) {
		appointmentID := primitive.NewObjectID()
		f.chats.On("GetChatByAppointment", mock.Anything, models.PartyKindUser, userID, appointmentID).
			Return(&models.Chat{ID: chatID, User: userID, Nurse: nurseID}, nil).Once()

		rr := f.do(http.MethodGet, "/api/v1/chats/user/appointment/"+appointmentID.Hex(), f.token(t, userID, constvars.RoleUser), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Chat By ID", func(t *testing.T) {
		f.chats.On("GetChat", mock.Anything, models.PartyKindNurse, nurseID, chatID).
			Return(&models.Chat{ID: chatID, User: userID, Nurse: nurseID}, nil).Once()

		rr := f.do(http.MethodGet, "/api/v1/chats/nurse/"+chatID.Hex(), f.token(t, nurseID, constvars.RoleNurse), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestPageRoutes(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("Success Page", func(t *testing.T) {
		rr := f.do(http.MethodGet, "/api/v1/success", "", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), constvars.PaymentSuccessPageMessage)
	})

	t.Run("Liveness Ignores Dependencies", func(t *testing.T) {
		f.readyErr = errors.New("mongo down")
		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/healthz", "", nil).Code)
	})

	t.Run("Readiness Reports Failing Dependency", func(t *testing.T) {
		f.readyErr = errors.New("mongo down")
		rr := f.do(http.MethodGet, "/api/v1/readyz", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		deps := decodeEnvelope(t, rr)["dependencies"].(map[string]interface{})
		assert.Equal(t, "mongo down", deps["mongodb"])
	})

	t.Run("Readiness Healthy", func(t *testing.T) {
		f.readyErr = nil
		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/readyz", "", nil).Code)
	})

	t.Run("Client Request ID Is Echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-req-1")
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)
		assert.Equal(t, "client-req-1", rr.Header().Get(constvars.HeaderXRequestID))
	})
}
