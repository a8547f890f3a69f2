package payment_gateway

import (
	"context"
	"fmt"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

type stripeService struct {
	API           *client.API
	WebhookSecret string
	Tolerance     time.Duration
	Log           *zap.Logger
}

func NewStripeService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	tolerance := time.Duration(internalConfig.Stripe.WebhookToleranceInSeconds) * time.Second
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &stripeService{
		API:           client.New(internalConfig.Stripe.SecretKey, nil),
		WebhookSecret: internalConfig.Stripe.WebhookSecret,
		Tolerance:     tolerance,
		Log:           logger,
	}
}

func (s *stripeService) CreateCheckoutSession(ctx context.Context, input *contracts.CheckoutSessionInput) (*contracts.CheckoutSessionOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("stripeService.CreateCheckoutSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(constvars.CheckoutModePayment),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(input.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(input.ProductName),
					},
					UnitAmount: stripe.Int64(input.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(input.SuccessURL),
		CancelURL:  stripe.String(input.CancelURL),
	}
	if input.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(input.CustomerEmail)
	}
	for key, value := range input.Metadata {
		params.AddMetadata(key, value)
	}
	params.Context = ctx

	session, err := s.API.CheckoutSessions.New(params)
	if err != nil {
		s.Log.Error("stripeService.CreateCheckoutSession error creating session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrLedgerCheckoutSession(err)
	}

	s.Log.Info("stripeService.CreateCheckoutSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("session_id", session.ID),
	)
	return &contracts.CheckoutSessionOutput{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// VerifyWebhook checks the signature header against the raw payload and
// decodes checkout completion events. Other event types are returned with a
// nil Checkout.
func (s *stripeService) VerifyWebhook(payload []byte, signatureHeader string) (*contracts.LedgerEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s.WebhookSecret, webhook.ConstructEventOptions{
		Tolerance:                s.Tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, exceptions.ErrLedgerSignature(err)
	}

	ledgerEvent := &contracts.LedgerEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: payload,
	}
	if ledgerEvent.Type != constvars.LedgerEventCheckoutCompleted {
		return ledgerEvent, nil
	}

	if event.Data == nil {
		return nil, exceptions.ErrLedgerEventPayload(fmt.Errorf("event %s has no data", event.ID))
	}
	var session stripe.CheckoutSession
	err = json.Unmarshal(event.Data.Raw, &session)
	if err != nil {
		return nil, exceptions.ErrLedgerEventPayload(err)
	}

	checkout := &contracts.CompletedCheckout{
		SessionID:     session.ID,
		CustomerEmail: session.CustomerEmail,
		Metadata:      session.Metadata,
	}
	if session.PaymentIntent != nil {
		checkout.PaymentIntentID = session.PaymentIntent.ID
	}
	ledgerEvent.Checkout = checkout
	return ledgerEvent, nil
}

func (s *stripeService) Refund(ctx context.Context, input *contracts.RefundInput) (*contracts.RefundOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("stripeService.Refund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIntentIDKey, input.PaymentIntentID),
		zap.Int64(constvars.LoggingRefundAmountKey, input.Amount),
	)

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(input.PaymentIntentID),
	}
	if input.Amount > 0 {
		params.Amount = stripe.Int64(input.Amount)
	}
	if input.IdempotencyKey != "" {
		params.SetIdempotencyKey(input.IdempotencyKey)
	}
	params.Context = ctx

	refund, err := s.API.Refunds.New(params)
	if err != nil {
		s.Log.Error("stripeService.Refund error issuing refund",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIntentIDKey, input.PaymentIntentID),
			zap.Error(err),
		)
		return nil, exceptions.ErrLedgerRefund(err, input.PaymentIntentID)
	}

	s.Log.Info("stripeService.Refund succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRefundIDKey, refund.ID),
	)
	return &contracts.RefundOutput{RefundID: refund.ID}, nil
}
