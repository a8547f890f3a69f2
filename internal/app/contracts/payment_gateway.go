package contracts

import (
	"context"
	"nursecare-service/internal/app/models"
)

type CheckoutSessionInput struct {
	Currency      string
	ProductName   string
	UnitAmount    int64
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

type CheckoutSessionOutput struct {
	SessionID string
	URL       string
}

// LedgerEvent is a verified provider event. Checkout is only set for
// checkout completion events.
type LedgerEvent struct {
	ID       string
	Type     string
	Payload  []byte
	Checkout *CompletedCheckout
}

type CompletedCheckout struct {
	SessionID       string
	PaymentIntentID string
	CustomerEmail   string
	Metadata        map[string]string
}

type RefundInput struct {
	PaymentIntentID string
	// Amount in minor units, zero refunds the full charge.
	Amount         int64
	IdempotencyKey string
}

type RefundOutput struct {
	RefundID string
}

type PaymentGatewayService interface {
	CreateCheckoutSession(ctx context.Context, input *CheckoutSessionInput) (*CheckoutSessionOutput, error)
	VerifyWebhook(payload []byte, signatureHeader string) (*LedgerEvent, error)
	Refund(ctx context.Context, input *RefundInput) (*RefundOutput, error)
}

type LedgerEventRepository interface {
	// Reserve inserts the event and reports false when it was already recorded.
	Reserve(ctx context.Context, event *models.LedgerEvent) (bool, error)
}
