package payment_gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", at.Unix(), payload)))
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newTestStripeService() *stripeService {
	internalConfig := &config.InternalConfig{
		Stripe: config.Stripe{
			SecretKey:                 "sk_test_unused",
			WebhookSecret:             testWebhookSecret,
			Currency:                  "egp",
			WebhookToleranceInSeconds: 300,
		},
	}
	return NewStripeService(internalConfig, zap.NewNop()).(*stripeService)
}

func TestStripeService_VerifyWebhook(t *testing.T) {
	completed := []byte(`{
		"id":          "evt_completed_1",
		"object":      "event",
		"api_version": "2023-10-16",
		"type":        "checkout.session.completed",
		"data": {
			"object": {
				"id":             "cs_test_1",
				"object":         "checkout.session",
				"customer_email": "user@example.com",
				"payment_intent": "pi_test_1",
				"metadata": {"userId": "u1", "nurseId": "n1", "totalCost": "330"}
			}
		}
	}`)

	t.Run("Valid Signature Decodes Checkout Completion", func(t *testing.T) {
		svc := newTestStripeService()
		header := signPayload(completed, testWebhookSecret, time.Now())

		event, err := svc.VerifyWebhook(completed, header)
		require.NoError(t, err)
		assert.Equal(t, "evt_completed_1", event.ID)
		assert.Equal(t, "checkout.session.completed", event.Type)
		require.NotNil(t, event.Checkout)
		assert.Equal(t, "pi_test_1", event.Checkout.PaymentIntentID)
		assert.Equal(t, "cs_test_1", event.Checkout.SessionID)
		assert.Equal(t, "user@example.com", event.Checkout.CustomerEmail)
		assert.Equal(t, "330", event.Checkout.Metadata["totalCost"])
		assert.Equal(t, completed, event.Payload)
	})

	t.Run("Wrong Secret Is Rejected With Bad Request", func(t *testing.T) {
		svc := newTestStripeService()
		header := signPayload(completed, "whsec_other", time.Now())

		event, err := svc.VerifyWebhook(completed, header)
		assert.Nil(t, event)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, exceptions.StatusCodeOf(err))
	})

	t.Run("Tampered Payload Is Rejected", func(t *testing.T) {
		svc := newTestStripeService()
		header := signPayload(completed, testWebhookSecret, time.Now())
		tampered := append([]byte{}, completed...)
		tampered[len(tampered)-2] = ' '

		_, err := svc.VerifyWebhook(tampered, header)
		assert.Error(t, err)
	})

	t.Run("Stale Timestamp Is Rejected", func(t *testing.T) {
		svc := newTestStripeService()
		header := signPayload(completed, testWebhookSecret, time.Now().Add(-time.Hour))

		_, err := svc.VerifyWebhook(completed, header)
		assert.Error(t, err)
	})

	t.Run("Other Event Types Carry No Checkout", func(t *testing.T) {
		svc := newTestStripeService()
		other := []byte(`{"id":"evt_other","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`)
		header := signPayload(other, testWebhookSecret, time.Now())

		event, err := svc.VerifyWebhook(other, header)
		require.NoError(t, err)
		assert.Equal(t, "charge.refunded", event.Type)
		assert.Nil(t, event.Checkout)
	})
}
