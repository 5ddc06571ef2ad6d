package stripepay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	cfgpkg "github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

func mustEvent(t *testing.T, id, eventType, object string) *stripe.Event {
	t.Helper()
	ev := &stripe.Event{ID: id, Type: stripe.EventType(eventType)}
	ev.Data = &stripe.EventData{Raw: json.RawMessage(object)}
	return ev
}

func TestTranslateEventInvoicePaid(t *testing.T) {
	object := `{
		"id": "in_100",
		"customer": "cus_100",
		"amount_paid": 1999,
		"currency": "usd",
		"parent": {"subscription_details": {"subscription": "sub_100"}},
		"lines": {"data": [{"period": {"end": 1760000000}}]}
	}`
	out, err := translateEvent(mustEvent(t, "evt_100", "invoice.paid", object))
	require.NoError(t, err)

	require.Equal(t, types.BillingEventInvoicePaid, out.Kind)
	require.Equal(t, "evt_100", out.ID)
	require.Equal(t, "cus_100", out.CustomerRef)
	require.Equal(t, "sub_100", out.SubscriptionRef)
	require.Equal(t, int64(1999), out.AmountPaid)
	require.Equal(t, "usd", out.Currency)
	require.Equal(t, time.Unix(1760000000, 0), out.CurrentPeriodEnd)
}

func TestTranslateEventInvoiceFailed(t *testing.T) {
	object := `{"id": "in_101", "customer": "cus_101", "amount_paid": 0, "currency": "usd"}`
	out, err := translateEvent(mustEvent(t, "evt_101", "invoice.payment_failed", object))
	require.NoError(t, err)

	require.Equal(t, types.BillingEventInvoiceFailed, out.Kind)
	require.Equal(t, "cus_101", out.CustomerRef)
	require.Empty(t, out.SubscriptionRef)
	require.NotEmpty(t, out.FailureMessage)
}

func TestTranslateEventSubscriptionDeleted(t *testing.T) {
	object := `{
		"id": "sub_200",
		"customer": "cus_200",
		"status": "canceled",
		"canceled_at": 1750000000,
		"cancellation_details": {"reason": "cancellation_requested"}
	}`
	out, err := translateEvent(mustEvent(t, "evt_200", "customer.subscription.deleted", object))
	require.NoError(t, err)

	require.Equal(t, types.BillingEventSubscriptionDeleted, out.Kind)
	require.Equal(t, "sub_200", out.SubscriptionRef)
	require.Equal(t, "cus_200", out.CustomerRef)
	require.Equal(t, "canceled", out.Status)
	require.Equal(t, time.Unix(1750000000, 0), out.CanceledAt)
	require.Equal(t, "cancellation_requested", out.CancelReason)
}

func TestTranslateEventSubscriptionUpdated(t *testing.T) {
	object := `{
		"id": "sub_201",
		"customer": "cus_201",
		"status": "active",
		"cancel_at_period_end": true,
		"items": {"data": [{"price": {"id": "price_monthly"}, "current_period_end": 1761000000}]}
	}`
	out, err := translateEvent(mustEvent(t, "evt_201", "customer.subscription.updated", object))
	require.NoError(t, err)

	require.Equal(t, types.BillingEventSubscriptionUpdated, out.Kind)
	require.Equal(t, "price_monthly", out.PriceID)
	require.True(t, out.CancelAtPeriod)
	require.Equal(t, time.Unix(1761000000, 0), out.CurrentPeriodEnd)
}

func TestTranslateEventUnknownTypeIgnored(t *testing.T) {
	out, err := translateEvent(mustEvent(t, "evt_300", "charge.refunded", `{"id": "ch_300"}`))
	require.NoError(t, err)
	require.Equal(t, types.BillingEventIgnored, out.Kind)
	require.Equal(t, "charge.refunded", out.RawType)
}

func signPayload(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyEventSignature(t *testing.T) {
	const secret = "whsec_test_secret"
	c := &Client{
		cfg: &cfgpkg.Config{Stripe: cfgpkg.StripeConfig{WebhookSecret: secret}},
		log: zap.NewNop().Sugar(),
	}

	payload := []byte(`{"id": "evt_400", "type": "invoice.paid", "data": {"object": {"id": "in_400", "customer": "cus_400", "amount_paid": 500, "currency": "usd"}}}`)
	ts := time.Now().Unix()

	out, err := c.VerifyEvent(payload, signPayload(secret, ts, payload))
	require.NoError(t, err)
	require.Equal(t, types.BillingEventInvoicePaid, out.Kind)
	require.Equal(t, "evt_400", out.ID)

	_, err = c.VerifyEvent(payload, signPayload("whsec_other", ts, payload))
	require.Error(t, err)

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = 'x'
	_, err = c.VerifyEvent(tampered, signPayload(secret, ts, payload))
	require.Error(t, err)
}
