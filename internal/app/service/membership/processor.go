package membership

import (
	"context"
	"errors"
	"time"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

var (
	ErrInvalidPlan     = errors.New("unknown plan type")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoMembership    = errors.New("no membership on record")
	ErrStillProcessing = errors.New("payment still processing")
	ErrBadSignature    = errors.New("webhook signature verification failed")
)

// CheckoutIntent is what the client needs to complete payment directly with
// the processor.
type CheckoutIntent struct {
	SubscriptionRef string
	ClientSecret    string
}

// ProcessorSubscription is the processor's authoritative view of one
// subscription, reduced to the fields the state machine consumes.
type ProcessorSubscription struct {
	Ref               string
	CustomerRef       string
	PriceID           string
	Status            string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
	CanceledAt        time.Time
}

// ProcessorClient is the narrow surface of the payment processor the state
// machine depends on, so it stays testable with a fake implementation.
type ProcessorClient interface {
	// EnsureCustomer returns a live customer handle, reusing cachedRef when
	// the processor still knows it and creating a fresh customer otherwise.
	EnsureCustomer(ctx context.Context, name, email, cachedRef string) (string, error)
	// CreateSubscription opens an incomplete subscription on the given price
	// and returns the client-side confirmation token.
	CreateSubscription(ctx context.Context, customerRef, priceID string) (*CheckoutIntent, error)
	GetSubscription(ctx context.Context, subscriptionRef string) (*ProcessorSubscription, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionRef string) (*ProcessorSubscription, error)
	// VerifyEvent authenticates a webhook delivery against the shared secret
	// using the exact raw payload bytes and translates it to a BillingEvent.
	VerifyEvent(payload []byte, signature string) (*types.BillingEvent, error)
}
