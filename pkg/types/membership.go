package types

import "time"

// MembershipStatus mirrors the processor-reported subscription status. The
// local value is a cache; authoritative state lives at the processor.
type MembershipStatus string

const (
	MembershipStatusIncomplete MembershipStatus = "incomplete"
	MembershipStatusActive     MembershipStatus = "active"
	MembershipStatusTrialing   MembershipStatus = "trialing"
	MembershipStatusPastDue    MembershipStatus = "past_due"
	MembershipStatusCanceled   MembershipStatus = "canceled"
)

type PlanType string

const (
	PlanTypeMonthly PlanType = "monthly"
	PlanTypeAnnual  PlanType = "annual"
)

func (p PlanType) Valid() bool {
	return p == PlanTypeMonthly || p == PlanTypeAnnual
}

// BillingEventKind is the tagged variant of processor webhook events the
// reconciler understands. Anything else parses to BillingEventIgnored and is
// acknowledged without a state transition.
type BillingEventKind string

const (
	BillingEventSubscriptionCreated BillingEventKind = "subscription_created"
	BillingEventInvoicePaid         BillingEventKind = "invoice_paid"
	BillingEventInvoiceFailed       BillingEventKind = "invoice_payment_failed"
	BillingEventSubscriptionUpdated BillingEventKind = "subscription_updated"
	BillingEventSubscriptionDeleted BillingEventKind = "subscription_deleted"
	BillingEventIgnored             BillingEventKind = "ignored"
)

// BillingEvent is the provider-neutral form of a verified webhook delivery.
// ID is the processor's unique event id and keys idempotent history appends.
type BillingEvent struct {
	ID               string           `json:"id"`
	Kind             BillingEventKind `json:"kind"`
	RawType          string           `json:"raw_type"`
	CustomerRef      string           `json:"customer_ref"`
	SubscriptionRef  string           `json:"subscription_ref"`
	PriceID          string           `json:"price_id"`
	Status           string           `json:"status"`
	CurrentPeriodEnd time.Time        `json:"current_period_end"`
	CancelAtPeriod   bool             `json:"cancel_at_period_end"`
	CanceledAt       time.Time        `json:"canceled_at"`
	CancelReason     string           `json:"cancel_reason"`
	AmountPaid       int64            `json:"amount_paid"`
	Currency         string           `json:"currency"`
	FailureMessage   string           `json:"failure_message"`
}
