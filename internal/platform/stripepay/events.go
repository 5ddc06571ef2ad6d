package stripepay

import (
	"encoding/json"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

// translateEvent reduces a Stripe event to the provider-neutral shape the
// state machine consumes. Event types outside the handled set come back as
// BillingEventIgnored so the caller can acknowledge them without acting.
func translateEvent(ev *stripe.Event) (*types.BillingEvent, error) {
	out := &types.BillingEvent{
		ID:      ev.ID,
		RawType: string(ev.Type),
	}

	switch string(ev.Type) {
	case "customer.subscription.created":
		out.Kind = types.BillingEventSubscriptionCreated
		if err := fillFromSubscription(out, ev.Data.Raw); err != nil {
			return nil, err
		}
	case "customer.subscription.updated":
		out.Kind = types.BillingEventSubscriptionUpdated
		if err := fillFromSubscription(out, ev.Data.Raw); err != nil {
			return nil, err
		}
	case "customer.subscription.deleted":
		out.Kind = types.BillingEventSubscriptionDeleted
		if err := fillFromSubscription(out, ev.Data.Raw); err != nil {
			return nil, err
		}
	case "invoice.paid", "invoice.payment_succeeded":
		out.Kind = types.BillingEventInvoicePaid
		if err := fillFromInvoice(out, ev.Data.Raw); err != nil {
			return nil, err
		}
	case "invoice.payment_failed":
		out.Kind = types.BillingEventInvoiceFailed
		if err := fillFromInvoice(out, ev.Data.Raw); err != nil {
			return nil, err
		}
		out.FailureMessage = fmt.Sprintf("payment failed for invoice event %s", ev.ID)
	default:
		out.Kind = types.BillingEventIgnored
	}
	return out, nil
}

func fillFromSubscription(out *types.BillingEvent, raw json.RawMessage) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return fmt.Errorf("decode subscription payload: %w", err)
	}
	out.SubscriptionRef = sub.ID
	if sub.Customer != nil {
		out.CustomerRef = sub.Customer.ID
	}
	out.Status = string(sub.Status)
	out.CancelAtPeriod = sub.CancelAtPeriodEnd
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil {
			out.PriceID = item.Price.ID
		}
		if item.CurrentPeriodEnd > 0 {
			out.CurrentPeriodEnd = time.Unix(item.CurrentPeriodEnd, 0)
		}
	}
	if sub.CanceledAt > 0 {
		out.CanceledAt = time.Unix(sub.CanceledAt, 0)
	}
	if sub.CancellationDetails != nil && sub.CancellationDetails.Reason != "" {
		out.CancelReason = string(sub.CancellationDetails.Reason)
	}
	return nil
}

func fillFromInvoice(out *types.BillingEvent, raw json.RawMessage) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return fmt.Errorf("decode invoice payload: %w", err)
	}
	if inv.Customer != nil {
		out.CustomerRef = inv.Customer.ID
	}
	if inv.Parent != nil && inv.Parent.SubscriptionDetails != nil && inv.Parent.SubscriptionDetails.Subscription != nil {
		out.SubscriptionRef = inv.Parent.SubscriptionDetails.Subscription.ID
	}
	out.AmountPaid = inv.AmountPaid
	out.Currency = string(inv.Currency)
	if inv.Lines != nil && len(inv.Lines.Data) > 0 && inv.Lines.Data[0].Period != nil {
		if end := inv.Lines.Data[0].Period.End; end > 0 {
			out.CurrentPeriodEnd = time.Unix(end, 0)
		}
	}
	return nil
}
