package membership

import (
	"time"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

// statusFromProcessor maps a processor-reported status string onto the local
// status set. Unpaid collapses into past_due; anything unrecognized is
// treated as incomplete, the weakest state.
func statusFromProcessor(s string) types.MembershipStatus {
	switch s {
	case "active":
		return types.MembershipStatusActive
	case "trialing":
		return types.MembershipStatusTrialing
	case "past_due", "unpaid":
		return types.MembershipStatusPastDue
	case "canceled":
		return types.MembershipStatusCanceled
	default:
		return types.MembershipStatusIncomplete
	}
}

// applyEvent folds one verified billing event into the record and reports
// whether the record changed. It is idempotent: invoice events are keyed by
// the processor event id through the embedded history, and the remaining
// kinds assign absolute values.
func applyEvent(m *models.Membership, ev *types.BillingEvent, plan *config.Plan, now time.Time) bool {
	switch ev.Kind {
	case types.BillingEventSubscriptionCreated:
		if ev.CustomerRef != "" {
			m.CustomerRef = ev.CustomerRef
		}
		if ev.SubscriptionRef != "" {
			m.SubscriptionRef = ev.SubscriptionRef
		}
		m.Status = statusFromProcessor(ev.Status)
		if plan != nil {
			m.PlanType = plan.Type
		}
		if !ev.CurrentPeriodEnd.IsZero() {
			end := ev.CurrentPeriodEnd
			m.CurrentPeriodEnd = &end
		}
		m.CancelAtPeriodEnd = false
		m.CanceledAt = nil
		m.CancelReason = ""
		return true

	case types.BillingEventInvoicePaid:
		if m.HasHistoryEvent(ev.ID) {
			return false
		}
		m.Status = types.MembershipStatusActive
		m.FailedPayments = 0
		if !ev.CurrentPeriodEnd.IsZero() {
			end := ev.CurrentPeriodEnd
			m.CurrentPeriodEnd = &end
		}
		m.AppendHistory(models.PaymentHistoryEntry{
			EventID:  ev.ID,
			Kind:     "paid",
			Amount:   ev.AmountPaid,
			Currency: ev.Currency,
			At:       now,
		})
		return true

	case types.BillingEventInvoiceFailed:
		if m.HasHistoryEvent(ev.ID) {
			return false
		}
		m.Status = types.MembershipStatusPastDue
		m.FailedPayments++
		m.AppendHistory(models.PaymentHistoryEntry{
			EventID:  ev.ID,
			Kind:     "payment_failed",
			Amount:   ev.AmountPaid,
			Currency: ev.Currency,
			At:       now,
		})
		return true

	case types.BillingEventSubscriptionUpdated:
		if ev.SubscriptionRef != "" {
			m.SubscriptionRef = ev.SubscriptionRef
		}
		m.Status = statusFromProcessor(ev.Status)
		m.CancelAtPeriodEnd = ev.CancelAtPeriod
		if plan != nil {
			m.PlanType = plan.Type
		}
		if !ev.CurrentPeriodEnd.IsZero() {
			end := ev.CurrentPeriodEnd
			m.CurrentPeriodEnd = &end
		}
		return true

	case types.BillingEventSubscriptionDeleted:
		m.Status = types.MembershipStatusCanceled
		at := ev.CanceledAt
		if at.IsZero() {
			at = now
		}
		m.CanceledAt = &at
		if ev.CancelReason != "" {
			m.CancelReason = ev.CancelReason
		}
		return true

	case types.BillingEventIgnored:
		return false
	}
	return false
}
