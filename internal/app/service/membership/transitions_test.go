package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

var monthlyPlan = &config.Plan{Type: types.PlanTypeMonthly, PriceID: "price_monthly"}

func newRecord() *models.Membership {
	return &models.Membership{
		ID:     "m-1",
		UserID: "u-1",
		Status: types.MembershipStatusIncomplete,
	}
}

func TestApplyEventSubscriptionCreated(t *testing.T) {
	m := newRecord()
	end := time.Now().Add(30 * 24 * time.Hour)
	now := time.Now()

	changed := applyEvent(m, &types.BillingEvent{
		ID:               "evt_1",
		Kind:             types.BillingEventSubscriptionCreated,
		CustomerRef:      "cus_1",
		SubscriptionRef:  "sub_1",
		Status:           "active",
		CurrentPeriodEnd: end,
	}, monthlyPlan, now)

	require.True(t, changed)
	require.Equal(t, "cus_1", m.CustomerRef)
	require.Equal(t, "sub_1", m.SubscriptionRef)
	require.Equal(t, types.MembershipStatusActive, m.Status)
	require.Equal(t, types.PlanTypeMonthly, m.PlanType)
	require.NotNil(t, m.CurrentPeriodEnd)
	require.True(t, m.Valid())
}

func TestApplyEventInvoicePaidIsIdempotent(t *testing.T) {
	m := newRecord()
	end := time.Now().Add(30 * 24 * time.Hour)
	now := time.Now()
	ev := &types.BillingEvent{
		ID:               "evt_paid_1",
		Kind:             types.BillingEventInvoicePaid,
		CurrentPeriodEnd: end,
		AmountPaid:       1999,
		Currency:         "usd",
	}

	require.True(t, applyEvent(m, ev, monthlyPlan, now))
	require.Equal(t, types.MembershipStatusActive, m.Status)
	require.Len(t, m.History.Data(), 1)

	// redelivery of the same event id changes nothing
	require.False(t, applyEvent(m, ev, monthlyPlan, now))
	require.Len(t, m.History.Data(), 1)
	require.Equal(t, 0, m.FailedPayments)
}

func TestApplyEventInvoiceFailedCountsOnce(t *testing.T) {
	m := newRecord()
	m.Status = types.MembershipStatusActive
	now := time.Now()
	ev := &types.BillingEvent{ID: "evt_fail_1", Kind: types.BillingEventInvoiceFailed}

	require.True(t, applyEvent(m, ev, nil, now))
	require.Equal(t, types.MembershipStatusPastDue, m.Status)
	require.Equal(t, 1, m.FailedPayments)

	require.False(t, applyEvent(m, ev, nil, now))
	require.Equal(t, 1, m.FailedPayments)
	require.Len(t, m.History.Data(), 1)
}

func TestApplyEventPaidAfterFailureRecovers(t *testing.T) {
	m := newRecord()
	now := time.Now()
	require.True(t, applyEvent(m, &types.BillingEvent{ID: "evt_f", Kind: types.BillingEventInvoiceFailed}, nil, now))
	require.Equal(t, 1, m.FailedPayments)

	end := time.Now().Add(30 * 24 * time.Hour)
	require.True(t, applyEvent(m, &types.BillingEvent{
		ID:               "evt_p",
		Kind:             types.BillingEventInvoicePaid,
		CurrentPeriodEnd: end,
	}, nil, now))
	require.Equal(t, types.MembershipStatusActive, m.Status)
	require.Equal(t, 0, m.FailedPayments)
	require.Len(t, m.History.Data(), 2)
}

func TestApplyEventSubscriptionDeleted(t *testing.T) {
	m := newRecord()
	m.Status = types.MembershipStatusActive
	canceledAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	changed := applyEvent(m, &types.BillingEvent{
		ID:           "evt_del",
		Kind:         types.BillingEventSubscriptionDeleted,
		CanceledAt:   canceledAt,
		CancelReason: "cancellation_requested",
	}, nil, time.Now())

	require.True(t, changed)
	require.Equal(t, types.MembershipStatusCanceled, m.Status)
	require.NotNil(t, m.CanceledAt)
	require.Equal(t, canceledAt, *m.CanceledAt)
	require.Equal(t, "cancellation_requested", m.CancelReason)
	require.False(t, m.Valid())
}

func TestApplyEventDeletedWithoutTimestampUsesNow(t *testing.T) {
	m := newRecord()
	now := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)

	require.True(t, applyEvent(m, &types.BillingEvent{ID: "evt_del2", Kind: types.BillingEventSubscriptionDeleted}, nil, now))
	require.NotNil(t, m.CanceledAt)
	require.Equal(t, now, *m.CanceledAt)
}

func TestApplyEventUpdatedMirrorsCancelFlag(t *testing.T) {
	m := newRecord()
	m.Status = types.MembershipStatusActive
	end := time.Now().Add(10 * 24 * time.Hour)

	require.True(t, applyEvent(m, &types.BillingEvent{
		ID:               "evt_upd",
		Kind:             types.BillingEventSubscriptionUpdated,
		SubscriptionRef:  "sub_9",
		Status:           "active",
		CancelAtPeriod:   true,
		CurrentPeriodEnd: end,
	}, monthlyPlan, time.Now()))

	require.True(t, m.CancelAtPeriodEnd)
	require.Equal(t, "sub_9", m.SubscriptionRef)
	// pending cancellation still grants access until the period runs out
	require.True(t, m.Valid())
}

func TestApplyEventIgnoredIsNoop(t *testing.T) {
	m := newRecord()
	before := *m
	require.False(t, applyEvent(m, &types.BillingEvent{ID: "evt_x", Kind: types.BillingEventIgnored}, nil, time.Now()))
	require.Equal(t, before, *m)
}

func TestStatusFromProcessor(t *testing.T) {
	require.Equal(t, types.MembershipStatusActive, statusFromProcessor("active"))
	require.Equal(t, types.MembershipStatusTrialing, statusFromProcessor("trialing"))
	require.Equal(t, types.MembershipStatusPastDue, statusFromProcessor("past_due"))
	require.Equal(t, types.MembershipStatusPastDue, statusFromProcessor("unpaid"))
	require.Equal(t, types.MembershipStatusCanceled, statusFromProcessor("canceled"))
	require.Equal(t, types.MembershipStatusIncomplete, statusFromProcessor("incomplete"))
	require.Equal(t, types.MembershipStatusIncomplete, statusFromProcessor("something_new"))
}
