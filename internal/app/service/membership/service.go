package membership

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/billinglog"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/logctx"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/metrics"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/tool"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

// Manager is the membership surface consumed by the HTTP layer.
type Manager interface {
	Initiate(ctx context.Context, userID string, plan types.PlanType) (*CheckoutIntent, error)
	Confirm(ctx context.Context, userID, subscriptionRef string) (*models.Membership, error)
	Cancel(ctx context.Context, userID string) (*models.Membership, error)
	Check(ctx context.Context, userID string) (*models.Membership, bool, error)
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (*types.BillingEvent, error)
}

// Service drives the membership state machine. The local record is a cache
// of processor-reported truth; every transition runs as a row-locked upsert
// keyed by user_id, so Confirm and Reconcile can race without lost updates.
type Service struct {
	db        *gorm.DB
	log       *zap.SugaredLogger
	cfg       *config.Config
	processor ProcessorClient
	eventLog  *billinglog.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, processor ProcessorClient, eventLog *billinglog.Service) Manager {
	return &Service{db: db, log: log, cfg: cfg, processor: processor, eventLog: eventLog}
}

// upsertByUser loads (or creates) the single membership row for userID under
// a FOR UPDATE lock and applies fn inside the transaction.
func (s *Service) upsertByUser(ctx context.Context, userID string, fn func(m *models.Membership)) (*models.Membership, error) {
	var out *models.Membership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Membership
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&m).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load membership: %w", err)
			}
			m = models.Membership{
				ID:     tool.GenerateUUIDV7(),
				UserID: userID,
				Status: types.MembershipStatusIncomplete,
			}
		}
		fn(&m)
		if err := tx.Save(&m).Error; err != nil {
			return fmt.Errorf("failed to upsert membership: %w", err)
		}
		out = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Initiate ensures a processor customer for the user, opens an incomplete
// subscription on the plan's price and returns the confirmation token for
// the client to complete payment with the processor directly.
func (s *Service) Initiate(ctx context.Context, userID string, plan types.PlanType) (*CheckoutIntent, error) {
	cfgPlan := s.cfg.PlanByType(plan)
	if cfgPlan == nil {
		return nil, ErrInvalidPlan
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	customerRef, err := s.processor.EnsureCustomer(ctx, user.UserName, user.Email, user.CustomerRef)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure processor customer: %w", err)
	}
	if customerRef != user.CustomerRef {
		if err := s.db.WithContext(ctx).Model(&user).Update("customer_ref", customerRef).Error; err != nil {
			return nil, fmt.Errorf("failed to cache customer ref: %w", err)
		}
	}

	intent, err := s.processor.CreateSubscription(ctx, customerRef, cfgPlan.PriceID)
	if err != nil {
		return nil, fmt.Errorf("failed to create processor subscription: %w", err)
	}

	_, err = s.upsertByUser(ctx, userID, func(m *models.Membership) {
		m.CustomerRef = customerRef
		m.SubscriptionRef = intent.SubscriptionRef
		m.PlanType = cfgPlan.Type
		if !m.Valid() {
			m.Status = types.MembershipStatusIncomplete
		}
		m.CancelAtPeriodEnd = false
		m.CanceledAt = nil
		m.CancelReason = ""
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("membership checkout initiated",
		"user_id", userID, "plan", plan, "subscription_ref", intent.SubscriptionRef)
	return intent, nil
}

// Confirm re-derives subscription state from the processor (never from the
// client) and upserts the local record when the subscription has become
// active or trialing. Retries while pending are no-ops. The ref must match
// the one recorded on the caller's row at Initiate; anyone else's ref is
// treated as no membership.
func (s *Service) Confirm(ctx context.Context, userID, subscriptionRef string) (*models.Membership, error) {
	if subscriptionRef == "" {
		return nil, ErrNoMembership
	}

	var current models.Membership
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMembership
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	if current.SubscriptionRef != subscriptionRef {
		return nil, ErrNoMembership
	}

	ps, err := s.processor.GetSubscription(ctx, subscriptionRef)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch processor subscription: %w", err)
	}

	status := statusFromProcessor(ps.Status)
	if status != types.MembershipStatusActive && status != types.MembershipStatusTrialing {
		return nil, ErrStillProcessing
	}

	plan := s.cfg.PlanByPriceID(ps.PriceID)
	return s.upsertByUser(ctx, userID, func(m *models.Membership) {
		m.CustomerRef = ps.CustomerRef
		m.SubscriptionRef = ps.Ref
		m.Status = status
		if plan != nil {
			m.PlanType = plan.Type
		}
		if !ps.CurrentPeriodEnd.IsZero() {
			end := ps.CurrentPeriodEnd
			m.CurrentPeriodEnd = &end
		}
		m.CancelAtPeriodEnd = ps.CancelAtPeriodEnd
	})
}

// Cancel requests cancel-at-period-end from the processor; the local record
// keeps its status and period end as the effective date, with the pending
// flag set. The terminal canceled transition arrives via the event feed.
func (s *Service) Cancel(ctx context.Context, userID string) (*models.Membership, error) {
	var m models.Membership
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMembership
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	if m.SubscriptionRef == "" || m.Status == types.MembershipStatusCanceled {
		return nil, ErrNoMembership
	}

	ps, err := s.processor.CancelAtPeriodEnd(ctx, m.SubscriptionRef)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel processor subscription: %w", err)
	}

	return s.upsertByUser(ctx, userID, func(m *models.Membership) {
		m.CancelAtPeriodEnd = true
		m.CancelReason = "user_requested"
		if ps != nil && !ps.CurrentPeriodEnd.IsZero() {
			end := ps.CurrentPeriodEnd
			m.CurrentPeriodEnd = &end
		}
	})
}

// Check answers "has active membership" from the cached record. Status alone
// can lag processor truth, so the cached period end must be in the future.
func (s *Service) Check(ctx context.Context, userID string) (*models.Membership, bool, error) {
	var m models.Membership
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load membership: %w", err)
	}
	return &m, m.Valid(), nil
}

// ProcessWebhook authenticates a delivery over the exact raw bytes, then
// dispatches the event to the state machine. A signature failure returns
// ErrBadSignature; any later failure is the caller's to acknowledge anyway.
func (s *Service) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*types.BillingEvent, error) {
	ev, err := s.processor.VerifyEvent(payload, signature)
	if err != nil {
		countWebhookEvent("invalid", "rejected")
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	traceID := logctx.TraceID(ctx)
	s.eventLog.Save(ctx, &models.BillingEventLog{
		EventID:   ev.ID,
		EventType: ev.RawType,
		TraceID:   traceID,
		Status:    models.BillingEventLogStatusReceived,
		Data:      mustJSON(ev),
	})

	if ev.Kind == types.BillingEventIgnored {
		countWebhookEvent(string(ev.Kind), "ignored")
		logctx.FromCtx(ctx, s.log).Infow("webhook event ignored", "event_id", ev.ID, "type", ev.RawType)
		return ev, nil
	}

	err = s.Reconcile(ctx, ev)
	status := models.BillingEventLogStatusHandled
	outcome := "handled"
	var result *datatypes.JSON
	if err != nil {
		status = models.BillingEventLogStatusHandleFailed
		outcome = "failed"
		r := mustJSON(map[string]string{"error": err.Error()})
		result = &r
	}
	countWebhookEvent(string(ev.Kind), outcome)
	s.eventLog.Save(ctx, &models.BillingEventLog{
		EventID:   ev.ID,
		EventType: ev.RawType,
		TraceID:   traceID,
		Status:    status,
		Data:      mustJSON(ev),
		Result:    result,
	})
	return ev, err
}

// Reconcile applies one verified event from the asynchronous feed. It makes
// no ordering assumption relative to Confirm and tolerates duplicates: the
// transition itself is idempotent.
func (s *Service) Reconcile(ctx context.Context, ev *types.BillingEvent) error {
	userID, err := s.resolveOwner(ctx, ev)
	if err != nil {
		return err
	}

	plan := s.cfg.PlanByPriceID(ev.PriceID)
	now := time.Now()
	var changed bool
	_, err = s.upsertByUser(ctx, userID, func(m *models.Membership) {
		if ev.CustomerRef != "" && m.CustomerRef == "" {
			m.CustomerRef = ev.CustomerRef
		}
		changed = applyEvent(m, ev, plan, now)
	})
	if err != nil {
		return err
	}

	lg := logctx.FromCtx(ctx, s.log)
	lg.Infow("billing event reconciled",
		"event_id", ev.ID, "kind", ev.Kind, "user_id", userID, "changed", changed)
	if ev.Kind == types.BillingEventInvoiceFailed && changed {
		// Out-of-band surface for persistent payment trouble; the webhook
		// response itself still acknowledges receipt.
		lg.Errorw("membership payment failed", "user_id", userID, "event_id", ev.ID, "message", ev.FailureMessage)
	}
	return nil
}

// resolveOwner maps an event to the owning user: first through an existing
// membership row holding the subscription ref, then through the customer ref
// cached on the user record.
func (s *Service) resolveOwner(ctx context.Context, ev *types.BillingEvent) (string, error) {
	if ev.SubscriptionRef != "" {
		var m models.Membership
		err := s.db.WithContext(ctx).Where("subscription_ref = ?", ev.SubscriptionRef).First(&m).Error
		if err == nil {
			return m.UserID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to resolve by subscription ref: %w", err)
		}
	}
	if ev.CustomerRef != "" {
		var user models.User
		err := s.db.WithContext(ctx).Where("customer_ref = ?", ev.CustomerRef).First(&user).Error
		if err == nil {
			return user.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to resolve by customer ref: %w", err)
		}
	}
	return "", fmt.Errorf("no local owner for event %s (%s)", ev.ID, ev.RawType)
}

func countWebhookEvent(kind, outcome string) {
	if c, ok := metrics.MetricWebhookEvents.MetricCollector.(*prometheus.CounterVec); ok && c != nil {
		c.WithLabelValues(kind, outcome).Inc()
	}
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(b)
}
