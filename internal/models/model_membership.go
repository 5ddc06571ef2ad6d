package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

// PaymentHistoryEntry is one line of the embedded payment log. EventID is the
// processor's unique event id; appends are skipped when the id is already
// present, so webhook redelivery cannot duplicate history.
type PaymentHistoryEntry struct {
	EventID  string    `json:"event_id"`
	Kind     string    `json:"kind"`
	Amount   int64     `json:"amount"`
	Currency string    `json:"currency"`
	At       time.Time `json:"at"`
}

// Membership is the local cache of a user's billing state. At most one row
// exists per user (upsert keyed by user_id); rows are status-transitioned,
// never deleted. Use Valid() to answer "has active membership".
type Membership struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	// CustomerRef / SubscriptionRef are the processor-side handles.
	CustomerRef       string                                    `gorm:"column:customer_ref;type:varchar(64);index" json:"-"`
	SubscriptionRef   string                                    `gorm:"column:subscription_ref;type:varchar(64);index" json:"-"`
	Status            types.MembershipStatus                    `gorm:"column:status;type:varchar(32);not null" json:"status"`
	PlanType          types.PlanType                            `gorm:"column:plan_type;type:varchar(16)" json:"planType"`
	CurrentPeriodEnd  *time.Time                                `gorm:"column:current_period_end;default:null" json:"currentPeriodEnd"`
	CancelAtPeriodEnd bool                                      `gorm:"column:cancel_at_period_end;not null;default:false" json:"cancelAtPeriodEnd"`
	CanceledAt        *time.Time                                `gorm:"column:canceled_at;default:null" json:"canceledAt"`
	CancelReason      string                                    `gorm:"column:cancel_reason;type:varchar(255)" json:"cancelReason,omitempty"`
	FailedPayments    int                                       `gorm:"column:failed_payments;not null;default:0" json:"failedPayments"`
	History           datatypes.JSONType[[]PaymentHistoryEntry] `gorm:"column:history;type:jsonb" json:"history"`
	CreatedAt         time.Time                                 `json:"createdAt"`
	UpdatedAt         time.Time                                 `json:"updatedAt"`
}

func (Membership) TableName() string {
	return "memberships"
}

// Valid reports whether the cached state grants membership right now. Status
// alone can lag the processor, so the cached period end must also be in the
// future.
func (m *Membership) Valid() bool {
	return m != nil &&
		(m.Status == types.MembershipStatusActive || m.Status == types.MembershipStatusTrialing) &&
		m.CurrentPeriodEnd != nil &&
		m.CurrentPeriodEnd.After(time.Now())
}

func (m *Membership) HasHistoryEvent(eventID string) bool {
	if eventID == "" {
		return false
	}
	for _, e := range m.History.Data() {
		if e.EventID == eventID {
			return true
		}
	}
	return false
}

func (m *Membership) AppendHistory(entry PaymentHistoryEntry) {
	entries := m.History.Data()
	entries = append(entries, entry)
	m.History = datatypes.NewJSONType(entries)
}
