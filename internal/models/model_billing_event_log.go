package models

import (
	"time"

	"gorm.io/datatypes"
)

type BillingEventLogStatus string

const (
	BillingEventLogStatusReceived     BillingEventLogStatus = "received"
	BillingEventLogStatusHandled      BillingEventLogStatus = "handled"
	BillingEventLogStatusHandleFailed BillingEventLogStatus = "handle_failed"
)

// BillingEventLog is the out-of-band audit trail of webhook deliveries. The
// reconciler always acknowledges dispatched events; persistent failures
// surface here and in logs rather than through the HTTP response.
type BillingEventLog struct {
	ID        string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	EventID   string                `gorm:"column:event_id;type:varchar(64);index" json:"event_id"`
	EventType string                `gorm:"column:event_type;type:varchar(64)" json:"event_type"`
	TraceID   string                `gorm:"column:trace_id;type:varchar(64)" json:"trace_id"`
	Status    BillingEventLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Data      datatypes.JSON        `gorm:"column:data;type:jsonb" json:"data"`
	Result    *datatypes.JSON       `gorm:"column:result;type:jsonb;default:null" json:"result"`
	CreatedAt time.Time             `json:"created_at"`
}

func (BillingEventLog) TableName() string {
	return "billing_event_logs"
}
