package models

import (
	"time"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

// Message is one line of a pairwise conversation. Immutable once created.
// RoomKey is derived from the sorted participant pair, so both directions of
// a conversation land on the same index.
type Message struct {
	ID           string            `gorm:"column:id;type:uuid;primary_key" json:"id"`
	RoomKey      string            `gorm:"column:room_key;type:varchar(96);not null;index" json:"-"`
	SenderID     string            `gorm:"column:sender_id;type:uuid;not null" json:"senderId"`
	SenderRole   types.Role        `gorm:"column:sender_role;type:varchar(16);not null" json:"senderRole"`
	ReceiverID   string            `gorm:"column:receiver_id;type:uuid;not null" json:"receiverId"`
	ReceiverRole types.Role        `gorm:"column:receiver_role;type:varchar(16);not null" json:"receiverRole"`
	Kind         types.MessageKind `gorm:"column:kind;type:varchar(16);not null;default:text" json:"type"`
	Content      string            `gorm:"column:content;type:text;not null" json:"text"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}
