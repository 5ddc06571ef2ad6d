package messaging

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/logctx"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/tool"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

var (
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrEmptyMessage     = errors.New("message content is empty")
	ErrSelfMessage      = errors.New("cannot message yourself")
)

type SendInput struct {
	SenderID   string
	SenderRole types.Role
	ReceiverID string
	Kind       types.MessageKind
	Content    string
}

// Service is the single write path for conversations. Both the REST handler
// and the websocket relay persist through Send, so history and live delivery
// can never diverge.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) Send(ctx context.Context, in SendInput) (*models.Message, error) {
	log := logctx.FromCtx(ctx, s.log)

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, ErrEmptyMessage
	}
	if in.ReceiverID == in.SenderID {
		return nil, ErrSelfMessage
	}
	kind := in.Kind
	if kind == "" {
		kind = types.MessageKindText
	}
	if !kind.Valid() {
		return nil, errors.New("unknown message type")
	}

	var receiver models.User
	err := s.db.WithContext(ctx).
		Select("id", "role").
		Where("id = ?", in.ReceiverID).
		First(&receiver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}

	msg := &models.Message{
		ID:           tool.GenerateUUIDV7(),
		RoomKey:      DeriveRoomKey(in.SenderID, in.ReceiverID),
		SenderID:     in.SenderID,
		SenderRole:   in.SenderRole,
		ReceiverID:   receiver.ID,
		ReceiverRole: receiver.Role,
		Kind:         kind,
		Content:      in.Content,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	log.Debugw("message stored", "room_key", msg.RoomKey, "message_id", msg.ID)
	return msg, nil
}

// Conversation returns the full history between the caller and peer in send
// order, oldest first.
func (s *Service) Conversation(ctx context.Context, userID, peerID string) ([]*models.Message, error) {
	var msgs []*models.Message
	err := s.db.WithContext(ctx).
		Where("room_key = ?", DeriveRoomKey(userID, peerID)).
		Order("created_at asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
