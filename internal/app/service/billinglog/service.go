package billinglog

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/logctx"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/tool"
)

// Service persists the webhook delivery audit trail. Writes are asynchronous
// and best-effort: a failed audit write is logged, never surfaced to the
// webhook sender.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a billing event log row. Nil input is ignored.
func (s *Service) Save(ctx context.Context, row *models.BillingEventLog) {
	go func() {
		if row == nil {
			return
		}
		if row.ID == "" {
			row.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(row).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save billing event log: %v", err)
		}
	}()
}

var Module = fx.Options(
	fx.Provide(New),
)
