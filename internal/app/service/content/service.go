package content

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/tool"
)

var (
	ErrBadDate  = errors.New("date must be YYYY-MM-DD")
	ErrBadMonth = errors.New("month must be YYYY-MM")
	ErrNoQuotes = errors.New("no quotes available")
)

// Service covers calendar notes and the supplement and quote catalogs.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// UpsertNote writes the note for one (user, day) pair. A second write for the
// same day replaces the body instead of adding a row.
func (s *Service) UpsertNote(ctx context.Context, userID, date, body string) (*models.CalendarNote, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrBadDate
	}

	note := &models.CalendarNote{
		ID:     tool.GenerateUUIDV7(),
		UserID: userID,
		Date:   date,
		Body:   body,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(note).Error
	if err != nil {
		return nil, err
	}

	var stored models.CalendarNote
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// NotesForMonth lists the caller's notes for a YYYY-MM month, oldest first.
func (s *Service) NotesForMonth(ctx context.Context, userID, month string) ([]*models.CalendarNote, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrBadMonth
	}
	var notes []*models.CalendarNote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date LIKE ?", userID, month+"-%").
		Order("date asc").
		Find(&notes).Error
	return notes, err
}

func (s *Service) ListSupplements(ctx context.Context) ([]*models.Supplement, error) {
	var out []*models.Supplement
	err := s.db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

func (s *Service) CreateSupplement(ctx context.Context, sup *models.Supplement) (*models.Supplement, error) {
	sup.ID = tool.GenerateUUIDV7()
	if err := s.db.WithContext(ctx).Create(sup).Error; err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *Service) CreateQuote(ctx context.Context, q *models.Quote) (*models.Quote, error) {
	q.ID = tool.GenerateUUIDV7()
	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// QuoteOfTheDay picks one quote deterministically per calendar day, so every
// client sees the same quote until midnight.
func (s *Service) QuoteOfTheDay(ctx context.Context, now time.Time) (*models.Quote, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Quote{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoQuotes
	}

	offset := dailyOffset(now, count)
	var quote models.Quote
	err := s.db.WithContext(ctx).
		Order("id asc").
		Offset(offset).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func dailyOffset(now time.Time, count int64) int {
	h := fnv.New32a()
	fmt.Fprint(h, now.UTC().Format("2006-01-02"))
	return int(uint64(h.Sum32()) % uint64(count))
}
