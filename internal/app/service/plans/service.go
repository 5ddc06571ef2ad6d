package plans

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/logctx"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/tool"
)

var ErrAssigneeNotFound = errors.New("assignee not found")

type AssignWorkoutInput struct {
	UserID     string
	AssignedBy string
	Title      string
	DayTag     string
	Items      datatypes.JSON
}

type AssignDietInput struct {
	UserID     string
	AssignedBy string
	Title      string
	DayTag     string
	Meals      datatypes.JSON
}

// Service manages trainer-authored workout and diet plans.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) assigneeExists(ctx context.Context, userID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrAssigneeNotFound
	}
	return nil
}

func (s *Service) AssignWorkout(ctx context.Context, in AssignWorkoutInput) (*models.WorkoutPlan, error) {
	if err := s.assigneeExists(ctx, in.UserID); err != nil {
		return nil, err
	}
	plan := &models.WorkoutPlan{
		ID:         tool.GenerateUUIDV7(),
		UserID:     in.UserID,
		AssignedBy: in.AssignedBy,
		Title:      in.Title,
		DayTag:     in.DayTag,
		Items:      in.Items,
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("workout plan assigned",
		"plan_id", plan.ID, "user_id", plan.UserID, "assigned_by", plan.AssignedBy)
	return plan, nil
}

func (s *Service) AssignDiet(ctx context.Context, in AssignDietInput) (*models.DietPlan, error) {
	if err := s.assigneeExists(ctx, in.UserID); err != nil {
		return nil, err
	}
	plan := &models.DietPlan{
		ID:         tool.GenerateUUIDV7(),
		UserID:     in.UserID,
		AssignedBy: in.AssignedBy,
		Title:      in.Title,
		DayTag:     in.DayTag,
		Meals:      in.Meals,
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("diet plan assigned",
		"plan_id", plan.ID, "user_id", plan.UserID, "assigned_by", plan.AssignedBy)
	return plan, nil
}

func (s *Service) WorkoutsFor(ctx context.Context, userID string) ([]*models.WorkoutPlan, error) {
	var out []*models.WorkoutPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

func (s *Service) DietsFor(ctx context.Context, userID string) ([]*models.DietPlan, error) {
	var out []*models.DietPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
