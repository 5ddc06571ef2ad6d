package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/authtoken"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/logctx"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/tool"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

var (
	ErrAccountExists  = errors.New("username or email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrUserNotFound   = errors.New("user not found")
)

type SignupInput struct {
	UserName string
	Email    string
	Password string
	Role     types.Role
	FullName string
}

type UpdateProfileInput struct {
	FullName *string
	Bio      *string
	Goal     *string
	ImageURL *string
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	cfg *config.Config
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config) *Service {
	return &Service{db: db, log: log, cfg: cfg}
}

// Signup creates an account and returns it with a fresh bearer token.
// Usernames and emails are stored lowercased so uniqueness is
// case-insensitive.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	log := logctx.FromCtx(ctx, s.log)

	role := in.Role
	if role == "" {
		role = types.RoleUser
	}
	if !role.Valid() {
		return nil, "", errors.New("unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           tool.GenerateUUIDV7(),
		UserName:     strings.ToLower(strings.TrimSpace(in.UserName)),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         role,
		FullName:     in.FullName,
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_name = ? OR email = ?", user.UserName, user.Email).
		Count(&existing).Error; err != nil {
		return nil, "", err
	}
	if existing > 0 {
		return nil, "", ErrAccountExists
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrAccountExists
		}
		return nil, "", err
	}

	token, err := authtoken.Issue(s.cfg, user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	log.Infow("account created", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Login verifies credentials against the stored hash and advances the
// daily login streak. The identifier matches either username or email.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, string, error) {
	log := logctx.FromCtx(ctx, s.log)
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var user models.User
	err := s.db.WithContext(ctx).
		Where("user_name = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrBadCredentials
	}

	now := time.Now()
	user.LoginStreak = nextStreak(user.LoginStreak, user.LastLoginAt, now)
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"login_streak":  user.LoginStreak,
			"last_login_at": user.LastLoginAt,
		}).Error; err != nil {
		log.Warnw("failed to persist login streak", "user_id", user.ID, "err", err)
	}

	token, err := authtoken.Issue(s.cfg, user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.FullName != nil {
		updates["full_name"] = *in.FullName
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.Goal != nil {
		updates["goal"] = *in.Goal
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", userID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}
	return s.GetProfile(ctx, userID)
}

func (s *Service) ListTrainers(ctx context.Context) ([]*models.User, error) {
	var trainers []*models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", types.RoleTrainer).
		Order("full_name asc, user_name asc").
		Find(&trainers).Error
	if err != nil {
		return nil, err
	}
	return trainers, nil
}

// nextStreak computes the streak after a login at now. Another login on the
// same calendar day leaves it alone, a login the day after the last one
// extends it, and anything longer starts over at 1.
func nextStreak(prev int, last *time.Time, now time.Time) int {
	if last == nil {
		return 1
	}
	lastDay := last.UTC().Truncate(24 * time.Hour)
	today := now.UTC().Truncate(24 * time.Hour)
	switch today.Sub(lastDay) {
	case 0:
		if prev < 1 {
			return 1
		}
		return prev
	case 24 * time.Hour:
		return prev + 1
	default:
		return 1
	}
}
