package models

import (
	"time"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

// User is a user or trainer account. Accounts are never hard-deleted.
type User struct {
	ID           string     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserName     string     `gorm:"column:user_name;type:varchar(64);not null;uniqueIndex" json:"userName"`
	Email        string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(128);not null" json:"-"`
	Role         types.Role `gorm:"column:role;type:varchar(16);not null" json:"role"`
	FullName     string     `gorm:"column:full_name;type:varchar(128)" json:"fullName"`
	Bio          string     `gorm:"column:bio;type:text" json:"bio"`
	Goal         string     `gorm:"column:goal;type:varchar(255)" json:"goal"`
	ImageURL     string     `gorm:"column:image_url;type:varchar(512)" json:"imageUrl"`
	// CustomerRef caches the processor customer handle after first checkout.
	CustomerRef string     `gorm:"column:customer_ref;type:varchar(64);index" json:"-"`
	LoginStreak int        `gorm:"column:login_streak;not null;default:0" json:"loginStreak"`
	LastLoginAt *time.Time `gorm:"column:last_login_at;default:null" json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
