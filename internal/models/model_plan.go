package models

import (
	"time"

	"gorm.io/datatypes"
)

// WorkoutPlan is a trainer-authored plan assigned to a user. Items holds the
// exercise list as JSON (name, sets, reps, rest).
type WorkoutPlan struct {
	ID         string         `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID     string         `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	AssignedBy string         `gorm:"column:assigned_by;type:uuid;not null" json:"assignedBy"`
	Title      string         `gorm:"column:title;type:varchar(128);not null" json:"title"`
	DayTag     string         `gorm:"column:day_tag;type:varchar(16)" json:"dayTag"`
	Items      datatypes.JSON `gorm:"column:items;type:jsonb" json:"items"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (WorkoutPlan) TableName() string {
	return "workout_plans"
}

// DietPlan mirrors WorkoutPlan for meals (meal name, foods, calories).
type DietPlan struct {
	ID         string         `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID     string         `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	AssignedBy string         `gorm:"column:assigned_by;type:uuid;not null" json:"assignedBy"`
	Title      string         `gorm:"column:title;type:varchar(128);not null" json:"title"`
	DayTag     string         `gorm:"column:day_tag;type:varchar(16)" json:"dayTag"`
	Meals      datatypes.JSON `gorm:"column:meals;type:jsonb" json:"meals"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (DietPlan) TableName() string {
	return "diet_plans"
}
