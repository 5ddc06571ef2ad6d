package models

import "time"

// CalendarNote is a per-user note for one day. One row per (user, date);
// writes upsert.
type CalendarNote struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_note_user_date" json:"userId"`
	// Date is the calendar day in YYYY-MM-DD form.
	Date      string    `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_note_user_date" json:"date"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CalendarNote) TableName() string {
	return "calendar_notes"
}

// Supplement is an admin-managed catalog row shown in the shop screen.
type Supplement struct {
	ID          string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Dosage      string    `gorm:"column:dosage;type:varchar(128)" json:"dosage"`
	ImageURL    string    `gorm:"column:image_url;type:varchar(512)" json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Supplement) TableName() string {
	return "supplements"
}

// Quote is a motivational quote served on the home screen.
type Quote struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	Author    string    `gorm:"column:author;type:varchar(128)" json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Quote) TableName() string {
	return "quotes"
}
