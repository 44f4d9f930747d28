package model

import (
	"time"
)

type Event struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	PosterURL   string    `gorm:"size:500" json:"poster_url"`
	StartAt     time.Time `gorm:"not null;index" json:"start_at"`
	Capacity    int       `gorm:"default:0" json:"capacity"` // 0 表示不限名额
	FeeCents    int64     `gorm:"default:0" json:"fee_cents"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

type EventRegistration struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	EventID   int64     `gorm:"not null;index" json:"event_id"`
	FamilyID  int64     `gorm:"not null;index" json:"family_id"`
	StudentID int64     `gorm:"not null;index" json:"student_id"`
	PaymentID *int64    `gorm:"index" json:"payment_id,omitempty"` // 免费活动无支付记录
	CreatedAt time.Time `json:"created_at"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}
