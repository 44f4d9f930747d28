package model

import (
	"time"
)

const (
	EnrollmentStatusActive = "active"
	EnrollmentStatusEnded  = "ended"
)

// Enrollment 学生的项目报名记录，携带该项目配置的各档价格。
// 三档金额均可为空：空表示该项目未开放该档计费方式。
type Enrollment struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	StudentID          int64     `gorm:"not null;index" json:"student_id"`
	ProgramName        string    `gorm:"size:100;not null" json:"program_name"`
	MonthlyAmountCents *int64    `json:"monthly_amount_cents,omitempty"`
	YearlyAmountCents  *int64    `json:"yearly_amount_cents,omitempty"`
	SessionAmountCents *int64    `json:"session_amount_cents,omitempty"`
	Status             string    `gorm:"size:20;default:active;index" json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
