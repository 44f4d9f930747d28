package model

import (
	"time"
)

type Student struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	FamilyID       int64     `gorm:"not null;index" json:"family_id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	SessionBalance int       `gorm:"default:0" json:"session_balance"` // 剩余单次课余额，考勤扣减（考勤不在本服务内）
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Enrollments []*Enrollment `gorm:"foreignKey:StudentID" json:"enrollments,omitempty"`
}

func (Student) TableName() string {
	return "students"
}
