package model

import (
	"time"
)

const (
	RoleParent = "parent"
	RoleAdmin  = "admin"
)

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string   `gorm:"size:255" json:"-"`
	Role         string    `gorm:"size:20;default:parent" json:"role"`
	FamilyID     *int64    `gorm:"index" json:"family_id,omitempty"` // 家长账号关联家庭，管理员为空
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
