package model

import (
	"time"
)

type Family struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Phone     string    `gorm:"size:30" json:"phone,omitempty"`
	Email     *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Students []*Student `gorm:"foreignKey:FamilyID" json:"students,omitempty"`
}

func (Family) TableName() string {
	return "families"
}
