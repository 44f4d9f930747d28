package dto

import (
	"time"

	"github.com/qs3c/school_go_server/internal/pkg/money"
)

type EventItem struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	PosterURL   string      `json:"poster_url,omitempty"`
	StartAt     time.Time   `json:"start_at"`
	Capacity    int         `json:"capacity"`
	Fee         money.Money `json:"fee"`
	Registered  int64       `json:"registered"`
}

type RegisterEventRequest struct {
	StudentID    int64   `json:"student_id" binding:"required"`
	DiscountCode *string `json:"discount_code"`
	Force        bool    `json:"force"`
}

type EventRegistered struct {
	RegistrationID int64           `json:"registration_id"`
	EventID        int64           `json:"event_id"`
	StudentID      int64           `json:"student_id"`
	Payment        *PaymentCreated `json:"payment,omitempty"` // 免费活动无支付单
}
