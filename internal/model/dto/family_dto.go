package dto

import (
	"time"

	"github.com/qs3c/school_go_server/internal/pkg/money"
)

// 在读资格
const (
	EligibilityTrial   = "trial"
	EligibilityPaid    = "paid"
	EligibilityExpired = "expired"
)

// StudentEligibility 学生当前的上课资格，按每次请求从成功支付记录重新计算，不落库
type StudentEligibility struct {
	StudentID       int64      `json:"student_id"`
	Eligible        bool       `json:"eligible"`
	Reason          string     `json:"reason"` // trial / paid / expired
	LastPaymentDate *time.Time `json:"last_payment_date,omitempty"`
}

// StudentPaymentStatus 单个学生的支付状态视图
type StudentPaymentStatus struct {
	StudentID        int64               `json:"student_id"`
	StudentName      string              `json:"student_name"`
	Eligibility      *StudentEligibility `json:"eligibility,omitempty"`
	NeedsPayment     bool                `json:"needs_payment"`
	NextAmount       money.Money         `json:"next_amount"`
	TierLabel        string              `json:"tier_label"`
	AmountResolved   bool                `json:"amount_resolved"` // false 表示未配置任何计费档位
	PastPaymentCount int64               `json:"past_payment_count"`
	SessionBalance   int                 `json:"session_balance"`
	Error            string              `json:"error,omitempty"` // 单个学生的局部失败，不影响其他学生
}

// FamilyPaymentSummary 家庭支付总览，供展示层消费
type FamilyPaymentSummary struct {
	FamilyID              int64                   `json:"family_id"`
	FamilyName            string                  `json:"family_name"`
	Students              []*StudentPaymentStatus `json:"students"`
	HasAvailableDiscounts bool                    `json:"has_available_discounts"`
}
