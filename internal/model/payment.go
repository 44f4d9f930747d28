package model

import (
	"time"
)

// 支付状态
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// 支付类别
const (
	PaymentTypeMonthlyGroup      = "monthly_group"
	PaymentTypeYearlyGroup       = "yearly_group"
	PaymentTypeIndividualSession = "individual_session"
	PaymentTypeStorePurchase     = "store_purchase"
	PaymentTypeEventRegistration = "event_registration"
	PaymentTypeOther             = "other"
)

// ValidPaymentTypes 所有合法支付类别
var ValidPaymentTypes = []string{
	PaymentTypeMonthlyGroup,
	PaymentTypeYearlyGroup,
	PaymentTypeIndividualSession,
	PaymentTypeStorePurchase,
	PaymentTypeEventRegistration,
	PaymentTypeOther,
}

// IsValidPaymentType 校验支付类别
func IsValidPaymentType(t string) bool {
	for _, v := range ValidPaymentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsGroupPaymentType 团体类支付（重复检测需要精确比对学生集合）
func IsGroupPaymentType(t string) bool {
	return t == PaymentTypeMonthlyGroup || t == PaymentTypeYearlyGroup
}

// Payment 支付记录。创建时为 pending，由支付网关回调置为终态，终态后不再变更。
// 不变式：total_cents = subtotal_cents - discount_cents，且 discount_cents <= subtotal_cents。
type Payment struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	FamilyID       int64      `gorm:"not null;index" json:"family_id"`
	Type           string     `gorm:"size:30;not null;index" json:"type"`
	Status         string     `gorm:"size:20;default:pending;index" json:"status"`
	SubtotalCents  int64      `gorm:"not null" json:"subtotal_cents"`
	DiscountCodeID *int64     `gorm:"index" json:"discount_code_id,omitempty"`
	DiscountCents  *int64     `json:"discount_cents,omitempty"`
	TotalCents     int64      `gorm:"not null" json:"total_cents"`
	Currency       string     `gorm:"size:3;not null" json:"currency"`
	GatewayTxnID   *string    `gorm:"size:100;uniqueIndex" json:"gateway_txn_id,omitempty"`
	PaidAt         *time.Time `gorm:"index" json:"paid_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Students []*Student `gorm:"many2many:payment_students" json:"students,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsTerminal 是否已到终态
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSucceeded || p.Status == PaymentStatusFailed
}
