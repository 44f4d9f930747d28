package dto

import (
	"github.com/shopspring/decimal"

	"github.com/qs3c/school_go_server/internal/pkg/money"
)

// AvailableDiscount 可用优惠码及其针对当前小计的节省金额
type AvailableDiscount struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	DiscountType    string          `json:"discount_type"`
	PercentOff      decimal.Decimal `json:"percent_off,omitempty"`
	AmountOff       *money.Money    `json:"amount_off,omitempty"`
	ComputedSavings money.Money     `json:"computed_savings"`
}

// AppliedDiscount 校验通过的优惠码与最终折扣金额
type AppliedDiscount struct {
	Code           string      `json:"code"`
	Name           string      `json:"name"`
	DiscountCodeID int64       `json:"discount_code_id"`
	DiscountAmount money.Money `json:"discount_amount"`
}

type ValidateDiscountRequest struct {
	Code          string `json:"code" binding:"required"`
	StudentID     *int64 `json:"student_id"`
	PaymentType   string `json:"payment_type" binding:"required"`
	SubtotalCents int64  `json:"subtotal_cents" binding:"required"`
}
