package dto

import (
	"time"

	"github.com/qs3c/school_go_server/internal/pkg/money"
)

type StartPaymentRequest struct {
	Type          string  `json:"type" binding:"required"`
	StudentIDs    []int64 `json:"student_ids"`
	SubtotalCents int64   `json:"subtotal_cents" binding:"required"`
	DiscountCode  *string `json:"discount_code"`
	// Force 为 true 时跳过重复支付拦截（用户在提示后仍选择继续）
	Force bool `json:"force"`
}

// PendingDuplicate 命中的在途重复支付，供前端渲染"已有待支付订单"提示
type PendingDuplicate struct {
	PaymentID      int64        `json:"payment_id"`
	CreatedAt      time.Time    `json:"created_at"`
	TotalAmount    money.Money  `json:"total_amount"`
	DiscountAmount *money.Money `json:"discount_amount,omitempty"`
	StudentNames   []string     `json:"student_names"`
}

// PaymentCreated 支付单创建结果，金额交由外部网关实际扣款
type PaymentCreated struct {
	PaymentID      int64        `json:"payment_id"`
	Type           string       `json:"type"`
	Status         string       `json:"status"`
	Subtotal       money.Money  `json:"subtotal"`
	DiscountAmount *money.Money `json:"discount_amount,omitempty"`
	Total          money.Money  `json:"total"`
	CreatedAt      time.Time    `json:"created_at"`
}

// GatewayCallbackRequest 支付网关回调
type GatewayCallbackRequest struct {
	PaymentID    int64  `json:"payment_id" binding:"required"`
	GatewayTxnID string `json:"gateway_txn_id" binding:"required"`
	Succeeded    bool   `json:"succeeded"`
}

// TierQuote 下一笔应付金额及档位
type TierQuote struct {
	Amount         money.Money  `json:"amount"`
	TierLabel      string       `json:"tier_label"`
	Resolved       bool         `json:"resolved"` // false 表示未配置任何档位，金额不可信
	MonthlyAmount  *money.Money `json:"monthly_amount,omitempty"`
	YearlyAmount   *money.Money `json:"yearly_amount,omitempty"`
	SessionAmount  *money.Money `json:"session_amount,omitempty"`
	PastPayments   int64        `json:"past_payments"` // 仅用于展示（如"第3次缴费"）
}
