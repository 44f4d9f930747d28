package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qs3c/school_go_server/internal/pkg/money"
)

// 折扣类型
const (
	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
)

// 使用类型
const (
	DiscountUsageOneTime = "one_time"
	DiscountUsageOngoing = "ongoing"
)

// 限额统计范围
const (
	DiscountScopePerStudent = "per_student"
	DiscountScopePerFamily  = "per_family"
)

// DiscountCode 优惠码。标识创建后不变，激活状态与用量可变。
// 折扣值按类型分列存储（percent_off / amount_off_cents），通过 Value 取带标签的变体，
// 避免同一字段在不同类型下含义漂移。
type DiscountCode struct {
	ID             int64           `gorm:"primaryKey" json:"id"`
	Code           string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	DiscountType   string          `gorm:"size:20;not null" json:"discount_type"`
	PercentOff     decimal.Decimal `gorm:"type:decimal(5,2)" json:"percent_off"`
	AmountOffCents int64           `json:"amount_off_cents"`
	UsageType      string          `gorm:"size:20;default:ongoing" json:"usage_type"`
	MaxUses        *int            `json:"max_uses,omitempty"`
	Scope          string          `gorm:"size:20;default:per_family" json:"scope"`
	ApplicableTo   string          `gorm:"size:200;not null" json:"applicable_to"` // 逗号分隔的支付类别列表
	FamilyID       *int64          `gorm:"index" json:"family_id,omitempty"`       // 为空表示全局可用
	ValidFrom      *time.Time      `json:"valid_from,omitempty"`
	ValidUntil     *time.Time      `json:"valid_until,omitempty"`
	IsActive       bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (DiscountCode) TableName() string {
	return "discount_codes"
}

// AppliesTo 该优惠码是否适用于指定支付类别
func (c *DiscountCode) AppliesTo(paymentType string) bool {
	for _, t := range strings.Split(c.ApplicableTo, ",") {
		if strings.TrimSpace(t) == paymentType {
			return true
		}
	}
	return false
}

// InValidWindow 当前时间是否在有效期内
func (c *DiscountCode) InValidWindow(now time.Time) bool {
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && c.ValidUntil.Before(now) {
		return false
	}
	return true
}

// DiscountValue 带标签的折扣值变体
type DiscountValue struct {
	Type    string
	Percent decimal.Decimal // Type == percentage 时有效
	Amount  money.Money     // Type == fixed_amount 时有效
}

// Value 取折扣值变体
func (c *DiscountCode) Value(currency string) DiscountValue {
	if c.DiscountType == DiscountTypePercentage {
		return DiscountValue{Type: DiscountTypePercentage, Percent: c.PercentOff}
	}
	return DiscountValue{
		Type:   DiscountTypeFixedAmount,
		Amount: money.FromMinorUnits(c.AmountOffCents, currency),
	}
}

// UsageLimit 按使用类型折算的次数上限，0 表示不限
func (c *DiscountCode) UsageLimit() int {
	if c.UsageType == DiscountUsageOneTime {
		return 1
	}
	if c.MaxUses != nil {
		return *c.MaxUses
	}
	return 0
}

// DiscountUsage 优惠码核销记录，用量统计以本表为准
type DiscountUsage struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	DiscountCodeID int64     `gorm:"not null;index" json:"discount_code_id"`
	FamilyID       int64     `gorm:"not null;index" json:"family_id"`
	StudentID      *int64    `gorm:"index" json:"student_id,omitempty"`
	PaymentID      int64     `gorm:"not null;index" json:"payment_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (DiscountUsage) TableName() string {
	return "discount_usages"
}
