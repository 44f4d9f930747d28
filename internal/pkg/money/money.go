package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCurrencyMismatch = errors.New("货币类型不一致")
	ErrNegativeMultiply = errors.New("乘数不能为负数")
)

// Money 精确的定点货币值（最小货币单位整数 + 货币代码）。
// 所有金额计算都在整数表示上进行，不经过浮点数；值不可变，运算返回新值。
type Money struct {
	Amount   int64  `json:"amount"`   // 最小货币单位数（分）
	Currency string `json:"currency"` // 货币代码
}

// FromMinorUnits 从最小货币单位构造
func FromMinorUnits(n int64, currency string) Money {
	return Money{Amount: n, Currency: currency}
}

// Zero 构造零值（免费项也必须携带结构完整的零值，不允许用 nil 绕过）
func Zero(currency string) Money {
	return Money{Amount: 0, Currency: currency}
}

// MinorUnits 返回最小货币单位数
func (m Money) MinorUnits() int64 {
	return m.Amount
}

// Add 加法
func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount + o.Amount, Currency: m.Currency}, nil
}

// Sub 减法
func (m Money) Sub(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount - o.Amount, Currency: m.Currency}, nil
}

// MulInt 乘以非负整数
func (m Money) MulInt(n int64) (Money, error) {
	if n < 0 {
		return Money{}, ErrNegativeMultiply
	}
	return Money{Amount: m.Amount * n, Currency: m.Currency}, nil
}

// PercentageOf 计算百分比金额，四舍五入到最小货币单位（round-half-up，全工程唯一舍入点）
func (m Money) PercentageOf(percent decimal.Decimal) Money {
	amount := decimal.NewFromInt(m.Amount).
		Mul(percent).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return Money{Amount: amount.IntPart(), Currency: m.Currency}
}

// Cmp 比较两个金额，返回 -1/0/1
func (m Money) Cmp(o Money) (int, error) {
	if m.Currency != o.Currency {
		return 0, ErrCurrencyMismatch
	}
	switch {
	case m.Amount < o.Amount:
		return -1, nil
	case m.Amount > o.Amount:
		return 1, nil
	default:
		return 0, nil
	}
}

// IsPositive 金额是否大于零
func (m Money) IsPositive() bool {
	return m.Amount > 0
}

// IsNegative 金额是否小于零
func (m Money) IsNegative() bool {
	return m.Amount < 0
}

// IsZero 金额是否为零
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// String 格式化为 "12.34 CNY" 形式，仅用于日志与展示
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.Amount/100, abs(m.Amount%100), m.Currency)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
