package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMinorUnits_RoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 3, 99, 100, 12000, 9999999999} {
		m := FromMinorUnits(n, "CNY")
		assert.Equal(t, n, m.MinorUnits())
		assert.Equal(t, "CNY", m.Currency)
	}
}

func TestAdd(t *testing.T) {
	a := FromMinorUnits(5000, "CNY")
	b := FromMinorUnits(1234, "CNY")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(6234), sum.MinorUnits())

	// 原值不变
	assert.Equal(t, int64(5000), a.MinorUnits())
	assert.Equal(t, int64(1234), b.MinorUnits())
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	a := FromMinorUnits(100, "CNY")
	b := FromMinorUnits(100, "USD")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestSub(t *testing.T) {
	a := FromMinorUnits(20000, "CNY")
	b := FromMinorUnits(2000, "CNY")

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(18000), diff.MinorUnits())
}

func TestMulInt(t *testing.T) {
	m := FromMinorUnits(1500, "CNY")

	product, err := m.MulInt(4)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), product.MinorUnits())

	product, err = m.MulInt(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), product.MinorUnits())
}

func TestMulInt_Negative(t *testing.T) {
	m := FromMinorUnits(1500, "CNY")

	_, err := m.MulInt(-1)
	assert.ErrorIs(t, err, ErrNegativeMultiply)
}

func TestPercentageOf(t *testing.T) {
	// 200.00 的 10% = 20.00
	m := FromMinorUnits(20000, "CNY")
	result := m.PercentageOf(decimal.NewFromInt(10))
	assert.Equal(t, int64(2000), result.MinorUnits())
}

func TestPercentageOf_RoundHalfUp(t *testing.T) {
	// 0.03 的 10% = 0.3 分，四舍五入到 0 分
	m := FromMinorUnits(3, "CNY")
	result := m.PercentageOf(decimal.NewFromInt(10))
	assert.Equal(t, int64(0), result.MinorUnits())

	// 0.05 的 10% = 0.5 分，round-half-up 进到 1 分
	m = FromMinorUnits(5, "CNY")
	result = m.PercentageOf(decimal.NewFromInt(10))
	assert.Equal(t, int64(1), result.MinorUnits())

	// 1.25 的 33% = 41.25 分，舍到 41 分
	m = FromMinorUnits(125, "CNY")
	result = m.PercentageOf(decimal.NewFromInt(33))
	assert.Equal(t, int64(41), result.MinorUnits())
}

func TestPercentageOf_FractionalPercent(t *testing.T) {
	// 100.00 的 12.5% = 12.50
	m := FromMinorUnits(10000, "CNY")
	result := m.PercentageOf(decimal.RequireFromString("12.5"))
	assert.Equal(t, int64(1250), result.MinorUnits())
}

func TestCmp(t *testing.T) {
	a := FromMinorUnits(100, "CNY")
	b := FromMinorUnits(200, "CNY")

	c, err := a.Cmp(b)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = b.Cmp(a)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = a.Cmp(FromMinorUnits(100, "CNY"))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	_, err = a.Cmp(FromMinorUnits(100, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestSigns(t *testing.T) {
	assert.True(t, FromMinorUnits(1, "CNY").IsPositive())
	assert.False(t, FromMinorUnits(0, "CNY").IsPositive())
	assert.True(t, FromMinorUnits(-1, "CNY").IsNegative())
	assert.True(t, Zero("CNY").IsZero())
}

func TestString(t *testing.T) {
	assert.Equal(t, "120.00 CNY", FromMinorUnits(12000, "CNY").String())
	assert.Equal(t, "0.05 CNY", FromMinorUnits(5, "CNY").String())
}
