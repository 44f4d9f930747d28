package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/repository"
	"github.com/qs3c/school_go_server/internal/testutil"
)

// testConfig 服务层测试共用的策略配置
func testConfig() *config.Config {
	return &config.Config{
		Policy: config.PolicyConfig{
			EligibilityWindowDays:  35,
			DuplicateWindowMinutes: 60,
			Currency:               "CNY",
		},
	}
}

func TestEligibilityService_Evaluate_Trial(t *testing.T) {
	service := NewEligibilityService(nil, testConfig())

	result := service.Evaluate(1, nil, time.Now())
	assert.True(t, result.Eligible)
	assert.Equal(t, dto.EligibilityTrial, result.Reason)
	assert.Nil(t, result.LastPaymentDate)
}

func TestEligibilityService_Evaluate_PaidWithinWindow(t *testing.T) {
	service := NewEligibilityService(nil, testConfig())

	today := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	paidAt := today.AddDate(0, 0, -10)
	payments := []*model.Payment{
		{PaidAt: &paidAt, Status: model.PaymentStatusSucceeded},
	}

	result := service.Evaluate(1, payments, today)
	assert.True(t, result.Eligible)
	assert.Equal(t, dto.EligibilityPaid, result.Reason)
	require.NotNil(t, result.LastPaymentDate)
	assert.Equal(t, paidAt, *result.LastPaymentDate)
}

func TestEligibilityService_Evaluate_ExactlyAtWindowBoundary(t *testing.T) {
	service := NewEligibilityService(nil, testConfig())

	// 刚好 35 天前，边界含当天，仍视为窗口内
	today := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	paidAt := time.Date(2026, 7, 27, 0, 30, 0, 0, time.UTC)
	payments := []*model.Payment{{PaidAt: &paidAt}}

	result := service.Evaluate(1, payments, today)
	assert.True(t, result.Eligible)
	assert.Equal(t, dto.EligibilityPaid, result.Reason)
}

func TestEligibilityService_Evaluate_OneDayPastWindow(t *testing.T) {
	service := NewEligibilityService(nil, testConfig())

	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	paidAt := today.AddDate(0, 0, -36)
	payments := []*model.Payment{{PaidAt: &paidAt}}

	result := service.Evaluate(1, payments, today)
	assert.False(t, result.Eligible)
	assert.Equal(t, dto.EligibilityExpired, result.Reason)
	require.NotNil(t, result.LastPaymentDate)
}

func TestEligibilityService_Evaluate_SkipsNilPaidAt(t *testing.T) {
	service := NewEligibilityService(nil, testConfig())

	today := time.Now()
	old := today.AddDate(0, 0, -40)
	payments := []*model.Payment{
		{PaidAt: nil},
		{PaidAt: &old},
	}

	// 第一条无支付日期，最近一次应取第二条
	result := service.Evaluate(1, payments, today)
	assert.False(t, result.Eligible)
	assert.Equal(t, dto.EligibilityExpired, result.Reason)
}

func TestEligibilityService_Evaluate_AllNilPaidAtIsTrial(t *testing.T) {
	service := NewEligibilityService(nil, testConfig())

	payments := []*model.Payment{
		{PaidAt: nil},
		{PaidAt: nil},
	}

	result := service.Evaluate(1, payments, time.Now())
	assert.True(t, result.Eligible)
	assert.Equal(t, dto.EligibilityTrial, result.Reason)
}

func TestEligibilityService_EvaluateStudent_FromStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	paymentRepo := repository.NewPaymentRepository(db)
	service := NewEligibilityService(paymentRepo, testConfig())

	family := testutil.TestFamily(t, db)
	student := testutil.TestStudent(t, db, family.ID)

	// 先是一笔较早的成功支付，再补一笔窗口内的
	oldPaid := time.Now().AddDate(0, 0, -60)
	testutil.TestPayment(t, db, family.ID,
		testutil.WithPaidAt(oldPaid),
		testutil.WithStudents(student),
	)
	recentPaid := time.Now().AddDate(0, 0, -5)
	testutil.TestPayment(t, db, family.ID,
		testutil.WithPaidAt(recentPaid),
		testutil.WithStudents(student),
	)

	result, err := service.EvaluateStudent(student.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Equal(t, dto.EligibilityPaid, result.Reason)
}

func TestEligibilityService_EvaluateStudent_PendingDoesNotCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	paymentRepo := repository.NewPaymentRepository(db)
	service := NewEligibilityService(paymentRepo, testConfig())

	family := testutil.TestFamily(t, db)
	student := testutil.TestStudent(t, db, family.ID)

	// 在途订单不构成支付历史
	testutil.TestPayment(t, db, family.ID,
		testutil.WithPaymentStatus(model.PaymentStatusPending),
		testutil.WithStudents(student),
	)

	result, err := service.EvaluateStudent(student.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, dto.EligibilityTrial, result.Reason)
}
