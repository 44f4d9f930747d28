package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/internal/model"
)

// TestFamily 创建测试家庭
func TestFamily(t *testing.T, db *gorm.DB, opts ...func(*model.Family)) *model.Family {
	t.Helper()

	family := &model.Family{
		Name:  fmt.Sprintf("测试家庭_%d", time.Now().UnixNano()%100000),
		Phone: "13800000000",
	}

	for _, opt := range opts {
		opt(family)
	}

	if err := db.Create(family).Error; err != nil {
		t.Fatalf("Failed to create test family: %v", err)
	}

	return family
}

// WithFamilyName 设置家庭名称
func WithFamilyName(name string) func(*model.Family) {
	return func(f *model.Family) {
		f.Name = name
	}
}

// TestStudent 创建测试学生
func TestStudent(t *testing.T, db *gorm.DB, familyID int64, opts ...func(*model.Student)) *model.Student {
	t.Helper()

	student := &model.Student{
		FamilyID: familyID,
		Name:     fmt.Sprintf("测试学生_%d", time.Now().UnixNano()%100000),
	}

	for _, opt := range opts {
		opt(student)
	}

	if err := db.Create(student).Error; err != nil {
		t.Fatalf("Failed to create test student: %v", err)
	}

	return student
}

// WithStudentName 设置学生姓名
func WithStudentName(name string) func(*model.Student) {
	return func(s *model.Student) {
		s.Name = name
	}
}

// WithSessionBalance 设置剩余单次课余额
func WithSessionBalance(balance int) func(*model.Student) {
	return func(s *model.Student) {
		s.SessionBalance = balance
	}
}

// TestUser 创建测试用户（家长角色）
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("test_%d@example.com", time.Now().UnixNano())
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", time.Now().UnixNano()%100000),
		Email:        &email,
		PasswordHash: &passwordHash,
		Role:         model.RoleParent,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUserFamily 关联家庭
func WithUserFamily(familyID int64) func(*model.User) {
	return func(u *model.User) {
		u.FamilyID = &familyID
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// TestEnrollment 创建测试报名记录
func TestEnrollment(t *testing.T, db *gorm.DB, studentID int64, opts ...func(*model.Enrollment)) *model.Enrollment {
	t.Helper()

	enrollment := &model.Enrollment{
		StudentID:   studentID,
		ProgramName: fmt.Sprintf("测试项目_%d", time.Now().UnixNano()%100000),
		Status:      model.EnrollmentStatusActive,
	}

	for _, opt := range opts {
		opt(enrollment)
	}

	if err := db.Create(enrollment).Error; err != nil {
		t.Fatalf("Failed to create test enrollment: %v", err)
	}

	return enrollment
}

// WithMonthlyAmount 设置月付价格
func WithMonthlyAmount(cents int64) func(*model.Enrollment) {
	return func(e *model.Enrollment) {
		e.MonthlyAmountCents = &cents
	}
}

// WithYearlyAmount 设置年付价格
func WithYearlyAmount(cents int64) func(*model.Enrollment) {
	return func(e *model.Enrollment) {
		e.YearlyAmountCents = &cents
	}
}

// WithSessionAmount 设置单次课价格
func WithSessionAmount(cents int64) func(*model.Enrollment) {
	return func(e *model.Enrollment) {
		e.SessionAmountCents = &cents
	}
}

// WithEnrollmentStatus 设置报名状态
func WithEnrollmentStatus(status string) func(*model.Enrollment) {
	return func(e *model.Enrollment) {
		e.Status = status
	}
}

// TestPayment 创建测试支付记录
func TestPayment(t *testing.T, db *gorm.DB, familyID int64, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		FamilyID:      familyID,
		Type:          model.PaymentTypeMonthlyGroup,
		Status:        model.PaymentStatusPending,
		SubtotalCents: 10000,
		TotalCents:    10000,
		Currency:      "CNY",
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithPaymentType 设置支付类别
func WithPaymentType(paymentType string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Type = paymentType
	}
}

// WithPaymentStatus 设置支付状态
func WithPaymentStatus(status string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = status
	}
}

// WithPaidAt 置为支付成功并记录支付时间
func WithPaidAt(paidAt time.Time) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = model.PaymentStatusSucceeded
		p.PaidAt = &paidAt
	}
}

// WithAmounts 设置小计与总价
func WithAmounts(subtotalCents, totalCents int64) func(*model.Payment) {
	return func(p *model.Payment) {
		p.SubtotalCents = subtotalCents
		p.TotalCents = totalCents
	}
}

// WithStudents 关联学生
func WithStudents(students ...*model.Student) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Students = students
	}
}

// WithCreatedAt 设置创建时间（重复检测的时间窗口测试用）
func WithCreatedAt(createdAt time.Time) func(*model.Payment) {
	return func(p *model.Payment) {
		p.CreatedAt = createdAt
	}
}

// TestDiscountCode 创建测试优惠码
func TestDiscountCode(t *testing.T, db *gorm.DB, opts ...func(*model.DiscountCode)) *model.DiscountCode {
	t.Helper()

	code := &model.DiscountCode{
		Code:         fmt.Sprintf("TEST%d", time.Now().UnixNano()%1000000),
		Name:         "测试优惠码",
		DiscountType: model.DiscountTypePercentage,
		PercentOff:   decimal.NewFromInt(10),
		UsageType:    model.DiscountUsageOngoing,
		Scope:        model.DiscountScopePerFamily,
		ApplicableTo: model.PaymentTypeMonthlyGroup,
		IsActive:     true,
	}

	for _, opt := range opts {
		opt(code)
	}

	// gorm 的 default:true 标签会在插入时忽略零值 false，且 Create 会把数据库默认值
	// 回写到结构体，需在插入前记录意图并在插入后补写一次
	wantInactive := !code.IsActive

	if err := db.Create(code).Error; err != nil {
		t.Fatalf("Failed to create test discount code: %v", err)
	}

	if wantInactive {
		if err := db.Model(code).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test discount code: %v", err)
		}
		code.IsActive = false
	}

	return code
}

// WithCode 设置码值
func WithCode(codeStr string) func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.Code = codeStr
	}
}

// WithPercentOff 设置百分比折扣
func WithPercentOff(percent decimal.Decimal) func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.DiscountType = model.DiscountTypePercentage
		c.PercentOff = percent
	}
}

// WithAmountOff 设置固定金额折扣
func WithAmountOff(cents int64) func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.DiscountType = model.DiscountTypeFixedAmount
		c.AmountOffCents = cents
	}
}

// WithApplicableTo 设置适用支付类别（逗号分隔）
func WithApplicableTo(types string) func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.ApplicableTo = types
	}
}

// WithUsageType 设置使用类型
func WithUsageType(usageType string) func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.UsageType = usageType
	}
}

// WithMaxUses 设置次数上限
func WithMaxUses(maxUses int) func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.MaxUses = &maxUses
	}
}

// WithScope 设置限额统计范围
func WithScope(scope string) func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.Scope = scope
	}
}

// WithDiscountFamily 绑定到指定家庭
func WithDiscountFamily(familyID int64) func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.FamilyID = &familyID
	}
}

// WithValidWindow 设置有效期
func WithValidWindow(from, until *time.Time) func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.ValidFrom = from
		c.ValidUntil = until
	}
}

// WithInactive 置为停用
func WithInactive() func(*model.DiscountCode) {
	return func(c *model.DiscountCode) {
		c.IsActive = false
	}
}

// TestDiscountUsage 创建测试核销记录
func TestDiscountUsage(t *testing.T, db *gorm.DB, codeID, familyID, paymentID int64, studentID *int64) *model.DiscountUsage {
	t.Helper()

	usage := &model.DiscountUsage{
		DiscountCodeID: codeID,
		FamilyID:       familyID,
		StudentID:      studentID,
		PaymentID:      paymentID,
	}

	if err := db.Create(usage).Error; err != nil {
		t.Fatalf("Failed to create test discount usage: %v", err)
	}

	return usage
}

// TestEvent 创建测试活动
func TestEvent(t *testing.T, db *gorm.DB, opts ...func(*model.Event)) *model.Event {
	t.Helper()

	event := &model.Event{
		Title:   fmt.Sprintf("测试活动_%d", time.Now().UnixNano()%100000),
		StartAt: time.Now().Add(7 * 24 * time.Hour),
	}

	for _, opt := range opts {
		opt(event)
	}

	if err := db.Create(event).Error; err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	return event
}

// WithEventFee 设置活动费用
func WithEventFee(cents int64) func(*model.Event) {
	return func(e *model.Event) {
		e.FeeCents = cents
	}
}

// WithCapacity 设置活动名额
func WithCapacity(capacity int) func(*model.Event) {
	return func(e *model.Event) {
		e.Capacity = capacity
	}
}

// WithStartAt 设置开始时间
func WithStartAt(startAt time.Time) func(*model.Event) {
	return func(e *model.Event) {
		e.StartAt = startAt
	}
}
