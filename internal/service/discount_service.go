package service

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/pkg/money"
	"github.com/qs3c/school_go_server/internal/repository"
)

// 优惠码校验失败原因，逐项区分，前端按原因展示具体提示
var (
	ErrDiscountNotFound       = errors.New("优惠码不存在")
	ErrDiscountInactive       = errors.New("优惠码已停用")
	ErrDiscountExpired        = errors.New("优惠码不在有效期内")
	ErrDiscountScopeMismatch  = errors.New("优惠码不适用于该家庭或学生")
	ErrDiscountUsageExhausted = errors.New("优惠码使用次数已达上限")
	ErrDiscountNotApplicable  = errors.New("优惠码不适用于该支付类别")
)

// DiscountService 优惠码的列举与提交时校验
type DiscountService struct {
	discountRepo *repository.DiscountRepository
	cfg          *config.Config
}

func NewDiscountService(discountRepo *repository.DiscountRepository, cfg *config.Config) *DiscountService {
	return &DiscountService{
		discountRepo: discountRepo,
		cfg:          cfg,
	}
}

// ListAvailable 列出当前可用的优惠码，附带针对 subtotal 计算的节省金额。
// 排序：节省金额降序；并列时保持存储返回的创建时间升序。
// subtotal 非正时直接返回空列表，折扣不得基于非正基数计算。
func (s *DiscountService) ListAvailable(familyID int64, studentID *int64, paymentType string, subtotal money.Money) ([]*dto.AvailableDiscount, error) {
	if !subtotal.IsPositive() {
		return []*dto.AvailableDiscount{}, nil
	}

	candidates, err := s.discountRepo.ListCandidates(familyID, time.Now())
	if err != nil {
		return nil, err
	}

	items := make([]*dto.AvailableDiscount, 0, len(candidates))
	for _, code := range candidates {
		if !code.AppliesTo(paymentType) {
			continue
		}
		if code.Scope == model.DiscountScopePerStudent && studentID == nil {
			continue
		}

		// 用量以存储实时统计为准，不读缓存
		exhausted, err := s.discountRepo.UsageExhausted(code, familyID, studentID)
		if err != nil {
			return nil, err
		}
		if exhausted {
			continue
		}

		items = append(items, s.buildAvailableItem(code, subtotal))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ComputedSavings.MinorUnits() > items[j].ComputedSavings.MinorUnits()
	})

	return items, nil
}

// Validate 提交时的服务端完整校验。列举结果不可信（时间推移、用量可能已被并发消耗），
// 此处独立重推每一项条件，并把折扣金额收敛到 [0, subtotal] 区间。
func (s *DiscountService) Validate(codeStr string, familyID int64, studentID *int64, subtotal money.Money, paymentType string) (*dto.AppliedDiscount, error) {
	code, err := s.discountRepo.GetByCode(codeStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}

	if err := s.CheckCode(code, familyID, studentID, paymentType, time.Now()); err != nil {
		return nil, err
	}

	exhausted, err := s.discountRepo.UsageExhausted(code, familyID, studentID)
	if err != nil {
		return nil, err
	}
	if exhausted {
		return nil, ErrDiscountUsageExhausted
	}

	return &dto.AppliedDiscount{
		Code:           code.Code,
		Name:           code.Name,
		DiscountCodeID: code.ID,
		DiscountAmount: s.clampedSavings(code, subtotal),
	}, nil
}

// CheckCode 除用量外的全部条件校验（用量检查需绑定事务时单独执行）
func (s *DiscountService) CheckCode(code *model.DiscountCode, familyID int64, studentID *int64, paymentType string, now time.Time) error {
	if !code.IsActive {
		return ErrDiscountInactive
	}
	if !code.InValidWindow(now) {
		return ErrDiscountExpired
	}
	if code.FamilyID != nil && *code.FamilyID != familyID {
		return ErrDiscountScopeMismatch
	}
	if code.Scope == model.DiscountScopePerStudent && studentID == nil {
		return ErrDiscountScopeMismatch
	}
	if !code.AppliesTo(paymentType) {
		return ErrDiscountNotApplicable
	}
	return nil
}

// computeSavings 百分比码按 subtotal 计算，固定金额码直接取面值
func (s *DiscountService) computeSavings(code *model.DiscountCode, subtotal money.Money) money.Money {
	value := code.Value(s.cfg.Policy.Currency)
	if value.Type == model.DiscountTypePercentage {
		return subtotal.PercentageOf(value.Percent)
	}
	return value.Amount
}

// clampedSavings 折扣金额不超过 subtotal，下限为零，总价不可能为负
func (s *DiscountService) clampedSavings(code *model.DiscountCode, subtotal money.Money) money.Money {
	savings := s.computeSavings(code, subtotal)
	if savings.IsNegative() {
		return money.Zero(savings.Currency)
	}
	if c, err := savings.Cmp(subtotal); err == nil && c > 0 {
		if subtotal.IsNegative() {
			return money.Zero(savings.Currency)
		}
		return subtotal
	}
	return savings
}

func (s *DiscountService) buildAvailableItem(code *model.DiscountCode, subtotal money.Money) *dto.AvailableDiscount {
	item := &dto.AvailableDiscount{
		Code:         code.Code,
		Name:         code.Name,
		DiscountType: code.DiscountType,
	}

	value := code.Value(s.cfg.Policy.Currency)
	if value.Type == model.DiscountTypePercentage {
		item.PercentOff = value.Percent
		// 百分比节省同样不超过 subtotal（折扣率超 100% 的配置按封顶处理）
		item.ComputedSavings = s.clampedSavings(code, subtotal)
	} else {
		amount := value.Amount
		item.AmountOff = &amount
		item.ComputedSavings = amount
	}

	return item
}
