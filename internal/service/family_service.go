package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/repository"
)

// FamilyService 组合资格、档位与折扣可用性，产出家庭支付总览
type FamilyService struct {
	familyRepo         *repository.FamilyRepository
	discountRepo       *repository.DiscountRepository
	eligibilityService *EligibilityService
	tierService        *TierService
	cfg                *config.Config
}

func NewFamilyService(
	familyRepo *repository.FamilyRepository,
	discountRepo *repository.DiscountRepository,
	eligibilityService *EligibilityService,
	tierService *TierService,
	cfg *config.Config,
) *FamilyService {
	return &FamilyService{
		familyRepo:         familyRepo,
		discountRepo:       discountRepo,
		eligibilityService: eligibilityService,
		tierService:        tierService,
		cfg:                cfg,
	}
}

// Aggregate 家庭支付总览。
// 单个学生的计算失败记入该学生的 Error 字段，不影响其他学生（部分成功）。
// needs_payment：trial 或 expired 为 true。trial 学生可以主动付费转正，
// expired 学生必须付费才能继续上课；窗口内的 paid 学生暂不需要新支付。
func (s *FamilyService) Aggregate(familyID int64) (*dto.FamilyPaymentSummary, error) {
	family, err := s.familyRepo.GetWithStudents(familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, err
	}

	today := time.Now()
	summary := &dto.FamilyPaymentSummary{
		FamilyID:   family.ID,
		FamilyName: family.Name,
		Students:   make([]*dto.StudentPaymentStatus, 0, len(family.Students)),
	}

	for _, st := range family.Students {
		status := &dto.StudentPaymentStatus{
			StudentID:      st.ID,
			StudentName:    st.Name,
			SessionBalance: st.SessionBalance,
		}

		eligibility, err := s.eligibilityService.EvaluateStudent(st.ID, today)
		if err != nil {
			// 读不到支付历史时不得臆造资格，保守按"需付费、不可上课"呈现
			status.Error = "资格计算失败"
			status.NeedsPayment = true
			summary.Students = append(summary.Students, status)
			continue
		}
		status.Eligibility = eligibility
		status.NeedsPayment = eligibility.Reason == dto.EligibilityTrial || eligibility.Reason == dto.EligibilityExpired

		quote, err := s.tierService.ResolveStudent(st.ID)
		if err != nil {
			status.Error = "缴费金额解析失败"
			summary.Students = append(summary.Students, status)
			continue
		}
		status.NextAmount = quote.Amount
		status.TierLabel = quote.TierLabel
		status.AmountResolved = quote.Resolved
		status.PastPaymentCount = quote.PastPayments

		summary.Students = append(summary.Students, status)
	}

	// 廉价存在性检查：此时小计未知，不做完整的折扣金额计算
	hasDiscounts, err := s.discountRepo.ExistsAvailable(familyID, today)
	if err != nil {
		return nil, err
	}
	summary.HasAvailableDiscounts = hasDiscounts

	return summary, nil
}
