package service

import (
	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/pkg/money"
	"github.com/qs3c/school_go_server/internal/repository"
)

// 计费档位标签
const (
	TierMonthly           = "Monthly"
	TierYearly            = "Yearly"
	TierIndividualSession = "Individual Session"
)

// TierService 解析学生下一笔应付金额与计费档位
type TierService struct {
	enrollmentRepo *repository.EnrollmentRepository
	paymentRepo    *repository.PaymentRepository
	cfg            *config.Config
}

func NewTierService(
	enrollmentRepo *repository.EnrollmentRepository,
	paymentRepo *repository.PaymentRepository,
	cfg *config.Config,
) *TierService {
	return &TierService{
		enrollmentRepo: enrollmentRepo,
		paymentRepo:    paymentRepo,
		cfg:            cfg,
	}
}

// Resolve 档位选取固定为 月付 > 年付 > 单次课 的产品策略顺序，
// 取该优先级下第一个配置了金额的报名记录；金额大小和报名先后不改变优先级。
// 三档都未配置时返回零值金额 + Monthly 标签，并以 Resolved=false 告知调用方
// 金额未解析，禁止静默按零元收费。pastPayments 仅用于展示，不影响档位。
func (s *TierService) Resolve(enrollments []*model.Enrollment, pastPayments int64) *dto.TierQuote {
	currency := s.cfg.Policy.Currency

	quote := &dto.TierQuote{
		Amount:       money.Zero(currency),
		TierLabel:    TierMonthly,
		Resolved:     false,
		PastPayments: pastPayments,
	}

	// 各档位的展示金额取稳定顺序下第一个配置值
	for _, e := range enrollments {
		if quote.MonthlyAmount == nil && e.MonthlyAmountCents != nil {
			m := money.FromMinorUnits(*e.MonthlyAmountCents, currency)
			quote.MonthlyAmount = &m
		}
		if quote.YearlyAmount == nil && e.YearlyAmountCents != nil {
			m := money.FromMinorUnits(*e.YearlyAmountCents, currency)
			quote.YearlyAmount = &m
		}
		if quote.SessionAmount == nil && e.SessionAmountCents != nil {
			m := money.FromMinorUnits(*e.SessionAmountCents, currency)
			quote.SessionAmount = &m
		}
	}

	switch {
	case quote.MonthlyAmount != nil:
		quote.Amount = *quote.MonthlyAmount
		quote.TierLabel = TierMonthly
		quote.Resolved = true
	case quote.YearlyAmount != nil:
		quote.Amount = *quote.YearlyAmount
		quote.TierLabel = TierYearly
		quote.Resolved = true
	case quote.SessionAmount != nil:
		quote.Amount = *quote.SessionAmount
		quote.TierLabel = TierIndividualSession
		quote.Resolved = true
	}

	return quote
}

// ResolveStudent 读取学生生效报名与历史支付次数后解析
func (s *TierService) ResolveStudent(studentID int64) (*dto.TierQuote, error) {
	enrollments, err := s.enrollmentRepo.ListActiveByStudentID(studentID)
	if err != nil {
		return nil, err
	}

	pastPayments, err := s.paymentRepo.CountSucceededByStudentID(studentID)
	if err != nil {
		return nil, err
	}

	return s.Resolve(enrollments, pastPayments), nil
}
