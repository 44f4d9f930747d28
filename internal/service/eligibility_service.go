package service

import (
	"time"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/repository"
)

// EligibilityService 根据成功支付历史判定学生当前的上课资格
type EligibilityService struct {
	paymentRepo *repository.PaymentRepository
	cfg         *config.Config
}

func NewEligibilityService(paymentRepo *repository.PaymentRepository, cfg *config.Config) *EligibilityService {
	return &EligibilityService{
		paymentRepo: paymentRepo,
		cfg:         cfg,
	}
}

// Evaluate 按支付日期倒序的成功支付记录判定资格。
// 无任何成功支付 → trial（首次体验，可上课）；
// 最近一次支付在有效窗口内（边界含当天）→ paid；否则 → expired。
// 支付日期为空的记录不参与"最近一次"的计算；并列日期保持调用方给定的顺序，不做二次排序。
func (s *EligibilityService) Evaluate(studentID int64, payments []*model.Payment, today time.Time) *dto.StudentEligibility {
	var mostRecent *time.Time
	for _, p := range payments {
		if p.PaidAt == nil {
			continue
		}
		mostRecent = p.PaidAt
		break
	}

	if mostRecent == nil {
		return &dto.StudentEligibility{
			StudentID: studentID,
			Eligible:  true,
			Reason:    dto.EligibilityTrial,
		}
	}

	cutoff := truncateToDay(today).AddDate(0, 0, -s.cfg.Policy.EligibilityWindowDays)
	if !truncateToDay(*mostRecent).Before(cutoff) {
		return &dto.StudentEligibility{
			StudentID:       studentID,
			Eligible:        true,
			Reason:          dto.EligibilityPaid,
			LastPaymentDate: mostRecent,
		}
	}

	return &dto.StudentEligibility{
		StudentID:       studentID,
		Eligible:        false,
		Reason:          dto.EligibilityExpired,
		LastPaymentDate: mostRecent,
	}
}

// EvaluateStudent 读取支付历史后判定。
// 存储读取失败时原样返回错误，调用方按"不可上课"处理，绝不降级为 trial。
func (s *EligibilityService) EvaluateStudent(studentID int64, today time.Time) (*dto.StudentEligibility, error) {
	payments, err := s.paymentRepo.ListSucceededByStudentID(studentID)
	if err != nil {
		return nil, err
	}
	return s.Evaluate(studentID, payments, today), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
