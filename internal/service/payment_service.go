package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/pkg/money"
	"github.com/qs3c/school_go_server/internal/repository"
)

var (
	ErrFamilyNotFound     = errors.New("家庭不存在")
	ErrStudentNotInFamily = errors.New("学生不属于该家庭")
	ErrInvalidPaymentType = errors.New("不支持的支付类别")
	ErrNoStudents         = errors.New("未选择学生")
	ErrInvalidSubtotal    = errors.New("金额必须大于零")
	ErrPaymentNotFound    = errors.New("支付记录不存在")
	ErrPaymentTerminal    = errors.New("支付已到终态，不可再变更")
)

// PaymentService 支付单的创建、重复检测与网关回调落账。
// 实际扣款由外部支付网关完成，这里只负责记录与状态流转。
type PaymentService struct {
	db              *gorm.DB
	paymentRepo     *repository.PaymentRepository
	familyRepo      *repository.FamilyRepository
	studentRepo     *repository.StudentRepository
	discountRepo    *repository.DiscountRepository
	discountService *DiscountService
	cfg             *config.Config
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	familyRepo *repository.FamilyRepository,
	studentRepo *repository.StudentRepository,
	discountRepo *repository.DiscountRepository,
	discountService *DiscountService,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		db:              db,
		paymentRepo:     paymentRepo,
		familyRepo:      familyRepo,
		studentRepo:     studentRepo,
		discountRepo:    discountRepo,
		discountService: discountService,
		cfg:             cfg,
	}
}

// FindDuplicate 查找时间窗口内同家庭、同类别的在途支付。
// 团体类支付额外要求学生集合完全一致（与顺序无关，不是子集/超集）；
// 非团体类仅看 家庭+类别+时间窗口。命中任意一条即返回，调用方只需一条用于提示。
// 本检测是提示性的，不构成排他锁；真正的排他需要存储层唯一约束。
func (s *PaymentService) FindDuplicate(familyID int64, paymentType string, studentIDs []int64) (*dto.PendingDuplicate, error) {
	since := time.Now().Add(-time.Duration(s.cfg.Policy.DuplicateWindowMinutes) * time.Minute)

	pendings, err := s.paymentRepo.ListPendingSince(familyID, paymentType, since)
	if err != nil {
		return nil, err
	}

	for _, p := range pendings {
		if model.IsGroupPaymentType(paymentType) && !sameStudentSet(p.Students, studentIDs) {
			continue
		}
		return s.buildDuplicate(p), nil
	}

	return nil, nil
}

// StartPayment 创建待支付订单。
// 返回 (created, duplicate, err) 三元组：命中重复且未强制继续时 duplicate 非空。
// 折扣核销与订单创建放在同一事务内，提交前重查用量（乐观校验），
// 并发把名额用完时整单回滚，不信任事务外预先算好的次数。
func (s *PaymentService) StartPayment(familyID int64, req *dto.StartPaymentRequest) (*dto.PaymentCreated, *dto.PendingDuplicate, error) {
	if !model.IsValidPaymentType(req.Type) {
		return nil, nil, ErrInvalidPaymentType
	}

	currency := s.cfg.Policy.Currency
	subtotal := money.FromMinorUnits(req.SubtotalCents, currency)
	if !subtotal.IsPositive() {
		return nil, nil, ErrInvalidSubtotal
	}

	if _, err := s.familyRepo.GetByID(familyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFamilyNotFound
		}
		return nil, nil, err
	}

	if model.IsGroupPaymentType(req.Type) && len(req.StudentIDs) == 0 {
		return nil, nil, ErrNoStudents
	}

	students, err := s.loadFamilyStudents(familyID, req.StudentIDs)
	if err != nil {
		return nil, nil, err
	}

	if !req.Force {
		dup, err := s.FindDuplicate(familyID, req.Type, req.StudentIDs)
		if err != nil {
			return nil, nil, err
		}
		if dup != nil {
			return nil, dup, nil
		}
	}

	var applied *dto.AppliedDiscount
	if req.DiscountCode != nil && *req.DiscountCode != "" {
		applied, err = s.discountService.Validate(*req.DiscountCode, familyID, singleStudentID(req.StudentIDs), subtotal, req.Type)
		if err != nil {
			return nil, nil, err
		}
	}

	payment := &model.Payment{
		FamilyID:      familyID,
		Type:          req.Type,
		Status:        model.PaymentStatusPending,
		SubtotalCents: subtotal.MinorUnits(),
		TotalCents:    subtotal.MinorUnits(),
		Currency:      currency,
		Students:      students,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if applied != nil {
			code, err := s.discountRepo.WithTx(tx).GetByID(applied.DiscountCodeID)
			if err != nil {
				return err
			}

			// 乐观重查：并发请求可能已把用量耗尽
			exhausted, err := s.discountRepo.WithTx(tx).UsageExhausted(code, familyID, singleStudentID(req.StudentIDs))
			if err != nil {
				return err
			}
			if exhausted {
				return ErrDiscountUsageExhausted
			}

			total, err := subtotal.Sub(applied.DiscountAmount)
			if err != nil {
				return err
			}

			discountCents := applied.DiscountAmount.MinorUnits()
			payment.DiscountCodeID = &applied.DiscountCodeID
			payment.DiscountCents = &discountCents
			payment.TotalCents = total.MinorUnits()
		}

		if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
			return err
		}

		if applied != nil {
			usage := &model.DiscountUsage{
				DiscountCodeID: applied.DiscountCodeID,
				FamilyID:       familyID,
				StudentID:      singleStudentID(req.StudentIDs),
				PaymentID:      payment.ID,
			}
			if err := s.discountRepo.WithTx(tx).CreateUsage(usage); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return s.buildCreated(payment), nil, nil
}

// SettleFromGateway 网关回调落账。终态记录不可再变更。
func (s *PaymentService) SettleFromGateway(req *dto.GatewayCallbackRequest) error {
	payment, err := s.paymentRepo.GetByID(req.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}

	if payment.IsTerminal() {
		return ErrPaymentTerminal
	}

	fields := map[string]interface{}{
		"gateway_txn_id": req.GatewayTxnID,
	}
	if req.Succeeded {
		now := time.Now()
		fields["status"] = model.PaymentStatusSucceeded
		fields["paid_at"] = now
	} else {
		fields["status"] = model.PaymentStatusFailed
	}

	return s.paymentRepo.UpdateFields(payment.ID, fields)
}

// GetPayment 查询支付单（含学生）
func (s *PaymentService) GetPayment(id int64) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByIDWithStudents(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// loadFamilyStudents 校验学生归属并返回模型（空列表合法，非团体类可不选学生）
func (s *PaymentService) loadFamilyStudents(familyID int64, studentIDs []int64) ([]*model.Student, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	students, err := s.studentRepo.ListByIDs(studentIDs)
	if err != nil {
		return nil, err
	}
	if len(students) != len(studentIDs) {
		return nil, ErrStudentNotInFamily
	}
	for _, st := range students {
		if st.FamilyID != familyID {
			return nil, ErrStudentNotInFamily
		}
	}
	return students, nil
}

func (s *PaymentService) buildDuplicate(p *model.Payment) *dto.PendingDuplicate {
	dup := &dto.PendingDuplicate{
		PaymentID:   p.ID,
		CreatedAt:   p.CreatedAt,
		TotalAmount: money.FromMinorUnits(p.TotalCents, p.Currency),
	}
	if p.DiscountCents != nil {
		m := money.FromMinorUnits(*p.DiscountCents, p.Currency)
		dup.DiscountAmount = &m
	}
	for _, st := range p.Students {
		dup.StudentNames = append(dup.StudentNames, st.Name)
	}
	return dup
}

func (s *PaymentService) buildCreated(p *model.Payment) *dto.PaymentCreated {
	created := &dto.PaymentCreated{
		PaymentID: p.ID,
		Type:      p.Type,
		Status:    p.Status,
		Subtotal:  money.FromMinorUnits(p.SubtotalCents, p.Currency),
		Total:     money.FromMinorUnits(p.TotalCents, p.Currency),
		CreatedAt: p.CreatedAt,
	}
	if p.DiscountCents != nil {
		m := money.FromMinorUnits(*p.DiscountCents, p.Currency)
		created.DiscountAmount = &m
	}
	return created
}

// sameStudentSet 学生集合相等判断（与顺序无关）
func sameStudentSet(students []*model.Student, ids []int64) bool {
	if len(students) != len(ids) {
		return false
	}
	set := make(map[int64]bool, len(students))
	for _, st := range students {
		set[st.ID] = true
	}
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}

// singleStudentID 仅选中单个学生时返回其 ID，按学生维度限额的优惠码需要它
func singleStudentID(ids []int64) *int64 {
	if len(ids) == 1 {
		return &ids[0]
	}
	return nil
}
