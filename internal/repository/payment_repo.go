package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetByIDWithStudents(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Preload("Students").Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Payment{}).Where("id = ?", id).Updates(fields).Error
}

// ListSucceededByStudentID 学生的成功支付记录，按支付日期倒序。
// paid_at 为空的记录排在末尾，由上层在计算"最近一次"前剔除。
func (r *PaymentRepository) ListSucceededByStudentID(studentID int64) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.
		Joins("JOIN payment_students ps ON ps.payment_id = payments.id").
		Where("ps.student_id = ? AND payments.status = ?", studentID, model.PaymentStatusSucceeded).
		Order("payments.paid_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// CountSucceededByStudentID 学生历史成功支付次数
func (r *PaymentRepository) CountSucceededByStudentID(studentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Payment{}).
		Joins("JOIN payment_students ps ON ps.payment_id = payments.id").
		Where("ps.student_id = ? AND payments.status = ?", studentID, model.PaymentStatusSucceeded).
		Count(&count).Error
	return count, err
}

// ListPendingSince 时间窗口内该家庭、该类别的在途支付，最新的在前
func (r *PaymentRepository) ListPendingSince(familyID int64, paymentType string, since time.Time) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Preload("Students").
		Where("family_id = ? AND type = ? AND status = ? AND created_at >= ?",
			familyID, paymentType, model.PaymentStatusPending, since).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ExpireStalePending 将超期的在途支付置为失败，返回影响行数（cleanup 定时任务调用）
func (r *PaymentRepository) ExpireStalePending(before time.Time) (int64, error) {
	result := r.db.Model(&model.Payment{}).
		Where("status = ? AND created_at < ?", model.PaymentStatusPending, before).
		Update("status", model.PaymentStatusFailed)
	return result.RowsAffected, result.Error
}
