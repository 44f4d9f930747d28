package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/internal/model"
)

type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *DiscountRepository) WithTx(tx *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: tx}
}

// UsageExhausted 按优惠码的限额范围统计核销次数并判断是否已达上限。
// 统计一律实时查库，不读缓存。
func (r *DiscountRepository) UsageExhausted(code *model.DiscountCode, familyID int64, studentID *int64) (bool, error) {
	limit := code.UsageLimit()
	if limit == 0 {
		return false, nil
	}

	var count int64
	var err error
	if code.Scope == model.DiscountScopePerStudent {
		if studentID == nil {
			return true, nil
		}
		count, err = r.CountUsageByStudent(code.ID, *studentID)
	} else {
		count, err = r.CountUsageByFamily(code.ID, familyID)
	}
	if err != nil {
		return false, err
	}

	return count >= int64(limit), nil
}

func (r *DiscountRepository) Create(code *model.DiscountCode) error {
	return r.db.Create(code).Error
}

func (r *DiscountRepository) GetByID(id int64) (*model.DiscountCode, error) {
	var dc model.DiscountCode
	err := r.db.Where("id = ?", id).First(&dc).Error
	if err != nil {
		return nil, err
	}
	return &dc, nil
}

func (r *DiscountRepository) GetByCode(code string) (*model.DiscountCode, error) {
	var dc model.DiscountCode
	err := r.db.Where("code = ?", code).First(&dc).Error
	if err != nil {
		return nil, err
	}
	return &dc, nil
}

// ListCandidates 家庭可见的候选优惠码（激活、在有效期内、全局或本家庭专属）。
// 次级排序键固定为创建时间升序，节省金额并列时以此定序，不依赖存储层的隐式顺序。
func (r *DiscountRepository) ListCandidates(familyID int64, now time.Time) ([]*model.DiscountCode, error) {
	var codes []*model.DiscountCode
	err := r.db.
		Where("is_active = ?", true).
		Where("valid_from IS NULL OR valid_from <= ?", now).
		Where("valid_until IS NULL OR valid_until >= ?", now).
		Where("family_id IS NULL OR family_id = ?", familyID).
		Order("created_at ASC, id ASC").
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// ExistsAvailable 该家庭是否存在任何可用优惠码（廉价存在性检查，不算金额）
func (r *DiscountRepository) ExistsAvailable(familyID int64, now time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.DiscountCode{}).
		Where("is_active = ?", true).
		Where("valid_from IS NULL OR valid_from <= ?", now).
		Where("valid_until IS NULL OR valid_until >= ?", now).
		Where("family_id IS NULL OR family_id = ?", familyID).
		Count(&count).Error
	return count > 0, err
}

func (r *DiscountRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.DiscountCode{}).Where("id = ?", id).Updates(fields).Error
}

// CountUsageByFamily 以存储为准的家庭维度核销次数
func (r *DiscountRepository) CountUsageByFamily(codeID, familyID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.DiscountUsage{}).
		Where("discount_code_id = ? AND family_id = ?", codeID, familyID).
		Count(&count).Error
	return count, err
}

// CountUsageByStudent 以存储为准的学生维度核销次数
func (r *DiscountRepository) CountUsageByStudent(codeID, studentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.DiscountUsage{}).
		Where("discount_code_id = ? AND student_id = ?", codeID, studentID).
		Count(&count).Error
	return count, err
}

func (r *DiscountRepository) CreateUsage(usage *model.DiscountUsage) error {
	return r.db.Create(usage).Error
}
