package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/internal/model"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *EnrollmentRepository) GetByID(id int64) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.Where("id = ?", id).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListActiveByStudentID 学生当前生效的报名记录。
// 按创建时间升序，保证多项目时档位选取结果稳定。
func (r *EnrollmentRepository) ListActiveByStudentID(studentID int64) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	err := r.db.Where("student_id = ? AND status = ?", studentID, model.EnrollmentStatusActive).
		Order("created_at ASC, id ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Enrollment{}).Where("id = ?", id).Updates(fields).Error
}
