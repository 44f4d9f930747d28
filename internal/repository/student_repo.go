package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/internal/model"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.db.Create(student).Error
}

func (r *StudentRepository) GetByID(id int64) (*model.Student, error) {
	var student model.Student
	err := r.db.Where("id = ?", id).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) ListByFamilyID(familyID int64) ([]*model.Student, error) {
	var students []*model.Student
	err := r.db.Where("family_id = ?", familyID).Order("created_at ASC").Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

// ListByIDs 按 ID 批量查询，保留传入顺序无要求
func (r *StudentRepository) ListByIDs(ids []int64) ([]*model.Student, error) {
	var students []*model.Student
	err := r.db.Where("id IN ?", ids).Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}
