package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/internal/model"
)

type FamilyRepository struct {
	db *gorm.DB
}

func NewFamilyRepository(db *gorm.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

func (r *FamilyRepository) Create(family *model.Family) error {
	return r.db.Create(family).Error
}

func (r *FamilyRepository) GetByID(id int64) (*model.Family, error) {
	var family model.Family
	err := r.db.Where("id = ?", id).First(&family).Error
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *FamilyRepository) GetWithStudents(id int64) (*model.Family, error) {
	var family model.Family
	err := r.db.Preload("Students", func(db *gorm.DB) *gorm.DB {
		return db.Order("students.created_at ASC, students.id ASC")
	}).Where("id = ?", id).First(&family).Error
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *FamilyRepository) Update(family *model.Family) error {
	return r.db.Save(family).Error
}
