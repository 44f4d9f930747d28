package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/internal/model"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.db.Create(event).Error
}

func (r *EventRepository) GetByID(id int64) (*model.Event, error) {
	var event model.Event
	err := r.db.Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListUpcoming 未开始的活动列表
func (r *EventRepository) ListUpcoming(now time.Time) ([]*model.Event, error) {
	var events []*model.Event
	err := r.db.Where("start_at >= ?", now).Order("start_at ASC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Event{}).Where("id = ?", id).Updates(fields).Error
}

func (r *EventRepository) CountRegistrations(eventID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.EventRegistration{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (r *EventRepository) ExistsRegistration(eventID, studentID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.EventRegistration{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *EventRepository) CreateRegistration(reg *model.EventRegistration) error {
	return r.db.Create(reg).Error
}
