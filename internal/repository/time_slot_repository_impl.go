package repository

import (
	"errors"
	"time"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type timeSlotRepository struct{}

func NewTimeSlotRepository() domainRepo.TimeSlotRepository {
	return &timeSlotRepository{}
}

func (r *timeSlotRepository) CreateBatch(db *gorm.DB, slots []entity.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return db.Create(&slots).Error
}

func (r *timeSlotRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.Where("doctor_id = ? AND date = ?", doctorID, date).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *timeSlotRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := db.Where("appointment_id = ?", appointmentID).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.SlotStatus, appointmentID *uuid.UUID) error {
	return db.Model(&entity.TimeSlot{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"appointment_id": appointmentID,
		}).Error
}

// MarkBookedIfAvailable flips a slot to booked only while it is still
// available. Zero rows affected means another client won the slot.
func (r *timeSlotRepository) MarkBookedIfAvailable(db *gorm.DB, id uuid.UUID, appointmentID uuid.UUID) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("id = ? AND status = ?", id, entity.SlotStatusAvailable).
		Updates(map[string]interface{}{
			"status":         entity.SlotStatusBooked,
			"appointment_id": appointmentID,
		})
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) DeleteByIDs(db *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	// booked slots are never deleted, even if a caller passes one
	result := db.Where("id IN ? AND status != ?", ids, entity.SlotStatusBooked).
		Delete(&entity.TimeSlot{})
	return result.RowsAffected, result.Error
}
