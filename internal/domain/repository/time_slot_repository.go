package repository

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeSlotRepository interface {
	CreateBatch(db *gorm.DB, slots []entity.TimeSlot) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.TimeSlot, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.TimeSlot, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.SlotStatus, appointmentID *uuid.UUID) error
	// MarkBookedIfAvailable is the compare-and-set that guards concurrent
	// bookings: the status flips to booked only if it is still available.
	// Returns the number of rows affected; zero means the race was lost.
	MarkBookedIfAvailable(db *gorm.DB, id uuid.UUID, appointmentID uuid.UUID) (int64, error)
	DeleteByIDs(db *gorm.DB, ids []uuid.UUID) (int64, error)
}
