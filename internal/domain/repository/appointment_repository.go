package repository

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appt *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error
	// FindConfirmedBetween returns confirmed appointments whose slot starts
	// inside [from, to); used by the reminder sweep.
	FindConfirmedBetween(db *gorm.DB, from, to time.Time) ([]entity.Appointment, error)
}
