package repository

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleExceptionRepository interface {
	// Replace upserts by (doctor_id, date): a second exception for an
	// occupied date overwrites the first.
	Replace(db *gorm.DB, exc *entity.ScheduleException) error
	FindByID(db *gorm.DB, id int) (*entity.ScheduleException, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.ScheduleException, error)
	FindByDoctorInRange(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.ScheduleException, error)
	Delete(db *gorm.DB, id int) (int64, error)
}
