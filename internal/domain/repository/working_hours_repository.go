package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkingHoursRepository interface {
	Upsert(db *gorm.DB, hours *entity.WorkingHours) error
	FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.WorkingHours, error)
	FindByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day entity.DayOfWeek) (*entity.WorkingHours, error)
	Delete(db *gorm.DB, doctorID uuid.UUID, day entity.DayOfWeek) (int64, error)
}
