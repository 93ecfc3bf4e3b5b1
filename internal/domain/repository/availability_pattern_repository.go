package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityPatternRepository interface {
	Create(db *gorm.DB, pattern *entity.AvailabilityPattern) error
	FindByID(db *gorm.DB, id int) (*entity.AvailabilityPattern, error)
	FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.AvailabilityPattern, error)
	Update(db *gorm.DB, pattern *entity.AvailabilityPattern) error
	Delete(db *gorm.DB, id int) (int64, error)
}
