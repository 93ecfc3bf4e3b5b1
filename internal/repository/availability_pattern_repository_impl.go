package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityPatternRepository struct{}

func NewAvailabilityPatternRepository() domainRepo.AvailabilityPatternRepository {
	return &availabilityPatternRepository{}
}

func (r *availabilityPatternRepository) Create(db *gorm.DB, pattern *entity.AvailabilityPattern) error {
	return db.Create(pattern).Error
}

func (r *availabilityPatternRepository) FindByID(db *gorm.DB, id int) (*entity.AvailabilityPattern, error) {
	var pattern entity.AvailabilityPattern
	err := db.Where("id = ?", id).First(&pattern).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pattern, nil
}

func (r *availabilityPatternRepository) FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.AvailabilityPattern, error) {
	var patterns []entity.AvailabilityPattern
	err := db.Where("doctor_id = ?", doctorID).Order("name ASC").Find(&patterns).Error
	if err != nil {
		return nil, err
	}
	return patterns, nil
}

func (r *availabilityPatternRepository) Update(db *gorm.DB, pattern *entity.AvailabilityPattern) error {
	return db.Omit("Doctor").Save(pattern).Error
}

func (r *availabilityPatternRepository) Delete(db *gorm.DB, id int) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.AvailabilityPattern{})
	return affected.RowsAffected, affected.Error
}
