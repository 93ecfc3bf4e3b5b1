package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type workingHoursRepository struct{}

func NewWorkingHoursRepository() domainRepo.WorkingHoursRepository {
	return &workingHoursRepository{}
}

func (r *workingHoursRepository) Upsert(db *gorm.DB, hours *entity.WorkingHours) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "doctor_id"}, {Name: "day_of_week"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"start_time", "end_time", "break_start", "break_end", "is_working", "updated_at",
		}),
	}).Create(hours).Error
}

func (r *workingHoursRepository) FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.WorkingHours, error) {
	var hours []entity.WorkingHours
	err := db.Where("doctor_id = ?", doctorID).Order("day_of_week ASC").Find(&hours).Error
	if err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *workingHoursRepository) FindByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day entity.DayOfWeek) (*entity.WorkingHours, error) {
	var hours entity.WorkingHours
	err := db.Where("doctor_id = ? AND day_of_week = ?", doctorID, day).First(&hours).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hours, nil
}

func (r *workingHoursRepository) Delete(db *gorm.DB, doctorID uuid.UUID, day entity.DayOfWeek) (int64, error) {
	affected := db.Where("doctor_id = ? AND day_of_week = ?", doctorID, day).Delete(&entity.WorkingHours{})
	return affected.RowsAffected, affected.Error
}
