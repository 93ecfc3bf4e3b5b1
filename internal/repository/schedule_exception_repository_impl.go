package repository

import (
	"errors"
	"time"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scheduleExceptionRepository struct{}

func NewScheduleExceptionRepository() domainRepo.ScheduleExceptionRepository {
	return &scheduleExceptionRepository{}
}

func (r *scheduleExceptionRepository) Replace(db *gorm.DB, exc *entity.ScheduleException) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "doctor_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"type", "start_time", "end_time", "reason", "updated_at",
		}),
	}).Create(exc).Error
}

func (r *scheduleExceptionRepository) FindByID(db *gorm.DB, id int) (*entity.ScheduleException, error) {
	var exc entity.ScheduleException
	err := db.Where("id = ?", id).First(&exc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exc, nil
}

func (r *scheduleExceptionRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.ScheduleException, error) {
	var exc entity.ScheduleException
	err := db.Where("doctor_id = ? AND date = ?", doctorID, date).First(&exc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exc, nil
}

func (r *scheduleExceptionRepository) FindByDoctorInRange(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.ScheduleException, error) {
	var excs []entity.ScheduleException
	err := db.Where("doctor_id = ? AND date >= ? AND date <= ?", doctorID, from, to).
		Order("date ASC").
		Find(&excs).Error
	if err != nil {
		return nil, err
	}
	return excs, nil
}

func (r *scheduleExceptionRepository) Delete(db *gorm.DB, id int) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.ScheduleException{})
	return affected.RowsAffected, affected.Error
}
