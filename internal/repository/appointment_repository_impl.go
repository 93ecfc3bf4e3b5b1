package repository

import (
	"errors"
	"time"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appt *entity.Appointment) error {
	return db.Create(appt).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").Where("id = ?", id).First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) FindByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := db.Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("date DESC, start_time DESC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := db.Preload("Patient.User").
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Order("start_time ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error {
	return db.Model(&entity.Appointment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *appointmentRepository) FindConfirmedBetween(db *gorm.DB, from, to time.Time) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := db.Preload("Patient.User").Preload("Doctor.User").
		Where("status = ? AND date >= ? AND date <= ?",
			entity.AppointmentStatusConfirmed, midnight(from), midnight(to)).
		Order("date ASC, start_time ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	// date granularity above; trim to the exact window on start time
	filtered := appts[:0]
	for _, a := range appts {
		startsAt := time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(),
			a.StartTime.Minutes()/60, a.StartTime.Minutes()%60, 0, 0, from.Location())
		if !startsAt.Before(from) && startsAt.Before(to) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
