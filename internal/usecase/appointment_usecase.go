package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/infrastructure/metrics"
	"clinic-scheduler/internal/scheduling"
	"clinic-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentNotOwned = errors.New("appointment does not belong to you")
	ErrAppointmentPast     = errors.New("cannot book a past date")
)

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) error
	RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	apptRepo         repository.AppointmentRepository
	timeSlotRepo     repository.TimeSlotRepository
	workingHoursRepo repository.WorkingHoursRepository
	exceptionRepo    repository.ScheduleExceptionRepository
	auditService     service.AuditService
	cacheService     *service.CacheService
	eventService     *service.EventService
	policy           SchedulingPolicy
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	apptRepo repository.AppointmentRepository,
	timeSlotRepo repository.TimeSlotRepository,
	workingHoursRepo repository.WorkingHoursRepository,
	exceptionRepo repository.ScheduleExceptionRepository,
	auditService service.AuditService,
	cacheService *service.CacheService,
	eventService *service.EventService,
	policy SchedulingPolicy,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:               db,
		log:              log,
		apptRepo:         apptRepo,
		timeSlotRepo:     timeSlotRepo,
		workingHoursRepo: workingHoursRepo,
		exceptionRepo:    exceptionRepo,
		auditService:     auditService,
		cacheService:     cacheService,
		eventService:     eventService,
		policy:           policy,
	}
}

// BookAppointment validates the requested interval against the resolved day
// template and commits it. When the interval matches a materialized slot the
// commit goes through a compare-and-set on the slot status, so two patients
// racing for the same slot cannot both win. The loser re-validates once
// against fresh state before giving up.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		metrics.BookingAttempts.WithLabelValues(metrics.OutcomeValidation).Inc()
		return nil, ErrInvalidDateFormat
	}
	start, err := entity.ParseLocalTime(req.StartTime)
	if err != nil {
		metrics.BookingAttempts.WithLabelValues(metrics.OutcomeValidation).Inc()
		return nil, ErrInvalidTimeFormat
	}
	if day.Before(scheduling.Midnight(time.Now())) {
		metrics.BookingAttempts.WithLabelValues(metrics.OutcomeValidation).Inc()
		return nil, ErrAppointmentPast
	}

	appt := &entity.Appointment{
		PatientID: userID,
		DoctorID:  req.DoctorID,
		Date:      day,
		StartTime: start,
		Duration:  req.Duration,
		Status:    entity.AppointmentStatusScheduled,
		Notes:     req.Notes,
	}

	if err := u.commitBooking(ctx, appt); err != nil {
		u.countBookingFailure(err)
		return nil, err
	}

	metrics.BookingAttempts.WithLabelValues(metrics.OutcomeBooked).Inc()
	u.cacheService.InvalidateDay(ctx, req.DoctorID, day)

	apptID := appt.ID
	u.eventService.Publish(ctx, service.SchedulingEvent{
		Type:          service.EventBookingCreated,
		DoctorID:      req.DoctorID,
		PatientID:     &userID,
		AppointmentID: &apptID,
		Date:          req.Date,
		StartTime:     req.StartTime,
	})

	u.log.Infof("Appointment booked: id=%s, doctor=%s, date=%s %s", appt.ID, req.DoctorID, req.Date, req.StartTime)
	return converter.AppointmentToResponse(appt), nil
}

// commitBooking runs validate-then-commit, retrying once if the slot
// compare-and-set loses a race.
func (u *appointmentUsecase) commitBooking(ctx context.Context, appt *entity.Appointment) error {
	for attempt := 0; attempt < 2; attempt++ {
		won, err := u.tryCommitBooking(ctx, appt, nil)
		if err != nil {
			return err
		}
		if won {
			return nil
		}
	}
	return &scheduling.ConcurrencyError{Op: "book"}
}

// tryCommitBooking validates appt against current state and attempts the
// transactional commit. extra runs inside the same transaction before the
// commit; reschedule uses it to retire the old appointment atomically.
// Returns won=false when a slot race was lost and the caller may retry.
func (u *appointmentUsecase) tryCommitBooking(ctx context.Context, appt *entity.Appointment, extra func(tx *gorm.DB) error) (bool, error) {
	db := u.db.WithContext(ctx)

	hours, err := u.workingHoursRepo.FindByDoctorAndDay(db, appt.DoctorID, entity.DayOfWeekFromDate(appt.Date))
	if err != nil {
		u.log.Warnf("Failed to load working hours: %+v", err)
		return false, err
	}
	exc, err := u.exceptionRepo.FindByDoctorAndDate(db, appt.DoctorID, appt.Date)
	if err != nil {
		u.log.Warnf("Failed to load exception: %+v", err)
		return false, err
	}
	slots, err := u.timeSlotRepo.FindByDoctorAndDate(db, appt.DoctorID, appt.Date)
	if err != nil {
		u.log.Warnf("Failed to load slots: %+v", err)
		return false, err
	}

	tpl := scheduling.ResolveDay(hours, exc)
	matched, err := scheduling.ValidateBooking(tpl, slots, appt.StartTime, appt.Duration, u.policy.Policy)
	if err != nil {
		return false, err
	}

	tx := db.Begin()
	defer tx.Rollback()

	if extra != nil {
		if err := extra(tx); err != nil {
			return false, err
		}
	}

	if err := u.apptRepo.Create(tx, appt); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return false, err
	}

	if matched != nil {
		affected, err := u.timeSlotRepo.MarkBookedIfAvailable(tx, matched.ID, appt.ID)
		if err != nil {
			u.log.Warnf("Failed to mark slot booked: %+v", err)
			return false, err
		}
		if affected == 0 {
			// Lost the race; roll back and let the caller re-validate.
			appt.ID = uuid.Nil
			return false, nil
		}
	} else {
		// No materialized slot covers the interval; book it ad hoc.
		apptID := appt.ID
		slot := entity.TimeSlot{
			DoctorID:      appt.DoctorID,
			Date:          appt.Date,
			StartTime:     appt.StartTime,
			EndTime:       appt.EndTime(),
			Duration:      appt.Duration,
			Status:        entity.SlotStatusBooked,
			AppointmentID: &apptID,
		}
		if err := u.timeSlotRepo.CreateBatch(tx, []entity.TimeSlot{slot}); err != nil {
			// The unique key on (doctor_id, date, start_time) serializes two
			// sessions racing for the same un-materialized interval. Treat a
			// duplicate as a lost race so the caller re-validates.
			if isDuplicateKeyError(err, "idx_time_slots_doctor_date_start") {
				appt.ID = uuid.Nil
				return false, nil
			}
			u.log.Warnf("Failed to create booked slot: %+v", err)
			return false, err
		}
	}

	if err := u.auditService.LogCreate(ctx, tx, &appt.PatientID, entity.AuditActionBookingCreate, "appointment", appt.ID.String(), converter.AppointmentToResponse(appt)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return false, err
	}

	return true, nil
}

func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointments, err := u.apptRepo.FindByPatient(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	appointments, err := u.apptRepo.FindByDoctorAndDate(u.db.WithContext(ctx), doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// CancelAppointment moves the appointment to cancelled and releases its
// slot. A slot whose start already passed is blocked rather than reopened.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	appt, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appt == nil {
		return ErrAppointmentNotFound
	}
	if appt.PatientID != userID {
		return ErrAppointmentNotOwned
	}

	if err := scheduling.Transition(appt.Status, entity.AppointmentStatusCancelled); err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.retireAppointment(ctx, tx, appt, entity.AppointmentStatusCancelled, entity.AuditActionBookingCancel); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.cacheService.InvalidateDay(ctx, appt.DoctorID, appt.Date)

	u.eventService.Publish(ctx, service.SchedulingEvent{
		Type:          service.EventBookingCancelled,
		DoctorID:      appt.DoctorID,
		PatientID:     &appt.PatientID,
		AppointmentID: &appointmentID,
		Date:          appt.Date.Format("2006-01-02"),
		StartTime:     appt.StartTime.String(),
	})

	u.log.Infof("Appointment cancelled: id=%s", appointmentID)
	return nil
}

// RescheduleAppointment retires the old appointment and books the new
// interval in one transaction: either both happen or neither does.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	old, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if old == nil {
		return nil, ErrAppointmentNotFound
	}
	if old.PatientID != userID {
		return nil, ErrAppointmentNotOwned
	}

	if err := scheduling.Transition(old.Status, entity.AppointmentStatusRescheduled); err != nil {
		return nil, err
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	start, err := entity.ParseLocalTime(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	duration := old.Duration
	if req.Duration != nil {
		duration = *req.Duration
	}

	fresh := &entity.Appointment{
		PatientID: old.PatientID,
		DoctorID:  old.DoctorID,
		Date:      day,
		StartTime: start,
		Duration:  duration,
		Status:    entity.AppointmentStatusScheduled,
		Notes:     old.Notes,
	}

	retire := func(tx *gorm.DB) error {
		return u.retireAppointment(ctx, tx, old, entity.AppointmentStatusRescheduled, entity.AuditActionBookingReschedule)
	}

	for attempt := 0; attempt < 2; attempt++ {
		won, err := u.tryCommitBooking(ctx, fresh, retire)
		if err != nil {
			u.countBookingFailure(err)
			return nil, err
		}
		if won {
			u.cacheService.InvalidateDay(ctx, old.DoctorID, old.Date)
			u.cacheService.InvalidateDay(ctx, old.DoctorID, day)

			freshID := fresh.ID
			u.eventService.Publish(ctx, service.SchedulingEvent{
				Type:          service.EventBookingRescheduled,
				DoctorID:      old.DoctorID,
				PatientID:     &old.PatientID,
				AppointmentID: &freshID,
				Date:          req.Date,
				StartTime:     req.StartTime,
			})

			metrics.BookingAttempts.WithLabelValues(metrics.OutcomeBooked).Inc()
			u.log.Infof("Appointment rescheduled: old=%s, new=%s", appointmentID, fresh.ID)
			return converter.AppointmentToResponse(fresh), nil
		}
	}

	metrics.BookingAttempts.WithLabelValues(metrics.OutcomeLostRace).Inc()
	return nil, &scheduling.ConcurrencyError{Op: "reschedule"}
}

// UpdateAppointmentStatus applies a lifecycle transition requested by
// clinic staff. Cancellation and no-show release the held slot too.
func (u *appointmentUsecase) UpdateAppointmentStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	target := entity.AppointmentStatus(req.Status)
	if !target.IsValid() {
		return nil, &scheduling.ValidationError{Field: "status", Reason: scheduling.ReasonInvalidTransition}
	}

	appt, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := scheduling.Transition(appt.Status, target); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if target == entity.AppointmentStatusCancelled || target == entity.AppointmentStatusNoShow {
		if err := u.retireAppointment(ctx, tx, appt, target, entity.AuditActionAppointmentStatus); err != nil {
			return nil, err
		}
	} else {
		from := appt.Status
		if err := u.apptRepo.UpdateStatus(tx, appointmentID, target); err != nil {
			u.log.Warnf("Failed to update appointment status: %+v", err)
			return nil, err
		}
		appt.Status = target

		userID, _ := middleware.GetUserIDFromContext(ctx)
		if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionAppointmentStatus, "appointment", appointmentID.String(), string(from), req.Status); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cacheService.InvalidateDay(ctx, appt.DoctorID, appt.Date)

	u.log.Infof("Appointment %s status: %s", appointmentID, target)
	return converter.AppointmentToResponse(appt), nil
}

// retireAppointment moves appt to a terminal-ish state inside tx and
// releases the slot it held.
func (u *appointmentUsecase) retireAppointment(ctx context.Context, tx *gorm.DB, appt *entity.Appointment, target entity.AppointmentStatus, auditAction string) error {
	from := appt.Status
	if err := u.apptRepo.UpdateStatus(tx, appt.ID, target); err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return err
	}
	appt.Status = target

	slot, err := u.timeSlotRepo.FindByAppointmentID(tx, appt.ID)
	if err != nil {
		u.log.Warnf("Failed to find slot for appointment %s: %+v", appt.ID, err)
		return err
	}
	if slot != nil {
		released := scheduling.ReleaseStatus(slot.Date, slot.StartTime, time.Now())
		if err := u.timeSlotRepo.UpdateStatus(tx, slot.ID, released, nil); err != nil {
			u.log.Warnf("Failed to release slot %s: %+v", slot.ID, err)
			return err
		}
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, auditAction, "appointment", appt.ID.String(), string(from), string(target)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *appointmentUsecase) countBookingFailure(err error) {
	var vErr *scheduling.ValidationError
	var cErr *scheduling.ConflictError
	var raceErr *scheduling.ConcurrencyError
	switch {
	case errors.As(err, &vErr):
		metrics.BookingAttempts.WithLabelValues(metrics.OutcomeValidation).Inc()
	case errors.As(err, &cErr):
		metrics.BookingAttempts.WithLabelValues(metrics.OutcomeConflict).Inc()
	case errors.As(err, &raceErr):
		metrics.BookingAttempts.WithLabelValues(metrics.OutcomeLostRace).Inc()
	default:
		metrics.BookingAttempts.WithLabelValues(metrics.OutcomeError).Inc()
	}
}
