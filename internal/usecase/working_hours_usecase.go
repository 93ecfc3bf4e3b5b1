package usecase

import (
	"context"
	"errors"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidTimeFormat  = errors.New("invalid time format, use HH:MM")
	ErrInvalidDayOfWeek   = errors.New("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTimeWindow  = errors.New("start_time must be before end_time")
	ErrBreakOutsideWindow = errors.New("break must lie inside the working window")
	ErrWorkingDayNotFound = errors.New("no working hours set for that day")
)

type WorkingHoursUsecase interface {
	SetWorkingHours(ctx context.Context, doctorID uuid.UUID, req *dto.SetWorkingHoursRequest) (*dto.WorkingHoursListResponse, error)
	GetWorkingHours(ctx context.Context, doctorID uuid.UUID) (*dto.WorkingHoursListResponse, error)
	DeleteWorkingHours(ctx context.Context, doctorID uuid.UUID, day int) error
}

type workingHoursUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	workingHoursRepo  repository.WorkingHoursRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	cacheService      *service.CacheService
}

func NewWorkingHoursUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	workingHoursRepo repository.WorkingHoursRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	cacheService *service.CacheService,
) WorkingHoursUsecase {
	return &workingHoursUsecase{
		db:                db,
		log:               log,
		workingHoursRepo:  workingHoursRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		cacheService:      cacheService,
	}
}

// SetWorkingHours upserts the doctor's base weekly schedule. Days absent
// from the request are left untouched; submitting the same payload twice
// is a no-op.
func (u *workingHoursUsecase) SetWorkingHours(ctx context.Context, doctorID uuid.UUID, req *dto.SetWorkingHoursRequest) (*dto.WorkingHoursListResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	rows := make([]*entity.WorkingHours, 0, len(req.Days))
	for _, day := range req.Days {
		row, err := buildWorkingHoursRow(doctorID, &day)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	for _, row := range rows {
		if err := u.workingHoursRepo.Upsert(tx, row); err != nil {
			u.log.Warnf("Failed to upsert working hours for day %d: %+v", row.DayOfWeek, err)
			return nil, err
		}
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionWorkingHoursUpdate, "working_hours", doctorID.String(), nil, req); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Weekly hours affect every future date for this doctor.
	u.cacheService.InvalidateDoctor(ctx, doctorID)

	return u.GetWorkingHours(ctx, doctorID)
}

func (u *workingHoursUsecase) GetWorkingHours(ctx context.Context, doctorID uuid.UUID) (*dto.WorkingHoursListResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	hours, err := u.workingHoursRepo.FindByDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find working hours: %+v", err)
		return nil, err
	}

	return converter.WorkingHoursToListResponse(doctorID, hours), nil
}

func (u *workingHoursUsecase) DeleteWorkingHours(ctx context.Context, doctorID uuid.UUID, day int) error {
	if day < 0 || day > 6 {
		return ErrInvalidDayOfWeek
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.workingHoursRepo.Delete(tx, doctorID, entity.DayOfWeek(day))
	if err != nil {
		u.log.Warnf("Failed to delete working hours: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrWorkingDayNotFound
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionWorkingHoursUpdate, "working_hours", doctorID.String(), map[string]int{"day_of_week": day}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.cacheService.InvalidateDoctor(ctx, doctorID)
	return nil
}

func buildWorkingHoursRow(doctorID uuid.UUID, day *dto.WorkingHoursDayRequest) (*entity.WorkingHours, error) {
	if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}

	row := &entity.WorkingHours{
		DoctorID:  doctorID,
		DayOfWeek: entity.DayOfWeek(day.DayOfWeek),
		IsWorking: day.IsWorking,
	}
	if !day.IsWorking {
		return row, nil
	}

	start, err := entity.ParseLocalTime(day.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	end, err := entity.ParseLocalTime(day.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if !start.Before(end) {
		return nil, ErrInvalidTimeWindow
	}
	row.StartTime = start
	row.EndTime = end

	if (day.BreakStart == nil) != (day.BreakEnd == nil) {
		return nil, ErrBreakOutsideWindow
	}
	if day.BreakStart != nil {
		breakStart, err := entity.ParseLocalTime(*day.BreakStart)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		breakEnd, err := entity.ParseLocalTime(*day.BreakEnd)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		if !breakStart.Before(breakEnd) || breakStart.Before(start) || end.Before(breakEnd) {
			return nil, ErrBreakOutsideWindow
		}
		row.BreakStart = &breakStart
		row.BreakEnd = &breakEnd
	}

	return row, nil
}
