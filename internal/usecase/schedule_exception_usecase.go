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
	"clinic-scheduler/internal/scheduling"
	"clinic-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidExceptionType  = errors.New("unknown exception type")
	ErrCustomHoursNeedWindow = errors.New("custom_hours requires start_time and end_time")
	ErrExceptionNotFound     = errors.New("exception not found")
	ErrInvalidDateRange      = errors.New("invalid date range")
)

type ScheduleExceptionUsecase interface {
	CreateException(ctx context.Context, doctorID uuid.UUID, req *dto.CreateExceptionRequest) (*dto.ExceptionResponse, error)
	GetExceptions(ctx context.Context, doctorID uuid.UUID, from, to string) (*dto.ExceptionListResponse, error)
	DeleteException(ctx context.Context, doctorID uuid.UUID, exceptionID int) error
}

type scheduleExceptionUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	exceptionRepo     repository.ScheduleExceptionRepository
	timeSlotRepo      repository.TimeSlotRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	cacheService      *service.CacheService
}

func NewScheduleExceptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	exceptionRepo repository.ScheduleExceptionRepository,
	timeSlotRepo repository.TimeSlotRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	cacheService *service.CacheService,
) ScheduleExceptionUsecase {
	return &scheduleExceptionUsecase{
		db:                db,
		log:               log,
		exceptionRepo:     exceptionRepo,
		timeSlotRepo:      timeSlotRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		cacheService:      cacheService,
	}
}

// CreateException records a per-date override. A second exception for the
// same date replaces the first. Already-booked slots on that date are NOT
// cancelled; they surface as conflicts for staff to resolve.
func (u *scheduleExceptionUsecase) CreateException(ctx context.Context, doctorID uuid.UUID, req *dto.CreateExceptionRequest) (*dto.ExceptionResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	excType := entity.ExceptionType(req.Type)
	if !excType.IsValid() {
		return nil, ErrInvalidExceptionType
	}

	exc := &entity.ScheduleException{
		DoctorID: doctorID,
		Date:     date,
		Type:     excType,
		Reason:   req.Reason,
	}

	if excType == entity.ExceptionCustomHours {
		if req.StartTime == nil || req.EndTime == nil {
			return nil, ErrCustomHoursNeedWindow
		}
		start, err := entity.ParseLocalTime(*req.StartTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		end, err := entity.ParseLocalTime(*req.EndTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		if !start.Before(end) {
			return nil, ErrInvalidTimeWindow
		}
		exc.StartTime = &start
		exc.EndTime = &end
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.exceptionRepo.Replace(tx, exc); err != nil {
		u.log.Warnf("Failed to save exception: %+v", err)
		return nil, err
	}

	// Materialized open slots no longer reflect the day template; drop
	// them so the next read regenerates. Booked slots are kept.
	if err := u.dropStaleSlots(tx, doctorID, date); err != nil {
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionExceptionCreate, "schedule_exception", req.Date, req); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cacheService.InvalidateDay(ctx, doctorID, date)

	return converter.ExceptionToResponse(exc), nil
}

func (u *scheduleExceptionUsecase) GetExceptions(ctx context.Context, doctorID uuid.UUID, from, to string) (*dto.ExceptionListResponse, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if toDate.Before(fromDate) {
		return nil, ErrInvalidDateRange
	}

	exceptions, err := u.exceptionRepo.FindByDoctorInRange(u.db.WithContext(ctx), doctorID, fromDate, toDate)
	if err != nil {
		u.log.Warnf("Failed to find exceptions: %+v", err)
		return nil, err
	}

	return &dto.ExceptionListResponse{
		Exceptions: converter.ExceptionsToResponses(exceptions),
		Total:      len(exceptions),
	}, nil
}

func (u *scheduleExceptionUsecase) DeleteException(ctx context.Context, doctorID uuid.UUID, exceptionID int) error {
	exc, err := u.exceptionRepo.FindByID(u.db.WithContext(ctx), exceptionID)
	if err != nil {
		u.log.Warnf("Failed to find exception: %+v", err)
		return err
	}
	if exc == nil || exc.DoctorID != doctorID {
		return ErrExceptionNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.exceptionRepo.Delete(tx, exceptionID); err != nil {
		u.log.Warnf("Failed to delete exception: %+v", err)
		return err
	}

	if err := u.dropStaleSlots(tx, doctorID, exc.Date); err != nil {
		return err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionExceptionDelete, "schedule_exception", exc.Date.Format("2006-01-02"), converter.ExceptionToResponse(exc)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.cacheService.InvalidateDay(ctx, doctorID, exc.Date)
	return nil
}

// dropStaleSlots deletes non-booked materialized slots for a date after a
// template change. Equivalent to merging against an empty template.
func (u *scheduleExceptionUsecase) dropStaleSlots(tx *gorm.DB, doctorID uuid.UUID, date time.Time) error {
	slots, err := u.timeSlotRepo.FindByDoctorAndDate(tx, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to load slots for %s: %+v", date.Format("2006-01-02"), err)
		return err
	}

	plan := scheduling.PlanMerge(slots, nil)
	if len(plan.Delete) == 0 {
		return nil
	}
	if _, err := u.timeSlotRepo.DeleteByIDs(tx, plan.Delete); err != nil {
		u.log.Warnf("Failed to drop stale slots for %s: %+v", date.Format("2006-01-02"), err)
		return err
	}
	return nil
}
