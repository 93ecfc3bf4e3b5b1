package usecase

import (
	"context"
	"errors"
	"strconv"

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
	ErrPatternNotFound     = errors.New("availability pattern not found")
	ErrDuplicatePatternDay = errors.New("weekly pattern defines the same day twice")
	ErrTemplateSlotInvalid = errors.New("template slot must satisfy end_time = start_time + duration")
)

type AvailabilityPatternUsecase interface {
	CreatePattern(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePatternRequest) (*dto.PatternResponse, error)
	GetPattern(ctx context.Context, doctorID uuid.UUID, patternID int) (*dto.PatternResponse, error)
	GetPatterns(ctx context.Context, doctorID uuid.UUID) (*dto.PatternListResponse, error)
	UpdatePattern(ctx context.Context, doctorID uuid.UUID, patternID int, req *dto.UpdatePatternRequest) (*dto.PatternResponse, error)
	DeletePattern(ctx context.Context, doctorID uuid.UUID, patternID int) error
}

type availabilityPatternUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	patternRepo       repository.AvailabilityPatternRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewAvailabilityPatternUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patternRepo repository.AvailabilityPatternRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) AvailabilityPatternUsecase {
	return &availabilityPatternUsecase{
		db:                db,
		log:               log,
		patternRepo:       patternRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

func (u *availabilityPatternUsecase) CreatePattern(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePatternRequest) (*dto.PatternResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	weekly, err := buildWeeklyPattern(req.WeeklyPattern)
	if err != nil {
		return nil, err
	}

	pattern := &entity.AvailabilityPattern{
		DoctorID:      doctorID,
		Name:          req.Name,
		Description:   req.Description,
		WeeklyPattern: weekly,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patternRepo.Create(tx, pattern); err != nil {
		u.log.Warnf("Failed to create pattern: %+v", err)
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionPatternCreate, "availability_pattern", strconv.Itoa(pattern.ID), req); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatternToResponse(pattern), nil
}

func (u *availabilityPatternUsecase) GetPattern(ctx context.Context, doctorID uuid.UUID, patternID int) (*dto.PatternResponse, error) {
	pattern, err := u.findOwnedPattern(ctx, doctorID, patternID)
	if err != nil {
		return nil, err
	}
	return converter.PatternToResponse(pattern), nil
}

func (u *availabilityPatternUsecase) GetPatterns(ctx context.Context, doctorID uuid.UUID) (*dto.PatternListResponse, error) {
	patterns, err := u.patternRepo.FindByDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find patterns: %+v", err)
		return nil, err
	}

	return &dto.PatternListResponse{
		Patterns: converter.PatternsToResponses(patterns),
		Total:    len(patterns),
	}, nil
}

func (u *availabilityPatternUsecase) UpdatePattern(ctx context.Context, doctorID uuid.UUID, patternID int, req *dto.UpdatePatternRequest) (*dto.PatternResponse, error) {
	pattern, err := u.findOwnedPattern(ctx, doctorID, patternID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		pattern.Name = req.Name
	}
	if req.Description != "" {
		pattern.Description = req.Description
	}
	if len(req.WeeklyPattern) > 0 {
		weekly, err := buildWeeklyPattern(req.WeeklyPattern)
		if err != nil {
			return nil, err
		}
		pattern.WeeklyPattern = weekly
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patternRepo.Update(tx, pattern); err != nil {
		u.log.Warnf("Failed to update pattern: %+v", err)
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionPatternUpdate, "availability_pattern", strconv.Itoa(patternID), nil, req); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatternToResponse(pattern), nil
}

func (u *availabilityPatternUsecase) DeletePattern(ctx context.Context, doctorID uuid.UUID, patternID int) error {
	pattern, err := u.findOwnedPattern(ctx, doctorID, patternID)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.patternRepo.Delete(tx, patternID); err != nil {
		u.log.Warnf("Failed to delete pattern: %+v", err)
		return err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionPatternDelete, "availability_pattern", strconv.Itoa(patternID), converter.PatternToResponse(pattern)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *availabilityPatternUsecase) findOwnedPattern(ctx context.Context, doctorID uuid.UUID, patternID int) (*entity.AvailabilityPattern, error) {
	pattern, err := u.patternRepo.FindByID(u.db.WithContext(ctx), patternID)
	if err != nil {
		u.log.Warnf("Failed to find pattern: %+v", err)
		return nil, err
	}
	if pattern == nil || pattern.DoctorID != doctorID {
		return nil, ErrPatternNotFound
	}
	return pattern, nil
}

// buildWeeklyPattern validates and converts the request payload. Each
// template slot is one bookable interval, so its end must equal its start
// plus its duration.
func buildWeeklyPattern(days []dto.DayPatternRequest) (entity.WeeklyPattern, error) {
	seen := make(map[int]bool, len(days))
	weekly := make(entity.WeeklyPattern, 0, len(days))

	for _, day := range days {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			return nil, ErrInvalidDayOfWeek
		}
		if seen[day.DayOfWeek] {
			return nil, ErrDuplicatePatternDay
		}
		seen[day.DayOfWeek] = true

		slots := make([]entity.SlotTemplate, 0, len(day.TimeSlots))
		for _, tpl := range day.TimeSlots {
			start, err := entity.ParseLocalTime(tpl.StartTime)
			if err != nil {
				return nil, ErrInvalidTimeFormat
			}
			end, err := entity.ParseLocalTime(tpl.EndTime)
			if err != nil {
				return nil, ErrInvalidTimeFormat
			}
			if !start.Before(end) {
				return nil, ErrInvalidTimeWindow
			}
			if end.Sub(start) != tpl.Duration {
				return nil, ErrTemplateSlotInvalid
			}
			slots = append(slots, entity.SlotTemplate{
				StartTime: start,
				EndTime:   end,
				Duration:  tpl.Duration,
			})
		}

		weekly = append(weekly, entity.DayPattern{
			DayOfWeek:   entity.DayOfWeek(day.DayOfWeek),
			IsAvailable: day.IsAvailable,
			TimeSlots:   slots,
		})
	}

	return weekly, nil
}
