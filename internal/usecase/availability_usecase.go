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
	ErrSlotNotFound     = errors.New("time slot not found")
	ErrSlotBooked       = errors.New("slot is booked and cannot be edited")
	ErrDayUnavailable   = errors.New("doctor is not available on that date")
	ErrRangeTooLarge    = errors.New("date range too large")
	ErrInvalidSlotState = errors.New("slot status must be available or blocked")
)

// maxRangeDays bounds calendar range reads.
const maxRangeDays = 92

// SchedulingPolicy carries clinic-wide booking bounds and the defaults
// used when a request does not name a slot duration or interval.
type SchedulingPolicy struct {
	scheduling.Policy
	DefaultSlotDuration int // minutes
	DefaultSlotInterval int // minutes between slot starts, 0 = back to back
}

type AvailabilityUsecase interface {
	GetDayAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.DayAvailabilityResponse, error)
	GetRangeAvailability(ctx context.Context, doctorID uuid.UUID, from, to string) (*dto.RangeAvailabilityResponse, error)
	MaterializeSlots(ctx context.Context, doctorID uuid.UUID, req *dto.MaterializeSlotsRequest) (*dto.DayAvailabilityResponse, error)
	UpdateSlotStatus(ctx context.Context, doctorID, slotID uuid.UUID, req *dto.UpdateSlotStatusRequest) (*dto.SlotResponse, error)
}

type availabilityUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	workingHoursRepo repository.WorkingHoursRepository
	exceptionRepo    repository.ScheduleExceptionRepository
	timeSlotRepo     repository.TimeSlotRepository
	auditService     service.AuditService
	cacheService     *service.CacheService
	policy           SchedulingPolicy
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	workingHoursRepo repository.WorkingHoursRepository,
	exceptionRepo repository.ScheduleExceptionRepository,
	timeSlotRepo repository.TimeSlotRepository,
	auditService service.AuditService,
	cacheService *service.CacheService,
	policy SchedulingPolicy,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:               db,
		log:              log,
		workingHoursRepo: workingHoursRepo,
		exceptionRepo:    exceptionRepo,
		timeSlotRepo:     timeSlotRepo,
		auditService:     auditService,
		cacheService:     cacheService,
		policy:           policy,
	}
}

// GetDayAvailability returns the resolved template plus slots for one
// doctor-date. Materialized slots are authoritative when present; otherwise
// candidates are computed from the template on the fly and carry no ID.
func (u *availabilityUsecase) GetDayAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.DayAvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	var cached dto.DayAvailabilityResponse
	if hit, err := u.cacheService.GetDayAvailability(ctx, doctorID, day, &cached); err == nil && hit {
		return &cached, nil
	}

	resp, err := u.resolveDay(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	if err := u.cacheService.SetDayAvailability(ctx, doctorID, day, resp); err != nil {
		u.log.Warnf("Failed to cache availability for %s: %+v", date, err)
	}

	return resp, nil
}

func (u *availabilityUsecase) GetRangeAvailability(ctx context.Context, doctorID uuid.UUID, from, to string) (*dto.RangeAvailabilityResponse, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	dates := scheduling.DatesInRange(fromDate, toDate)
	if dates == nil {
		return nil, ErrInvalidDateRange
	}
	if len(dates) > maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	days := make([]dto.DayAvailabilityResponse, 0, len(dates))
	for _, day := range dates {
		resp, err := u.resolveDay(ctx, doctorID, day)
		if err != nil {
			return nil, err
		}
		days = append(days, *resp)
	}

	return &dto.RangeAvailabilityResponse{
		DoctorID: doctorID,
		Days:     days,
	}, nil
}

// MaterializeSlots writes the computed slot grid for one date to storage,
// merging with what already exists. Booked slots survive; open slots that
// no longer fit the grid are deleted. Reapplying is a no-op.
func (u *availabilityUsecase) MaterializeSlots(ctx context.Context, doctorID uuid.UUID, req *dto.MaterializeSlotsRequest) (*dto.DayAvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	duration := req.Duration
	if duration == 0 {
		duration = u.policy.DefaultSlotDuration
	}
	interval := req.Interval
	if interval == 0 {
		interval = u.policy.DefaultSlotInterval
	}

	tpl, err := u.loadTemplate(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	if !tpl.IsAvailable {
		return nil, ErrDayUnavailable
	}

	template, err := scheduling.Generate(tpl.Window, duration, interval, tpl.Breaks)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.timeSlotRepo.FindByDoctorAndDate(tx, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load slots for %s: %+v", req.Date, err)
		return nil, err
	}

	plan := scheduling.PlanMerge(existing, template)

	if len(plan.Delete) > 0 {
		if _, err := u.timeSlotRepo.DeleteByIDs(tx, plan.Delete); err != nil {
			u.log.Warnf("Failed to delete stale slots for %s: %+v", req.Date, err)
			return nil, err
		}
	}
	if len(plan.Insert) > 0 {
		rows := slotRowsFromTemplates(doctorID, day, plan.Insert)
		if err := u.timeSlotRepo.CreateBatch(tx, rows); err != nil {
			u.log.Warnf("Failed to insert slots for %s: %+v", req.Date, err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	metrics.SlotsMaterialized.Add(float64(len(plan.Insert)))
	u.cacheService.InvalidateDay(ctx, doctorID, day)

	return u.resolveDay(ctx, doctorID, day)
}

// UpdateSlotStatus blocks or reopens a single open slot. Booked slots are
// immutable here; they change only through the appointment lifecycle.
func (u *availabilityUsecase) UpdateSlotStatus(ctx context.Context, doctorID, slotID uuid.UUID, req *dto.UpdateSlotStatusRequest) (*dto.SlotResponse, error) {
	status := entity.SlotStatus(req.Status)
	if status != entity.SlotStatusAvailable && status != entity.SlotStatusBlocked {
		return nil, ErrInvalidSlotState
	}

	slot, err := u.timeSlotRepo.FindByID(u.db.WithContext(ctx), slotID)
	if err != nil {
		u.log.Warnf("Failed to find slot: %+v", err)
		return nil, err
	}
	if slot == nil || slot.DoctorID != doctorID {
		return nil, ErrSlotNotFound
	}
	if slot.IsBooked() {
		return nil, ErrSlotBooked
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.timeSlotRepo.UpdateStatus(tx, slotID, status, nil); err != nil {
		u.log.Warnf("Failed to update slot status: %+v", err)
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionSlotStatusUpdate, "time_slot", slotID.String(), string(slot.Status), req.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cacheService.InvalidateDay(ctx, doctorID, slot.Date)

	slot.Status = status
	resp := converter.TimeSlotToResponse(slot)
	return &resp, nil
}

func (u *availabilityUsecase) loadTemplate(ctx context.Context, doctorID uuid.UUID, day time.Time) (scheduling.DayTemplate, error) {
	db := u.db.WithContext(ctx)

	hours, err := u.workingHoursRepo.FindByDoctorAndDay(db, doctorID, entity.DayOfWeekFromDate(day))
	if err != nil {
		u.log.Warnf("Failed to load working hours: %+v", err)
		return scheduling.DayTemplate{}, err
	}

	exc, err := u.exceptionRepo.FindByDoctorAndDate(db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load exception: %+v", err)
		return scheduling.DayTemplate{}, err
	}

	return scheduling.ResolveDay(hours, exc), nil
}

func (u *availabilityUsecase) resolveDay(ctx context.Context, doctorID uuid.UUID, day time.Time) (*dto.DayAvailabilityResponse, error) {
	tpl, err := u.loadTemplate(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	slots, err := u.timeSlotRepo.FindByDoctorAndDate(u.db.WithContext(ctx), doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load slots: %+v", err)
		return nil, err
	}

	resp := &dto.DayAvailabilityResponse{
		DoctorID:    doctorID,
		Date:        day.Format("2006-01-02"),
		IsAvailable: tpl.IsAvailable,
		Reason:      tpl.Reason,
		Slots:       converter.TimeSlotsToResponses(slots),
	}
	if tpl.IsAvailable {
		resp.WindowStart = tpl.Window.Start.String()
		resp.WindowEnd = tpl.Window.End.String()
	}

	// No materialized grid yet: present computed candidates so the
	// calendar is bookable before any staff action.
	if tpl.IsAvailable && len(slots) == 0 {
		template, err := scheduling.Generate(tpl.Window, u.policy.DefaultSlotDuration, u.policy.DefaultSlotInterval, tpl.Breaks)
		if err != nil {
			return nil, err
		}
		candidates := make([]dto.SlotResponse, len(template))
		for i, c := range template {
			candidates[i] = dto.SlotResponse{
				StartTime: c.StartTime.String(),
				EndTime:   c.EndTime.String(),
				Duration:  c.Duration,
				Status:    string(entity.SlotStatusAvailable),
			}
		}
		resp.Slots = candidates
	}

	return resp, nil
}

func slotRowsFromTemplates(doctorID uuid.UUID, day time.Time, templates []entity.SlotTemplate) []entity.TimeSlot {
	rows := make([]entity.TimeSlot, len(templates))
	for i, tpl := range templates {
		rows[i] = entity.TimeSlot{
			DoctorID:  doctorID,
			Date:      day,
			StartTime: tpl.StartTime,
			EndTime:   tpl.EndTime,
			Duration:  tpl.Duration,
			Status:    tpl.MaterializedStatus(),
		}
	}
	return rows
}
