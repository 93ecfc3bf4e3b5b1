package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

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

var ErrEmptyBulkRequest = errors.New("bulk request resolves to no dates")

// Bulk result statuses.
const (
	bulkApplied = "applied"
	bulkPartial = "partial"
	bulkSkipped = "skipped"
	bulkFailed  = "failed"
)

type BulkEditUsecase interface {
	ApplyPattern(ctx context.Context, doctorID uuid.UUID, patternID int, req *dto.ApplyPatternRequest) (*dto.BulkEditResponse, error)
	CopyWeek(ctx context.Context, doctorID uuid.UUID, req *dto.CopyWeekRequest) (*dto.BulkEditResponse, error)
	BulkSetAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.BulkAvailabilityRequest) (*dto.BulkEditResponse, error)
}

type bulkEditUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	patternRepo   repository.AvailabilityPatternRepository
	timeSlotRepo  repository.TimeSlotRepository
	exceptionRepo repository.ScheduleExceptionRepository
	auditService  service.AuditService
	cacheService  *service.CacheService
	eventService  *service.EventService
}

func NewBulkEditUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patternRepo repository.AvailabilityPatternRepository,
	timeSlotRepo repository.TimeSlotRepository,
	exceptionRepo repository.ScheduleExceptionRepository,
	auditService service.AuditService,
	cacheService *service.CacheService,
	eventService *service.EventService,
) BulkEditUsecase {
	return &bulkEditUsecase{
		db:            db,
		log:           log,
		patternRepo:   patternRepo,
		timeSlotRepo:  timeSlotRepo,
		exceptionRepo: exceptionRepo,
		auditService:  auditService,
		cacheService:  cacheService,
		eventService:  eventService,
	}
}

// ApplyPattern materializes a weekly pattern over a date range. Each date is
// processed in its own transaction so one bad day cannot roll back the rest;
// the per-date results tell the caller exactly what happened where. Booked
// slots always survive, and template entries colliding with them are skipped.
func (u *bulkEditUsecase) ApplyPattern(ctx context.Context, doctorID uuid.UUID, patternID int, req *dto.ApplyPatternRequest) (*dto.BulkEditResponse, error) {
	pattern, err := u.patternRepo.FindByID(u.db.WithContext(ctx), patternID)
	if err != nil {
		u.log.Warnf("Failed to find pattern: %+v", err)
		return nil, err
	}
	if pattern == nil || pattern.DoctorID != doctorID {
		return nil, ErrPatternNotFound
	}

	dates, err := parseBulkRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	results := make([]dto.BulkDateResult, 0, len(dates))
	for _, day := range dates {
		var template []entity.SlotTemplate
		dp := pattern.WeeklyPattern.ForDay(entity.DayOfWeekFromDate(day))
		if dp != nil && dp.IsAvailable {
			template = dp.TimeSlots
		}

		result := u.mergeDate(ctx, doctorID, day, template, "apply_pattern")
		results = append(results, result)
	}

	u.logBulkAudit(ctx, doctorID, entity.AuditActionPatternApply, strconv.Itoa(patternID), req, results)

	u.eventService.Publish(ctx, service.SchedulingEvent{
		Type:     service.EventSlotPatternApplied,
		DoctorID: doctorID,
		Date:     req.StartDate,
	})

	return &dto.BulkEditResponse{Results: results, Total: len(results)}, nil
}

// CopyWeek replays one week's materialized slot layout onto another week,
// day by weekday. Available, blocked, and break source slots carry their
// status to the target; booked source slots are not copied, their interval
// starts open on the target week.
func (u *bulkEditUsecase) CopyWeek(ctx context.Context, doctorID uuid.UUID, req *dto.CopyWeekRequest) (*dto.BulkEditResponse, error) {
	source, err := time.Parse("2006-01-02", req.SourceWeekStart)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	source = scheduling.Midnight(source)

	target := scheduling.NextWeek(source)
	if req.TargetWeekStart != "" {
		parsed, err := time.Parse("2006-01-02", req.TargetWeekStart)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		target = scheduling.Midnight(parsed)
	}

	results := make([]dto.BulkDateResult, 0, 7)
	for offset := 0; offset < 7; offset++ {
		sourceDay := source.AddDate(0, 0, offset)
		targetDay := target.AddDate(0, 0, offset)

		sourceSlots, err := u.timeSlotRepo.FindByDoctorAndDate(u.db.WithContext(ctx), doctorID, sourceDay)
		if err != nil {
			u.log.Warnf("Failed to load source slots for %s: %+v", sourceDay.Format("2006-01-02"), err)
			results = append(results, dto.BulkDateResult{
				Date:   targetDay.Format("2006-01-02"),
				Status: bulkFailed,
				Reason: "source read failed",
			})
			metrics.BulkEditDates.WithLabelValues("copy_week", bulkFailed).Inc()
			continue
		}

		results = append(results, u.mergeDate(ctx, doctorID, targetDay, weekCopyTemplate(sourceSlots), "copy_week"))
	}

	u.logBulkAudit(ctx, doctorID, entity.AuditActionWeekCopy, target.Format("2006-01-02"), req, results)

	return &dto.BulkEditResponse{Results: results, Total: len(results)}, nil
}

// BulkSetAvailability opens or closes whole days. Closing a day writes an
// unavailable exception and drops its open slots; opening one removes the
// exception so the weekly schedule applies again.
func (u *bulkEditUsecase) BulkSetAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.BulkAvailabilityRequest) (*dto.BulkEditResponse, error) {
	if len(req.Dates) == 0 {
		return nil, ErrEmptyBulkRequest
	}

	results := make([]dto.BulkDateResult, 0, len(req.Dates))
	for _, raw := range req.Dates {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			results = append(results, dto.BulkDateResult{Date: raw, Status: bulkFailed, Reason: "invalid date"})
			metrics.BulkEditDates.WithLabelValues("set_availability", bulkFailed).Inc()
			continue
		}

		var result dto.BulkDateResult
		if req.Available {
			result = u.openDay(ctx, doctorID, day)
		} else {
			result = u.closeDay(ctx, doctorID, day)
		}
		results = append(results, result)
		metrics.BulkEditDates.WithLabelValues("set_availability", result.Status).Inc()
		u.cacheService.InvalidateDay(ctx, doctorID, day)
	}

	u.logBulkAudit(ctx, doctorID, entity.AuditActionBulkSetAvailability, doctorID.String(), req, results)

	return &dto.BulkEditResponse{Results: results, Total: len(results)}, nil
}

// mergeDate merges a slot template into one date inside its own transaction.
func (u *bulkEditUsecase) mergeDate(ctx context.Context, doctorID uuid.UUID, day time.Time, template []entity.SlotTemplate, operation string) dto.BulkDateResult {
	date := day.Format("2006-01-02")

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.timeSlotRepo.FindByDoctorAndDate(tx, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load slots for %s: %+v", date, err)
		metrics.BulkEditDates.WithLabelValues(operation, bulkFailed).Inc()
		return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "slot read failed"}
	}

	plan := scheduling.PlanMerge(existing, template)

	if len(plan.Delete) > 0 {
		if _, err := u.timeSlotRepo.DeleteByIDs(tx, plan.Delete); err != nil {
			u.log.Warnf("Failed to delete slots for %s: %+v", date, err)
			metrics.BulkEditDates.WithLabelValues(operation, bulkFailed).Inc()
			return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "slot delete failed"}
		}
	}
	if len(plan.Insert) > 0 {
		rows := slotRowsFromTemplates(doctorID, day, plan.Insert)
		if err := u.timeSlotRepo.CreateBatch(tx, rows); err != nil {
			u.log.Warnf("Failed to insert slots for %s: %+v", date, err)
			metrics.BulkEditDates.WithLabelValues(operation, bulkFailed).Inc()
			return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "slot insert failed"}
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction for %s: %+v", date, err)
		metrics.BulkEditDates.WithLabelValues(operation, bulkFailed).Inc()
		return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "commit failed"}
	}

	metrics.SlotsMaterialized.Add(float64(len(plan.Insert)))
	u.cacheService.InvalidateDay(ctx, doctorID, day)

	result := dto.BulkDateResult{
		Date:     date,
		Inserted: len(plan.Insert),
		Deleted:  len(plan.Delete),
		Kept:     len(plan.Keep),
		Skipped:  len(plan.Skipped),
	}
	switch {
	case len(plan.Skipped) > 0:
		result.Status = bulkPartial
		result.Reason = "booked slots collide with template"
	case len(plan.Insert) == 0 && len(plan.Delete) == 0:
		result.Status = bulkSkipped
	default:
		result.Status = bulkApplied
	}

	metrics.BulkEditDates.WithLabelValues(operation, result.Status).Inc()
	return result
}

// weekCopyTemplate turns one source day's slots into the template for the
// matching target day. Available, blocked, and break slots keep their
// status; booked slots are dropped so their interval starts open.
func weekCopyTemplate(sourceSlots []entity.TimeSlot) []entity.SlotTemplate {
	template := make([]entity.SlotTemplate, 0, len(sourceSlots))
	for i := range sourceSlots {
		s := &sourceSlots[i]
		if s.IsBooked() {
			continue
		}
		template = append(template, entity.SlotTemplate{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Duration:  s.Duration,
			Status:    s.Status,
		})
	}
	return template
}

func (u *bulkEditUsecase) closeDay(ctx context.Context, doctorID uuid.UUID, day time.Time) dto.BulkDateResult {
	date := day.Format("2006-01-02")

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exc := &entity.ScheduleException{
		DoctorID: doctorID,
		Date:     day,
		Type:     entity.ExceptionUnavailable,
		Reason:   "bulk availability edit",
	}
	if err := u.exceptionRepo.Replace(tx, exc); err != nil {
		u.log.Warnf("Failed to close %s: %+v", date, err)
		return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "exception write failed"}
	}

	slots, err := u.timeSlotRepo.FindByDoctorAndDate(tx, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load slots for %s: %+v", date, err)
		return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "slot read failed"}
	}

	plan := scheduling.PlanMerge(slots, nil)
	if len(plan.Delete) > 0 {
		if _, err := u.timeSlotRepo.DeleteByIDs(tx, plan.Delete); err != nil {
			u.log.Warnf("Failed to drop slots for %s: %+v", date, err)
			return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "slot delete failed"}
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction for %s: %+v", date, err)
		return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "commit failed"}
	}

	result := dto.BulkDateResult{
		Date:    date,
		Status:  bulkApplied,
		Deleted: len(plan.Delete),
		Kept:    len(plan.Keep),
	}
	if len(plan.Keep) > 0 {
		result.Status = bulkPartial
		result.Reason = "booked slots remain on closed day"
	}
	return result
}

func (u *bulkEditUsecase) openDay(ctx context.Context, doctorID uuid.UUID, day time.Time) dto.BulkDateResult {
	date := day.Format("2006-01-02")

	exc, err := u.exceptionRepo.FindByDoctorAndDate(u.db.WithContext(ctx), doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load exception for %s: %+v", date, err)
		return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "exception read failed"}
	}
	if exc == nil {
		return dto.BulkDateResult{Date: date, Status: bulkSkipped, Reason: "day already open"}
	}

	if _, err := u.exceptionRepo.Delete(u.db.WithContext(ctx), exc.ID); err != nil {
		u.log.Warnf("Failed to delete exception for %s: %+v", date, err)
		return dto.BulkDateResult{Date: date, Status: bulkFailed, Reason: "exception delete failed"}
	}

	return dto.BulkDateResult{Date: date, Status: bulkApplied}
}

func (u *bulkEditUsecase) logBulkAudit(ctx context.Context, doctorID uuid.UUID, action, entityID string, req, results interface{}) {
	userID, _ := middleware.GetUserIDFromContext(ctx)
	payload := map[string]interface{}{
		"doctor_id": doctorID,
		"request":   req,
		"results":   results,
	}
	if err := u.auditService.LogUpdate(ctx, u.db.WithContext(ctx), &userID, action, "time_slots", entityID, nil, payload); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
}

func parseBulkRange(from, to string) ([]time.Time, error) {
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
	return dates, nil
}
