package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// WorkingHoursToResponse converts a WorkingHours entity to its DTO
func WorkingHoursToResponse(hours *entity.WorkingHours) dto.WorkingHoursResponse {
	resp := dto.WorkingHoursResponse{
		DoctorID:  hours.DoctorID,
		DayOfWeek: int(hours.DayOfWeek),
		IsWorking: hours.IsWorking,
		UpdatedAt: hours.UpdatedAt,
	}
	if hours.IsWorking {
		resp.StartTime = hours.StartTime.String()
		resp.EndTime = hours.EndTime.String()
	}
	if hours.BreakStart != nil {
		s := hours.BreakStart.String()
		resp.BreakStart = &s
	}
	if hours.BreakEnd != nil {
		s := hours.BreakEnd.String()
		resp.BreakEnd = &s
	}
	return resp
}

// WorkingHoursToListResponse converts a doctor's full weekly schedule
func WorkingHoursToListResponse(doctorID uuid.UUID, hours []entity.WorkingHours) *dto.WorkingHoursListResponse {
	days := make([]dto.WorkingHoursResponse, len(hours))
	for i := range hours {
		days[i] = WorkingHoursToResponse(&hours[i])
	}
	return &dto.WorkingHoursListResponse{
		DoctorID: doctorID,
		Days:     days,
	}
}

// ExceptionToResponse converts a ScheduleException entity to its DTO
func ExceptionToResponse(exc *entity.ScheduleException) *dto.ExceptionResponse {
	if exc == nil {
		return nil
	}

	resp := &dto.ExceptionResponse{
		ID:        exc.ID,
		DoctorID:  exc.DoctorID,
		Date:      exc.Date.Format("2006-01-02"),
		Type:      string(exc.Type),
		Reason:    exc.Reason,
		CreatedAt: exc.CreatedAt,
	}
	if exc.StartTime != nil {
		s := exc.StartTime.String()
		resp.StartTime = &s
	}
	if exc.EndTime != nil {
		s := exc.EndTime.String()
		resp.EndTime = &s
	}
	return resp
}

// ExceptionsToResponses converts a slice of ScheduleException entities
func ExceptionsToResponses(excs []entity.ScheduleException) []dto.ExceptionResponse {
	responses := make([]dto.ExceptionResponse, len(excs))
	for i := range excs {
		responses[i] = *ExceptionToResponse(&excs[i])
	}
	return responses
}

// PatternToResponse converts an AvailabilityPattern entity to its DTO
func PatternToResponse(pattern *entity.AvailabilityPattern) *dto.PatternResponse {
	if pattern == nil {
		return nil
	}

	weekly := make([]dto.DayPatternResponse, len(pattern.WeeklyPattern))
	for i, day := range pattern.WeeklyPattern {
		slots := make([]dto.SlotTemplateResponse, len(day.TimeSlots))
		for j, tpl := range day.TimeSlots {
			slots[j] = dto.SlotTemplateResponse{
				StartTime: tpl.StartTime.String(),
				EndTime:   tpl.EndTime.String(),
				Duration:  tpl.Duration,
			}
		}
		weekly[i] = dto.DayPatternResponse{
			DayOfWeek:   int(day.DayOfWeek),
			IsAvailable: day.IsAvailable,
			TimeSlots:   slots,
		}
	}

	return &dto.PatternResponse{
		ID:            pattern.ID,
		DoctorID:      pattern.DoctorID,
		Name:          pattern.Name,
		Description:   pattern.Description,
		WeeklyPattern: weekly,
		CreatedAt:     pattern.CreatedAt,
		UpdatedAt:     pattern.UpdatedAt,
	}
}

// PatternsToResponses converts a slice of AvailabilityPattern entities
func PatternsToResponses(patterns []entity.AvailabilityPattern) []dto.PatternResponse {
	responses := make([]dto.PatternResponse, len(patterns))
	for i := range patterns {
		responses[i] = *PatternToResponse(&patterns[i])
	}
	return responses
}

// TimeSlotToResponse converts a TimeSlot entity to its DTO
func TimeSlotToResponse(slot *entity.TimeSlot) dto.SlotResponse {
	return dto.SlotResponse{
		ID:            slot.ID,
		StartTime:     slot.StartTime.String(),
		EndTime:       slot.EndTime.String(),
		Duration:      slot.Duration,
		Status:        string(slot.Status),
		AppointmentID: slot.AppointmentID,
	}
}

// TimeSlotsToResponses converts a slice of TimeSlot entities
func TimeSlotsToResponses(slots []entity.TimeSlot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		responses[i] = TimeSlotToResponse(&slots[i])
	}
	return responses
}

// AppointmentToResponse converts an Appointment entity to its DTO
// Includes doctor info if the Doctor relation is preloaded
func AppointmentToResponse(appt *entity.Appointment) *dto.AppointmentResponse {
	if appt == nil {
		return nil
	}

	resp := &dto.AppointmentResponse{
		ID:        appt.ID,
		PatientID: appt.PatientID,
		DoctorID:  appt.DoctorID,
		Date:      appt.Date.Format("2006-01-02"),
		StartTime: appt.StartTime.String(),
		EndTime:   appt.EndTime().String(),
		Duration:  appt.Duration,
		Status:    string(appt.Status),
		Notes:     appt.Notes,
		CreatedAt: appt.CreatedAt,
		UpdatedAt: appt.UpdatedAt,
	}
	if appt.Doctor.UserID != uuid.Nil {
		resp.Doctor = DoctorProfileToResponse(&appt.Doctor)
	}
	return resp
}

// AppointmentsToResponses converts a slice of Appointment entities
func AppointmentsToResponses(appts []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appts))
	for i := range appts {
		responses[i] = *AppointmentToResponse(&appts[i])
	}
	return responses
}
