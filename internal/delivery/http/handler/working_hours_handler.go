package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/gorilla/mux"
)

type WorkingHoursHandler struct {
	workingHoursUsecase usecase.WorkingHoursUsecase
	validator           *validator.CustomValidator
}

func NewWorkingHoursHandler(workingHoursUsecase usecase.WorkingHoursUsecase, validator *validator.CustomValidator) *WorkingHoursHandler {
	return &WorkingHoursHandler{
		workingHoursUsecase: workingHoursUsecase,
		validator:           validator,
	}
}

func (h *WorkingHoursHandler) SetWorkingHours(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	var req dto.SetWorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	hours, err := h.workingHoursUsecase.SetWorkingHours(r.Context(), doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidTimeFormat, usecase.ErrInvalidDayOfWeek, usecase.ErrInvalidTimeWindow, usecase.ErrBreakOutsideWindow:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to set working hours")
		}
		return
	}

	response.Success(w, http.StatusOK, "Working hours saved successfully", hours)
}

func (h *WorkingHoursHandler) GetWorkingHours(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	hours, err := h.workingHoursUsecase.GetWorkingHours(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get working hours")
		return
	}

	response.Success(w, http.StatusOK, "Working hours retrieved successfully", hours)
}

func (h *WorkingHoursHandler) DeleteWorkingHours(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	day, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid day of week", nil)
		return
	}

	if err := h.workingHoursUsecase.DeleteWorkingHours(r.Context(), doctorID, day); err != nil {
		switch err {
		case usecase.ErrInvalidDayOfWeek:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrWorkingDayNotFound:
			response.NotFound(w, "No working hours set for that day")
		default:
			response.InternalServerError(w, "Failed to delete working hours")
		}
		return
	}

	response.Success(w, http.StatusOK, "Working hours deleted successfully", nil)
}
