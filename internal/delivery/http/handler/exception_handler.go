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

type ExceptionHandler struct {
	exceptionUsecase usecase.ScheduleExceptionUsecase
	validator        *validator.CustomValidator
}

func NewExceptionHandler(exceptionUsecase usecase.ScheduleExceptionUsecase, validator *validator.CustomValidator) *ExceptionHandler {
	return &ExceptionHandler{
		exceptionUsecase: exceptionUsecase,
		validator:        validator,
	}
}

func (h *ExceptionHandler) CreateException(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	var req dto.CreateExceptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	exc, err := h.exceptionUsecase.CreateException(r.Context(), doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat, usecase.ErrInvalidTimeWindow,
			usecase.ErrInvalidExceptionType, usecase.ErrCustomHoursNeedWindow:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create exception")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Exception saved successfully", exc)
}

func (h *ExceptionHandler) GetExceptions(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		response.Error(w, http.StatusBadRequest, "from and to query parameters are required", nil)
		return
	}

	exceptions, err := h.exceptionUsecase.GetExceptions(r.Context(), doctorID, from, to)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidDateRange:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to get exceptions")
		}
		return
	}

	response.Success(w, http.StatusOK, "Exceptions retrieved successfully", exceptions)
}

func (h *ExceptionHandler) DeleteException(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	exceptionID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid exception ID", nil)
		return
	}

	if err := h.exceptionUsecase.DeleteException(r.Context(), doctorID, exceptionID); err != nil {
		if err == usecase.ErrExceptionNotFound {
			response.NotFound(w, "Exception not found")
			return
		}
		response.InternalServerError(w, "Failed to delete exception")
		return
	}

	response.Success(w, http.StatusOK, "Exception deleted successfully", nil)
}
