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

type BulkEditHandler struct {
	bulkEditUsecase usecase.BulkEditUsecase
	validator       *validator.CustomValidator
}

func NewBulkEditHandler(bulkEditUsecase usecase.BulkEditUsecase, validator *validator.CustomValidator) *BulkEditHandler {
	return &BulkEditHandler{
		bulkEditUsecase: bulkEditUsecase,
		validator:       validator,
	}
}

func (h *BulkEditHandler) ApplyPattern(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	patternID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pattern ID", nil)
		return
	}

	var req dto.ApplyPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.bulkEditUsecase.ApplyPattern(r.Context(), doctorID, patternID, &req)
	if err != nil {
		writeBulkError(w, err, "Failed to apply pattern")
		return
	}

	response.Success(w, http.StatusOK, "Pattern applied", result)
}

func (h *BulkEditHandler) CopyWeek(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	var req dto.CopyWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.bulkEditUsecase.CopyWeek(r.Context(), doctorID, &req)
	if err != nil {
		writeBulkError(w, err, "Failed to copy week")
		return
	}

	response.Success(w, http.StatusOK, "Week copied", result)
}

func (h *BulkEditHandler) BulkSetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	var req dto.BulkAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.bulkEditUsecase.BulkSetAvailability(r.Context(), doctorID, &req)
	if err != nil {
		writeBulkError(w, err, "Failed to update availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability updated", result)
}

func writeBulkError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPatternNotFound:
		response.NotFound(w, "Pattern not found")
	case usecase.ErrInvalidDateFormat, usecase.ErrInvalidDateRange, usecase.ErrRangeTooLarge, usecase.ErrEmptyBulkRequest:
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
