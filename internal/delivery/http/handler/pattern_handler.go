package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PatternHandler struct {
	patternUsecase usecase.AvailabilityPatternUsecase
	validator      *validator.CustomValidator
}

func NewPatternHandler(patternUsecase usecase.AvailabilityPatternUsecase, validator *validator.CustomValidator) *PatternHandler {
	return &PatternHandler{
		patternUsecase: patternUsecase,
		validator:      validator,
	}
}

func (h *PatternHandler) CreatePattern(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	var req dto.CreatePatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pattern, err := h.patternUsecase.CreatePattern(r.Context(), doctorID, &req)
	if err != nil {
		writePatternError(w, err, "Failed to create pattern")
		return
	}

	response.Success(w, http.StatusCreated, "Pattern created successfully", pattern)
}

func (h *PatternHandler) GetPattern(w http.ResponseWriter, r *http.Request) {
	doctorID, patternID, ok := h.patternScope(w, r)
	if !ok {
		return
	}

	pattern, err := h.patternUsecase.GetPattern(r.Context(), doctorID, patternID)
	if err != nil {
		writePatternError(w, err, "Failed to get pattern")
		return
	}

	response.Success(w, http.StatusOK, "Pattern retrieved successfully", pattern)
}

func (h *PatternHandler) GetPatterns(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	patterns, err := h.patternUsecase.GetPatterns(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get patterns")
		return
	}

	response.Success(w, http.StatusOK, "Patterns retrieved successfully", patterns)
}

func (h *PatternHandler) UpdatePattern(w http.ResponseWriter, r *http.Request) {
	doctorID, patternID, ok := h.patternScope(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pattern, err := h.patternUsecase.UpdatePattern(r.Context(), doctorID, patternID, &req)
	if err != nil {
		writePatternError(w, err, "Failed to update pattern")
		return
	}

	response.Success(w, http.StatusOK, "Pattern updated successfully", pattern)
}

func (h *PatternHandler) DeletePattern(w http.ResponseWriter, r *http.Request) {
	doctorID, patternID, ok := h.patternScope(w, r)
	if !ok {
		return
	}

	if err := h.patternUsecase.DeletePattern(r.Context(), doctorID, patternID); err != nil {
		writePatternError(w, err, "Failed to delete pattern")
		return
	}

	response.Success(w, http.StatusOK, "Pattern deleted successfully", nil)
}

func (h *PatternHandler) patternScope(w http.ResponseWriter, r *http.Request) (doctorID uuid.UUID, patternID int, ok bool) {
	id, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	patternID, err = strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pattern ID", nil)
		return
	}

	return id, patternID, true
}

func writePatternError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrPatternNotFound:
		response.NotFound(w, "Pattern not found")
	case usecase.ErrInvalidTimeFormat, usecase.ErrInvalidTimeWindow, usecase.ErrInvalidDayOfWeek,
		usecase.ErrDuplicatePatternDay, usecase.ErrTemplateSlotInvalid:
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
