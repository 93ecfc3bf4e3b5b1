package handler

import (
	"encoding/json"
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// GetDayAvailability is the public calendar read: patients browse it to
// pick a slot, so it only needs a valid doctor ID, not schedule ownership.
func (h *AvailabilityHandler) GetDayAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date := mux.Vars(r)["date"]
	availability, err := h.availabilityUsecase.GetDayAvailability(r.Context(), doctorID, date)
	if err != nil {
		if writeSchedulingError(w, err) {
			return
		}
		if err == usecase.ErrInvalidDateFormat {
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		response.InternalServerError(w, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *AvailabilityHandler) GetRangeAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		response.Error(w, http.StatusBadRequest, "from and to query parameters are required", nil)
		return
	}

	availability, err := h.availabilityUsecase.GetRangeAvailability(r.Context(), doctorID, from, to)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidDateRange, usecase.ErrRangeTooLarge:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to get availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *AvailabilityHandler) MaterializeSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	var req dto.MaterializeSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.availabilityUsecase.MaterializeSlots(r.Context(), doctorID, &req)
	if err != nil {
		if writeSchedulingError(w, err) {
			return
		}
		switch err {
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrDayUnavailable:
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to generate slots")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Slots generated successfully", availability)
}

func (h *AvailabilityHandler) UpdateSlotStatus(w http.ResponseWriter, r *http.Request) {
	doctorID, err := doctorScope(r)
	if err != nil {
		writeScopeError(w, err)
		return
	}

	slotID, err := uuid.Parse(mux.Vars(r)["slotId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid slot ID", nil)
		return
	}

	var req dto.UpdateSlotStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slot, err := h.availabilityUsecase.UpdateSlotStatus(r.Context(), doctorID, slotID, &req)
	if err != nil {
		switch err {
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "Slot not found")
		case usecase.ErrSlotBooked:
			response.Error(w, http.StatusConflict, err.Error(), nil)
		case usecase.ErrInvalidSlotState:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update slot")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slot updated successfully", slot)
}
