package handler

import (
	"errors"
	"net/http"

	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/scheduling"
	"clinic-scheduler/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var errNotOwnSchedule = errors.New("doctors may only manage their own schedule")

// writeSchedulingError maps the scheduling engine's typed errors onto HTTP
// statuses. Returns false when the error is not one of them, so the caller
// falls through to its own mapping.
func writeSchedulingError(w http.ResponseWriter, err error) bool {
	var vErr *scheduling.ValidationError
	var cErr *scheduling.ConflictError
	var nfErr *scheduling.NotFoundError
	var raceErr *scheduling.ConcurrencyError

	switch {
	case errors.As(err, &vErr):
		response.Error(w, http.StatusBadRequest, "Validation failed", map[string]string{vErr.Field: vErr.Reason})
	case errors.As(err, &cErr):
		response.Error(w, http.StatusConflict, "Scheduling conflict", map[string]string{"reason": cErr.Reason})
	case errors.As(err, &nfErr):
		response.NotFound(w, nfErr.Error())
	case errors.As(err, &raceErr):
		response.Error(w, http.StatusConflict, "Slot was taken by a concurrent booking, pick another", map[string]string{"reason": scheduling.ReasonSlotTaken})
	default:
		return false
	}
	return true
}

// doctorScope resolves the {doctorId} path variable and enforces that a
// doctor can only touch their own schedule. Admins pass for any doctor.
func doctorScope(r *http.Request) (uuid.UUID, error) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		return uuid.Nil, err
	}

	if roleID, ok := middleware.GetRoleIDFromContext(r.Context()); ok && roleID == entity.RoleIDDoctor {
		if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok && userID != doctorID {
			return uuid.Nil, errNotOwnSchedule
		}
	}

	return doctorID, nil
}

func writeScopeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotOwnSchedule) {
		response.Forbidden(w, "You can only manage your own schedule")
		return
	}
	response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
}
