package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slotwise/slotwise-backend/api/responses"
	"github.com/slotwise/slotwise-backend/api/validators"
	availabilitysvc "github.com/slotwise/slotwise-backend/internal/availability"
	pkgerrors "github.com/slotwise/slotwise-backend/pkg/errors"
	"github.com/slotwise/slotwise-backend/pkg/logger"
)

type declareAvailabilityRequest struct {
	Date           string   `json:"date" validate:"required"`
	AvailableSlots []string `json:"available_slots"`
	IsAvailable    *bool    `json:"is_available,omitempty"`
}

// DeclareAvailability handles the vendor's per-day slot declaration. Repeating
// the same declaration is a no-op; changing it replaces the day wholesale.
func DeclareAvailability(svc availabilitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		vendorID, err := vendorIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload declareAvailabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isAvailable := true
		if payload.IsAvailable != nil {
			isAvailable = *payload.IsAvailable
		}

		day, err := svc.SetAvailability(r.Context(), availabilitysvc.DeclarationInput{
			VendorID:    vendorID,
			Date:        payload.Date,
			Slots:       payload.AvailableSlots,
			IsAvailable: isAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, day)
	}
}

// VendorAvailability returns the vendor's own ledger across an inclusive date
// range. Days without a record are omitted.
func VendorAvailability(svc availabilitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		vendorID, err := vendorIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		startDate, err := validators.RequireQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endDate, err := validators.RequireQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		days, err := svc.GetAvailability(r.Context(), vendorID, startDate, endDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, days)
	}
}

// PublicAvailability renders a vendor's bookable slots for one day. A day the
// vendor never declared reads as closed rather than missing.
func PublicAvailability(svc availabilitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		vendorID, err := uuid.Parse(chi.URLParam(r, "vendorId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
			return
		}

		date, err := validators.RequireQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		day, err := svc.GetPublicAvailability(r.Context(), vendorID, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, day)
	}
}
