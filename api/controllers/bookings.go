package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slotwise/slotwise-backend/api/responses"
	"github.com/slotwise/slotwise-backend/api/validators"
	bookingsvc "github.com/slotwise/slotwise-backend/internal/bookings"
	"github.com/slotwise/slotwise-backend/pkg/enums"
	pkgerrors "github.com/slotwise/slotwise-backend/pkg/errors"
	"github.com/slotwise/slotwise-backend/pkg/logger"
)

type createBookingItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid4"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

type createBookingRequest struct {
	VendorID            string                     `json:"vendor_id" validate:"required,uuid4"`
	BookingDate         string                     `json:"booking_date" validate:"required"`
	BookingTime         string                     `json:"booking_time" validate:"required"`
	SpecialInstructions *string                    `json:"special_instructions,omitempty"`
	Items               []createBookingItemRequest `json:"items" validate:"required,min=1,dive"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateBooking reserves a slot and records the booking in one transaction.
// The reserved slot and frozen prices come back in the response.
func CreateBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		userID, err := userIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendorID, err := uuid.Parse(payload.VendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
			return
		}

		items := make([]bookingsvc.CreateItemInput, 0, len(payload.Items))
		for _, line := range payload.Items {
			itemID, err := uuid.Parse(line.MenuItemID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu item id"))
				return
			}
			items = append(items, bookingsvc.CreateItemInput{MenuItemID: itemID, Quantity: line.Quantity})
		}

		booking, err := svc.Create(r.Context(), bookingsvc.CreateInput{
			UserID:              userID,
			VendorID:            vendorID,
			BookingDate:         payload.BookingDate,
			BookingTime:         payload.BookingTime,
			SpecialInstructions: payload.SpecialInstructions,
			Items:               items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

// MyBookings lists the authenticated user's bookings, newest day first.
func MyBookings(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		userID, err := userIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

// VendorBookings lists every booking placed against the authenticated vendor.
func VendorBookings(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		vendorID, err := vendorIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListForVendor(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

// UpdateBookingStatus routes a requested target status through the booking
// state machine. Illegal transitions are rejected, never coerced.
func UpdateBookingStatus(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		actor, bookingID, err := transitionParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBookingStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseBookingStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		view, err := svc.SetStatus(r.Context(), actor, bookingID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CancelBooking cancels a pending or confirmed booking and credits the slot
// back to the vendor's day.
func CancelBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request, actor bookingsvc.ActorContext, bookingID uuid.UUID) (*bookingsvc.BookingView, error) {
		return svc.Cancel(r.Context(), actor, bookingID)
	})
}

// ConfirmBooking moves a pending booking to confirmed. Vendor only.
func ConfirmBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request, actor bookingsvc.ActorContext, bookingID uuid.UUID) (*bookingsvc.BookingView, error) {
		return svc.Confirm(r.Context(), actor, bookingID)
	})
}

// CompleteBooking closes out a confirmed booking after service. Vendor only.
func CompleteBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request, actor bookingsvc.ActorContext, bookingID uuid.UUID) (*bookingsvc.BookingView, error) {
		return svc.Complete(r.Context(), actor, bookingID)
	})
}

func transitionHandler(
	svc bookingsvc.Service,
	logg *logger.Logger,
	apply func(*http.Request, bookingsvc.ActorContext, uuid.UUID) (*bookingsvc.BookingView, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		actor, bookingID, err := transitionParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := apply(r, actor, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

func transitionParams(r *http.Request) (bookingsvc.ActorContext, uuid.UUID, error) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		return bookingsvc.ActorContext{}, uuid.Nil, err
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingId"))
	if err != nil {
		return bookingsvc.ActorContext{}, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id")
	}
	return actor, bookingID, nil
}
