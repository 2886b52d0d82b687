package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/slotwise/slotwise-backend/api/middleware"
	"github.com/slotwise/slotwise-backend/internal/bookings"
	"github.com/slotwise/slotwise-backend/pkg/enums"
	pkgerrors "github.com/slotwise/slotwise-backend/pkg/errors"
)

func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

func vendorIDFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.VendorIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing")
	}
	vendorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid vendor id")
	}
	return vendorID, nil
}

// actorFromContext assembles the acting principal from the auth claims seeded
// by the middleware.
func actorFromContext(ctx context.Context) (bookings.ActorContext, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return bookings.ActorContext{}, err
	}

	role, err := enums.ParseActorRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return bookings.ActorContext{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor role")
	}

	actor := bookings.ActorContext{UserID: userID, Role: role}
	if raw := middleware.VendorIDFromContext(ctx); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			return bookings.ActorContext{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid vendor id")
		}
		actor.VendorID = &vendorID
	}
	return actor, nil
}
