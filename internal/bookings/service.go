package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
	"github.com/slotwise/slotwise-backend/pkg/enums"
	pkgerrors "github.com/slotwise/slotwise-backend/pkg/errors"
	"github.com/slotwise/slotwise-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SlotLedger claims and credits availability slots inside a transaction.
type SlotLedger interface {
	ClaimSlot(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, date, slot string) error
	CreditSlot(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, date, slot string) error
}

// MenuResolver loads vendor-scoped menu items inside a transaction.
type MenuResolver interface {
	ResolveForVendor(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error)
}

// Service defines the booking lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*BookingView, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]BookingView, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]BookingView, error)
	Confirm(ctx context.Context, actor ActorContext, bookingID uuid.UUID) (*BookingView, error)
	Cancel(ctx context.Context, actor ActorContext, bookingID uuid.UUID) (*BookingView, error)
	Complete(ctx context.Context, actor ActorContext, bookingID uuid.UUID) (*BookingView, error)
	SetStatus(ctx context.Context, actor ActorContext, bookingID uuid.UUID, target enums.BookingStatus) (*BookingView, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	slots SlotLedger
	menus MenuResolver
}

// NewService builds a bookings service with the required dependencies.
func NewService(repo Repository, tx txRunner, slots SlotLedger, menus MenuResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if slots == nil {
		return nil, fmt.Errorf("slot ledger required")
	}
	if menus == nil {
		return nil, fmt.Errorf("menu resolver required")
	}
	return &service{repo: repo, tx: tx, slots: slots, menus: menus}, nil
}

// Create reserves a slot and writes the booking with frozen item prices, all
// in one transaction. The slot is claimed before menu resolution so any later
// failure rolls the claim back with everything else.
func (s *service) Create(ctx context.Context, input CreateInput) (*BookingView, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	itemIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		itemIDs = append(itemIDs, item.MenuItemID)
	}

	var booking *models.Booking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.slots.ClaimSlot(ctx, tx, input.VendorID, input.BookingDate, input.BookingTime); err != nil {
			return err
		}

		resolved, err := s.menus.ResolveForVendor(ctx, tx, input.VendorID, itemIDs)
		if err != nil {
			return err
		}

		total := decimal.Zero
		lines := make([]models.BookingItem, 0, len(input.Items))
		for _, item := range input.Items {
			menuItem := resolved[item.MenuItemID]
			if !menuItem.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "menu item is not currently offered").
					WithDetails(map[string]any{"menu_item_id": item.MenuItemID.String()})
			}
			price := menuItem.Price
			total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			lines = append(lines, models.BookingItem{
				MenuItemID:  item.MenuItemID,
				Quantity:    item.Quantity,
				PriceAtTime: price,
			})
		}

		booking = &models.Booking{
			UserID:              input.UserID,
			VendorID:            input.VendorID,
			BookingDate:         input.BookingDate,
			BookingTime:         input.BookingTime,
			Status:              enums.BookingStatusPending,
			TotalAmount:         total,
			SpecialInstructions: input.SpecialInstructions,
			Items:               lines,
		}
		if err := s.repo.WithTx(tx).Create(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.renderView(ctx, booking)
}

func validateCreateInput(input CreateInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.VendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if !types.ValidDate(input.BookingDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking_date must be YYYY-MM-DD")
	}
	if !types.ValidSlot(input.BookingTime) {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking_time must be HH:MM")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one menu item is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	for _, item := range input.Items {
		if item.MenuItemID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "menu item quantity must be at least 1").
				WithDetails(map[string]any{"menu_item_id": item.MenuItemID.String()})
		}
		if _, dup := seen[item.MenuItemID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate menu item in request").
				WithDetails(map[string]any{"menu_item_id": item.MenuItemID.String()})
		}
		seen[item.MenuItemID] = struct{}{}
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]BookingView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	bookings, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user bookings")
	}
	return s.renderViews(ctx, bookings)
}

func (s *service) ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]BookingView, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	bookings, err := s.repo.ListForVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor bookings")
	}
	return s.renderViews(ctx, bookings)
}

// Confirm moves a pending booking to confirmed. Vendor only.
func (s *service) Confirm(ctx context.Context, actor ActorContext, bookingID uuid.UUID) (*BookingView, error) {
	return s.transition(ctx, actor, bookingID, enums.BookingStatusConfirmed)
}

// Cancel moves a pending or confirmed booking to cancelled and credits the
// slot back. The booking row and its items are retained for audit.
func (s *service) Cancel(ctx context.Context, actor ActorContext, bookingID uuid.UUID) (*BookingView, error) {
	return s.transition(ctx, actor, bookingID, enums.BookingStatusCancelled)
}

// Complete records that service was rendered and payment settled externally.
// Vendor only, from confirmed.
func (s *service) Complete(ctx context.Context, actor ActorContext, bookingID uuid.UUID) (*BookingView, error) {
	return s.transition(ctx, actor, bookingID, enums.BookingStatusCompleted)
}

// SetStatus routes a requested target through the same transition table as
// the named operations. There is no unconditional overwrite path.
func (s *service) SetStatus(ctx context.Context, actor ActorContext, bookingID uuid.UUID, target enums.BookingStatus) (*BookingView, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown booking status").
			WithDetails(map[string]any{"status": target.String()})
	}
	return s.transition(ctx, actor, bookingID, target)
}

func (s *service) transition(ctx context.Context, actor ActorContext, bookingID uuid.UUID, target enums.BookingStatus) (*BookingView, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if err := authorizeTransition(actor, target); err != nil {
		return nil, err
	}

	var booking *models.Booking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := repo.FindByID(ctx, bookingID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}
		if !actorOwnsBooking(actor, loaded) {
			// ownership failures are indistinguishable from missing rows
			return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		if !loaded.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move booking from %s to %s", loaded.Status, target)).
				WithDetails(map[string]any{"from": loaded.Status.String(), "to": target.String()})
		}

		extra := map[string]any{}
		now := time.Now().UTC()
		switch target {
		case enums.BookingStatusCancelled:
			extra["cancelled_at"] = now
		case enums.BookingStatusCompleted:
			extra["completed_at"] = now
		}

		affected, err := repo.UpdateStatus(ctx, loaded.ID, loaded.Status, target, extra)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking changed state concurrently")
		}

		if target == enums.BookingStatusCancelled {
			if err := s.slots.CreditSlot(ctx, tx, loaded.VendorID, loaded.BookingDate, loaded.BookingTime); err != nil {
				return err
			}
			loaded.CancelledAt = &now
		}
		if target == enums.BookingStatusCompleted {
			loaded.CompletedAt = &now
		}

		loaded.Status = target
		booking = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.renderView(ctx, booking)
}

func authorizeTransition(actor ActorContext, target enums.BookingStatus) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	switch target {
	case enums.BookingStatusCancelled:
		// both parties may cancel
		return nil
	case enums.BookingStatusConfirmed, enums.BookingStatusCompleted:
		if actor.Role != enums.ActorRoleVendor || actor.VendorID == nil {
			return pkgerrors.New(pkgerrors.CodeForbidden, "vendor role required")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "requested status is not reachable").
			WithDetails(map[string]any{"to": target.String()})
	}
}

func actorOwnsBooking(actor ActorContext, booking *models.Booking) bool {
	if actor.Role == enums.ActorRoleVendor {
		return actor.VendorID != nil && *actor.VendorID == booking.VendorID
	}
	return booking.UserID == actor.UserID
}

func (s *service) renderView(ctx context.Context, booking *models.Booking) (*BookingView, error) {
	ids := make([]uuid.UUID, 0, len(booking.Items))
	for _, item := range booking.Items {
		ids = append(ids, item.MenuItemID)
	}
	meta, err := s.repo.MenuMetadata(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu metadata")
	}
	return viewFromModel(booking, meta), nil
}

func (s *service) renderViews(ctx context.Context, bookings []models.Booking) ([]BookingView, error) {
	idSet := make(map[uuid.UUID]struct{})
	for i := range bookings {
		for _, item := range bookings[i].Items {
			idSet[item.MenuItemID] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	meta, err := s.repo.MenuMetadata(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu metadata")
	}

	views := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, *viewFromModel(&bookings[i], meta))
	}
	return views, nil
}
