package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
	"github.com/slotwise/slotwise-backend/pkg/enums"
)

// ActorContext identifies the authenticated principal acting on a booking.
type ActorContext struct {
	UserID   uuid.UUID
	VendorID *uuid.UUID
	Role     enums.ActorRole
}

// CreateItemInput is one requested menu item line.
type CreateItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// CreateInput carries a user's reservation request.
type CreateInput struct {
	UserID              uuid.UUID
	VendorID            uuid.UUID
	BookingDate         string
	BookingTime         string
	SpecialInstructions *string
	Items               []CreateItemInput
}

// ItemView renders a frozen booking line with the menu item's live display
// metadata. Name is empty when the menu item no longer exists.
type ItemView struct {
	MenuItemID  uuid.UUID       `json:"menu_item_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
}

// BookingView is the API-facing shape of a booking.
type BookingView struct {
	ID                  uuid.UUID           `json:"id"`
	UserID              uuid.UUID           `json:"user_id"`
	VendorID            uuid.UUID           `json:"vendor_id"`
	BookingDate         string              `json:"booking_date"`
	BookingTime         string              `json:"booking_time"`
	Status              enums.BookingStatus `json:"status"`
	TotalAmount         decimal.Decimal     `json:"total_amount"`
	SpecialInstructions *string             `json:"special_instructions,omitempty"`
	Items               []ItemView          `json:"items"`
	CreatedAt           time.Time           `json:"created_at"`
}

func viewFromModel(booking *models.Booking, meta map[uuid.UUID]MenuItemMeta) *BookingView {
	items := make([]ItemView, 0, len(booking.Items))
	for _, item := range booking.Items {
		view := ItemView{
			MenuItemID:  item.MenuItemID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		}
		if m, ok := meta[item.MenuItemID]; ok {
			view.Name = m.Name
			view.Description = m.Description
		}
		items = append(items, view)
	}
	return &BookingView{
		ID:                  booking.ID,
		UserID:              booking.UserID,
		VendorID:            booking.VendorID,
		BookingDate:         booking.BookingDate,
		BookingTime:         booking.BookingTime,
		Status:              booking.Status,
		TotalAmount:         booking.TotalAmount,
		SpecialInstructions: booking.SpecialInstructions,
		Items:               items,
		CreatedAt:           booking.CreatedAt,
	}
}
