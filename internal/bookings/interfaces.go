package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
	"github.com/slotwise/slotwise-backend/pkg/enums"
)

// Repository defines persistence operations for the booking ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, extra map[string]any) (int64, error)
	MenuMetadata(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]MenuItemMeta, error)
}

// MenuItemMeta is the live display metadata joined onto frozen booking items.
type MenuItemMeta struct {
	Name        string
	Description *string
}
