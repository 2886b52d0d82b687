package availability

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
	"github.com/slotwise/slotwise-backend/pkg/types"
)

// Repository defines persistence operations for the per-day slot ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.VendorAvailability) error
	FindByVendorAndDate(ctx context.Context, vendorID uuid.UUID, date string) (*models.VendorAvailability, error)
	FindRange(ctx context.Context, vendorID uuid.UUID, startDate, endDate string) ([]models.VendorAvailability, error)
	ReplaceSlots(ctx context.Context, id uuid.UUID, slots types.TimeSlots, isAvailable bool, expectedVersion int64) (bool, error)
}
