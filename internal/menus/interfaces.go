package menus

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
)

// Repository defines persistence operations for vendor menus.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, id, vendorID uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id, vendorID uuid.UUID) (int64, error)
	FindByIDForVendor(ctx context.Context, id, vendorID uuid.UUID) (*models.MenuItem, error)
	FindByIDsForVendor(ctx context.Context, vendorID uuid.UUID, ids []uuid.UUID) ([]models.MenuItem, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID, activeOnly bool) ([]models.MenuItem, error)
}
