package availability

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
	"github.com/slotwise/slotwise-backend/pkg/types"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an availability repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.VendorAvailability) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByVendorAndDate(ctx context.Context, vendorID uuid.UUID, date string) (*models.VendorAvailability, error) {
	var record models.VendorAvailability
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND date = ?", vendorID, date).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindRange(ctx context.Context, vendorID uuid.UUID, startDate, endDate string) ([]models.VendorAvailability, error) {
	var records []models.VendorAvailability
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND date >= ? AND date <= ?", vendorID, startDate, endDate).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceSlots swaps the slot set behind a version guard. The false return
// means another writer advanced the row first.
func (r *repository) ReplaceSlots(ctx context.Context, id uuid.UUID, slots types.TimeSlots, isAvailable bool, expectedVersion int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.VendorAvailability{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Select("slots", "is_available", "version").
		Updates(models.VendorAvailability{
			Slots:       slots,
			IsAvailable: isAvailable,
			Version:     expectedVersion + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
