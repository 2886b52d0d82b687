package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/types"
)

// VendorAvailability is the per-day slot ledger for a vendor. Slots holds the
// remaining open "HH:MM" start times; claiming a slot removes it, cancelling a
// booking credits it back. Version guards concurrent slot mutations.
type VendorAvailability struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	VendorID    uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:idx_vendor_availability_day,priority:1"`
	Date        string          `gorm:"column:date;not null;uniqueIndex:idx_vendor_availability_day,priority:2"`
	Slots       types.TimeSlots `gorm:"column:slots;type:jsonb;serializer:json"`
	IsAvailable bool            `gorm:"column:is_available;not null;default:true"`
	Version     int64           `gorm:"column:version;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *VendorAvailability) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
