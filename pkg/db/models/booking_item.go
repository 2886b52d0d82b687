package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingItem snapshots one menu item inside a booking. PriceAtTime is frozen
// at booking time and never re-read from the live menu.
type BookingItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BookingID   uuid.UUID       `gorm:"column:booking_id;type:uuid;not null;index"`
	MenuItemID  uuid.UUID       `gorm:"column:menu_item_id;type:uuid;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *BookingItem) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
