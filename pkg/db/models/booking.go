package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/enums"
)

// Booking ties a user to a vendor's claimed slot with a frozen total.
// TotalAmount is computed once at creation and never recomputed.
type Booking struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	VendorID            uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index"`
	BookingDate         string              `gorm:"column:booking_date;not null"`
	BookingTime         string              `gorm:"column:booking_time;not null"`
	Status              enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalAmount         decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	SpecialInstructions *string             `gorm:"column:special_instructions"`
	CancelledAt         *time.Time          `gorm:"column:cancelled_at"`
	CompletedAt         *time.Time          `gorm:"column:completed_at"`

	Items []BookingItem `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
