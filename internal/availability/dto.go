package availability

import (
	"github.com/google/uuid"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
	"github.com/slotwise/slotwise-backend/pkg/types"
)

// DeclarationInput carries a vendor's slot declaration for one day.
type DeclarationInput struct {
	VendorID    uuid.UUID
	Date        string
	Slots       []string
	IsAvailable bool
}

// DayView is the per-day availability surface returned to callers. A day
// without a ledger record renders as closed with no slots.
type DayView struct {
	VendorID       uuid.UUID       `json:"vendor_id"`
	Date           string          `json:"date"`
	IsAvailable    bool            `json:"is_available"`
	AvailableSlots types.TimeSlots `json:"available_slots"`
}

func dayViewFromModel(record *models.VendorAvailability) *DayView {
	slots := record.Slots
	if slots == nil {
		slots = types.TimeSlots{}
	}
	return &DayView{
		VendorID:       record.VendorID,
		Date:           record.Date,
		IsAvailable:    record.IsAvailable,
		AvailableSlots: slots,
	}
}
