package menus

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
)

// MenuItemView is the menu item payload returned to clients.
type MenuItemView struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func viewFromModel(item *models.MenuItem) *MenuItemView {
	return &MenuItemView{
		ID:          item.ID,
		VendorID:    item.VendorID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func viewsFromModels(items []models.MenuItem) []MenuItemView {
	views := make([]MenuItemView, 0, len(items))
	for i := range items {
		views = append(views, *viewFromModel(&items[i]))
	}
	return views
}
