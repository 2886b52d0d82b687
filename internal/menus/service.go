package menus

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
	pkgerrors "github.com/slotwise/slotwise-backend/pkg/errors"
)

// CreateInput carries the fields for a new menu item.
type CreateInput struct {
	VendorID    uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	IsActive    bool
}

// UpdateInput carries a partial menu item update. Nil fields stay untouched.
type UpdateInput struct {
	VendorID    uuid.UUID
	ItemID      uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
	IsActive    *bool
}

// Service defines vendor menu operations.
type Service interface {
	CreateMenuItem(ctx context.Context, input CreateInput) (*MenuItemView, error)
	UpdateMenuItem(ctx context.Context, input UpdateInput) (*MenuItemView, error)
	DeleteMenuItem(ctx context.Context, vendorID, itemID uuid.UUID) error
	ListVendorMenu(ctx context.Context, vendorID uuid.UUID, activeOnly bool) ([]MenuItemView, error)
	ResolveForVendor(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error)
}

type service struct {
	repo Repository
}

// NewService builds a menu service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menus repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateMenuItem(ctx context.Context, input CreateInput) (*MenuItemView, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item price must not be negative")
	}

	item := &models.MenuItem{
		VendorID:    input.VendorID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		IsActive:    input.IsActive,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}
	return viewFromModel(item), nil
}

func (s *service) UpdateMenuItem(ctx context.Context, input UpdateInput) (*MenuItemView, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item name required")
		}
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item price must not be negative")
		}
		updates["price"] = *input.Price
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields provided")
	}

	affected, err := s.repo.Update(ctx, input.ItemID, input.VendorID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}

	item, err := s.repo.FindByIDForVendor(ctx, input.ItemID, input.VendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload menu item")
	}
	return viewFromModel(item), nil
}

func (s *service) DeleteMenuItem(ctx context.Context, vendorID, itemID uuid.UUID) error {
	if vendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	affected, err := s.repo.Delete(ctx, itemID, vendorID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return nil
}

func (s *service) ListVendorMenu(ctx context.Context, vendorID uuid.UUID, activeOnly bool) ([]MenuItemView, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	items, err := s.repo.ListForVendor(ctx, vendorID, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor menu")
	}
	return viewsFromModels(items), nil
}

// ResolveForVendor loads the requested menu items scoped to one vendor within
// the caller's transaction. An id belonging to another vendor is reported the
// same as an unknown one.
func (s *service) ResolveForVendor(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error) {
	repo := s.repo.WithTx(tx)
	items, err := repo.FindByIDsForVendor(ctx, vendorID, ids)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve menu items")
	}

	resolved := make(map[uuid.UUID]models.MenuItem, len(items))
	for _, item := range items {
		resolved[item.ID] = item
	}
	for _, id := range ids {
		if _, ok := resolved[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item does not belong to this vendor").
				WithDetails(map[string]any{"menu_item_id": id.String()})
		}
	}
	return resolved, nil
}
