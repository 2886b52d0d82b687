package menus

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
	pkgerrors "github.com/slotwise/slotwise-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:menus_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.MenuItem{}); err != nil {
		t.Fatalf("migrate menu items: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, conn
}

func TestCreateAndListMenuItems(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()

	_, err := svc.CreateMenuItem(ctx, CreateInput{
		VendorID: vendorID,
		Name:     "Deep tissue massage",
		Price:    decimal.RequireFromString("85.00"),
		IsActive: true,
	})
	require.NoError(t, err)

	_, err = svc.CreateMenuItem(ctx, CreateInput{
		VendorID: vendorID,
		Name:     "Aromatherapy add-on",
		Price:    decimal.RequireFromString("15.50"),
		IsActive: false,
	})
	require.NoError(t, err)

	all, err := svc.ListVendorMenu(ctx, vendorID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListVendorMenu(ctx, vendorID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Deep tissue massage", active[0].Name)
}

func TestCreateMenuItemRejectsNegativePrice(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.CreateMenuItem(context.Background(), CreateInput{
		VendorID: uuid.New(),
		Name:     "Broken",
		Price:    decimal.RequireFromString("-1"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateMenuItemScopedToVendor(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()

	item, err := svc.CreateMenuItem(ctx, CreateInput{
		VendorID: vendorID,
		Name:     "Haircut",
		Price:    decimal.RequireFromString("30.00"),
		IsActive: true,
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("35.00")
	updated, err := svc.UpdateMenuItem(ctx, UpdateInput{
		VendorID: vendorID,
		ItemID:   item.ID,
		Price:    &newPrice,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))

	_, err = svc.UpdateMenuItem(ctx, UpdateInput{
		VendorID: uuid.New(),
		ItemID:   item.ID,
		Price:    &newPrice,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteMenuItemScopedToVendor(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()

	item, err := svc.CreateMenuItem(ctx, CreateInput{
		VendorID: vendorID,
		Name:     "Trim",
		Price:    decimal.RequireFromString("10.00"),
		IsActive: true,
	})
	require.NoError(t, err)

	err = svc.DeleteMenuItem(ctx, uuid.New(), item.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	require.NoError(t, svc.DeleteMenuItem(ctx, vendorID, item.ID))

	var count int64
	require.NoError(t, conn.Model(&models.MenuItem{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestResolveForVendorRejectsForeignItem(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()
	otherVendor := uuid.New()

	mine, err := svc.CreateMenuItem(ctx, CreateInput{
		VendorID: vendorID,
		Name:     "Mine",
		Price:    decimal.RequireFromString("20.00"),
		IsActive: true,
	})
	require.NoError(t, err)

	theirs, err := svc.CreateMenuItem(ctx, CreateInput{
		VendorID: otherVendor,
		Name:     "Theirs",
		Price:    decimal.RequireFromString("20.00"),
		IsActive: true,
	})
	require.NoError(t, err)

	resolved, err := svc.ResolveForVendor(ctx, conn, vendorID, []uuid.UUID{mine.ID})
	require.NoError(t, err)
	assert.Len(t, resolved, 1)

	_, err = svc.ResolveForVendor(ctx, conn, vendorID, []uuid.UUID{mine.ID, theirs.ID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, theirs.ID.String(), details["menu_item_id"])
}
