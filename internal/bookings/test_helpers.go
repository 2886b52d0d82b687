package bookings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/internal/availability"
	"github.com/slotwise/slotwise-backend/internal/menus"
	"github.com/slotwise/slotwise-backend/pkg/db"
	"github.com/slotwise/slotwise-backend/pkg/db/models"
)

type testEnv struct {
	conn         *gorm.DB
	bookings     Service
	availability availability.Service
	menus        menus.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:bookings_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.VendorAvailability{},
		&models.MenuItem{},
		&models.Booking{},
		&models.BookingItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	runner := db.NewFromGorm(conn)
	availSvc, err := availability.NewService(availability.NewRepository(conn), runner)
	if err != nil {
		t.Fatalf("build availability service: %v", err)
	}
	menuSvc, err := menus.NewService(menus.NewRepository(conn))
	if err != nil {
		t.Fatalf("build menus service: %v", err)
	}
	bookingSvc, err := NewService(NewRepository(conn), runner, availSvc, menuSvc)
	if err != nil {
		t.Fatalf("build bookings service: %v", err)
	}
	return &testEnv{
		conn:         conn,
		bookings:     bookingSvc,
		availability: availSvc,
		menus:        menuSvc,
	}
}

func (e *testEnv) mustDeclareDay(t *testing.T, vendorID uuid.UUID, date string, slots ...string) {
	t.Helper()
	_, err := e.availability.SetAvailability(context.Background(), availability.DeclarationInput{
		VendorID:    vendorID,
		Date:        date,
		Slots:       slots,
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("declare availability: %v", err)
	}
}

func (e *testEnv) mustCreateMenuItem(t *testing.T, vendorID uuid.UUID, name, price string) *menus.MenuItemView {
	t.Helper()
	item, err := e.menus.CreateMenuItem(context.Background(), menus.CreateInput{
		VendorID: vendorID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create menu item: %v", err)
	}
	return item
}

func (e *testEnv) slotsFor(t *testing.T, vendorID uuid.UUID, date string) []string {
	t.Helper()
	var record models.VendorAvailability
	if err := e.conn.First(&record, "vendor_id = ? AND date = ?", vendorID, date).Error; err != nil {
		t.Fatalf("load availability: %v", err)
	}
	return record.Slots
}

func (e *testEnv) bookingCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := e.conn.Model(&models.Booking{}).Count(&count).Error; err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	return count
}
