package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/internal/availability"
	"github.com/slotwise/slotwise-backend/internal/bookings"
	"github.com/slotwise/slotwise-backend/internal/menus"
	pkgAuth "github.com/slotwise/slotwise-backend/pkg/auth"
	"github.com/slotwise/slotwise-backend/pkg/config"
	"github.com/slotwise/slotwise-backend/pkg/db"
	"github.com/slotwise/slotwise-backend/pkg/db/models"
	"github.com/slotwise/slotwise-backend/pkg/enums"
	"github.com/slotwise/slotwise-backend/pkg/logger"
)

type routerEnv struct {
	handler http.Handler
	cfg     *config.Config
	conn    *gorm.DB
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.VendorAvailability{},
		&models.MenuItem{},
		&models.Booking{},
		&models.BookingItem{},
	))

	runner := db.NewFromGorm(conn)
	availSvc, err := availability.NewService(availability.NewRepository(conn), runner)
	require.NoError(t, err)
	menuSvc, err := menus.NewService(menus.NewRepository(conn))
	require.NoError(t, err)
	bookingSvc, err := bookings.NewService(bookings.NewRepository(conn), runner, availSvc, menuSvc)
	require.NoError(t, err)

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "slotwise-test",
			ExpirationMinutes: 15,
		},
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	handler := NewRouter(RouterParams{
		Config:       cfg,
		Logger:       logg,
		Availability: availSvc,
		Menus:        menuSvc,
		Bookings:     bookingSvc,
	})

	return &routerEnv{handler: handler, cfg: cfg, conn: conn}
}

func (e *routerEnv) userToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(e.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.ActorRoleUser,
	})
	require.NoError(t, err)
	return token
}

func (e *routerEnv) vendorToken(t *testing.T, userID, vendorID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(e.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		VendorID: &vendorID,
		Role:     enums.ActorRoleVendor,
	})
	require.NoError(t, err)
	return token
}

func (e *routerEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func TestRouterHealthAndPing(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", rec.Header().Get("X-SlotWise-Env"))

	rec = env.do(t, http.MethodGet, "/api/public/ping", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterRequiresAuth(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/bookings/my-bookings", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/bookings/my-bookings", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterVendorRoleEnforced(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t)
	userToken := env.userToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/availability", userToken, map[string]any{
		"date":            "2026-09-01",
		"available_slots": []string{"10:00"},
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/bookings/vendor-bookings", userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterBookingLifecycle(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t)

	vendorID := uuid.New()
	vendorToken := env.vendorToken(t, uuid.New(), vendorID)
	userToken := env.userToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/availability", vendorToken, map[string]any{
		"date":            "2026-09-01",
		"available_slots": []string{"14:00", "10:00"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var day availability.DayView
	decodeData(t, rec, &day)
	require.Equal(t, []string{"10:00", "14:00"}, []string(day.AvailableSlots))

	rec = env.do(t, http.MethodPost, "/api/v1/vendor/menu-items", vendorToken, map[string]any{
		"name":  "Deep tissue massage",
		"price": "80.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var item menus.MenuItemView
	decodeData(t, rec, &item)

	rec = env.do(t, http.MethodPost, "/api/v1/bookings", userToken, map[string]any{
		"vendor_id":    vendorID.String(),
		"booking_date": "2026-09-01",
		"booking_time": "10:00",
		"items": []map[string]any{
			{"menu_item_id": item.ID.String(), "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var booking bookings.BookingView
	decodeData(t, rec, &booking)
	require.True(t, booking.TotalAmount.Equal(decimal.RequireFromString("160.00")))
	require.Equal(t, enums.BookingStatusPending, booking.Status)

	// the claimed slot is no longer publicly bookable
	rec = env.do(t, http.MethodGet, "/api/public/availability/vendor/"+vendorID.String()+"?date=2026-09-01", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &day)
	require.Equal(t, []string{"14:00"}, []string(day.AvailableSlots))

	rec = env.do(t, http.MethodPost, "/api/v1/bookings/"+booking.ID.String()+"/confirm", vendorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &booking)
	require.Equal(t, enums.BookingStatusConfirmed, booking.Status)

	rec = env.do(t, http.MethodPost, "/api/v1/bookings/"+booking.ID.String()+"/complete", vendorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &booking)
	require.Equal(t, enums.BookingStatusCompleted, booking.Status)

	// terminal states reject further transitions
	rec = env.do(t, http.MethodPost, "/api/v1/bookings/"+booking.ID.String()+"/cancel", userToken, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouterCancelCreditsSlot(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t)

	vendorID := uuid.New()
	vendorToken := env.vendorToken(t, uuid.New(), vendorID)
	userToken := env.userToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/availability", vendorToken, map[string]any{
		"date":            "2026-09-02",
		"available_slots": []string{"09:00"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/vendor/menu-items", vendorToken, map[string]any{
		"name":  "Haircut",
		"price": "35.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var item menus.MenuItemView
	decodeData(t, rec, &item)

	rec = env.do(t, http.MethodPost, "/api/v1/bookings", userToken, map[string]any{
		"vendor_id":    vendorID.String(),
		"booking_date": "2026-09-02",
		"booking_time": "09:00",
		"items": []map[string]any{
			{"menu_item_id": item.ID.String(), "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var booking bookings.BookingView
	decodeData(t, rec, &booking)

	rec = env.do(t, http.MethodPost, "/api/v1/bookings/"+booking.ID.String()+"/cancel", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &booking)
	require.Equal(t, enums.BookingStatusCancelled, booking.Status)

	rec = env.do(t, http.MethodGet, "/api/v1/availability/vendor/"+vendorID.String()+"?date=2026-09-02", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var day availability.DayView
	decodeData(t, rec, &day)
	require.Equal(t, []string{"09:00"}, []string(day.AvailableSlots))
}

func TestRouterStatusPatchRejectsIllegalTransition(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t)

	vendorID := uuid.New()
	vendorToken := env.vendorToken(t, uuid.New(), vendorID)
	userToken := env.userToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/availability", vendorToken, map[string]any{
		"date":            "2026-09-03",
		"available_slots": []string{"11:00"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/vendor/menu-items", vendorToken, map[string]any{
		"name":  "Consultation",
		"price": "20.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var item menus.MenuItemView
	decodeData(t, rec, &item)

	rec = env.do(t, http.MethodPost, "/api/v1/bookings", userToken, map[string]any{
		"vendor_id":    vendorID.String(),
		"booking_date": "2026-09-03",
		"booking_time": "11:00",
		"items": []map[string]any{
			{"menu_item_id": item.ID.String(), "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var booking bookings.BookingView
	decodeData(t, rec, &booking)

	// pending cannot jump straight to completed
	rec = env.do(t, http.MethodPatch, "/api/v1/bookings/"+booking.ID.String()+"/status", vendorToken, map[string]any{
		"status": "completed",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/v1/bookings/"+booking.ID.String()+"/status", vendorToken, map[string]any{
		"status": "confirmed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &booking)
	require.Equal(t, enums.BookingStatusConfirmed, booking.Status)
}

func TestRouterPublicMenu(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t)

	vendorID := uuid.New()
	vendorToken := env.vendorToken(t, uuid.New(), vendorID)

	rec := env.do(t, http.MethodPost, "/api/v1/vendor/menu-items", vendorToken, map[string]any{
		"name":  "Active item",
		"price": "10.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/vendor/menu-items", vendorToken, map[string]any{
		"name":      "Hidden item",
		"price":     "10.00",
		"is_active": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/vendors/"+vendorID.String()+"/menu", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []menus.MenuItemView
	decodeData(t, rec, &items)
	require.Len(t, items, 1)
	require.Equal(t, "Active item", items[0].Name)
}
