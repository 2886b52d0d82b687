package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/api/middleware"
	availabilitysvc "github.com/slotwise/slotwise-backend/internal/availability"
	"github.com/slotwise/slotwise-backend/pkg/logger"
	"github.com/slotwise/slotwise-backend/pkg/types"
)

func TestDeclareAvailability(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	vendorID := uuid.New()

	makeRequest := func(ctx context.Context, body string, stub *stubAvailabilityService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/availability", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		DeclareAvailability(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing vendor context", func(t *testing.T) {
		rec := makeRequest(context.Background(), `{"date":"2026-09-01","available_slots":["10:00"]}`, &stubAvailabilityService{})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403 when vendor missing, got %d", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		ctx := middleware.WithVendorID(context.Background(), vendorID.String())
		rec := makeRequest(ctx, `{"date":`, &stubAvailabilityService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		ctx := middleware.WithVendorID(context.Background(), vendorID.String())
		rec := makeRequest(ctx, `{"date":"2026-09-01","slots":["10:00"]}`, &stubAvailabilityService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("success defaults to available", func(t *testing.T) {
		ctx := middleware.WithVendorID(context.Background(), vendorID.String())
		stub := &stubAvailabilityService{}
		rec := makeRequest(ctx, `{"date":"2026-09-01","available_slots":["10:00","14:00"]}`, stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on success, got %d", rec.Code)
		}
		if stub.declared == nil {
			t.Fatalf("expected SetAvailability to be invoked")
		}
		if !stub.declared.IsAvailable {
			t.Fatalf("expected is_available to default to true")
		}
		if stub.declared.VendorID != vendorID {
			t.Fatalf("expected vendor id from context, got %s", stub.declared.VendorID)
		}
	})
}

func TestPublicAvailabilityInvalidVendorID(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("vendorId", "not-a-uuid")
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)

	req := httptest.NewRequest(http.MethodGet, "/api/public/availability/vendor/not-a-uuid?date=2026-09-01", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	PublicAvailability(&stubAvailabilityService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid vendor id, got %d", rec.Code)
	}
}

func TestVendorAvailabilityRequiresDateRange(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	ctx := middleware.WithVendorID(context.Background(), uuid.NewString())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?start_date=2026-09-01", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	VendorAvailability(&stubAvailabilityService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when end_date missing, got %d", rec.Code)
	}
}

type stubAvailabilityService struct {
	declared *availabilitysvc.DeclarationInput
}

func (s *stubAvailabilityService) SetAvailability(ctx context.Context, input availabilitysvc.DeclarationInput) (*availabilitysvc.DayView, error) {
	s.declared = &input
	return &availabilitysvc.DayView{
		VendorID:       input.VendorID,
		Date:           input.Date,
		IsAvailable:    input.IsAvailable,
		AvailableSlots: types.TimeSlots(input.Slots),
	}, nil
}

func (s *stubAvailabilityService) GetAvailability(ctx context.Context, vendorID uuid.UUID, startDate, endDate string) ([]availabilitysvc.DayView, error) {
	return nil, nil
}

func (s *stubAvailabilityService) GetPublicAvailability(ctx context.Context, vendorID uuid.UUID, date string) (*availabilitysvc.DayView, error) {
	return &availabilitysvc.DayView{VendorID: vendorID, Date: date}, nil
}

func (s *stubAvailabilityService) ClaimSlot(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, date, slot string) error {
	panic("unimplemented")
}

func (s *stubAvailabilityService) CreditSlot(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, date, slot string) error {
	panic("unimplemented")
}
