package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotwise/slotwise-backend/pkg/db/models"
	pkgerrors "github.com/slotwise/slotwise-backend/pkg/errors"
	"github.com/slotwise/slotwise-backend/pkg/types"
)

// casRetries bounds how many times a declaration retries after losing the
// version race to a concurrent reservation.
const casRetries = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the availability ledger operations.
type Service interface {
	SetAvailability(ctx context.Context, input DeclarationInput) (*DayView, error)
	GetAvailability(ctx context.Context, vendorID uuid.UUID, startDate, endDate string) ([]DayView, error)
	GetPublicAvailability(ctx context.Context, vendorID uuid.UUID, date string) (*DayView, error)
	ClaimSlot(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, date, slot string) error
	CreditSlot(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, date, slot string) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an availability service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("availability repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// SetAvailability is the vendor's idempotent per-day declaration. It replaces
// the slot set wholesale; it does not cross-check already-accepted bookings.
func (s *service) SetAvailability(ctx context.Context, input DeclarationInput) (*DayView, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	if !types.ValidDate(input.Date) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD").
			WithDetails(map[string]any{"date": input.Date})
	}
	slots, err := types.Normalize(input.Slots)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	var out *DayView
	for attempt := 0; attempt <= casRetries; attempt++ {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			record, err := repo.FindByVendorAndDate(ctx, input.VendorID, input.Date)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				record = &models.VendorAvailability{
					VendorID:    input.VendorID,
					Date:        input.Date,
					Slots:       slots,
					IsAvailable: input.IsAvailable,
				}
				if err := repo.Create(ctx, record); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create availability record")
				}
				out = dayViewFromModel(record)
				return nil
			}
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load availability record")
			}

			swapped, err := repo.ReplaceSlots(ctx, record.ID, slots, input.IsAvailable, record.Version)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace availability slots")
			}
			if !swapped {
				return errStaleVersion
			}
			record.Slots = slots
			record.IsAvailable = input.IsAvailable
			out = dayViewFromModel(record)
			return nil
		})
		if !errors.Is(err, errStaleVersion) {
			break
		}
	}
	if errors.Is(err, errStaleVersion) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "availability changed concurrently, retry")
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetAvailability returns the vendor's declared days in ascending date order.
// Days without a record are omitted.
func (s *service) GetAvailability(ctx context.Context, vendorID uuid.UUID, startDate, endDate string) ([]DayView, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	if !types.ValidDate(startDate) || !types.ValidDate(endDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date must be YYYY-MM-DD")
	}
	if endDate < startDate {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date precedes start_date")
	}

	records, err := s.repo.FindRange(ctx, vendorID, startDate, endDate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list availability range")
	}
	views := make([]DayView, 0, len(records))
	for i := range records {
		views = append(views, *dayViewFromModel(&records[i]))
	}
	return views, nil
}

// GetPublicAvailability never reports a missing record as NotFound. A vendor
// that declared nothing looks identical to one that closed the day.
func (s *service) GetPublicAvailability(ctx context.Context, vendorID uuid.UUID, date string) (*DayView, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if !types.ValidDate(date) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}

	record, err := s.repo.FindByVendorAndDate(ctx, vendorID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &DayView{
			VendorID:       vendorID,
			Date:           date,
			IsAvailable:    false,
			AvailableSlots: types.TimeSlots{},
		}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load availability record")
	}
	return dayViewFromModel(record), nil
}

// ClaimSlot removes one slot from the day's ledger inside the caller's
// transaction. Losing the version race is reported the same way as a taken
// slot so concurrent bookers get a deterministic outcome.
func (s *service) ClaimSlot(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, date, slot string) error {
	repo := s.repo.WithTx(tx)

	record, err := repo.FindByVendorAndDate(ctx, vendorID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeConflict, "vendor is not available on the requested date")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load availability record")
	}
	if !record.IsAvailable {
		return pkgerrors.New(pkgerrors.CodeConflict, "vendor is not available on the requested date")
	}

	remaining, found := record.Slots.Without(slot)
	if !found {
		return pkgerrors.New(pkgerrors.CodeConflict, "requested time slot is not available")
	}

	claimed, err := repo.ReplaceSlots(ctx, record.ID, remaining, record.IsAvailable, record.Version)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim time slot")
	}
	if !claimed {
		return pkgerrors.New(pkgerrors.CodeConflict, "requested time slot is not available")
	}
	return nil
}

// CreditSlot returns a slot to the day's ledger inside the caller's
// transaction, recreating the record if the declaration disappeared.
func (s *service) CreditSlot(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, date, slot string) error {
	repo := s.repo.WithTx(tx)

	for attempt := 0; attempt <= casRetries; attempt++ {
		record, err := repo.FindByVendorAndDate(ctx, vendorID, date)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = &models.VendorAvailability{
				VendorID:    vendorID,
				Date:        date,
				Slots:       types.TimeSlots{slot},
				IsAvailable: true,
			}
			if err := repo.Create(ctx, record); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recreate availability record")
			}
			return nil
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load availability record")
		}

		credited, err := repo.ReplaceSlots(ctx, record.ID, record.Slots.With(slot), record.IsAvailable, record.Version)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit time slot")
		}
		if credited {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeDependency, "crediting time slot kept losing the version race")
}

var errStaleVersion = errors.New("availability version is stale")
