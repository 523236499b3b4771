package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flexoffice/booking-service/internal/domain"
	"github.com/flexoffice/booking-service/internal/repository"
	apperrors "github.com/flexoffice/booking-service/pkg/util"
)

// LedgerOptions tunes ReservationLedger behavior.
type LedgerOptions struct {
	// RejectOverlaps refuses bookings that overlap a confirmed booking on the same space.
	RejectOverlaps bool
	Clock          func() time.Time
}

// ReservationLedger owns bookings and their status transitions.
// Create and Cancel are serialized; reads go straight to the store.
type ReservationLedger struct {
	mu             sync.Mutex
	bookings       repository.BookingRepository
	catalog        *SpaceCatalog
	rejectOverlaps bool
	now            func() time.Time
}

// NewReservationLedger constructs the ledger.
func NewReservationLedger(bookings repository.BookingRepository, catalog *SpaceCatalog, opts LedgerOptions) *ReservationLedger {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &ReservationLedger{
		bookings:       bookings,
		catalog:        catalog,
		rejectOverlaps: opts.RejectOverlaps,
		now:            now,
	}
}

// Create records a confirmed booking for userID.
// Availability is checked once, at creation.
func (l *ReservationLedger) Create(ctx context.Context, userID, spaceID string, start, end time.Time) (*domain.Booking, error) {
	if !end.After(start) {
		return nil, apperrors.NewInvalidTimeRange(map[string]any{
			"start_time": start,
			"end_time":   end,
		})
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	space, err := l.catalog.Get(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if !space.Available {
		return nil, apperrors.NewSpaceUnavailable(spaceID)
	}

	if l.rejectOverlaps {
		if err := l.checkOverlap(ctx, spaceID, start, end); err != nil {
			return nil, err
		}
	}

	booking := &domain.Booking{
		SpaceID:   spaceID,
		UserID:    userID,
		StartTime: start,
		EndTime:   end,
		Status:    domain.BookingStatusConfirmed,
		CreatedAt: l.now(),
	}
	if err := l.bookings.Create(ctx, booking); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return booking, nil
}

func (l *ReservationLedger) checkOverlap(ctx context.Context, spaceID string, start, end time.Time) error {
	existing, err := l.bookings.ListBySpace(ctx, spaceID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	for _, b := range existing {
		if b.Status == domain.BookingStatusConfirmed && b.Overlaps(start, end) {
			return apperrors.NewConflict("space already booked for this time window", map[string]any{
				"space_id":   spaceID,
				"booking_id": b.ID,
			})
		}
	}
	return nil
}

// GetByID returns a booking owned by requesterID.
func (l *ReservationLedger) GetByID(ctx context.Context, bookingID int64, requesterID string) (*domain.Booking, error) {
	booking, err := l.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requesterID {
		return nil, apperrors.NewForbidden("booking belongs to another user")
	}
	return booking, nil
}

// ListByUser returns every booking owned by userID in creation order.
func (l *ReservationLedger) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	bookings, err := l.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return bookings, nil
}

// ListBySpace returns every booking on spaceID in creation order.
func (l *ReservationLedger) ListBySpace(ctx context.Context, spaceID string) ([]domain.Booking, error) {
	bookings, err := l.bookings.ListBySpace(ctx, spaceID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return bookings, nil
}

// Cancel moves a booking owned by requesterID to cancelled. Cancelling an
// already cancelled booking succeeds again; changed reports whether this call
// performed the transition.
func (l *ReservationLedger) Cancel(ctx context.Context, bookingID int64, requesterID string) (booking *domain.Booking, changed bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	booking, err = l.GetByID(ctx, bookingID, requesterID)
	if err != nil {
		return nil, false, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return booking, false, nil
	}
	if err := l.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}
	booking.Status = domain.BookingStatusCancelled
	return booking, true, nil
}

// AttachCredential stores the credential of a booking unless one is already set,
// and returns the booking as stored.
func (l *ReservationLedger) AttachCredential(ctx context.Context, bookingID int64, credential domain.AccessCredential) (*domain.Booking, error) {
	if _, err := l.bookings.AttachCredential(ctx, bookingID, credential); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return l.load(ctx, bookingID)
}

func (l *ReservationLedger) load(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return booking, nil
}
