package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flexoffice/booking-service/internal/credential"
	"github.com/flexoffice/booking-service/internal/domain"
	"github.com/flexoffice/booking-service/internal/events"
	"github.com/flexoffice/booking-service/internal/repository"
	apperrors "github.com/flexoffice/booking-service/pkg/util"
)

// ImageCache stores rendered credential images. Get returns nil data on a miss.
type ImageCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// BookingService composes catalog, ledger and credential encoder for callers
// holding a validated session.
type BookingService struct {
	ledger     *ReservationLedger
	catalog    *SpaceCatalog
	encoder    *credential.Encoder
	users      repository.UserRepository
	images     ImageCache
	imageTTL   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// BookingDependencies bundles collaborators for the booking service.
type BookingDependencies struct {
	Ledger     *ReservationLedger
	Catalog    *SpaceCatalog
	Encoder    *credential.Encoder
	Users      repository.UserRepository
	Images     ImageCache
	ImageTTL   time.Duration
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		ledger:     deps.Ledger,
		catalog:    deps.Catalog,
		encoder:    deps.Encoder,
		users:      deps.Users,
		images:     deps.Images,
		imageTTL:   deps.ImageTTL,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// CreateBooking reserves spaceID for the session subject and attaches the
// access credential. Credential failures are logged and do not fail creation.
func (s *BookingService) CreateBooking(ctx context.Context, session domain.Session, spaceID string, start, end time.Time) (*domain.Booking, error) {
	if err := s.requireSession(session); err != nil {
		return nil, err
	}

	booking, err := s.ledger.Create(ctx, session.SubjectID, spaceID, start, end)
	if err != nil {
		return nil, err
	}

	if stored, ok := s.attachCredential(ctx, booking); ok {
		booking = stored
	}

	s.publish(ctx, events.Event{
		Type:      events.EventBookingCreated,
		BookingID: booking.ID,
		ActorID:   session.SubjectID,
		Payload: events.BookingCreatedPayload{
			SpaceID:       booking.SpaceID,
			StartTime:     booking.StartTime,
			EndTime:       booking.EndTime,
			HasCredential: booking.Credential != nil,
		},
	})
	return booking, nil
}

// ListMyBookings returns every booking owned by the session subject.
func (s *BookingService) ListMyBookings(ctx context.Context, session domain.Session) ([]domain.Booking, error) {
	if err := s.requireSession(session); err != nil {
		return nil, err
	}
	return s.ledger.ListByUser(ctx, session.SubjectID)
}

// GetBooking returns a booking owned by the session subject.
func (s *BookingService) GetBooking(ctx context.Context, session domain.Session, bookingID int64) (*domain.Booking, error) {
	if err := s.requireSession(session); err != nil {
		return nil, err
	}
	return s.ledger.GetByID(ctx, bookingID, session.SubjectID)
}

// CancelBooking cancels a booking owned by the session subject.
func (s *BookingService) CancelBooking(ctx context.Context, session domain.Session, bookingID int64) (*domain.Booking, error) {
	if err := s.requireSession(session); err != nil {
		return nil, err
	}
	booking, changed, err := s.ledger.Cancel(ctx, bookingID, session.SubjectID)
	if err != nil {
		return nil, err
	}
	if !changed {
		s.logger.Info("booking already cancelled", zap.Int64("booking_id", booking.ID), zap.String("user_id", session.SubjectID))
		return booking, nil
	}
	s.publish(ctx, events.Event{
		Type:      events.EventBookingCancelled,
		BookingID: booking.ID,
		ActorID:   session.SubjectID,
		Payload: events.BookingCancelledPayload{
			SpaceID:        booking.SpaceID,
			PreviousStatus: domain.BookingStatusConfirmed,
		},
	})
	return booking, nil
}

// ListSpaceBookings returns every booking on a space. Callers restrict it to managers.
func (s *BookingService) ListSpaceBookings(ctx context.Context, session domain.Session, spaceID string) ([]domain.Booking, error) {
	if err := s.requireSession(session); err != nil {
		return nil, err
	}
	if _, err := s.catalog.Get(ctx, spaceID); err != nil {
		return nil, err
	}
	return s.ledger.ListBySpace(ctx, spaceID)
}

// CredentialImage returns the QR code PNG of a booking owned by the session
// subject. A booking created without a credential is encoded now.
func (s *BookingService) CredentialImage(ctx context.Context, session domain.Session, bookingID int64) ([]byte, error) {
	booking, err := s.GetBooking(ctx, session, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Credential == nil {
		stored, ok := s.attachCredential(ctx, booking)
		if !ok {
			return nil, apperrors.NewInternalError(nil)
		}
		booking = stored
	}

	key := imageCacheKey(booking.Credential.Payload)
	if s.images != nil {
		cached, err := s.images.Get(ctx, key)
		if err != nil {
			s.logger.Warn("credential image cache read failed", zap.Int64("booking_id", booking.ID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	img, err := s.encoder.Render(booking.Credential.Payload)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if s.images != nil {
		if err := s.images.Set(ctx, key, img, s.imageTTL); err != nil {
			s.logger.Warn("credential image cache write failed", zap.Int64("booking_id", booking.ID), zap.Error(err))
		}
	}
	return img, nil
}

// BookingLabels maps the space and user ids referenced by bookings to display names.
type BookingLabels struct {
	Spaces map[string]string
	Users  map[string]string
}

// SpaceName returns the space name, or "" when unknown.
func (l BookingLabels) SpaceName(id string) string { return l.Spaces[id] }

// UserName returns the user display name, or "" when unknown.
func (l BookingLabels) UserName(id string) string { return l.Users[id] }

// Labels resolves display names for the given bookings at read time.
// Bookings keep referencing spaces and users by id; lookups that fail leave the name empty.
func (s *BookingService) Labels(ctx context.Context, bookings ...domain.Booking) BookingLabels {
	labels := BookingLabels{Spaces: map[string]string{}, Users: map[string]string{}}
	for _, b := range bookings {
		if _, seen := labels.Spaces[b.SpaceID]; !seen {
			labels.Spaces[b.SpaceID] = ""
			if space, err := s.catalog.Get(ctx, b.SpaceID); err == nil {
				labels.Spaces[b.SpaceID] = space.Name
			} else {
				s.logger.Debug("space label unresolved", zap.String("space_id", b.SpaceID), zap.Error(err))
			}
		}
		if _, seen := labels.Users[b.UserID]; !seen {
			labels.Users[b.UserID] = ""
			if s.users == nil {
				continue
			}
			if user, err := s.users.GetByID(ctx, b.UserID); err == nil {
				labels.Users[b.UserID] = user.DisplayName
			} else {
				s.logger.Debug("user label unresolved", zap.String("user_id", b.UserID), zap.Error(err))
			}
		}
	}
	return labels
}

// attachCredential encodes and stores the credential outside the ledger lock.
// It reports false when encoding or storing failed.
func (s *BookingService) attachCredential(ctx context.Context, booking *domain.Booking) (*domain.Booking, bool) {
	if s.encoder == nil {
		s.logger.Warn("credential encoder unavailable", zap.Int64("booking_id", booking.ID))
		return nil, false
	}
	cred, err := s.encoder.Encode(booking)
	if err != nil {
		s.logger.Warn("credential encoding failed", zap.Int64("booking_id", booking.ID), zap.Error(err))
		return nil, false
	}
	stored, err := s.ledger.AttachCredential(ctx, booking.ID, *cred)
	if err != nil {
		s.logger.Warn("credential attach failed", zap.Int64("booking_id", booking.ID), zap.Error(err))
		return nil, false
	}
	return stored, true
}

func (s *BookingService) requireSession(session domain.Session) error {
	if session.SubjectID == "" || session.Expired(s.now()) {
		return apperrors.NewUnauthorized("valid session required")
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("type", string(event.Type)),
			zap.Int64("booking_id", event.BookingID),
			zap.Error(err))
	}
}

// imageCacheKey derives the cache key from the payload itself, so an image is
// only ever served for the reservation it encodes.
func imageCacheKey(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return "booking:qr:" + hex.EncodeToString(sum[:])
}
