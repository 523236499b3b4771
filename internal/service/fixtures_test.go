package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/flexoffice/booking-service/internal/config"
	"github.com/flexoffice/booking-service/internal/credential"
	"github.com/flexoffice/booking-service/internal/domain"
	"github.com/flexoffice/booking-service/internal/events"
	"github.com/flexoffice/booking-service/internal/persistence"
	"github.com/flexoffice/booking-service/internal/repository"
)

var (
	baseTime = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	nineAM   = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	fivePM   = time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
)

type fixture struct {
	auth       *AuthService
	catalog    *SpaceCatalog
	ledger     *ReservationLedger
	bookings   *BookingService
	spaces     *repository.MemorySpaceRepository
	dispatcher events.Dispatcher
	clock      *time.Time
}

type fixtureOptions struct {
	rejectOverlaps bool
	renderer       credential.Renderer
	images         ImageCache
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()
	ctx := context.Background()

	users := repository.NewMemoryUserRepository()
	spaces := repository.NewMemorySpaceRepository()
	require.NoError(t, persistence.Seed(ctx, users, spaces,
		persistence.DemoUsers(), persistence.DemoSpaces(), bcrypt.MinCost, zap.NewNop()))

	now := baseTime
	clock := func() time.Time { return now }

	authSvc := NewAuthService(config.AuthConfig{JWTSecret: "test-secret", SessionTTLMinutes: 24 * 60},
		AuthDependencies{UserRepo: users})
	authSvc.TokenManager().WithClock(clock)

	renderer := opts.renderer
	if renderer == nil {
		renderer = credential.NewQRRenderer(64)
	}

	catalog := NewSpaceCatalog(spaces)
	ledger := NewReservationLedger(repository.NewMemoryBookingRepository(), catalog,
		LedgerOptions{RejectOverlaps: opts.rejectOverlaps, Clock: clock})
	dispatcher := events.NewInMemoryDispatcher()
	bookingSvc := NewBookingService(BookingDependencies{
		Ledger:     ledger,
		Catalog:    catalog,
		Encoder:    credential.NewEncoder(renderer),
		Users:      users,
		Images:     opts.images,
		ImageTTL:   time.Minute,
		Dispatcher: dispatcher,
		Clock:      clock,
	})

	return &fixture{
		auth:       authSvc,
		catalog:    catalog,
		ledger:     ledger,
		bookings:   bookingSvc,
		spaces:     spaces,
		dispatcher: dispatcher,
		clock:      &now,
	}
}

func (f *fixture) login(t *testing.T, email, secret string) domain.Session {
	t.Helper()
	_, token, _, err := f.auth.Authenticate(context.Background(), email, secret)
	require.NoError(t, err)
	session, err := f.auth.Validate(token)
	require.NoError(t, err)
	return session
}

func (f *fixture) demo(t *testing.T) domain.Session {
	return f.login(t, "demo@flexoffice.com", "demo123")
}

func (f *fixture) manager(t *testing.T) domain.Session {
	return f.login(t, "manager@flexoffice.com", "manager123")
}
