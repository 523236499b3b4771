package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/flexoffice/booking-service/internal/api/http"
	"github.com/flexoffice/booking-service/internal/api/http/handlers"
	"github.com/flexoffice/booking-service/internal/auth"
	"github.com/flexoffice/booking-service/internal/config"
	"github.com/flexoffice/booking-service/internal/credential"
	"github.com/flexoffice/booking-service/internal/events"
	"github.com/flexoffice/booking-service/internal/observability"
	"github.com/flexoffice/booking-service/internal/persistence"
	"github.com/flexoffice/booking-service/internal/repository"
	"github.com/flexoffice/booking-service/internal/service"
	"github.com/flexoffice/booking-service/internal/worker"
)

type stores struct {
	users    repository.UserRepository
	spaces   repository.SpaceRepository
	bookings repository.BookingRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	repos := newStores(pg)
	if cfg.App.SeedDemoData {
		if err := persistence.Seed(ctx, repos.users, repos.spaces,
			persistence.DemoUsers(), persistence.DemoSpaces(), cfg.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))
	bridge := worker.StartEventBridge(cfg.Messaging, dispatcher, logger)
	defer bridge.Close()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: repos.users,
		Logger:   logger,
	})
	catalog := service.NewSpaceCatalog(repos.spaces)
	ledger := service.NewReservationLedger(repos.bookings, catalog, service.LedgerOptions{
		RejectOverlaps: cfg.Booking.RejectOverlaps,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		Ledger:     ledger,
		Catalog:    catalog,
		Encoder:    credential.NewEncoder(credential.NewQRRenderer(cfg.Credential.QRSize)),
		Users:      repos.users,
		Images:     persistence.NewRedisImageCache(redis),
		ImageTTL:   cfg.Credential.CacheTTL(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Sessions:       handlers.NewSessionsHandler(authService),
		Spaces:         handlers.NewSpacesHandler(catalog, bookingService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		AuthMiddleware: auth.NewAuthMiddleware(authService),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// newStores selects postgres-backed repositories when a pool is available.
func newStores(pg *persistence.Postgres) stores {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return stores{
			users:    repository.NewUserRepository(pool),
			spaces:   repository.NewSpaceRepository(pool),
			bookings: repository.NewBookingRepository(pool),
		}
	}
	return stores{
		users:    repository.NewMemoryUserRepository(),
		spaces:   repository.NewMemorySpaceRepository(),
		bookings: repository.NewMemoryBookingRepository(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
