package worker

import (
	"go.uber.org/zap"

	"github.com/flexoffice/booking-service/internal/config"
	"github.com/flexoffice/booking-service/internal/events"
	"github.com/flexoffice/booking-service/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartEventBridge forwards booking events to RabbitMQ when a broker URL is configured.
// The returned bridge is nil when forwarding is disabled or the broker is unreachable.
func StartEventBridge(cfg config.MessagingConfig, dispatcher events.Dispatcher, logger *zap.Logger) *events.AMQPBridge {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not provided; booking events stay in-process")
		return nil
	}
	bridge, err := events.NewAMQPBridge(cfg.RabbitMQURL, cfg.Exchange, logger)
	if err != nil {
		logger.Warn("event bridge disabled", zap.Error(err))
		return nil
	}
	bridge.Attach(dispatcher)
	logger.Info("forwarding booking events", zap.String("exchange", cfg.Exchange))
	return bridge
}
