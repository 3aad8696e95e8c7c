package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/events"
	"github.com/spec-kit/support-tickets/internal/service"
)

// StartNotificationWorker builds the notification service and subscribes it
// to every domain event type. A nil publisher keeps fan-out local to the log.
func StartNotificationWorker(dispatcher events.Dispatcher, logger *zap.Logger, publisher *events.RedisPublisher) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	var forward service.EventPublisher
	if publisher != nil {
		forward = publisher
		logger.Info("event fan-out enabled", zap.String("channel", publisher.Channel()))
	}
	notifications := service.NewNotificationService(dispatcher, logger, forward)
	notifications.RegisterHandlers()
	return notifications
}
