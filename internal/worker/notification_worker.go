package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/incident-panel/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to incident events.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Debug("notification worker disabled")
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started")
}
