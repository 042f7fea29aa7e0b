package notify

import (
	"context"
	"fmt"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/common/mq"
	"restaurant-pos/internal/microservices/notificator/service"
)

// Run declares the notification topology and logs every event until ctx ends.
func Run(ctx context.Context, client *mq.Client, prefetch int, lg *logger.Logger) error {
	if err := client.DeclareAll(); err != nil {
		return fmt.Errorf("declare topology: %w", err)
	}
	msgs, err := client.Consume(mq.NotificationsQueue, "notification-subscriber", prefetch)
	if err != nil {
		return fmt.Errorf("consume %s: %w", mq.NotificationsQueue, err)
	}

	closed := client.NotifyClose()
	go func() {
		if e, ok := <-closed; ok && e != nil {
			lg.Error("amqp_channel_closed", e, map[string]any{"code": e.Code})
		}
	}()

	lg.Info("service_started", map[string]any{"service": "notification-subscriber", "queue": mq.NotificationsQueue})
	return service.New(lg).NotificatorService.Run(ctx, msgs)
}
