package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"connectify/utils"
)

// NotificationService delivers booking reminders. Delivery channels are
// pluggable; the default implementation writes structured log lines, which
// downstream log shipping turns into operator alerts.
type NotificationService interface {
	SendBookingReminder(ctx context.Context, referenceID, eventID, summary string, startTime time.Time) error
}

type DefaultNotificationService struct{}

func NewDefaultNotificationService() NotificationService {
	return &DefaultNotificationService{}
}

func (s *DefaultNotificationService) SendBookingReminder(ctx context.Context, referenceID, eventID, summary string, startTime time.Time) error {
	utils.GetLogger().Info("booking reminder",
		zap.String("referenceID", referenceID),
		zap.String("eventID", eventID),
		zap.String("summary", summary),
		zap.Time("startTime", startTime),
	)
	return nil
}
