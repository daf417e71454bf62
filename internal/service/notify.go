package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/storage"
)

const notifyTimeout = 5 * time.Second

// NotifyService writes notifications into the document store. Broadcast
// fan-out (e.g. on event creation) is fire-and-forget: failures are logged,
// never surfaced to the request that triggered them.
type NotifyService struct {
	notifications storage.NotificationRepository
	log           *zap.SugaredLogger
}

func NewNotifyService(notifications storage.NotificationRepository, log *zap.SugaredLogger) *NotifyService {
	return &NotifyService{
		notifications: notifications,
		log:           log,
	}
}

func (s *NotifyService) Create(ctx context.Context, n models.Notification) (*models.Notification, error) {
	return s.notifications.CreateNotification(ctx, n)
}

func (s *NotifyService) ListForUser(ctx context.Context, userID int64, limit int64) ([]models.Notification, error) {
	return s.notifications.ListNotificationsForUser(ctx, userID, limit)
}

// BroadcastEventCreated announces a new event to everyone, asynchronously.
func (s *NotifyService) BroadcastEventCreated(event *models.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		_, err := s.notifications.CreateNotification(ctx, models.Notification{
			Title:     "New event",
			Message:   fmt.Sprintf("%s on %s", event.Title, event.Date.Format("2006-01-02 15:04")),
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			s.log.Errorw("failed to broadcast event notification", "error", err, "event_id", event.ID)
		}
	}()
}
