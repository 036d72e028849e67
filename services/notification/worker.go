package notification

import (
	"context"
	"encoding/json"

	"trackplane/pkg/queue"
	"trackplane/pkg/rediskey"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Worker consumes delivery tasks and publishes realtime events to the
// recipient's channel. Consumers subscribed to the channel receive the
// notification together with the recipient's current unread count.
type Worker struct {
	svc   *Service
	redis *goredis.Client
}

type WorkerParams struct {
	fx.In
	Service *Service
	Redis   *goredis.Client
}

func NewWorker(p WorkerParams) *Worker {
	return &Worker{svc: p.Service, redis: p.Redis}
}

func (w *Worker) HandleDeliver(ctx context.Context, t *asynq.Task) error {
	var payload queue.NotificationDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Malformed payloads never become deliverable; drop them.
		zap.L().Error("malformed delivery payload", zap.Error(err))
		return nil
	}

	unread, err := w.svc.UnreadCount(ctx, payload.RecipientID)
	if err != nil {
		return err
	}

	var notif *Notification
	if payload.NotificationID != "" {
		var row Notification
		if err := w.svc.db.WithContext(ctx).Where("id = ?", payload.NotificationID).First(&row).Error; err == nil {
			notif = &row
		}
	}

	event, err := json.Marshal(Event{
		Name:         EventNew,
		Notification: notif,
		UnreadCount:  unread,
	})
	if err != nil {
		return err
	}

	channel := rediskey.BuildUserChannel(payload.RecipientID)
	if err := w.redis.Publish(ctx, channel, event).Err(); err != nil {
		return err
	}
	if err := w.redis.Set(ctx, rediskey.BuildUnreadCountKey(payload.RecipientID), unread, 0).Err(); err != nil {
		zap.L().Warn("failed to store unread count",
			zap.String("recipient_id", payload.RecipientID), zap.Error(err))
	}
	return nil
}

// PublishUnreadCount pushes the recipient's current unread count to the
// realtime channel, used after read-state mutations.
func (w *Worker) PublishUnreadCount(ctx context.Context, recipientID string) error {
	unread, err := w.svc.UnreadCount(ctx, recipientID)
	if err != nil {
		return err
	}
	event, err := json.Marshal(Event{Name: EventUnreadCount, UnreadCount: unread})
	if err != nil {
		return err
	}
	return w.redis.Publish(ctx, rediskey.BuildUserChannel(recipientID), event).Err()
}

func RegisterHandlers(mux *asynq.ServeMux, w *Worker) {
	mux.HandleFunc(queue.NotificationDeliver, w.HandleDeliver)
}
