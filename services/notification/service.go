package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"trackplane/pkg/errutil"
	"trackplane/pkg/queue"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const listLimit = 200

const ReasonNotificationNotFound = "NOTIFICATION_NOT_FOUND"

type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	enqueuer queue.Enqueuer
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Node     *snowflake.Node
	Enqueuer queue.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{db: p.DB, node: p.Node, enqueuer: p.Enqueuer}
}

// NotifyAssignment persists one notification per unique recipient and
// enqueues realtime delivery. Delivery enqueue failures are logged and
// swallowed so the originating mutation is never affected.
func (s *Service) NotifyAssignment(ctx context.Context, recipientIDs []string, taskID, message string) error {
	unique := make([]string, 0, len(recipientIDs))
	seen := make(map[string]bool, len(recipientIDs))
	for _, id := range recipientIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil
	}

	rows := make([]Notification, 0, len(unique))
	for _, recipientID := range unique {
		rows = append(rows, Notification{
			ID:          s.node.Generate().String(),
			RecipientID: recipientID,
			TaskID:      taskID,
			Kind:        KindAssignment,
			Message:     message,
		})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return errutil.Internal("failed to persist notifications", errutil.WithErr(err))
	}

	if s.enqueuer == nil {
		return nil
	}
	for _, row := range rows {
		payload, err := json.Marshal(queue.NotificationDeliverPayload{
			NotificationID: row.ID,
			RecipientID:    row.RecipientID,
			TaskID:         row.TaskID,
			Message:        row.Message,
		})
		if err != nil {
			zap.L().Warn("failed to encode notification payload",
				zap.String("notification_id", row.ID), zap.Error(err))
			continue
		}
		if _, err := s.enqueuer.Enqueue(asynq.NewTask(queue.NotificationDeliver, payload)); err != nil {
			zap.L().Warn("failed to enqueue notification delivery",
				zap.String("notification_id", row.ID),
				zap.String("recipient_id", row.RecipientID),
				zap.Error(err))
		}
	}
	return nil
}

// ListForRecipient returns the newest notifications first, capped.
func (s *Service) ListForRecipient(ctx context.Context, recipientID string) ([]Notification, error) {
	var rows []Notification
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&rows).Error
	if err != nil {
		return nil, errutil.Internal("failed to list notifications", errutil.WithErr(err))
	}
	return rows, nil
}

func (s *Service) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	if err != nil {
		return 0, errutil.Internal("failed to count unread notifications", errutil.WithErr(err))
	}
	return count, nil
}

// MarkRead stamps a single notification owned by the recipient.
// Already-read notifications are returned unchanged.
func (s *Service) MarkRead(ctx context.Context, recipientID, notificationID string) (*Notification, error) {
	var row Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errutil.NotFound("notification not found",
			errutil.WithReason(ReasonNotificationNotFound))
	}
	if err != nil {
		return nil, errutil.Internal("failed to load notification", errutil.WithErr(err))
	}
	if row.ReadAt == nil {
		now := time.Now().UTC()
		row.ReadAt = &now
		if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
			return nil, errutil.Internal("failed to mark notification read", errutil.WithErr(err))
		}
	}
	return &row, nil
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID string) error {
	err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", time.Now().UTC()).Error
	if err != nil {
		return errutil.Internal("failed to mark notifications read", errutil.WithErr(err))
	}
	return nil
}

func (s *Service) ClearAll(ctx context.Context, recipientID string) error {
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Delete(&Notification{}).Error
	if err != nil {
		return errutil.Internal("failed to clear notifications", errutil.WithErr(err))
	}
	return nil
}
