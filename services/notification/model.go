package notification

import "time"

type Kind string

const KindAssignment Kind = "assignment"

type Notification struct {
	ID          string     `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updatedAt"`
	RecipientID string     `gorm:"column:recipient_id;index" json:"recipientId"`
	TaskID      string     `gorm:"column:task_id;index" json:"taskId"`
	Kind        Kind       `gorm:"column:kind" json:"type"`
	Message     string     `gorm:"column:message" json:"message"`
	ReadAt      *time.Time `gorm:"column:read_at;index" json:"readAt"`
}

// Event is the payload published to a recipient's realtime channel.
type Event struct {
	Name         string        `json:"event"`
	Notification *Notification `json:"notification,omitempty"`
	UnreadCount  int64         `json:"unreadCount"`
}

const (
	EventNew         = "notification:new"
	EventUnreadCount = "notification:unread-count"
)
