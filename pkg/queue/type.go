package queue

const (
	// Notification tasks
	NotificationDeliver = "notification:deliver"
)

type NotificationDeliverPayload struct {
	NotificationID string `json:"notification_id"`
	RecipientID    string `json:"recipient_id"`
	TaskID         string `json:"task_id"`
	Message        string `json:"message"`
}
