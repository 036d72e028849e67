package rediskey

import "fmt"

// Notification keys (global convention across services)
const (
	NotifyUserPrefix  = "notify:user"
	UnreadCountPrefix = "notify:unread"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildUserChannel returns "notify:user:{userID}", the pub/sub channel a
// delivery consumer subscribes to for one recipient.
func BuildUserChannel(userID string) string {
	return NamespaceKey(NotifyUserPrefix, userID)
}

// BuildUnreadCountKey returns "notify:unread:{userID}"
func BuildUnreadCountKey(userID string) string {
	return NamespaceKey(UnreadCountPrefix, userID)
}
