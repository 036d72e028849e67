package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trackplane/services/notification"
)

type NotificationHandler struct {
	svc *notification.Service
}

func NewNotificationHandler(svc *notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	rows, err := h.svc.ListForRecipient(c.Request.Context(), actor.ID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": rows})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	count, err := h.svc.UnreadCount(c.Request.Context(), actor.ID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	row, err := h.svc.MarkRead(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.svc.MarkAllRead(c.Request.Context(), actor.ID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) ClearAll(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.svc.ClearAll(c.Request.Context(), actor.ID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
