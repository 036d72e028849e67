package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trackplane/pkg/errutil"
	"trackplane/services/task"
)

type TaskHandler struct {
	svc *task.Service
}

func NewTaskHandler(svc *task.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.svc.ListTasks(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.svc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Create(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req task.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	created, err := h.svc.CreateTask(c.Request.Context(), req, actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TaskHandler) Update(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req task.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	updated, err := h.svc.UpdateTask(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.svc.DeleteTask(c.Request.Context(), c.Param("id"), actor); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) Reorder(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req task.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	parentID, err := h.svc.ReorderTask(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parentId": parentID})
}

func (h *TaskHandler) Move(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req task.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	moved, err := h.svc.MoveTask(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, moved)
}

func (h *TaskHandler) SetPercentage(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req task.PercentageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	updated, err := h.svc.SetLeafPercentage(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) SetBucket(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req task.BucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	updated, err := h.svc.SetLeafBucket(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
