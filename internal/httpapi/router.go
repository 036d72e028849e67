package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"trackplane/pkg/health"
	"trackplane/pkg/middleware"
	"trackplane/services/identity"
)

var Module = fx.Module("httpapi",
	fx.Provide(
		NewTaskHandler,
		NewNotificationHandler,
		NewRouter,
	),
)

type RouterParams struct {
	fx.In
	Health        health.HealthService
	Identity      identity.Provider
	Tasks         *TaskHandler
	Notifications *NotificationHandler
}

func NewRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Error())

	r.GET("/healthz", p.Health.Liveness)
	r.GET("/readyz", p.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1", RequireActor(p.Identity))

	tasks := v1.Group("/tasks")
	tasks.GET("", p.Tasks.List)
	tasks.POST("", p.Tasks.Create)
	tasks.GET("/:id", p.Tasks.Get)
	tasks.PATCH("/:id", p.Tasks.Update)
	tasks.DELETE("/:id", p.Tasks.Delete)
	tasks.POST("/:id/reorder", p.Tasks.Reorder)
	tasks.POST("/:id/move", p.Tasks.Move)
	tasks.PUT("/:id/percentage", p.Tasks.SetPercentage)
	tasks.PUT("/:id/bucket", p.Tasks.SetBucket)

	notifications := v1.Group("/notifications")
	notifications.GET("", p.Notifications.List)
	notifications.GET("/unread-count", p.Notifications.UnreadCount)
	notifications.POST("/:id/read", p.Notifications.MarkRead)
	notifications.POST("/read-all", p.Notifications.MarkAllRead)
	notifications.DELETE("", p.Notifications.ClearAll)

	return r
}
