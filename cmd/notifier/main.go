package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"trackplane/pkg/config"
	"trackplane/pkg/db"
	"trackplane/pkg/gen"
	"trackplane/pkg/logger"
	"trackplane/pkg/queue"
	"trackplane/pkg/redis"
	"trackplane/services/notification"
)

// The notifier consumes queued delivery tasks and publishes realtime
// events to per-recipient channels.
func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		gen.Module,
		fx.Provide(notification.NewService),
		notification.WorkerModule,
		queue.Server,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	fx.New(opts...).Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})
