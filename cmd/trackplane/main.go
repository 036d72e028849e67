package main

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trackplane/internal/httpapi"
	"trackplane/pkg/config"
	"trackplane/pkg/db"
	"trackplane/pkg/gen"
	"trackplane/pkg/health"
	"trackplane/pkg/logger"
	"trackplane/pkg/otelcol"
	"trackplane/pkg/otelcol/exporters"
	"trackplane/pkg/profiling"
	"trackplane/pkg/queue"
	"trackplane/pkg/redis"
	"trackplane/pkg/server"
	"trackplane/services/identity"
	"trackplane/services/notification"
	"trackplane/services/task"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		gen.Module,
		queue.Client,
		profiling.Module,
		health.Module,
		identity.Module,
		task.Module,
		notification.Module,
		httpapi.Module,
		server.ProvideHTTPServer,
		fx.Invoke(registerTracing, migrate, db.Otel),
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

func registerTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Otel.Addr == "" {
		return nil
	}
	exporter, err := exporters.ProvideGrpc(cfg)
	if err != nil {
		return err
	}
	tp := otelcol.ProvideTrace(exporter)
	otel.SetTracerProvider(tp)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return nil
}

func migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&identity.User{},
		&task.Task{},
		&notification.Notification{},
	)
}
