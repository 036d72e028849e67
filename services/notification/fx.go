package notification

import (
	"trackplane/services/task"

	"go.uber.org/fx"
)

var Module = fx.Module("notification.module",
	fx.Provide(
		NewService,
		func(s *Service) task.Dispatcher { return s },
	),
)

// WorkerModule wires the delivery consumer into the asynq mux.
var WorkerModule = fx.Module("notification.worker",
	fx.Provide(NewWorker),
	fx.Invoke(RegisterHandlers),
)
