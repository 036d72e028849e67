package identity

import "go.uber.org/fx"

var Module = fx.Module("identity.module",
	fx.Provide(
		NewService,
		func(s *Service) Provider { return s },
	),
)
