package teardown

import (
	"go.uber.org/fx"
)

var Module = fx.Module("teardown",
	fx.Provide(NewService),
)
