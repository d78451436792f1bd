package fleetreset

import (
	"go.uber.org/fx"
)

var Module = fx.Module("fleetreset",
	fx.Provide(NewService),
)
