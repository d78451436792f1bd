package identity

import (
	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"go.uber.org/fx"
)

func NewFromConfig(cfg config.Config) Directory {
	return NewClient(cfg.Identity.BaseURL, cfg.Identity.BearerToken, cfg.Identity.PageSize)
}

var Module = fx.Module("identity",
	fx.Provide(NewFromConfig),
)
