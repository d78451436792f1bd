package siteprovider

import (
	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"go.uber.org/fx"
)

func NewFromConfig(cfg config.Config) Provider {
	return NewClient(cfg.Provisioning.APIBaseURL, cfg.Provisioning.BearerToken)
}

var Module = fx.Module("siteprovider",
	fx.Provide(NewFromConfig),
)
