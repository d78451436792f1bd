package provisioning

import (
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/repository"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/service"
	"go.uber.org/fx"
)

var Module = fx.Module("provisioning.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewSiteEnsurer),
	fx.Provide(service.NewService),
)
