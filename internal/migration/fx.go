package migration

import (
	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if err := RunMigrations(conn); err != nil {
			return err
		}
		return seed.EnsureOperatorCompany(conn, cfg.Provisioning.OperatorCompanyID)
	}),
)
