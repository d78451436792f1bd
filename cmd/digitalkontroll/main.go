package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/auth"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/clock"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/fleetreset"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/identity"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/logger"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/migration"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/observability/metrics"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/server"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/siteprovider"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/teardown"
	"github.com/marcusskogh92-prog/digitalkontroll/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,

		// Functional domains
		siteprovider.Module,
		identity.Module,
		auth.Module,
		provisioning.Module,
		teardown.Module,
		fleetreset.Module,
		migration.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
