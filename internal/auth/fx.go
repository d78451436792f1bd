package auth

import (
	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"go.uber.org/fx"
)

func NewFromConfig(cfg config.Config) Verifier {
	return NewOIDCVerifier(cfg)
}

var Module = fx.Module("auth",
	fx.Provide(NewFromConfig),
)
