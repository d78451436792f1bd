package auth

import (
	"context"
	"testing"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigSatisfiesVerifier(t *testing.T) {
	cfg := config.Config{}
	cfg.OIDC.IssuerURL = "https://issuer.example.com"
	cfg.OIDC.ClientID = "digitalkontroll"

	verifier := NewFromConfig(cfg)
	require.NotNil(t, verifier)
	assert.IsType(t, &OIDCVerifier{}, verifier)
}

func TestVerifyFailsWithoutIssuer(t *testing.T) {
	verifier := NewOIDCVerifier(config.Config{})

	_, err := verifier.Verify(context.Background(), "some-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issuer not configured")
}
