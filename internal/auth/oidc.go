package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
)

// OIDCVerifier validates tokens against the issuer's published keys. The
// issuer is contacted lazily so the service can boot while it is unreachable.
type OIDCVerifier struct {
	issuerURL string
	clientID  string

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

func NewOIDCVerifier(cfg config.Config) *OIDCVerifier {
	return &OIDCVerifier{
		issuerURL: cfg.OIDC.IssuerURL,
		clientID:  cfg.OIDC.ClientID,
	}
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	verifier, err := v.tokenVerifier(ctx)
	if err != nil {
		return nil, err
	}

	token, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims Claims
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims.Subject = token.Subject
	return &claims, nil
}

func (v *OIDCVerifier) tokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.verifier != nil {
		return v.verifier, nil
	}
	if v.issuerURL == "" {
		return nil, fmt.Errorf("oidc issuer not configured")
	}
	provider, err := oidc.NewProvider(ctx, v.issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	v.verifier = provider.Verifier(&oidc.Config{ClientID: v.clientID})
	return v.verifier, nil
}
