// Package auth verifies bearer tokens against the configured OIDC issuer
// and exposes the claims request handlers gate on.
package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid bearer token")

// Claims are the identity attributes carried by a verified token.
type Claims struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	Admin      bool   `json:"admin"`
	Superadmin bool   `json:"superadmin"`
	CompanyID  string `json:"companyId"`
	Role       string `json:"role"`
}

type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}
