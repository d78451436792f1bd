// Package identity talks to the external account directory. Accounts live
// with the identity provider, not in the coordination store; teardown pages
// through them and deletes the ones scoped to a company.
package identity

import (
	"context"
	"strings"
)

// Account is one identity-provider account.
type Account struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CompanyID string `json:"companyId"`
}

type Directory interface {
	// ListAccounts returns one provider-defined page and the token for the
	// next one; an empty token means the listing is exhausted.
	ListAccounts(ctx context.Context, pageToken string) ([]Account, string, error)
	// DeleteAccount treats 404 as success.
	DeleteAccount(ctx context.Context, id string) error
}

// Operator accounts that must survive any company purge.
var protectedEmails = map[string]struct{}{
	"drift@digitalkontroll.se":   {},
	"support@digitalkontroll.se": {},
}

func IsProtected(email string) bool {
	_, ok := protectedEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
