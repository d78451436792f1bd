// Package fleetreset wipes every tenant except the operator company and
// restores the operator workspaces to their pristine folder layout. It is
// development tooling and refuses to run anywhere else.
package fleetreset

import (
	"context"
	"errors"
)

var ErrEnvironmentNotAllowed = errors.New("fleet reset is only available in development environments")

// CompanyOutcome records what happened to one tenant.
type CompanyOutcome struct {
	CompanyID string `json:"companyId"`
	Err       string `json:"error,omitempty"`
}

// Result summarises a full fleet reset.
type Result struct {
	Companies []CompanyOutcome `json:"companies"`
	// OperatorReset reports whether the protected company's folder skeleton
	// was rebuilt.
	OperatorReset bool   `json:"operatorReset"`
	OperatorErr   string `json:"operatorError,omitempty"`
}

type Service interface {
	// Reset tears down every non-protected company, then empties and
	// re-seeds the protected company's sites.
	Reset(ctx context.Context) (*Result, error)
}
