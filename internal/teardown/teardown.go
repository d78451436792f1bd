// Package teardown removes everything a company owns: its external sites,
// its coordination-store documents, and its directory accounts. Deletions
// are best-effort where the spec allows; the report tells the operator what
// actually happened.
package teardown

import (
	"context"
	"errors"
)

// ErrProtectedCompany guards the operator tenant from deletion.
var ErrProtectedCompany = errors.New("company is protected and cannot be torn down")

// Failure records one target that could not be removed.
type Failure struct {
	Target string `json:"target"`
	Err    string `json:"error"`
}

// Report summarises a purge pass over the coordination store.
type Report struct {
	Succeeded []string  `json:"succeeded"`
	Failed    []Failure `json:"failed"`
}

func (r Report) Ok() bool { return len(r.Failed) == 0 }

// AccountReport summarises a directory sweep.
type AccountReport struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// Result is the full outcome of a company teardown.
type Result struct {
	CompanyID string        `json:"companyId"`
	Accounts  AccountReport `json:"accounts"`
	Store     Report        `json:"store"`
	Sites     Report        `json:"sites"`
}

type Service interface {
	// PurgeCompany removes the company's accounts, store documents and
	// external sites, in that order. The protected company is refused.
	PurgeCompany(ctx context.Context, companyID string) (*Result, error)
	// DeleteTree empties the folder at path depth-first. The folder itself
	// survives; only its descendants are deleted.
	DeleteTree(ctx context.Context, siteID, path string) error
	// PurgeStore deletes every coordination-store document the company owns,
	// the root document last.
	PurgeStore(ctx context.Context, companyID string) Report
	// PurgeAccounts deletes the company's directory accounts, skipping
	// protected operator addresses.
	PurgeAccounts(ctx context.Context, companyID string) (AccountReport, error)
}
