package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidCompany        = errors.New("invalid_company")
	ErrEmptySlug             = errors.New("empty_slug")
	ErrMissingProviderConfig = errors.New("missing_provider_config")
	ErrAlreadyInProgress     = errors.New("provisioning_in_progress")
	ErrLockLost              = errors.New("provisioning_lock_lost")
	ErrSiteNotVisible        = errors.New("site_not_visible")
	ErrNotProvisioned        = errors.New("company_not_provisioned")
)

type ProvisionRequest struct {
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
}

type ProvisionResult struct {
	CompanyID     string `json:"companyId"`
	BaseSite      Site   `json:"baseSite"`
	WorkspaceSite Site   `json:"workspaceSite"`
}

type VisibilityResult struct {
	CompanyID       string `json:"companyId"`
	BaseSiteID      string `json:"baseSiteId"`
	WorkspaceSiteID string `json:"workspaceSiteId"`
}

type Service interface {
	// Provision ensures both of a company's sites exist and fans out the
	// derived metadata. Safe to call repeatedly; a live concurrent attempt
	// surfaces as ErrAlreadyInProgress.
	Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error)
	// SyncVisibility rewrites navigation/visibility metadata from the
	// current provisioning state without touching the provider.
	SyncVisibility(ctx context.Context, companyID string) (*VisibilityResult, error)
}
