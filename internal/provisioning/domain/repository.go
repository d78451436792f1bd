package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	EnsureConfig(ctx context.Context, companyID, displayName string) error
	GetConfig(ctx context.Context, companyID string) (*CompanyConfig, error)
	ListCompanyIDs(ctx context.Context) ([]string, error)

	// AcquireLock transitions the company's state to in_progress. It succeeds
	// when no state exists, the prior state is terminal, or a prior
	// in_progress lock is stale; a live lock yields ErrAlreadyInProgress.
	AcquireLock(ctx context.Context, companyID, lockID string, now time.Time, staleAfter time.Duration) error
	// MarkComplete and MarkError only apply while lockID is still the stored
	// token; a superseded attempt gets ErrLockLost.
	MarkComplete(ctx context.Context, companyID, lockID string, at time.Time) error
	MarkError(ctx context.Context, companyID, lockID, message string, at time.Time) error
	GetState(ctx context.Context, companyID string) (*ProvisioningState, error)

	GetSites(ctx context.Context, companyID string) (map[string]Site, error)
	SaveSite(ctx context.Context, row CompanySite) error

	UpsertNavigationEntry(ctx context.Context, entry NavigationEntry) error
	DeleteNavigationEntry(ctx context.Context, siteID string) error
	UpsertVisibility(ctx context.Context, visibility SiteVisibility) error
	ListVisibilities(ctx context.Context, companyID string) ([]SiteVisibility, error)
	UpsertProfile(ctx context.Context, profile CompanyProfile) error
}
