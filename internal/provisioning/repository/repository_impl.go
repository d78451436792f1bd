package repository

import (
	"context"
	"errors"
	"time"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) EnsureConfig(ctx context.Context, companyID, displayName string) error {
	now := time.Now().UTC()
	row := domain.CompanyConfig{
		CompanyID:   companyID,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"display_name": displayName,
			"updated_at":   now,
		}),
	}).Create(&row).Error
}

func (r *repository) GetConfig(ctx context.Context, companyID string) (*domain.CompanyConfig, error) {
	var cfg domain.CompanyConfig
	err := r.db.WithContext(ctx).First(&cfg, "company_id = ?", companyID).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) ListCompanyIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.CompanyConfig{}).
		Order("company_id ASC").
		Pluck("company_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AcquireLock is a single conditional upsert: the insert wins when no state
// row exists, and the conflict update only fires when the stored state is
// terminal or the stored in_progress lock has gone stale. Zero affected rows
// means a live holder.
func (r *repository) AcquireLock(ctx context.Context, companyID, lockID string, now time.Time, staleAfter time.Duration) error {
	row := domain.ProvisioningState{
		CompanyID: companyID,
		State:     domain.StateInProgress,
		LockID:    lockID,
		StartedAt: now,
		UpdatedAt: now,
	}
	staleBefore := now.Add(-staleAfter)

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Or(
				clause.Neq{
					Column: clause.Column{Table: "provisioning_states", Name: "state"},
					Value:  string(domain.StateInProgress),
				},
				clause.Lt{
					Column: clause.Column{Table: "provisioning_states", Name: "started_at"},
					Value:  staleBefore,
				},
			),
		}},
		DoUpdates: clause.Assignments(map[string]any{
			"state":         string(domain.StateInProgress),
			"lock_id":       lockID,
			"started_at":    now,
			"completed_at":  nil,
			"error_message": "",
			"updated_at":    now,
		}),
	}).Create(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyInProgress
	}
	return nil
}

func (r *repository) MarkComplete(ctx context.Context, companyID, lockID string, at time.Time) error {
	return r.markTerminal(ctx, companyID, lockID, map[string]any{
		"state":         string(domain.StateComplete),
		"completed_at":  at,
		"error_message": "",
		"updated_at":    at,
	})
}

func (r *repository) MarkError(ctx context.Context, companyID, lockID, message string, at time.Time) error {
	return r.markTerminal(ctx, companyID, lockID, map[string]any{
		"state":         string(domain.StateError),
		"error_message": message,
		"updated_at":    at,
	})
}

func (r *repository) markTerminal(ctx context.Context, companyID, lockID string, assignments map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&domain.ProvisioningState{}).
		Where("company_id = ? AND lock_id = ?", companyID, lockID).
		Updates(assignments)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLockLost
	}
	return nil
}

func (r *repository) GetState(ctx context.Context, companyID string) (*domain.ProvisioningState, error) {
	var state domain.ProvisioningState
	err := r.db.WithContext(ctx).First(&state, "company_id = ?", companyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *repository) GetSites(ctx context.Context, companyID string) (map[string]domain.Site, error) {
	var rows []domain.CompanySite
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	sites := make(map[string]domain.Site, len(rows))
	for _, row := range rows {
		sites[row.SiteType] = row.Site()
	}
	return sites, nil
}

// SaveSite records a resolved site once; a row already present for the
// company and site type is never overwritten.
func (r *repository) SaveSite(ctx context.Context, row domain.CompanySite) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "site_type"}},
		DoNothing: true,
	}).Create(&row).Error
}

func (r *repository) UpsertNavigationEntry(ctx context.Context, entry domain.NavigationEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "site_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":      entry.Title,
			"web_url":    entry.WebURL,
			"enabled":    entry.Enabled,
			"sort_order": entry.SortOrder,
			"updated_at": entry.UpdatedAt,
		}),
	}).Create(&entry).Error
}

func (r *repository) DeleteNavigationEntry(ctx context.Context, siteID string) error {
	return r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Delete(&domain.NavigationEntry{}).Error
}

func (r *repository) UpsertVisibility(ctx context.Context, visibility domain.SiteVisibility) error {
	visibility.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "site_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"role":                  visibility.Role,
			"visible_in_left_panel": visibility.VisibleInLeftPanel,
			"updated_at":            visibility.UpdatedAt,
		}),
	}).Create(&visibility).Error
}

func (r *repository) ListVisibilities(ctx context.Context, companyID string) ([]domain.SiteVisibility, error) {
	var rows []domain.SiteVisibility
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("site_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpsertProfile(ctx context.Context, profile domain.CompanyProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"workspace_site_id": profile.WorkspaceSiteID,
			"workspace_web_url": profile.WorkspaceWebURL,
			"updated_at":        profile.UpdatedAt,
		}),
	}).Create(&profile).Error
}
