package service

import (
	"context"
	"strings"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"go.uber.org/zap"
)

// SyncVisibility rewrites the derived navigation/visibility/profile records
// from the current provisioning state. Idempotent and callable at any time.
func (s *service) SyncVisibility(ctx context.Context, companyID string) (*domain.VisibilityResult, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, domain.ErrInvalidCompany
	}

	sites, err := s.repo.GetSites(ctx, companyID)
	if err != nil {
		return nil, err
	}
	base, baseOK := sites[domain.SiteTypeBase]
	workspace, workspaceOK := sites[domain.SiteTypeWorkspace]
	if !baseOK || !workspaceOK {
		return nil, domain.ErrNotProvisioned
	}

	if err := s.syncMetadata(ctx, companyID, base, workspace); err != nil {
		return nil, err
	}

	if err := s.backfillRoles(ctx, companyID); err != nil {
		return nil, err
	}

	return &domain.VisibilityResult{
		CompanyID:       companyID,
		BaseSiteID:      base.SiteID,
		WorkspaceSiteID: workspace.SiteID,
	}, nil
}

func (s *service) syncMetadata(ctx context.Context, companyID string, base, workspace domain.Site) error {
	// Navigation lists the workspace site only; the base site must never
	// appear there.
	if err := s.repo.UpsertNavigationEntry(ctx, domain.NavigationEntry{
		SiteID:    workspace.SiteID,
		CompanyID: companyID,
		Title:     workspace.DisplayName,
		WebURL:    workspace.WebURL,
		Enabled:   true,
	}); err != nil {
		return err
	}
	if err := s.repo.DeleteNavigationEntry(ctx, base.SiteID); err != nil {
		return err
	}

	if err := s.repo.UpsertVisibility(ctx, domain.SiteVisibility{
		SiteID:             base.SiteID,
		CompanyID:          companyID,
		Role:               domain.RoleSystem,
		VisibleInLeftPanel: false,
	}); err != nil {
		return err
	}
	if err := s.repo.UpsertVisibility(ctx, domain.SiteVisibility{
		SiteID:             workspace.SiteID,
		CompanyID:          companyID,
		Role:               domain.RoleProjects,
		VisibleInLeftPanel: true,
	}); err != nil {
		return err
	}

	return s.repo.UpsertProfile(ctx, domain.CompanyProfile{
		CompanyID:       companyID,
		WorkspaceSiteID: workspace.SiteID,
		WorkspaceWebURL: workspace.WebURL,
	})
}

// backfillRoles assigns the default role to visibility records written before
// roles existed.
func (s *service) backfillRoles(ctx context.Context, companyID string) error {
	rows, err := s.repo.ListVisibilities(ctx, companyID)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.Role != "" {
			continue
		}
		row.Role = domain.RoleSystem
		if err := s.repo.UpsertVisibility(ctx, row); err != nil {
			s.log.Warn("visibility role backfill failed",
				zap.String("site_id", row.SiteID),
				zap.Error(err),
			)
		}
	}
	return nil
}
