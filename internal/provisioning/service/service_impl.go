package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/clock"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/observability/metrics"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/siteprovider"
	"go.uber.org/zap"
)

type service struct {
	repo    domain.Repository
	ensurer *SiteEnsurer
	cfg     config.Config
	clock   clock.Clock
	genID   *snowflake.Node
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewService(
	repo domain.Repository,
	ensurer *SiteEnsurer,
	cfg config.Config,
	clk clock.Clock,
	genID *snowflake.Node,
	log *zap.Logger,
	m *metrics.Metrics,
) domain.Service {
	return &service{
		repo:    repo,
		ensurer: ensurer,
		cfg:     cfg,
		clock:   clk,
		genID:   genID,
		log:     log,
		metrics: m,
	}
}

func (s *service) Provision(ctx context.Context, req domain.ProvisionRequest) (*domain.ProvisionResult, error) {
	companyID := strings.TrimSpace(req.CompanyID)
	if companyID == "" {
		return nil, domain.ErrInvalidCompany
	}
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		name = companyID
	}

	pcfg := s.cfg.Provisioning
	if pcfg.Hostname == "" || pcfg.BearerToken == "" {
		return nil, domain.ErrMissingProviderConfig
	}

	workspaceSlug := NormalizeSlug(name)
	baseSlug := NormalizeSlug(name + "-bas")
	if workspaceSlug == "" || baseSlug == "" {
		return nil, domain.ErrEmptySlug
	}

	if err := s.repo.EnsureConfig(ctx, companyID, name); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	lockID := fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString())
	if err := s.repo.AcquireLock(ctx, companyID, lockID, now, pcfg.StaleLockTTL); err != nil {
		if err == domain.ErrAlreadyInProgress {
			s.metrics.ProvisionOutcome("aborted")
		}
		return nil, err
	}

	s.log.Info("provisioning started",
		zap.String("company_id", companyID),
		zap.String("lock_id", lockID),
	)

	base, workspace, err := s.ensureCompanySites(ctx, companyID, name, baseSlug, workspaceSlug)
	if err != nil {
		s.metrics.ProvisionOutcome("error")
		if markErr := s.repo.MarkError(ctx, companyID, lockID, err.Error(), s.clock.Now().UTC()); markErr != nil {
			s.log.Warn("failed to record provisioning error",
				zap.String("company_id", companyID),
				zap.Error(markErr),
			)
		}
		return nil, err
	}

	if err := s.repo.MarkComplete(ctx, companyID, lockID, s.clock.Now().UTC()); err != nil {
		s.metrics.ProvisionOutcome("error")
		return nil, err
	}

	// State is complete; metadata is a re-derivable projection, so a failure
	// here is surfaced but never rolls the state machine back. SyncVisibility
	// repairs it.
	if err := s.syncMetadata(ctx, companyID, base, workspace); err != nil {
		s.metrics.ProvisionOutcome("error")
		return nil, err
	}

	s.metrics.ProvisionOutcome("completed")
	s.log.Info("provisioning complete",
		zap.String("company_id", companyID),
		zap.String("base_site_id", base.SiteID),
		zap.String("workspace_site_id", workspace.SiteID),
	)

	return &domain.ProvisionResult{
		CompanyID:     companyID,
		BaseSite:      base,
		WorkspaceSite: workspace,
	}, nil
}

// ensureCompanySites re-derives whatever a previous attempt already recorded
// and only calls the provider for sites that are still missing. This is what
// makes provisioning idempotent end-to-end, not merely per site.
func (s *service) ensureCompanySites(ctx context.Context, companyID, name, baseSlug, workspaceSlug string) (domain.Site, domain.Site, error) {
	var zero domain.Site

	recorded, err := s.repo.GetSites(ctx, companyID)
	if err != nil {
		return zero, zero, err
	}

	base, ok := recorded[domain.SiteTypeBase]
	if !ok {
		base, err = s.ensureOne(ctx, companyID, domain.SiteTypeBase, baseSlug,
			name+" (bas)", "Systemyta för "+name, domain.VisibilityHidden)
		if err != nil {
			return zero, zero, err
		}
	}

	workspace, ok := recorded[domain.SiteTypeWorkspace]
	if !ok {
		workspace, err = s.ensureOne(ctx, companyID, domain.SiteTypeWorkspace, workspaceSlug,
			name, "Arbetsyta för "+name, domain.VisibilityCompany)
		if err != nil {
			return zero, zero, err
		}
	}

	return base, workspace, nil
}

func (s *service) ensureOne(ctx context.Context, companyID, siteType, slug, displayName, description, visibility string) (domain.Site, error) {
	created, err := s.ensurer.EnsureSite(ctx, s.cfg.Provisioning.Hostname, slug, displayName, description, s.cfg.Provisioning.OwnerEmail)
	if err != nil {
		return domain.Site{}, err
	}
	s.metrics.SiteEnsured(siteType)

	site := siteFromProvider(created, slug, siteType, visibility)
	row := domain.CompanySite{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		SiteType:    siteType,
		SiteID:      site.SiteID,
		WebURL:      site.WebURL,
		DisplayName: site.DisplayName,
		Slug:        site.Slug,
		Visibility:  site.Visibility,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.repo.SaveSite(ctx, row); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

func siteFromProvider(site *siteprovider.Site, slug, siteType, visibility string) domain.Site {
	return domain.Site{
		SiteID:      site.ID,
		WebURL:      site.WebURL,
		DisplayName: site.DisplayName,
		Slug:        slug,
		Type:        siteType,
		Visibility:  visibility,
	}
}
