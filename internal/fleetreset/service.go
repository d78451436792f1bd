package fleetreset

import (
	"context"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/siteprovider"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/teardown"
	"go.uber.org/zap"
)

// baseSkeleton is the folder layout a fresh base site carries. Parents come
// before children so EnsureFolder never has to backfill.
var baseSkeleton = []string{
	"Dokument",
	"Dokument/Mallar",
	"Dokument/Arkiv",
	"Dokument/Arkiv/Projekt",
	"Dokument/Arkiv/Kontroller",
	"Dokument/Arkiv/Foretag",
}

// archivePaths are the base-site subtrees a reset empties. The folders
// themselves stay; only their contents go.
var archivePaths = []string{
	"Dokument/Arkiv/Projekt",
	"Dokument/Arkiv/Kontroller",
	"Dokument/Arkiv/Foretag",
}

type service struct {
	cfg      config.Config
	repo     domain.Repository
	teardown teardown.Service
	provider siteprovider.Provider
	log      *zap.Logger
}

func NewService(
	cfg config.Config,
	repo domain.Repository,
	td teardown.Service,
	provider siteprovider.Provider,
	log *zap.Logger,
) Service {
	return &service{
		cfg:      cfg,
		repo:     repo,
		teardown: td,
		provider: provider,
		log:      log.Named("fleetreset"),
	}
}

func (s *service) Reset(ctx context.Context) (*Result, error) {
	if !s.cfg.IsDevelopment() {
		return nil, ErrEnvironmentNotAllowed
	}

	companyIDs, err := s.repo.ListCompanyIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	protected := s.cfg.Provisioning.ProtectedCompanyID
	for _, companyID := range companyIDs {
		if companyID == protected {
			continue
		}
		outcome := CompanyOutcome{CompanyID: companyID}
		if _, err := s.teardown.PurgeCompany(ctx, companyID); err != nil {
			outcome.Err = err.Error()
			s.log.Warn("company purge failed during fleet reset",
				zap.String("company_id", companyID),
				zap.Error(err))
		}
		result.Companies = append(result.Companies, outcome)
	}

	if err := s.resetOperator(ctx, protected); err != nil {
		result.OperatorErr = err.Error()
		s.log.Error("operator reset failed", zap.Error(err))
		return result, nil
	}
	result.OperatorReset = true

	s.log.Info("fleet reset finished",
		zap.Int("companies", len(result.Companies)))
	return result, nil
}

// resetOperator empties the protected company's workspace and archive and
// rebuilds the base folder skeleton.
func (s *service) resetOperator(ctx context.Context, companyID string) error {
	sites, err := s.repo.GetSites(ctx, companyID)
	if err != nil {
		return err
	}

	if workspace, ok := sites[domain.SiteTypeWorkspace]; ok {
		if err := s.teardown.DeleteTree(ctx, workspace.SiteID, ""); err != nil {
			return err
		}
	}

	base, ok := sites[domain.SiteTypeBase]
	if !ok {
		return nil
	}
	for _, path := range archivePaths {
		if err := s.teardown.DeleteTree(ctx, base.SiteID, path); err != nil {
			return err
		}
	}
	for _, path := range baseSkeleton {
		if err := s.provider.EnsureFolder(ctx, base.SiteID, path); err != nil {
			return err
		}
	}
	return nil
}
