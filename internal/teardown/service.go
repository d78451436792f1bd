package teardown

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/identity"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/observability/metrics"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/siteprovider"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const accountDeleteConcurrency = 8

type service struct {
	db        *gorm.DB
	provider  siteprovider.Provider
	directory identity.Directory
	repo      domain.Repository
	cfg       config.ProvisioningConfig
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func NewService(
	db *gorm.DB,
	provider siteprovider.Provider,
	directory identity.Directory,
	repo domain.Repository,
	cfg config.Config,
	log *zap.Logger,
	m *metrics.Metrics,
) Service {
	return &service{
		db:        db,
		provider:  provider,
		directory: directory,
		repo:      repo,
		cfg:       cfg.Provisioning,
		log:       log.Named("teardown"),
		metrics:   m,
	}
}

func (s *service) PurgeCompany(ctx context.Context, companyID string) (*Result, error) {
	if companyID == "" || companyID == s.cfg.ProtectedCompanyID {
		return nil, ErrProtectedCompany
	}

	// Resolve the external sites first: purging the store erases the only
	// record of their ids.
	sites, err := s.repo.GetSites(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := &Result{CompanyID: companyID}

	accounts, err := s.PurgeAccounts(ctx, companyID)
	if err != nil {
		s.log.Warn("account purge incomplete",
			zap.String("company_id", companyID),
			zap.Error(err))
	}
	result.Accounts = accounts

	result.Store = s.PurgeStore(ctx, companyID)

	for _, site := range sites {
		if err := s.provider.DeleteSite(ctx, site.SiteID); err != nil {
			s.metrics.TeardownItem("failed")
			result.Sites.Failed = append(result.Sites.Failed, Failure{Target: site.SiteID, Err: err.Error()})
			s.log.Warn("site deletion failed",
				zap.String("company_id", companyID),
				zap.String("site_id", site.SiteID),
				zap.Error(err))
			continue
		}
		s.metrics.TeardownItem("deleted")
		result.Sites.Succeeded = append(result.Sites.Succeeded, site.SiteID)
	}

	s.log.Info("company torn down",
		zap.String("company_id", companyID),
		zap.Int("accounts_deleted", result.Accounts.Deleted),
		zap.Int("store_failures", len(result.Store.Failed)),
		zap.Int("sites_deleted", len(result.Sites.Succeeded)))
	return result, nil
}

func (s *service) DeleteTree(ctx context.Context, siteID, path string) error {
	children, err := s.provider.ListChildren(ctx, siteID, path)
	if err != nil {
		return err
	}
	for _, child := range children {
		if child.IsFolder() {
			childPath := child.Name
			if path != "" {
				childPath = path + "/" + child.Name
			}
			if err := s.DeleteTree(ctx, siteID, childPath); err != nil {
				return err
			}
		}
		if err := s.provider.DeleteItem(ctx, siteID, child.ID); err != nil {
			s.metrics.TeardownItem("failed")
			return err
		}
		s.metrics.TeardownItem("deleted")
	}
	return nil
}

// storePurges lists the company-scoped document sets. The root config is not
// here; PurgeStore removes it last so a crash mid-purge leaves the company
// discoverable.
var storePurges = []struct {
	name  string
	model any
}{
	{"company_sites", &domain.CompanySite{}},
	{"navigation_entries", &domain.NavigationEntry{}},
	{"site_visibilities", &domain.SiteVisibility{}},
	{"company_profiles", &domain.CompanyProfile{}},
	{"provisioning_states", &domain.ProvisioningState{}},
}

func (s *service) PurgeStore(ctx context.Context, companyID string) Report {
	var (
		mu     sync.Mutex
		report Report
		wg     sync.WaitGroup
	)

	for _, purge := range storePurges {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.db.WithContext(ctx).
				Where("company_id = ?", companyID).
				Delete(purge.model).Error

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, Failure{Target: purge.name, Err: err.Error()})
				return
			}
			report.Succeeded = append(report.Succeeded, purge.name)
		}()
	}
	wg.Wait()

	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&domain.CompanyConfig{}).Error
	if err != nil {
		report.Failed = append(report.Failed, Failure{Target: "company_configs", Err: err.Error()})
	} else {
		report.Succeeded = append(report.Succeeded, "company_configs")
	}
	return report
}

func (s *service) PurgeAccounts(ctx context.Context, companyID string) (AccountReport, error) {
	var deleted, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(accountDeleteConcurrency)

	pageToken := ""
	for {
		accounts, next, err := s.directory.ListAccounts(ctx, pageToken)
		if err != nil {
			_ = g.Wait()
			return AccountReport{Deleted: int(deleted.Load()), Failed: int(failed.Load())}, err
		}
		for _, account := range accounts {
			if account.CompanyID != companyID || identity.IsProtected(account.Email) {
				continue
			}
			g.Go(func() error {
				if err := s.directory.DeleteAccount(gctx, account.ID); err != nil {
					failed.Add(1)
					s.log.Warn("account deletion failed",
						zap.String("account_id", account.ID),
						zap.Error(err))
					return nil
				}
				deleted.Add(1)
				return nil
			})
		}
		if next == "" {
			break
		}
		pageToken = next
	}

	_ = g.Wait()
	return AccountReport{Deleted: int(deleted.Load()), Failed: int(failed.Load())}, nil
}
