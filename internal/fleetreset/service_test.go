package fleetreset

import (
	"context"
	"errors"
	"testing"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/migration"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/repository"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/siteprovider"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/teardown"
	dbpkg "github.com/marcusskogh92-prog/digitalkontroll/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeTeardown struct {
	purged      []string
	purgeErrs   map[string]error
	treeDeletes []string
	treeErr     error
}

func (f *fakeTeardown) PurgeCompany(ctx context.Context, companyID string) (*teardown.Result, error) {
	if err := f.purgeErrs[companyID]; err != nil {
		return nil, err
	}
	f.purged = append(f.purged, companyID)
	return &teardown.Result{CompanyID: companyID}, nil
}

func (f *fakeTeardown) DeleteTree(ctx context.Context, siteID, path string) error {
	if f.treeErr != nil {
		return f.treeErr
	}
	f.treeDeletes = append(f.treeDeletes, siteID+":"+path)
	return nil
}

func (f *fakeTeardown) PurgeStore(ctx context.Context, companyID string) teardown.Report {
	return teardown.Report{}
}

func (f *fakeTeardown) PurgeAccounts(ctx context.Context, companyID string) (teardown.AccountReport, error) {
	return teardown.AccountReport{}, nil
}

type folderProvider struct {
	siteprovider.Provider

	ensured []string
}

func (p *folderProvider) EnsureFolder(ctx context.Context, siteID, path string) error {
	p.ensured = append(p.ensured, siteID+":"+path)
	return nil
}

func newFixture(t *testing.T, environment string) (Service, domain.Repository, *fakeTeardown, *folderProvider) {
	t.Helper()

	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.RunMigrations(conn))
	repo := repository.NewRepository(conn)

	cfg := config.Config{Environment: environment}
	cfg.Provisioning.ProtectedCompanyID = "digitalkontroll"

	td := &fakeTeardown{purgeErrs: map[string]error{}}
	provider := &folderProvider{}
	svc := NewService(cfg, repo, td, provider, zaptest.NewLogger(t))
	return svc, repo, td, provider
}

func seedCompany(t *testing.T, repo domain.Repository, companyID string) {
	t.Helper()
	require.NoError(t, repo.EnsureConfig(context.Background(), companyID, companyID))
}

func TestResetRefusedOutsideDevelopment(t *testing.T) {
	for _, env := range []string{config.EnvProduction, config.EnvStaging} {
		svc, _, td, _ := newFixture(t, env)
		_, err := svc.Reset(context.Background())
		assert.ErrorIs(t, err, ErrEnvironmentNotAllowed)
		assert.Empty(t, td.purged)
	}
}

func TestResetSkipsProtectedCompany(t *testing.T) {
	svc, repo, td, _ := newFixture(t, config.EnvDevelopment)
	ctx := context.Background()

	seedCompany(t, repo, "acme")
	seedCompany(t, repo, "digitalkontroll")
	seedCompany(t, repo, "other")

	result, err := svc.Reset(ctx)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"acme", "other"}, td.purged)
	assert.Len(t, result.Companies, 2)
}

func TestResetContinuesPastCompanyFailures(t *testing.T) {
	svc, repo, td, _ := newFixture(t, config.EnvDevelopment)
	ctx := context.Background()

	seedCompany(t, repo, "acme")
	seedCompany(t, repo, "broken")
	td.purgeErrs["broken"] = errors.New("store on fire")

	result, err := svc.Reset(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"acme"}, td.purged)
	require.Len(t, result.Companies, 2)
	var failed *CompanyOutcome
	for i := range result.Companies {
		if result.Companies[i].CompanyID == "broken" {
			failed = &result.Companies[i]
		}
	}
	require.NotNil(t, failed)
	assert.Contains(t, failed.Err, "store on fire")
}

func TestResetReportsOperatorFailureWithoutFailingTheRun(t *testing.T) {
	svc, repo, td, provider := newFixture(t, config.EnvDevelopment)
	ctx := context.Background()

	seedCompany(t, repo, "acme")
	seedCompany(t, repo, "digitalkontroll")
	require.NoError(t, repo.SaveSite(ctx, domain.CompanySite{
		ID: 1, CompanyID: "digitalkontroll", SiteType: domain.SiteTypeWorkspace, SiteID: "op-ws",
	}))
	td.treeErr = errors.New("workspace wipe failed")

	// The company sweep already ran; its outcome reaches the caller even when
	// the operator rebuild does not.
	result, err := svc.Reset(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"acme"}, td.purged)
	assert.False(t, result.OperatorReset)
	assert.Contains(t, result.OperatorErr, "workspace wipe failed")
	assert.Empty(t, provider.ensured)
}

func TestResetRebuildsOperatorSkeleton(t *testing.T) {
	svc, repo, td, provider := newFixture(t, config.EnvDevelopment)
	ctx := context.Background()

	seedCompany(t, repo, "digitalkontroll")
	require.NoError(t, repo.SaveSite(ctx, domain.CompanySite{
		ID: 1, CompanyID: "digitalkontroll", SiteType: domain.SiteTypeBase, SiteID: "op-base",
	}))
	require.NoError(t, repo.SaveSite(ctx, domain.CompanySite{
		ID: 2, CompanyID: "digitalkontroll", SiteType: domain.SiteTypeWorkspace, SiteID: "op-ws",
	}))

	result, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.True(t, result.OperatorReset)

	// Workspace emptied from the root, archive subtrees emptied in place.
	assert.Equal(t, []string{
		"op-ws:",
		"op-base:Dokument/Arkiv/Projekt",
		"op-base:Dokument/Arkiv/Kontroller",
		"op-base:Dokument/Arkiv/Foretag",
	}, td.treeDeletes)

	assert.Equal(t, []string{
		"op-base:Dokument",
		"op-base:Dokument/Mallar",
		"op-base:Dokument/Arkiv",
		"op-base:Dokument/Arkiv/Projekt",
		"op-base:Dokument/Arkiv/Kontroller",
		"op-base:Dokument/Arkiv/Foretag",
	}, provider.ensured)
}
