package service

import (
	"context"
	"testing"
	"time"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/clock"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnsurer(provider *fakeProvider, clk clock.Clock) *SiteEnsurer {
	cfg := config.Config{}
	cfg.Provisioning.PollAttempts = 5
	cfg.Provisioning.PollInterval = 1500 * time.Millisecond
	return NewSiteEnsurer(provider, clk, cfg)
}

func TestEnsureSiteReturnsExistingWithoutCreating(t *testing.T) {
	provider := newFakeProvider()
	_, err := provider.CreateSite(context.Background(), "h", "acme", "Acme", "", "o@x.se")
	require.NoError(t, err)
	provider.creates = 0

	clk := clock.NewFakeClock(time.Now())
	ensurer := newTestEnsurer(provider, clk)

	site, err := ensurer.EnsureSite(context.Background(), "h", "acme", "Acme", "", "o@x.se")
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "site-acme", site.ID)
	assert.Equal(t, 0, provider.createCount())
	assert.Empty(t, clk.Sleeps())
}

func TestEnsureSitePollsUntilVisible(t *testing.T) {
	provider := newFakeProvider()
	provider.visibleAfterPolls = 2

	clk := clock.NewFakeClock(time.Now())
	ensurer := newTestEnsurer(provider, clk)

	site, err := ensurer.EnsureSite(context.Background(), "h", "acme", "Acme", "", "o@x.se")
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "site-acme", site.ID)
	assert.Equal(t, 1, provider.createCount())
	// Two polls missed before the third resolved the slug.
	assert.Len(t, clk.Sleeps(), 3)
}

func TestEnsureSiteGivesUpAfterAllAttempts(t *testing.T) {
	provider := newFakeProvider()
	provider.visibleAfterPolls = 100

	clk := clock.NewFakeClock(time.Now())
	ensurer := newTestEnsurer(provider, clk)

	_, err := ensurer.EnsureSite(context.Background(), "h", "acme", "Acme", "", "o@x.se")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSiteNotVisible)
	assert.Len(t, clk.Sleeps(), 5)
	for _, d := range clk.Sleeps() {
		assert.Equal(t, 1500*time.Millisecond, d)
	}
}

func TestEnsureSitePropagatesCreateError(t *testing.T) {
	provider := newFakeProvider()
	provider.createErr = errProviderDown

	clk := clock.NewFakeClock(time.Now())
	ensurer := newTestEnsurer(provider, clk)

	_, err := ensurer.EnsureSite(context.Background(), "h", "acme", "Acme", "", "o@x.se")
	assert.ErrorIs(t, err, errProviderDown)
}
