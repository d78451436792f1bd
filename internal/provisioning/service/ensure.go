package service

import (
	"context"
	"fmt"
	"time"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/clock"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/config"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/siteprovider"
)

// SiteEnsurer returns an existing site or creates it, absorbing the
// provider's eventual consistency with bounded polling.
type SiteEnsurer struct {
	provider siteprovider.Provider
	clock    clock.Clock
	attempts int
	interval time.Duration
}

func NewSiteEnsurer(provider siteprovider.Provider, clk clock.Clock, cfg config.Config) *SiteEnsurer {
	attempts := cfg.Provisioning.PollAttempts
	if attempts <= 0 {
		attempts = 5
	}
	interval := cfg.Provisioning.PollInterval
	if interval <= 0 {
		interval = 1500 * time.Millisecond
	}
	return &SiteEnsurer{
		provider: provider,
		clock:    clk,
		attempts: attempts,
		interval: interval,
	}
}

func (e *SiteEnsurer) EnsureSite(ctx context.Context, hostname, slug, displayName, description, ownerEmail string) (*siteprovider.Site, error) {
	site, err := e.provider.GetSiteBySlug(ctx, hostname, slug)
	if err != nil {
		return nil, err
	}
	if site != nil {
		return site, nil
	}

	created, err := e.provider.CreateSite(ctx, hostname, slug, displayName, description, ownerEmail)
	if err != nil {
		return nil, err
	}
	if created != nil {
		return created, nil
	}

	// Creation conflicted, or the provider accepted it without making the
	// site lookup-visible yet. Poll until the slug resolves.
	for i := 0; i < e.attempts; i++ {
		if err := e.clock.Sleep(ctx, e.interval); err != nil {
			return nil, err
		}
		site, err := e.provider.GetSiteBySlug(ctx, hostname, slug)
		if err != nil {
			return nil, err
		}
		if site != nil {
			return site, nil
		}
	}

	return nil, fmt.Errorf("site %q did not become visible after %d attempts: %w", slug, e.attempts, domain.ErrSiteNotVisible)
}
