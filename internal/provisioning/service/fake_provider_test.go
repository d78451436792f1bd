package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/siteprovider"
)

// fakeProvider is an in-memory site provider. Created sites become
// lookup-visible after visibleAfterPolls additional GetSiteBySlug calls,
// mimicking the real provider's eventual consistency.
type fakeProvider struct {
	mu sync.Mutex

	sites             map[string]*siteprovider.Site
	pendingPolls      map[string]int
	visibleAfterPolls int

	creates int
	lookups int

	createErr error
	lookupErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		sites:        make(map[string]*siteprovider.Site),
		pendingPolls: make(map[string]int),
	}
}

func (f *fakeProvider) GetSiteBySlug(ctx context.Context, hostname, slug string) (*siteprovider.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	site, ok := f.sites[slug]
	if !ok {
		return nil, nil
	}
	if remaining := f.pendingPolls[slug]; remaining > 0 {
		f.pendingPolls[slug] = remaining - 1
		return nil, nil
	}
	copied := *site
	return &copied, nil
}

func (f *fakeProvider) CreateSite(ctx context.Context, hostname, slug, displayName, description, ownerEmail string) (*siteprovider.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.sites[slug]; exists {
		return nil, nil
	}
	site := &siteprovider.Site{
		ID:          "site-" + slug,
		WebURL:      "https://sites.example.com/" + slug,
		DisplayName: displayName,
		Slug:        slug,
	}
	f.sites[slug] = site
	if f.visibleAfterPolls > 0 {
		f.pendingPolls[slug] = f.visibleAfterPolls
		return nil, nil
	}
	copied := *site
	return &copied, nil
}

func (f *fakeProvider) DeleteSite(ctx context.Context, siteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for slug, site := range f.sites {
		if site.ID == siteID {
			delete(f.sites, slug)
			return nil
		}
	}
	return nil
}

func (f *fakeProvider) ListChildren(ctx context.Context, siteID, path string) ([]siteprovider.Item, error) {
	return []siteprovider.Item{}, nil
}

func (f *fakeProvider) DeleteItem(ctx context.Context, siteID, itemID string) error {
	return nil
}

func (f *fakeProvider) EnsureFolder(ctx context.Context, siteID, path string) error {
	return nil
}

func (f *fakeProvider) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

var errProviderDown = fmt.Errorf("provider unavailable")
