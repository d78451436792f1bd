// Package siteprovider wraps the external collaboration-site API. Every
// operation is a single request/response pair; no state is retained between
// calls. Conflict and not-found responses are folded into idempotent
// semantics so orchestrators can safely repeat themselves.
package siteprovider

import (
	"context"
	"fmt"
)

// Site is an external collaboration workspace as the provider reports it.
type Site struct {
	ID          string `json:"id"`
	WebURL      string `json:"webUrl"`
	DisplayName string `json:"displayName"`
	Slug        string `json:"name"`
}

// Item is one entry of a site's file tree.
type Item struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Folder *FolderInfo `json:"folder,omitempty"`
}

type FolderInfo struct {
	ChildCount int `json:"childCount"`
}

func (i Item) IsFolder() bool {
	return i.Folder != nil
}

// APIError preserves the provider's raw response body for operator diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("site provider returned %d: %s", e.StatusCode, e.Body)
}

type Provider interface {
	// GetSiteBySlug returns (nil, nil) when the provider answers 404.
	GetSiteBySlug(ctx context.Context, hostname, slug string) (*Site, error)
	// CreateSite returns (nil, nil) on 409/400: creation raced or conflicted
	// and callers fall back to lookup.
	CreateSite(ctx context.Context, hostname, slug, displayName, description, ownerEmail string) (*Site, error)
	// DeleteSite treats 404 as success.
	DeleteSite(ctx context.Context, siteID string) error
	// ListChildren returns an empty list when the path does not exist yet.
	ListChildren(ctx context.Context, siteID, path string) ([]Item, error)
	// DeleteItem treats 404 as success.
	DeleteItem(ctx context.Context, siteID, itemID string) error
	// EnsureFolder creates the missing trailing segments of path, walking
	// left-to-right so intermediate folders exist before their children.
	EnsureFolder(ctx context.Context, siteID, path string) error
}
