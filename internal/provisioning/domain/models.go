// Package domain contains the coordination-store models for workspace
// provisioning.
package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	SiteTypeBase      = "base"
	SiteTypeWorkspace = "workspace"

	VisibilityHidden  = "hidden"
	VisibilityCompany = "company"

	RoleSystem   = "system"
	RoleProjects = "projects"
)

// State is the provisioning lifecycle of one company.
type State string

const (
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
	StateError      State = "error"
)

func (s State) Terminal() bool {
	return s == StateComplete || s == StateError
}

func ParseState(raw string) (State, error) {
	switch State(raw) {
	case StateInProgress, StateComplete, StateError:
		return State(raw), nil
	default:
		return "", fmt.Errorf("unknown provisioning state %q", raw)
	}
}

// Site is the resolved identity of one external workspace.
type Site struct {
	SiteID      string `json:"siteId"`
	WebURL      string `json:"webUrl"`
	DisplayName string `json:"displayName"`
	Slug        string `json:"slug"`
	Type        string `json:"type"`
	Visibility  string `json:"visibility"`
}

// CompanyConfig is the per-company root document of the coordination store.
type CompanyConfig struct {
	CompanyID   string            `gorm:"primaryKey;column:company_id" json:"company_id"`
	DisplayName string            `gorm:"type:text;not null" json:"display_name"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CompanyConfig) TableName() string { return "company_configs" }

// CompanySite records one provisioned site. Once present it is append-only;
// only teardown removes it.
type CompanySite struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID   string       `gorm:"not null;index;uniqueIndex:ux_company_site_type,priority:1" json:"company_id"`
	SiteType    string       `gorm:"type:text;not null;uniqueIndex:ux_company_site_type,priority:2" json:"site_type"`
	SiteID      string       `gorm:"type:text;not null" json:"site_id"`
	WebURL      string       `gorm:"type:text" json:"web_url"`
	DisplayName string       `gorm:"type:text" json:"display_name"`
	Slug        string       `gorm:"type:text" json:"slug"`
	Visibility  string       `gorm:"type:text" json:"visibility"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CompanySite) TableName() string { return "company_sites" }

func (s CompanySite) Site() Site {
	return Site{
		SiteID:      s.SiteID,
		WebURL:      s.WebURL,
		DisplayName: s.DisplayName,
		Slug:        s.Slug,
		Type:        s.SiteType,
		Visibility:  s.Visibility,
	}
}

// ProvisioningState is the per-company lock and state machine record.
type ProvisioningState struct {
	CompanyID    string     `gorm:"primaryKey;column:company_id" json:"company_id"`
	State        State      `gorm:"type:text;not null" json:"state"`
	LockID       string     `gorm:"type:text;not null" json:"lock_id"`
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	ErrorMessage string     `gorm:"type:text" json:"error_message"`
	UpdatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ProvisioningState) TableName() string { return "provisioning_states" }

// Stale reports whether an in_progress lock is old enough to override.
func (p ProvisioningState) Stale(now time.Time, ttl time.Duration) bool {
	return p.State == StateInProgress && now.Sub(p.StartedAt) > ttl
}

// NavigationEntry is a derived projection; it holds nothing that cannot be
// rebuilt from CompanySite rows.
type NavigationEntry struct {
	SiteID    string    `gorm:"primaryKey;column:site_id" json:"site_id"`
	CompanyID string    `gorm:"not null;index" json:"company_id"`
	Title     string    `gorm:"type:text" json:"title"`
	WebURL    string    `gorm:"type:text" json:"web_url"`
	Enabled   bool      `json:"enabled"`
	SortOrder int       `json:"sort_order"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (NavigationEntry) TableName() string { return "navigation_entries" }

// SiteVisibility is a derived projection keyed by site id.
type SiteVisibility struct {
	SiteID             string    `gorm:"primaryKey;column:site_id" json:"site_id"`
	CompanyID          string    `gorm:"not null;index" json:"company_id"`
	Role               string    `gorm:"type:text" json:"role"`
	VisibleInLeftPanel bool      `json:"visible_in_left_panel"`
	UpdatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (SiteVisibility) TableName() string { return "site_visibilities" }

// CompanyProfile links a company to its workspace site for dependent UI.
type CompanyProfile struct {
	CompanyID       string    `gorm:"primaryKey;column:company_id" json:"company_id"`
	WorkspaceSiteID string    `gorm:"type:text" json:"workspace_site_id"`
	WorkspaceWebURL string    `gorm:"type:text" json:"workspace_web_url"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CompanyProfile) TableName() string { return "company_profiles" }
