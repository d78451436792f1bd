// Package migration keeps the coordination-store schema current. Tables are
// created automatically on startup so local and self-hosted environments
// work out of the box.
package migration

import (
	"errors"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	return db.AutoMigrate(
		&domain.CompanyConfig{},
		&domain.CompanySite{},
		&domain.ProvisioningState{},
		&domain.NavigationEntry{},
		&domain.SiteVisibility{},
		&domain.CompanyProfile{},
	)
}
