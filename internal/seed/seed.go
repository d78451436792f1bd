package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	dbpkg "github.com/marcusskogh92-prog/digitalkontroll/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const operatorDisplayName = "Digitalkontroll"

// EnsureOperatorCompany seeds the operator tenant's root document so the
// protected company exists before anything is provisioned against it.
func EnsureOperatorCompany(db *gorm.DB, companyID string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return errors.New("operator company id is required")
	}

	now := time.Now().UTC()
	err := db.WithContext(context.Background()).Create(&domain.CompanyConfig{
		CompanyID:   companyID,
		DisplayName: operatorDisplayName,
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error
	if dbpkg.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}
