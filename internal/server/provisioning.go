package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/auth"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
)

type provisionRequest struct {
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
}

type visibilitySyncRequest struct {
	CompanyID string `json:"companyId"`
}

func (s *Server) handleProvision(c *gin.Context) {
	var req provisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	claims := claimsFrom(c)
	if !s.canProvision(claims) {
		AbortWithError(c, ErrPermissionDenied)
		return
	}

	result, err := s.provisioningSvc.Provision(c.Request.Context(), domain.ProvisionRequest{
		CompanyID:   req.CompanyID,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"companyId": result.CompanyID,
	})
}

// canProvision admits global admins and admins of the operator company.
func (s *Server) canProvision(claims *auth.Claims) bool {
	if claims == nil {
		return false
	}
	if claims.Superadmin || claims.Admin {
		return true
	}
	return claims.CompanyID == s.cfg.Provisioning.OperatorCompanyID && claims.Role == "admin"
}

func (s *Server) handleVisibilitySync(c *gin.Context) {
	var req visibilitySyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	claims := claimsFrom(c)
	companyID := strings.TrimSpace(req.CompanyID)
	if claims == nil || (!claims.Superadmin && claims.CompanyID != companyID) {
		AbortWithError(c, ErrPermissionDenied)
		return
	}

	result, err := s.provisioningSvc.SyncVisibility(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"companyId":       result.CompanyID,
		"workspaceSiteId": result.WorkspaceSiteID,
		"baseSiteId":      result.BaseSiteID,
	})
}
