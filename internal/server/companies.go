package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleDeleteCompany(c *gin.Context) {
	companyID := strings.TrimSpace(c.Param("companyId"))
	if companyID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.teardownSvc.PurgeCompany(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Sub-steps are best-effort; the report says what stuck.
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"result": result,
	})
}

func (s *Server) handleFleetReset(c *gin.Context) {
	result, err := s.fleetResetSvc.Reset(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"result": result,
	})
}
