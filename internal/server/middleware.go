package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/auth"
)

const contextClaimsKey = "auth_claims"

// AuthRequired verifies the bearer token and stores the claims on the
// request context for the role gates downstream.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			AbortWithError(c, ErrUnauthenticated)
			return
		}

		claims, err := s.verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func claimsFrom(c *gin.Context) *auth.Claims {
	value, ok := c.Get(contextClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.Claims)
	return claims
}

// RequireSuperadmin gates operator-only routes.
func (s *Server) RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			AbortWithError(c, ErrUnauthenticated)
			return
		}
		if !claims.Superadmin {
			AbortWithError(c, ErrPermissionDenied)
			return
		}
		c.Next()
	}
}
