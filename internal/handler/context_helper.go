package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/idea-observation-api/internal/middleware"
	"github.com/noah-isme/idea-observation-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// principalID returns the authenticated observer id, or "" so services reject the call.
func principalID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}
