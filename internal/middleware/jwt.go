package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
	"github.com/noah-isme/idea-observation-api/pkg/logger"
	"github.com/noah-isme/idea-observation-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// IdentifyCaller extracts the raw token from a request. The Authorization header wins over the cookie.
// A malformed Authorization header is reported as an error rather than falling back to the cookie.
func IdentifyCaller(r *http.Request, cookieName string) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
}

// JWT protects routes by requiring a valid token in the Authorization header or auth cookie.
func JWT(validator TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := IdentifyCaller(c.Request, cookieName)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.PrincipalKey, claims.UserID)
		c.Next()
	}
}
