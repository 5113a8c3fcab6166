package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the auth middleware.
const (
	ContextExternalID  = "externalID"
	ContextDisplayName = "displayName"
)

// ExternalID returns the authenticated caller's external identity id, or
// an empty string on an unauthenticated request.
func ExternalID(c *gin.Context) string {
	return c.GetString(ContextExternalID)
}

// DisplayName returns the display name claim of the current session.
func DisplayName(c *gin.Context) string {
	return c.GetString(ContextDisplayName)
}

// sessionClaims are the fields this service reads from the identity
// provider's token. The subject is the external identity id every profile
// row references.
type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the HS256 bearer token and stores the caller's
// identity in the request context. Requests without a valid token are
// rejected.
func AuthMiddleware(secret string) gin.HandlerFunc {
	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}

		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, keyFunc,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or expired token",
			})
			return
		}

		c.Set(ContextExternalID, claims.Subject)
		c.Set(ContextDisplayName, claims.Name)
		c.Next()
	}
}
