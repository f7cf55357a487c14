package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// APIKeyMiddleware admits requests carrying the operator key in X-API-Key
// or as a bearer token.
func APIKeyMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = extractToken(c)
		}

		if key == "" || expected == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid API key",
			})
			return
		}

		c.Set(CtxOperator, "api-key")
		c.Next()
	}
}

// TokenVerifier verifies Firebase ID tokens; *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseOperatorMiddleware validates Firebase ID tokens and admits only
// the configured operator emails.
func FirebaseOperatorMiddleware(verifier TokenVerifier, operatorEmails []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(operatorEmails))
	for _, e := range operatorEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing authorization token"})
			return
		}

		decoded, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		email, _ := decoded.Claims["email"].(string)
		email = strings.ToLower(email)
		if _, ok := allowed[email]; !ok || email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "operator access required"})
			return
		}

		c.Set(CtxOperator, email)
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
