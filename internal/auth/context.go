package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxOperator = "operator"
)

// Operator returns the identity the operator middleware authenticated:
// the Firebase email, or "api-key" for key-based access.
func Operator(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxOperator))
}
