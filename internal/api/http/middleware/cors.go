package middleware

import (
	"net/http"
	"regexp"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// OriginAllowed is the single cross-origin predicate: an exact match
// against allowed, or a full match of any pattern.
func OriginAllowed(origin string, allowed []string, patterns []*regexp.Regexp) bool {
	if origin == "" {
		return false
	}
	if slices.Contains(allowed, origin) {
		return true
	}
	for _, p := range patterns {
		if loc := p.FindStringIndex(origin); loc != nil && loc[0] == 0 && loc[1] == len(origin) {
			return true
		}
	}
	return false
}

// CORS builds the cross-origin middleware around OriginAllowed.
func CORS(allowed []string, patterns []*regexp.Regexp) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return OriginAllowed(origin, allowed, patterns)
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
