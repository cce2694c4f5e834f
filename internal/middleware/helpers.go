// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetBusinessID gets the business ID from context
func GetBusinessID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("business_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetBusinessID gets the business ID from context or panics
func MustGetBusinessID(c *gin.Context) int64 {
	id, exists := GetBusinessID(c)
	if !exists {
		panic("business_id not found in context")
	}
	return id
}
