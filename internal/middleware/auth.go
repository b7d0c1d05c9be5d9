package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"contribution-service/pkg/common"
)

// StaffAuth gates staff-only routes behind a shared API key supplied in the
// X-Api-Key header. Role granularity beyond "is staff" lives upstream.
func StaffAuth(staffKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if staffKey == "" {
			c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("Staff access not configured", nil, http.StatusServiceUnavailable))
			c.Abort()
			return
		}

		apiKey := c.GetHeader("X-Api-Key")
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(staffKey)) != 1 {
			c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Requires staff privileges", nil, http.StatusUnauthorized))
			c.Abort()
			return
		}

		c.Next()
	}
}
