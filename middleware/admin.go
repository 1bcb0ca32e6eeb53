package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/fighterdemo/server/api/envelope"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminAuth returns a middleware that checks the X-Admin-Key header.
// If adminKey is empty all admin endpoints are disabled (503). Set a
// non-empty server.admin_key in config to enable admin routes.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			envelope.Fail(c, envelope.CodeAdminDisabled,
				"admin endpoints disabled: set server.admin_key in config")
			return
		}
		key := c.GetHeader(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) != 1 {
			envelope.Fail(c, envelope.CodeUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}
