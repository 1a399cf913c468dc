package utils

import (
	"github.com/gin-gonic/gin"

	"blog-api/models"
)

// Keys under which per-request state is stored on the gin context.
const (
	CurrentUserKey  = "current_user"
	SessionKey      = "session"
	IsAdminKey      = "is_admin"
	RequestIDKey    = "request_id"
	SecureCookieKey = "secure_cookies"
)

// CurrentUser returns the logged-in user, or nil for anonymous visitors.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func IsAuthenticated(c *gin.Context) bool {
	return CurrentUser(c) != nil
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(IsAdminKey)
}

func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// SecureCookies reports whether cookies set for this request need the Secure flag.
func SecureCookies(c *gin.Context) bool {
	return c.GetBool(SecureCookieKey)
}
