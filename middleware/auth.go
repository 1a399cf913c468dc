package middleware

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"blog-api/repositories"
	"blog-api/services"
	"blog-api/utils"
)

const SessionCookie = "session"

// LoadSession resolves the session cookie into the current user. Invalid,
// expired or revoked cookies leave the visitor anonymous.
func LoadSession(sessions *services.SessionService, auth *services.AuthService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		session, err := sessions.Parse(ctx, token)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidSession) {
				logger.Warn("session check failed", "request_id", utils.RequestID(c), "error", err)
			}
			c.Next()
			return
		}

		user, err := auth.FindUser(ctx, session.UserID)
		if err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				logger.Warn("session user lookup failed", "request_id", utils.RequestID(c), "error", err)
			}
			c.Next()
			return
		}

		isAdmin, err := auth.IsAdmin(ctx, user.ID)
		if err != nil {
			logger.Warn("admin check failed", "request_id", utils.RequestID(c), "error", err)
		}

		c.Set(utils.SessionKey, session)
		c.Set(utils.CurrentUserKey, user)
		c.Set(utils.IsAdminKey, isAdmin)
		c.Next()
	}
}

// CurrentSession returns the verified session, if any.
func CurrentSession(c *gin.Context) *services.Session {
	if v, ok := c.Get(utils.SessionKey); ok {
		if s, ok := v.(*services.Session); ok {
			return s
		}
	}
	return nil
}

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsAuthenticated(c) {
			utils.Flash(c, "Please log in to access this page.")
			utils.Redirect(c, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOnly answers 403 unless the current user holds the lowest id.
// The check is made against the database on every request.
func AdminOnly(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.CurrentUser(c)
		if user == nil {
			utils.SendForbidden(c)
			return
		}

		isAdmin, err := auth.IsAdmin(c.Request.Context(), user.ID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !isAdmin {
			utils.SendForbidden(c)
			return
		}

		c.Next()
	}
}
