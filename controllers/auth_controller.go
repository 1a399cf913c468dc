package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/middleware"
	"blog-api/services"
	"blog-api/utils"
)

type AuthController struct {
	auth     *services.AuthService
	sessions *services.SessionService
	logger   *slog.Logger
}

func NewAuthController(auth *services.AuthService, sessions *services.SessionService, logger *slog.Logger) *AuthController {
	return &AuthController{
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

type RegisterForm struct {
	Email    string `form:"email" binding:"required,email,max=255"`
	Password string `form:"password" binding:"required,max=72"`
	Name     string `form:"name" binding:"required,max=255"`
}

type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

func (ac *AuthController) ShowRegister(c *gin.Context) {
	utils.Render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": RegisterForm{}})
}

func (ac *AuthController) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		for _, msg := range utils.ValidationMessages(err) {
			utils.Flash(c, msg)
		}
		form.Password = ""
		utils.Render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": form})
		return
	}

	_, err := ac.auth.Register(c.Request.Context(), form.Email, form.Name, form.Password)
	switch {
	case errors.Is(err, services.ErrDuplicateAccount):
		utils.Flash(c, "You are already registered, please log in.")
		utils.Redirect(c, "/login")
	case errors.Is(err, services.ErrPasswordTooLong):
		utils.Flash(c, "Password must be at most 72 bytes.")
		form.Password = ""
		utils.Render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": form})
	case err != nil:
		_ = c.Error(err)
	default:
		ac.logger.Info("user registered", "request_id", utils.RequestID(c))
		utils.Flash(c, "Account created, please log in.")
		utils.Redirect(c, "/login")
	}
}

func (ac *AuthController) ShowLogin(c *gin.Context) {
	utils.Render(c, http.StatusOK, "login.html", gin.H{"Title": "Log In", "Form": LoginForm{}})
}

func (ac *AuthController) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		for _, msg := range utils.ValidationMessages(err) {
			utils.Flash(c, msg)
		}
		ac.renderLogin(c, form)
		return
	}

	user, err := ac.auth.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, services.ErrNoSuchAccount):
		utils.Flash(c, "No account with those credentials found.")
		ac.renderLogin(c, form)
		return
	case errors.Is(err, services.ErrBadCredentials):
		utils.Flash(c, "Incorrect password. Please try again.")
		ac.renderLogin(c, form)
		return
	case err != nil:
		_ = c.Error(err)
		return
	}

	token, session, err := ac.sessions.Issue(user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ac.setSessionCookie(c, token, int(ac.sessions.TTL().Seconds()))
	ac.logger.Info("user logged in", "request_id", utils.RequestID(c), "user_id", user.ID, "session_id", session.TokenID)
	utils.Redirect(c, "/")
}

func (ac *AuthController) Logout(c *gin.Context) {
	if session := middleware.CurrentSession(c); session != nil {
		if err := ac.sessions.Revoke(c.Request.Context(), session); err != nil {
			// the cookie is still cleared below
			ac.logger.Warn("failed to revoke session", "request_id", utils.RequestID(c), "error", err)
		}
	}

	ac.setSessionCookie(c, "", -1)
	utils.Redirect(c, "/")
}

func (ac *AuthController) renderLogin(c *gin.Context, form LoginForm) {
	form.Password = ""
	utils.Render(c, http.StatusOK, "login.html", gin.H{"Title": "Log In", "Form": form})
}

func (ac *AuthController) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", utils.SecureCookies(c), true)
}
