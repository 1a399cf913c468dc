package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"blog-api/config"
	"blog-api/controllers"
	"blog-api/middleware"
	"blog-api/repositories"
	"blog-api/services"
	"blog-api/utils"
	"blog-api/views"
)

// Dependencies are the long-lived collaborators the handlers need.
type Dependencies struct {
	DB           *gorm.DB
	Config       *config.Config
	EmailService *services.EmailService
	Sessions     *services.SessionService
	RateLimiter  *middleware.RateLimiter
	Logger       *slog.Logger
}

func SetupRoutes(r *gin.Engine, deps Dependencies) error {
	tmpl, err := views.Load()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	static, err := views.Static()
	if err != nil {
		return fmt.Errorf("failed to load static files: %w", err)
	}

	authService := services.NewAuthService(repositories.NewUserRepository(deps.DB))

	// Controllers
	authController := controllers.NewAuthController(authService, deps.Sessions, deps.Logger)
	postController := controllers.NewPostController(deps.DB, deps.Logger)
	commentController := controllers.NewCommentController(deps.DB, deps.Logger)
	pageController := controllers.NewPageController(deps.EmailService, deps.Logger)

	r.Use(
		middleware.RequestID(),
		middleware.CookiePolicy(deps.Config.CookieSecure),
		middleware.Recovery(deps.Logger),
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
		middleware.ErrorHandler(deps.Logger),
	)

	r.NoRoute(utils.SendNotFound)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.StaticFS("/static", static)

	site := r.Group("/")
	site.Use(middleware.LoadSession(deps.Sessions, authService, deps.Logger))
	limited := middleware.RateLimit(deps.RateLimiter)
	sameSite := middleware.RejectCrossSite()

	// Public pages
	{
		site.GET("/", postController.GetPosts)
		site.GET("/post/:id", postController.GetPost)
		site.POST("/post/:id", sameSite, commentController.CreateComment)
		site.GET("/about", pageController.About)
		site.GET("/contact", pageController.ShowContact)
		site.POST("/contact", sameSite, limited, pageController.SubmitContact)
	}

	// Auth
	{
		site.GET("/register", authController.ShowRegister)
		site.POST("/register", sameSite, limited, authController.Register)
		site.GET("/login", authController.ShowLogin)
		site.POST("/login", sameSite, limited, authController.Login)
		site.GET("/logout", sameSite, middleware.RequireLogin(), authController.Logout)
	}

	// Post management
	admin := site.Group("/")
	admin.Use(sameSite, middleware.AdminOnly(authService))
	{
		admin.GET("/new-post", postController.NewPost)
		admin.POST("/new-post", postController.CreatePost)
		admin.GET("/edit-post/:id", postController.EditPost)
		admin.POST("/edit-post/:id", postController.UpdatePost)
		admin.GET("/delete/:id", postController.DeletePost)
	}

	return nil
}
