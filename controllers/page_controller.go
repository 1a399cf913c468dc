package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-api/observability"
	"blog-api/services"
	"blog-api/utils"
)

type PageController struct {
	emailService *services.EmailService
	logger       *slog.Logger
}

func NewPageController(emailService *services.EmailService, logger *slog.Logger) *PageController {
	return &PageController{
		emailService: emailService,
		logger:       logger,
	}
}

type ContactForm struct {
	Name    string `form:"name" binding:"required,max=255"`
	Email   string `form:"email" binding:"required,email"`
	Phone   string `form:"phone" binding:"max=50"`
	Message string `form:"message" binding:"required"`
}

func (pc *PageController) About(c *gin.Context) {
	utils.Render(c, http.StatusOK, "about.html", gin.H{"Title": "About"})
}

func (pc *PageController) ShowContact(c *gin.Context) {
	utils.Render(c, http.StatusOK, "contact.html", gin.H{
		"Title": "Contact",
		"Form":  ContactForm{},
		"Sent":  c.Query("sent") == "true",
	})
}

// SubmitContact relays the message by email. Relay failures are logged and
// reported back to the visitor; the message is not retried.
func (pc *PageController) SubmitContact(c *gin.Context) {
	var form ContactForm
	if err := c.ShouldBind(&form); err != nil {
		for _, msg := range utils.ValidationMessages(err) {
			utils.Flash(c, msg)
		}
		utils.Render(c, http.StatusOK, "contact.html", gin.H{"Title": "Contact", "Form": form, "Sent": false})
		return
	}

	err := pc.emailService.SendContactMessage(services.ContactMessage{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Phone:   strings.TrimSpace(form.Phone),
		Message: form.Message,
	})
	if err != nil {
		observability.ContactMailFailures.Inc()
		pc.logger.Error("contact message not sent", "request_id", utils.RequestID(c), "error", err)
		utils.Flash(c, "Sorry, your message could not be sent. Please try again later.")
		utils.Redirect(c, "/contact")
		return
	}

	pc.logger.Info("contact message sent", "request_id", utils.RequestID(c))
	utils.Redirect(c, "/contact?sent=true")
}
