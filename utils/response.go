package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Render executes a page template with the data every page relies on.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = CurrentUser(c)
	data["IsAdmin"] = IsAdmin(c)
	data["Flashes"] = ConsumeFlashes(c)
	data["Year"] = time.Now().Year()
	c.HTML(status, name, data)
}

// SendError renders the error page and stops the handler chain.
func SendError(c *gin.Context, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	Render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}

func SendNotFound(c *gin.Context) {
	SendError(c, http.StatusNotFound, "The page you were looking for does not exist.")
}

func SendForbidden(c *gin.Context) {
	SendError(c, http.StatusForbidden, "You do not have permission to access this page.")
}

// Redirect uses 302 so browsers follow with GET after a form POST.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
