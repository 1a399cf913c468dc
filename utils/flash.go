package utils

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie     = "flash"
	flashContextKey = "flashes"
	flashMaxAge     = 300
)

// Flash queues a one-time notice. It is shown by the next render, whether that
// happens in this request or after a redirect.
func Flash(c *gin.Context, message string) {
	pending := append(pendingFlashes(c), message)
	c.Set(flashContextKey, pending)

	all := append(requestFlashes(c), pending...)
	raw, err := json.Marshal(all)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), flashMaxAge, "/", "", SecureCookies(c), true)
}

// ConsumeFlashes returns every queued notice and clears the cookie.
func ConsumeFlashes(c *gin.Context) []string {
	messages := append(requestFlashes(c), pendingFlashes(c)...)
	if len(messages) > 0 {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookie, "", -1, "/", "", SecureCookies(c), true)
	}
	c.Set(flashContextKey, []string(nil))
	return messages
}

func pendingFlashes(c *gin.Context) []string {
	if v, ok := c.Get(flashContextKey); ok {
		if list, ok := v.([]string); ok {
			return list
		}
	}
	return nil
}

func requestFlashes(c *gin.Context) []string {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var messages []string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}
	return messages
}
