package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const DefaultAvatarSize = 100

// AvatarURL returns the Gravatar image for an email address.
func AvatarURL(email string, size int) string {
	if size <= 0 {
		size = DefaultAvatarSize
	}
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=retro&r=g", hex.EncodeToString(sum[:]), size)
}
