package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var fieldLabels = map[string]string{
	"Email":    "Email",
	"Name":     "Name",
	"Password": "Password",
	"Title":    "Blog post title",
	"Subtitle": "Subtitle",
	"Body":     "Blog content",
	"ImgURL":   "Blog image URL",
	"AuthorID": "Author",
	"Comment":  "Comment",
	"Phone":    "Phone",
	"Message":  "Message",
}

// ValidationMessages turns binding errors into notices suitable for flashing.
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"The form could not be read, please try again."}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required.", label))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address.", label))
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL.", label))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters.", label, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid.", label))
		}
	}
	return messages
}

// Blank reports whether s has no visible content.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
