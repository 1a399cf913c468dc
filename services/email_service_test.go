package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"blog-api/config"
)

type fakeSender struct {
	messages []*gomail.Message
	err      error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, m...)
	return nil
}

func TestEmailService_SendContactMessage(t *testing.T) {
	cfg := &config.Config{EmailAddress: "owner@example.com"}

	t.Run("relays to the owner", func(t *testing.T) {
		sender := &fakeSender{}
		es := NewEmailServiceWithSender(cfg, sender)

		err := es.SendContactMessage(ContactMessage{
			Name:    "Bob",
			Email:   "bob@example.com",
			Phone:   "555-0100",
			Message: "Hi <there>",
		})
		require.NoError(t, err)
		require.Len(t, sender.messages, 1)

		m := sender.messages[0]
		assert.Equal(t, []string{"owner@example.com"}, m.GetHeader("To"))
		assert.Equal(t, []string{"owner@example.com"}, m.GetHeader("From"))
		assert.Equal(t, []string{"New Message"}, m.GetHeader("Subject"))
		assert.Equal(t, []string{"bob@example.com"}, m.GetHeader("Reply-To"))

		var buf bytes.Buffer
		_, err = m.WriteTo(&buf)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Name: Bob")
		assert.Contains(t, buf.String(), "Phone: 555-0100")
		assert.Contains(t, buf.String(), "Hi &lt;there&gt;")
	})

	t.Run("relay failure is returned", func(t *testing.T) {
		es := NewEmailServiceWithSender(cfg, &fakeSender{err: errors.New("dial tcp: refused")})

		err := es.SendContactMessage(ContactMessage{Name: "Bob", Message: "Hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refused")
	})
}
