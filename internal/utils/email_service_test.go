package utils

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/config"
)

func TestEmailServiceSend(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     "587",
		SMTPUsername: "bot@example.com",
		SMTPPassword: "secret",
		FromName:     "VIT Travel Buddy",
	})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, svc.Send("asha@vitstudent.ac.in", "Travel group formed", "See you at gate 1"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"asha@vitstudent.ac.in"}, gotTo)
	msg := string(gotMsg)
	assert.Contains(t, msg, "To: asha@vitstudent.ac.in\r\n")
	assert.Contains(t, msg, "Subject: Travel group formed\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nSee you at gate 1\r\n"))
}

func TestEmailServiceErrors(t *testing.T) {
	unconfigured := NewEmailService(&config.EmailConfig{})
	assert.Error(t, unconfigured.Send("a@b.c", "s", "b"))

	svc := NewEmailService(&config.EmailConfig{SMTPUsername: "u", SMTPPassword: "p"})
	boom := errors.New("connection refused")
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }
	assert.ErrorIs(t, svc.Send("a@b.c", "s", "b"), boom)
}
