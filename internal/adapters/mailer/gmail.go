// Package mailer sends outbound email through the Gmail API.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailMailer sends as Sender using a service account with domain-wide delegation.
type GmailMailer struct {
	svc    *gmail.Service
	sender string
}

var _ portssvc.Mailer = (*GmailMailer)(nil)

// NewGmailMailer reads the service account key from credentialsFile.
func NewGmailMailer(ctx context.Context, credentialsFile, sender string) (*GmailMailer, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(creds, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}
	conf.Subject = sender

	svc, err := gmail.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &GmailMailer{svc: svc, sender: sender}, nil
}

func (m *GmailMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	raw, err := buildMIME(m.sender, msg)
	if err != nil {
		return err
	}
	_, err = m.svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.RawURLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

// buildMIME renders msg as multipart/mixed with an HTML part followed by the attachments.
func buildMIME(from string, msg domain.EmailMessage) ([]byte, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("email has no recipients")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	htmlPart, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/html; charset=UTF-8"},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write(wrap76(base64.StdEncoding.EncodeToString([]byte(msg.HTMLBody)))); err != nil {
		return nil, err
	}

	for _, a := range msg.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {fmt.Sprintf("%s; name=%q", contentType, a.Filename)},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.Filename)},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(wrap76(base64.StdEncoding.EncodeToString(a.Data))); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", from)
	fmt.Fprintf(&out, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", w.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

func wrap76(s string) []byte {
	var out bytes.Buffer
	for len(s) > 76 {
		out.WriteString(s[:76])
		out.WriteString("\r\n")
		s = s[76:]
	}
	out.WriteString(s)
	return out.Bytes()
}
