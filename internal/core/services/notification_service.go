package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/google/uuid"
)

var notificationEmail = template.Must(template.New("notification").Parse(`<html><body>
<h3>{{.Title}}</h3>
<p>{{.Message}}</p>
{{if .ActionURL}}<p><a href="{{.ActionURL}}">Open in Incentive Wallet</a></p>{{end}}
</body></html>`))

type notificationService struct {
	BaseService
	repo     portsrepo.NotificationRepository
	userRepo portsrepo.UserReader
	mailer   portssvc.Mailer
}

// NewNotificationService stores an in-app notification and, when a mailer is configured
// and the user has an address, emails it as well.
func NewNotificationService(repo portsrepo.NotificationRepository, userRepo portsrepo.UserReader, mailer portssvc.Mailer) portssvc.Notifier {
	return &notificationService{repo: repo, userRepo: userRepo, mailer: mailer}
}

var _ portssvc.Notifier = (*notificationService)(nil)

func (s *notificationService) Notify(ctx context.Context, n domain.Notification) error {
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = nowUTC()
	}

	var errs []error
	if err := s.repo.SaveNotification(ctx, n); err != nil {
		errs = append(errs, fmt.Errorf("in-app: %w", err))
	}

	if s.mailer != nil {
		if err := s.email(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.LogDebug(ctx, "Notification delivered", slog.String("user_id", n.UserID), slog.String("title", n.Title))
	return nil
}

func (s *notificationService) email(ctx context.Context, n domain.Notification) error {
	user, err := s.userRepo.FindUserByID(ctx, n.UserID)
	if err != nil {
		return err
	}
	if user.Email == "" {
		return nil
	}
	var body bytes.Buffer
	if err := notificationEmail.Execute(&body, n); err != nil {
		return err
	}
	return s.mailer.Send(ctx, domain.EmailMessage{
		To:       []string{user.Email},
		Subject:  n.Title,
		HTMLBody: body.String(),
	})
}
