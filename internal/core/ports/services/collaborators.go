package services

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
)

// Notifier delivers a message to a user. Failures are never fatal to the caller.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// Mailer sends an email.
type Mailer interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// ProofRenderer turns a completed redemption request into a printable proof document.
type ProofRenderer interface {
	RenderRedemptionProof(ctx context.Context, proof domain.RedemptionProof) ([]byte, error)
}
