package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
)

// CreditStatusUpdate is a compare-and-set on a credit request's status.
type CreditStatusUpdate struct {
	RequestID       string
	From            domain.CreditRequestStatus
	To              domain.CreditRequestStatus
	Signature       *domain.SignatureInfo
	RejectionReason *string
	UpdatedBy       string
	UpdatedAt       time.Time
}

// CreditRequestReader defines read operations for credit requests.
type CreditRequestReader interface {
	FindCreditRequestByID(ctx context.Context, requestID string) (*domain.CreditRequest, error)

	// ListCreditRequests returns newest first using token-based pagination.
	ListCreditRequests(ctx context.Context, filter domain.CreditRequestFilter, limit int, nextToken *string) ([]domain.CreditRequest, *string, error)

	// FindPendingSignatureForUser returns the oldest request awaiting userID's signature.
	FindPendingSignatureForUser(ctx context.Context, userID string) (*domain.CreditRequest, error)
}

// CreditRequestWriter defines write operations for credit requests.
type CreditRequestWriter interface {
	SaveCreditRequest(ctx context.Context, req domain.CreditRequest) error

	// UpdateCreditRequestStatus applies the update only if the stored status still equals From.
	// It returns ErrPrecondition when another writer got there first.
	UpdateCreditRequestStatus(ctx context.Context, update CreditStatusUpdate) error

	// SetWalletTransaction links an approved request to the credit it produced.
	SetWalletTransaction(ctx context.Context, requestID, transactionID string) error
}

// CreditRequestRepositoryFacade combines all credit request repository interfaces.
type CreditRequestRepositoryFacade interface {
	CreditRequestReader
	CreditRequestWriter
}
