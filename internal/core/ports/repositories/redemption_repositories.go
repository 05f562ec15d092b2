package repositories

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
)

// RedemptionReader defines read operations for redemption requests.
type RedemptionReader interface {
	FindRedemptionByID(ctx context.Context, redemptionID string) (*domain.RedemptionRequest, error)
	ListRedemptions(ctx context.Context, filter domain.RedemptionFilter, limit int, nextToken *string) ([]domain.RedemptionRequest, *string, error)
}

// RedemptionWriter defines write operations for redemption requests.
type RedemptionWriter interface {
	SaveRedemption(ctx context.Context, r domain.RedemptionRequest) error
	SetDebitTransaction(ctx context.Context, redemptionID, transactionID string) error

	// UpdateRedemptionStatus applies the update only if the stored status still equals From.
	UpdateRedemptionStatus(ctx context.Context, update domain.RedemptionStatusUpdate) error
}

// RedemptionRepositoryFacade combines all redemption repository interfaces.
type RedemptionRepositoryFacade interface {
	RedemptionReader
	RedemptionWriter
}
