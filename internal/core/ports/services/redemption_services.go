package services

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
)

// RedemptionReaderSvc defines read operations for redemptions.
type RedemptionReaderSvc interface {
	GetRedemption(ctx context.Context, actor domain.Actor, redemptionID string) (*domain.RedemptionRequest, error)
	ListRedemptionQueue(ctx context.Context, actor domain.Actor, params dto.ListRedemptionsParams) (*dto.ListRedemptionsResponse, error)
}

// RedemptionProcessorSvc converts wallet credits to payouts and advances them.
type RedemptionProcessorSvc interface {
	RequestRedemption(ctx context.Context, actor domain.Actor, req dto.CreateRedemptionRequest) (*domain.RedemptionRequest, error)
	MarkProcessing(ctx context.Context, actor domain.Actor, redemptionID string) (*domain.RedemptionRequest, error)
	ProcessRedemption(ctx context.Context, actor domain.Actor, redemptionID string, req dto.ProcessRedemptionRequest) (*domain.RedemptionRequest, error)
	RejectRedemption(ctx context.Context, actor domain.Actor, redemptionID, reason string) (*domain.RedemptionRequest, error)
}

// RedemptionSvcFacade combines all redemption service interfaces.
type RedemptionSvcFacade interface {
	RedemptionReaderSvc
	RedemptionProcessorSvc
}
