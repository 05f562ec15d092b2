package services

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
)

// CreditRequestReaderSvc defines read operations for credit requests.
type CreditRequestReaderSvc interface {
	GetCreditRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error)
	ListCreditRequests(ctx context.Context, actor domain.Actor, params dto.ListCreditRequestsParams) (*dto.ListCreditRequestsResponse, error)
}

// CreditRequestWorkflowSvc drives a request through its approval lifecycle.
type CreditRequestWorkflowSvc interface {
	CreateCreditRequest(ctx context.Context, actor domain.Actor, req dto.CreateCreditRequestRequest) (*domain.CreditRequest, error)

	SignCreditRequest(ctx context.Context, actor domain.Actor, requestID, signatureID string) (*domain.CreditRequest, error)
	ApproveByHOD(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error)
	RejectByHOD(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.CreditRequest, error)
	ApproveByEmployee(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error)
	RejectByEmployee(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.CreditRequest, error)

	// Approve and Reject pick the HOD or employee transition from the request's current status.
	Approve(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error)
	Reject(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.CreditRequest, error)
}

// SignatureCompletionSvc is the entry point for the e-signature callback.
type SignatureCompletionSvc interface {
	// ApplySignatureCompletion advances userID's pending_signature request. It returns nil, nil
	// when there is nothing to apply, including repeated deliveries of the same signature.
	ApplySignatureCompletion(ctx context.Context, userID, signatureID string, requestID *string) (*domain.CreditRequest, error)
}

// CreditRequestSvcFacade combines all credit request service interfaces.
type CreditRequestSvcFacade interface {
	CreditRequestReaderSvc
	CreditRequestWorkflowSvc
	SignatureCompletionSvc
}
