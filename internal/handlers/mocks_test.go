package handlers_test

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// MockCreditRequestService is a mock type for portssvc.CreditRequestSvcFacade
type MockCreditRequestService struct {
	mock.Mock
}

var _ portssvc.CreditRequestSvcFacade = (*MockCreditRequestService)(nil)

func creditResult(args mock.Arguments) (*domain.CreditRequest, error) {
	var r *domain.CreditRequest
	if v := args.Get(0); v != nil {
		r = v.(*domain.CreditRequest)
	}
	return r, args.Error(1)
}

func (m *MockCreditRequestService) GetCreditRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, actor, requestID))
}

func (m *MockCreditRequestService) ListCreditRequests(ctx context.Context, actor domain.Actor, params dto.ListCreditRequestsParams) (*dto.ListCreditRequestsResponse, error) {
	args := m.Called(ctx, actor, params)
	var r *dto.ListCreditRequestsResponse
	if v := args.Get(0); v != nil {
		r = v.(*dto.ListCreditRequestsResponse)
	}
	return r, args.Error(1)
}

func (m *MockCreditRequestService) CreateCreditRequest(ctx context.Context, actor domain.Actor, req dto.CreateCreditRequestRequest) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, actor, req))
}

func (m *MockCreditRequestService) SignCreditRequest(ctx context.Context, actor domain.Actor, requestID, signatureID string) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, actor, requestID, signatureID))
}

func (m *MockCreditRequestService) ApproveByHOD(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, actor, requestID))
}

func (m *MockCreditRequestService) RejectByHOD(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, actor, requestID, reason))
}

func (m *MockCreditRequestService) ApproveByEmployee(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, actor, requestID))
}

func (m *MockCreditRequestService) RejectByEmployee(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, actor, requestID, reason))
}

func (m *MockCreditRequestService) Approve(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, actor, requestID))
}

func (m *MockCreditRequestService) Reject(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, actor, requestID, reason))
}

func (m *MockCreditRequestService) ApplySignatureCompletion(ctx context.Context, userID, signatureID string, requestID *string) (*domain.CreditRequest, error) {
	return creditResult(m.Called(ctx, userID, signatureID, requestID))
}

// MockWalletService is a mock type for portssvc.WalletSvcFacade
type MockWalletService struct {
	mock.Mock
}

var _ portssvc.WalletSvcFacade = (*MockWalletService)(nil)

func (m *MockWalletService) PostCredit(ctx context.Context, p portssvc.CreditPosting) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, p)
	var r *domain.WalletTransaction
	if v := args.Get(0); v != nil {
		r = v.(*domain.WalletTransaction)
	}
	return r, args.Error(1)
}

func (m *MockWalletService) PostDebit(ctx context.Context, p portssvc.DebitPosting) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, p)
	var r *domain.WalletTransaction
	if v := args.Get(0); v != nil {
		r = v.(*domain.WalletTransaction)
	}
	return r, args.Error(1)
}

func (m *MockWalletService) GetBalance(ctx context.Context, actor domain.Actor, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, actor, userID)
	var r *domain.Wallet
	if v := args.Get(0); v != nil {
		r = v.(*domain.Wallet)
	}
	return r, args.Error(1)
}

func (m *MockWalletService) ListTransactions(ctx context.Context, actor domain.Actor, userID string, params dto.ListWalletTransactionsParams) (*dto.ListWalletTransactionsResponse, error) {
	args := m.Called(ctx, actor, userID, params)
	var r *dto.ListWalletTransactionsResponse
	if v := args.Get(0); v != nil {
		r = v.(*dto.ListWalletTransactionsResponse)
	}
	return r, args.Error(1)
}

func (m *MockWalletService) GetTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, actor, transactionID)
	var r *domain.WalletTransaction
	if v := args.Get(0); v != nil {
		r = v.(*domain.WalletTransaction)
	}
	return r, args.Error(1)
}

func (m *MockWalletService) VerifyBalance(ctx context.Context, actor domain.Actor, userID string) (*domain.BalanceCheck, error) {
	args := m.Called(ctx, actor, userID)
	var r *domain.BalanceCheck
	if v := args.Get(0); v != nil {
		r = v.(*domain.BalanceCheck)
	}
	return r, args.Error(1)
}

// MockRedemptionService is a mock type for portssvc.RedemptionSvcFacade
type MockRedemptionService struct {
	mock.Mock
}

var _ portssvc.RedemptionSvcFacade = (*MockRedemptionService)(nil)

func redemptionResult(args mock.Arguments) (*domain.RedemptionRequest, error) {
	var r *domain.RedemptionRequest
	if v := args.Get(0); v != nil {
		r = v.(*domain.RedemptionRequest)
	}
	return r, args.Error(1)
}

func (m *MockRedemptionService) GetRedemption(ctx context.Context, actor domain.Actor, redemptionID string) (*domain.RedemptionRequest, error) {
	return redemptionResult(m.Called(ctx, actor, redemptionID))
}

func (m *MockRedemptionService) ListRedemptionQueue(ctx context.Context, actor domain.Actor, params dto.ListRedemptionsParams) (*dto.ListRedemptionsResponse, error) {
	args := m.Called(ctx, actor, params)
	var r *dto.ListRedemptionsResponse
	if v := args.Get(0); v != nil {
		r = v.(*dto.ListRedemptionsResponse)
	}
	return r, args.Error(1)
}

func (m *MockRedemptionService) RequestRedemption(ctx context.Context, actor domain.Actor, req dto.CreateRedemptionRequest) (*domain.RedemptionRequest, error) {
	return redemptionResult(m.Called(ctx, actor, req))
}

func (m *MockRedemptionService) MarkProcessing(ctx context.Context, actor domain.Actor, redemptionID string) (*domain.RedemptionRequest, error) {
	return redemptionResult(m.Called(ctx, actor, redemptionID))
}

func (m *MockRedemptionService) ProcessRedemption(ctx context.Context, actor domain.Actor, redemptionID string, req dto.ProcessRedemptionRequest) (*domain.RedemptionRequest, error) {
	return redemptionResult(m.Called(ctx, actor, redemptionID, req))
}

func (m *MockRedemptionService) RejectRedemption(ctx context.Context, actor domain.Actor, redemptionID, reason string) (*domain.RedemptionRequest, error) {
	return redemptionResult(m.Called(ctx, actor, redemptionID, reason))
}

// MockCurrencyService is a mock type for portssvc.CurrencyPolicySvc
type MockCurrencyService struct {
	mock.Mock
}

var _ portssvc.CurrencyPolicySvc = (*MockCurrencyService)(nil)

func (m *MockCurrencyService) CurrencyFor(user domain.User) (domain.Currency, error) {
	args := m.Called(user)
	return args.Get(0).(domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ExpectedCurrency(ctx context.Context, userID string) (domain.Currency, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) Reconcile(ctx context.Context, userID string) (domain.Currency, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Currency), args.Bool(1), args.Error(2)
}

func (m *MockCurrencyService) ReconcileUser(ctx context.Context, actor domain.Actor, userID string) (domain.Currency, bool, error) {
	args := m.Called(ctx, actor, userID)
	return args.Get(0).(domain.Currency), args.Bool(1), args.Error(2)
}

func (m *MockCurrencyService) ValidatePaymentCurrency(expected domain.Currency, provided string) (domain.Currency, error) {
	args := m.Called(expected, provided)
	return args.Get(0).(domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) SupportedCurrencies() []domain.Currency {
	args := m.Called()
	return args.Get(0).([]domain.Currency)
}
