package services_test

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- In-memory stores ---
// These keep state across calls so multi-step workflows can be driven end to end.

type passThroughTx struct{}

var _ portsrepo.TransactionManager = passThroughTx{}

func (passThroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memUserRepo struct {
	mu             sync.Mutex
	users          map[string]domain.User
	links          map[[2]string]bool
	policies       map[[3]string]bool
	currencyWrites int
}

var _ portsrepo.UserRepositoryFacade = (*memUserRepo)(nil)

func newMemUserRepo(users ...domain.User) *memUserRepo {
	r := &memUserRepo{
		users:    make(map[string]domain.User),
		links:    make(map[[2]string]bool),
		policies: make(map[[3]string]bool),
	}
	for _, u := range users {
		r.users[u.UserID] = u
	}
	return r
}

func (r *memUserRepo) link(initiatorID, employeeID string) {
	r.links[[2]string{initiatorID, employeeID}] = true
}

func (r *memUserRepo) assign(initiatorID, policyID, employeeID string) {
	r.policies[[3]string{initiatorID, policyID, employeeID}] = true
}

func (r *memUserRepo) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "user %s", userID)
	}
	return &u, nil
}

func (r *memUserRepo) ListUsersByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *memUserRepo) IsInitiatorLinked(_ context.Context, initiatorID, employeeID string) (bool, error) {
	return r.links[[2]string{initiatorID, employeeID}], nil
}

func (r *memUserRepo) HasPolicyAssignment(_ context.Context, initiatorID, policyID, employeeID string) (bool, error) {
	return r.policies[[3]string{initiatorID, policyID, employeeID}], nil
}

func (r *memUserRepo) UpdateUserCurrency(_ context.Context, userID string, currency domain.Currency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.Newf(apperrors.ErrNotFound, "user %s", userID)
	}
	u.Currency = currency
	r.users[userID] = u
	r.currencyWrites++
	return nil
}

type memCreditRepo struct {
	mu   sync.Mutex
	reqs map[string]domain.CreditRequest
}

var _ portsrepo.CreditRequestRepositoryFacade = (*memCreditRepo)(nil)

func newMemCreditRepo() *memCreditRepo {
	return &memCreditRepo{reqs: make(map[string]domain.CreditRequest)}
}

func (r *memCreditRepo) SaveCreditRequest(_ context.Context, req domain.CreditRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reqs[req.RequestID]; ok {
		return apperrors.Newf(apperrors.ErrDuplicate, "credit request %s", req.RequestID)
	}
	req.Timeline = nil
	r.reqs[req.RequestID] = req
	return nil
}

func (r *memCreditRepo) FindCreditRequestByID(_ context.Context, requestID string) (*domain.CreditRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[requestID]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "credit request %s", requestID)
	}
	return &req, nil
}

func (r *memCreditRepo) FindPendingSignatureForUser(_ context.Context, userID string) (*domain.CreditRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *domain.CreditRequest
	for _, req := range r.reqs {
		if req.UserID == userID && req.Status == domain.StatusPendingSignature {
			if found == nil || req.CreatedAt.Before(found.CreatedAt) {
				req := req
				found = &req
			}
		}
	}
	if found == nil {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "no request awaiting signature for %s", userID)
	}
	return found, nil
}

func (r *memCreditRepo) ListCreditRequests(_ context.Context, filter domain.CreditRequestFilter, limit int, _ *string) ([]domain.CreditRequest, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CreditRequest
	for _, req := range r.reqs {
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		party := filter.UserID == nil && filter.InitiatorID == nil && filter.HODID == nil
		if filter.UserID != nil && req.UserID == *filter.UserID {
			party = true
		}
		if filter.InitiatorID != nil && req.InitiatorID == *filter.InitiatorID {
			party = true
		}
		if filter.HODID != nil && req.HODID != nil && *req.HODID == *filter.HODID {
			party = true
		}
		if party {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestID < out[j].RequestID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (r *memCreditRepo) UpdateCreditRequestStatus(_ context.Context, u portsrepo.CreditStatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[u.RequestID]
	if !ok || req.Status != u.From {
		return apperrors.Newf(apperrors.ErrPrecondition, "credit request %s is no longer %s", u.RequestID, u.From)
	}
	req.Status = u.To
	if u.Signature != nil {
		req.Signature = u.Signature
	}
	if u.RejectionReason != nil {
		req.RejectionReason = u.RejectionReason
	}
	req.Touch(u.UpdatedBy, u.UpdatedAt)
	r.reqs[u.RequestID] = req
	return nil
}

func (r *memCreditRepo) SetWalletTransaction(_ context.Context, requestID, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[requestID]
	if !ok {
		return apperrors.Newf(apperrors.ErrNotFound, "credit request %s", requestID)
	}
	if req.WalletTransactionID != nil {
		return apperrors.Newf(apperrors.ErrPrecondition, "credit request %s already credited", requestID)
	}
	req.WalletTransactionID = &transactionID
	r.reqs[requestID] = req
	return nil
}

// memWalletRepo mirrors the ledger rules of the SQL repository under one mutex.
type memWalletRepo struct {
	mu   sync.Mutex
	txns []domain.WalletTransaction
}

var _ portsrepo.WalletRepositoryFacade = (*memWalletRepo)(nil)

func (r *memWalletRepo) forUser(userID string) []domain.WalletTransaction {
	var out []domain.WalletTransaction
	for _, t := range r.txns {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func (r *memWalletRepo) FindTransactionByID(_ context.Context, transactionID string) (*domain.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txns {
		if t.TransactionID == transactionID {
			return &t, nil
		}
	}
	return nil, apperrors.Newf(apperrors.ErrNotFound, "wallet transaction %s", transactionID)
}

func (r *memWalletRepo) ListTransactions(_ context.Context, userID string, limit int, beforeSequence *int64) ([]domain.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.forUser(userID)
	var out []domain.WalletTransaction
	for i := len(all) - 1; i >= 0; i-- {
		if beforeSequence != nil && all[i].Sequence >= *beforeSequence {
			continue
		}
		out = append(out, all[i])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memWalletRepo) LedgerBalance(_ context.Context, userID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balance(userID), nil
}

func (r *memWalletRepo) balance(userID string) decimal.Decimal {
	all := r.forUser(userID)
	if len(all) == 0 {
		return decimal.Zero
	}
	return all[len(all)-1].Balance
}

func (r *memWalletRepo) SumTransactions(_ context.Context, userID string) (decimal.Decimal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.forUser(userID)
	sum, err := accounting.ReplayBalance(all)
	return sum, int64(len(all)), err
}

func (r *memWalletRepo) FindWallet(_ context.Context, userID string) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.forUser(userID)
	if len(all) == 0 {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "wallet for %s", userID)
	}
	last := all[len(all)-1]
	return &domain.Wallet{UserID: userID, Currency: last.Currency, Balance: last.Balance, LastSequence: last.Sequence}, nil
}

func (r *memWalletRepo) AppendTransaction(_ context.Context, p domain.LedgerPosting, redemptionID *string) (*domain.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	linked := -1
	if p.Type == domain.WalletDebit {
		for i, t := range r.txns {
			if p.LinkedCreditTxnID != nil && t.TransactionID == *p.LinkedCreditTxnID {
				linked = i
			}
		}
		if linked < 0 {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "credit transaction")
		}
		if r.txns[linked].Redeemed {
			return nil, apperrors.Newf(apperrors.ErrPrecondition, "credit transaction %s is already redeemed", *p.LinkedCreditTxnID)
		}
	}

	next, err := accounting.NextBalance(r.balance(p.UserID), p.Type, p.Amount)
	if err != nil {
		return nil, err
	}
	if linked >= 0 {
		r.txns[linked].Redeemed = true
		r.txns[linked].RedemptionID = redemptionID
	}
	txn := domain.WalletTransaction{
		TransactionID:      p.TransactionID,
		UserID:             p.UserID,
		Sequence:           int64(len(r.forUser(p.UserID)) + 1),
		Type:               p.Type,
		Amount:             p.Amount,
		Currency:           p.Currency,
		Balance:            next,
		SourceRequestID:    p.SourceRequestID,
		SourceRedemptionID: p.SourceRedemptionID,
		LinkedCreditTxnID:  p.LinkedCreditTxnID,
		Description:        p.Description,
		CreatedAt:          p.CreatedAt,
		CreatedBy:          p.CreatedBy,
	}
	r.txns = append(r.txns, txn)
	return &txn, nil
}

type memRedemptionRepo struct {
	mu sync.Mutex
	rs map[string]domain.RedemptionRequest
}

var _ portsrepo.RedemptionRepositoryFacade = (*memRedemptionRepo)(nil)

func newMemRedemptionRepo() *memRedemptionRepo {
	return &memRedemptionRepo{rs: make(map[string]domain.RedemptionRequest)}
}

func (r *memRedemptionRepo) SaveRedemption(_ context.Context, red domain.RedemptionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rs {
		if existing.CreditTransactionID == red.CreditTransactionID {
			return apperrors.Newf(apperrors.ErrPrecondition, "credit transaction %s is already redeemed", red.CreditTransactionID)
		}
	}
	red.Timeline = nil
	r.rs[red.RedemptionID] = red
	return nil
}

func (r *memRedemptionRepo) FindRedemptionByID(_ context.Context, redemptionID string) (*domain.RedemptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	red, ok := r.rs[redemptionID]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "redemption %s", redemptionID)
	}
	return &red, nil
}

func (r *memRedemptionRepo) ListRedemptions(_ context.Context, filter domain.RedemptionFilter, _ int, _ *string) ([]domain.RedemptionRequest, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.RedemptionRequest
	for _, red := range r.rs {
		if filter.UserID != nil && red.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && red.Status != *filter.Status {
			continue
		}
		out = append(out, red)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RedemptionID < out[j].RedemptionID })
	return out, nil, nil
}

func (r *memRedemptionRepo) SetDebitTransaction(_ context.Context, redemptionID, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	red, ok := r.rs[redemptionID]
	if !ok {
		return apperrors.Newf(apperrors.ErrNotFound, "redemption %s", redemptionID)
	}
	red.DebitTransactionID = &transactionID
	r.rs[redemptionID] = red
	return nil
}

func (r *memRedemptionRepo) UpdateRedemptionStatus(_ context.Context, u domain.RedemptionStatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	red, ok := r.rs[u.RedemptionID]
	if !ok || red.Status != u.From {
		return apperrors.Newf(apperrors.ErrPrecondition, "redemption %s is no longer %s", u.RedemptionID, u.From)
	}
	red.Status = u.To
	if u.Currency != nil {
		red.Currency = *u.Currency
	}
	if u.ProcessedBy != nil {
		red.ProcessedBy = u.ProcessedBy
	}
	if u.ProcessedAt != nil {
		red.ProcessedAt = u.ProcessedAt
	}
	if u.TransactionReference != nil {
		red.TransactionReference = u.TransactionReference
	}
	if u.PaymentNotes != nil {
		red.PaymentNotes = u.PaymentNotes
	}
	if u.RejectionReason != nil {
		red.RejectionReason = u.RejectionReason
	}
	red.Touch(u.UpdatedBy, u.UpdatedAt)
	r.rs[u.RedemptionID] = red
	return nil
}

type memTimelineRepo struct {
	mu      sync.Mutex
	entries []domain.TimelineEntry
}

var _ portsrepo.TimelineRepositoryFacade = (*memTimelineRepo)(nil)

func (r *memTimelineRepo) InsertEntries(_ context.Context, entries []domain.TimelineEntry) ([]domain.TimelineEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TimelineEntry, len(entries))
	for i, e := range entries {
		var seq int64
		for _, existing := range r.entries {
			if existing.EntityType == e.EntityType && existing.EntityID == e.EntityID {
				seq = existing.Sequence
			}
		}
		e.Sequence = seq + 1
		r.entries = append(r.entries, e)
		out[i] = e
	}
	return out, nil
}

func (r *memTimelineRepo) ListEntries(_ context.Context, ref domain.EntityRef) ([]domain.TimelineEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.TimelineEntry
	for _, e := range r.entries {
		if e.EntityType == ref.Type && e.EntityID == ref.ID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memTimelineRepo) steps(ref domain.EntityRef) []domain.TimelineStep {
	entries, _ := r.ListEntries(context.Background(), ref)
	out := make([]domain.TimelineStep, len(entries))
	for i, e := range entries {
		out[i] = e.Step
	}
	return out
}

// --- Mocks ---

type MockNotifier struct {
	mock.Mock
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

var _ portssvc.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockProofRenderer struct {
	mock.Mock
}

var _ portssvc.ProofRenderer = (*MockProofRenderer)(nil)

func (m *MockProofRenderer) RenderRedemptionProof(ctx context.Context, proof domain.RedemptionProof) ([]byte, error) {
	args := m.Called(ctx, proof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

var _ portsrepo.NotificationRepository = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockWalletLedger stands in for the ledger when only the calls made to it matter.
type MockWalletLedger struct {
	mock.Mock
}

var _ portssvc.WalletLedgerSvc = (*MockWalletLedger)(nil)

func (m *MockWalletLedger) PostCredit(ctx context.Context, p portssvc.CreditPosting) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Error(1)
}

func (m *MockWalletLedger) PostDebit(ctx context.Context, p portssvc.DebitPosting) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Error(1)
}
