package pgsql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/incentive_wallet_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/incentive_wallet_app/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PgsqlIntegrationSuite struct {
	suite.Suite
	pool  *pgxpool.Pool
	repos portsrepo.RepositoryProvider
	ctx   context.Context
}

func TestPgsqlIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PgsqlIntegrationSuite))
}

func (s *PgsqlIntegrationSuite) SetupSuite() {
	s.pool = testutil.SetupTestPool(s.T())
	s.repos = pgsql.NewRepositoryProvider(s.pool, 10*time.Second)
	s.ctx = context.Background()

	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO users (user_id, name, email, role, hod_id, classification, currency) VALUES
		('hod-1', 'Hod', 'hod@example.com', 'hod', NULL, 'domestic', 'INR'),
		('init-1', 'Init', 'init@example.com', 'initiator', NULL, 'domestic', 'INR'),
		('emp-1', 'Emp', 'emp@example.com', 'employee', 'hod-1', 'domestic', 'INR'),
		('emp-2', 'Emp Two', 'emp2@example.com', 'employee', 'hod-1', 'international', 'INR');
		INSERT INTO initiator_links (initiator_id, employee_id) VALUES ('init-1', 'emp-1');
		INSERT INTO policy_assignments (policy_id, initiator_id, employee_id) VALUES ('pol-1', 'init-1', 'emp-2');`)
	s.Require().NoError(err)
}

func (s *PgsqlIntegrationSuite) newUser(prefix string) string {
	id := prefix + "-" + uuid.NewString()
	_, err := s.pool.Exec(s.ctx, `INSERT INTO users (user_id, name, role) VALUES ($1, $1, 'employee');`, id)
	s.Require().NoError(err)
	return id
}

func (s *PgsqlIntegrationSuite) credit(userID string, amount int64) *domain.WalletTransaction {
	txn, err := s.repos.WalletRepo.AppendTransaction(s.ctx, domain.LedgerPosting{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Type:          domain.WalletCredit,
		Amount:        decimal.NewFromInt(amount),
		Currency:      domain.CurrencyINR,
		CreatedBy:     "system",
		CreatedAt:     time.Now().UTC(),
	}, nil)
	s.Require().NoError(err)
	return txn
}

func (s *PgsqlIntegrationSuite) TestUserRepository() {
	user, err := s.repos.UserRepo.FindUserByID(s.ctx, "emp-1")
	s.Require().NoError(err)
	s.Equal(domain.RoleEmployee, user.Role)
	s.Require().NotNil(user.HODID)
	s.Equal("hod-1", *user.HODID)

	_, err = s.repos.UserRepo.FindUserByID(s.ctx, "missing")
	s.True(errors.Is(err, apperrors.ErrNotFound))

	linked, err := s.repos.UserRepo.IsInitiatorLinked(s.ctx, "init-1", "emp-1")
	s.Require().NoError(err)
	s.True(linked)
	linked, err = s.repos.UserRepo.IsInitiatorLinked(s.ctx, "init-1", "emp-2")
	s.Require().NoError(err)
	s.False(linked)

	assigned, err := s.repos.UserRepo.HasPolicyAssignment(s.ctx, "init-1", "pol-1", "emp-2")
	s.Require().NoError(err)
	s.True(assigned)

	s.Require().NoError(s.repos.UserRepo.UpdateUserCurrency(s.ctx, "emp-2", domain.CurrencyUSD))
	user, err = s.repos.UserRepo.FindUserByID(s.ctx, "emp-2")
	s.Require().NoError(err)
	s.Equal(domain.CurrencyUSD, user.Currency)

	hods, err := s.repos.UserRepo.ListUsersByRole(s.ctx, domain.RoleHOD)
	s.Require().NoError(err)
	s.Len(hods, 1)
}

func (s *PgsqlIntegrationSuite) TestCreditRequestCompareAndSet() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	hod := "hod-1"
	req := domain.CreditRequest{
		RequestID:   uuid.NewString(),
		UserID:      "emp-1",
		InitiatorID: "init-1",
		HODID:       &hod,
		Type:        domain.CreditTypeFreelancer,
		BaseAmount:  decimal.NewFromInt(1000),
		Bonus:       decimal.NewFromInt(200),
		Deductions:  decimal.NewFromInt(50),
		Amount:      decimal.NewFromInt(1150),
		Currency:    domain.CurrencyINR,
		Status:      domain.StatusPendingSignature,
		AuditFields: domain.NewAuditFields("init-1", now),
	}
	s.Require().NoError(s.repos.CreditRepo.SaveCreditRequest(s.ctx, req))
	s.True(errors.Is(s.repos.CreditRepo.SaveCreditRequest(s.ctx, req), apperrors.ErrDuplicate))

	pending, err := s.repos.CreditRepo.FindPendingSignatureForUser(s.ctx, "emp-1")
	s.Require().NoError(err)
	s.Equal(req.RequestID, pending.RequestID)

	update := portsrepo.CreditStatusUpdate{
		RequestID: req.RequestID,
		From:      domain.StatusPendingSignature,
		To:        domain.StatusPendingApproval,
		Signature: &domain.SignatureInfo{SignatureID: "sig-1", SignedAt: now},
		UpdatedBy: "emp-1",
		UpdatedAt: now,
	}
	s.Require().NoError(s.repos.CreditRepo.UpdateCreditRequestStatus(s.ctx, update))
	err = s.repos.CreditRepo.UpdateCreditRequestStatus(s.ctx, update)
	s.True(errors.Is(err, apperrors.ErrPrecondition), "second CAS must lose: %v", err)

	got, err := s.repos.CreditRepo.FindCreditRequestByID(s.ctx, req.RequestID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPendingApproval, got.Status)
	s.Require().NotNil(got.Signature)
	s.Equal("sig-1", got.Signature.SignatureID)
	s.True(got.Amount.Equal(decimal.NewFromInt(1150)))
}

func (s *PgsqlIntegrationSuite) TestListCreditRequestsPaginates() {
	userID := s.newUser("list")
	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.repos.CreditRepo.SaveCreditRequest(s.ctx, domain.CreditRequest{
			RequestID:   uuid.NewString(),
			UserID:      userID,
			InitiatorID: "init-1",
			Type:        domain.CreditTypeFreelancer,
			BaseAmount:  decimal.NewFromInt(10),
			Bonus:       decimal.Zero,
			Deductions:  decimal.Zero,
			Amount:      decimal.NewFromInt(10),
			Currency:    domain.CurrencyINR,
			Status:      domain.StatusPendingSignature,
			AuditFields: domain.NewAuditFields("init-1", base.Add(time.Duration(i)*time.Second)),
		}))
	}

	filter := domain.CreditRequestFilter{UserID: &userID}
	page1, token, err := s.repos.CreditRepo.ListCreditRequests(s.ctx, filter, 3, nil)
	s.Require().NoError(err)
	s.Len(page1, 3)
	s.Require().NotNil(token)

	page2, token2, err := s.repos.CreditRepo.ListCreditRequests(s.ctx, filter, 3, token)
	s.Require().NoError(err)
	s.Len(page2, 2)
	s.Nil(token2)
	s.True(page1[2].CreatedAt.After(page2[0].CreatedAt))

	bad := "not-a-token"
	_, _, err = s.repos.CreditRepo.ListCreditRequests(s.ctx, filter, 3, &bad)
	s.True(errors.Is(err, apperrors.ErrValidation))
}

func (s *PgsqlIntegrationSuite) TestLedgerAppendAndDebit() {
	userID := s.newUser("ledger")
	c1 := s.credit(userID, 1500)
	c2 := s.credit(userID, 500)
	s.Equal(int64(1), c1.Sequence)
	s.Equal(int64(2), c2.Sequence)
	s.True(c2.Balance.Equal(decimal.NewFromInt(2000)))

	redemptionID := uuid.NewString()
	debit, err := s.repos.WalletRepo.AppendTransaction(s.ctx, domain.LedgerPosting{
		TransactionID:      uuid.NewString(),
		UserID:             userID,
		Type:               domain.WalletDebit,
		Amount:             decimal.NewFromInt(1500),
		Currency:           domain.CurrencyINR,
		SourceRedemptionID: &redemptionID,
		LinkedCreditTxnID:  &c1.TransactionID,
		CreatedBy:          userID,
		CreatedAt:          time.Now().UTC(),
	}, &redemptionID)
	s.Require().NoError(err)
	s.True(debit.Balance.Equal(decimal.NewFromInt(500)))

	flipped, err := s.repos.WalletRepo.FindTransactionByID(s.ctx, c1.TransactionID)
	s.Require().NoError(err)
	s.True(flipped.Redeemed)
	s.Require().NotNil(flipped.RedemptionID)
	s.Equal(redemptionID, *flipped.RedemptionID)

	// Same credit again
	_, err = s.repos.WalletRepo.AppendTransaction(s.ctx, domain.LedgerPosting{
		TransactionID:     uuid.NewString(),
		UserID:            userID,
		Type:              domain.WalletDebit,
		Amount:            decimal.NewFromInt(1),
		Currency:          domain.CurrencyINR,
		LinkedCreditTxnID: &c1.TransactionID,
		CreatedBy:         userID,
		CreatedAt:         time.Now().UTC(),
	}, nil)
	s.True(errors.Is(err, apperrors.ErrPrecondition), "got %v", err)

	// More than the balance against the remaining credit
	_, err = s.repos.WalletRepo.AppendTransaction(s.ctx, domain.LedgerPosting{
		TransactionID:     uuid.NewString(),
		UserID:            userID,
		Type:              domain.WalletDebit,
		Amount:            decimal.NewFromInt(501),
		Currency:          domain.CurrencyINR,
		LinkedCreditTxnID: &c2.TransactionID,
		CreatedBy:         userID,
		CreatedAt:         time.Now().UTC(),
	}, nil)
	s.True(errors.Is(err, apperrors.ErrPrecondition), "got %v", err)

	// The failed debit rolled back its redeemed flip.
	c2Again, err := s.repos.WalletRepo.FindTransactionByID(s.ctx, c2.TransactionID)
	s.Require().NoError(err)
	s.False(c2Again.Redeemed)

	txns, err := s.repos.WalletRepo.ListTransactions(s.ctx, userID, 10, nil)
	s.Require().NoError(err)
	s.Len(txns, 3)
	s.Equal(int64(3), txns[0].Sequence)

	before := int64(3)
	older, err := s.repos.WalletRepo.ListTransactions(s.ctx, userID, 10, &before)
	s.Require().NoError(err)
	s.Len(older, 2)
}

func (s *PgsqlIntegrationSuite) TestConcurrentCreditsSerialize() {
	userID := s.newUser("concurrent")
	const workers = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repos.WalletRepo.AppendTransaction(s.ctx, domain.LedgerPosting{
				TransactionID: uuid.NewString(),
				UserID:        userID,
				Type:          domain.WalletCredit,
				Amount:        decimal.NewFromInt(10),
				Currency:      domain.CurrencyINR,
				CreatedBy:     "system",
				CreatedAt:     time.Now().UTC(),
			}, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	ledger, err := s.repos.WalletRepo.LedgerBalance(s.ctx, userID)
	s.Require().NoError(err)
	sum, count, err := s.repos.WalletRepo.SumTransactions(s.ctx, userID)
	s.Require().NoError(err)
	wallet, err := s.repos.WalletRepo.FindWallet(s.ctx, userID)
	s.Require().NoError(err)

	s.True(ledger.Equal(decimal.NewFromInt(100)), "ledger %s", ledger)
	s.True(sum.Equal(ledger))
	s.True(wallet.Balance.Equal(ledger))
	s.Equal(int64(workers), count)
	s.Equal(int64(workers), wallet.LastSequence)
}

func (s *PgsqlIntegrationSuite) TestConcurrentRedemptionOfOneCredit() {
	userID := s.newUser("redeem")
	credit := s.credit(userID, 300)

	attempt := func() error {
		return s.repos.TxManager.WithinTx(s.ctx, func(ctx context.Context) error {
			now := time.Now().UTC()
			red := domain.RedemptionRequest{
				RedemptionID:        uuid.NewString(),
				UserID:              userID,
				CreditTransactionID: credit.TransactionID,
				Amount:              credit.Amount,
				Currency:            credit.Currency,
				Status:              domain.RedemptionPending,
				AuditFields:         domain.NewAuditFields(userID, now),
			}
			if err := s.repos.RedemptionRepo.SaveRedemption(ctx, red); err != nil {
				return err
			}
			debit, err := s.repos.WalletRepo.AppendTransaction(ctx, domain.LedgerPosting{
				TransactionID:      uuid.NewString(),
				UserID:             userID,
				Type:               domain.WalletDebit,
				Amount:             credit.Amount,
				Currency:           credit.Currency,
				SourceRedemptionID: &red.RedemptionID,
				LinkedCreditTxnID:  &credit.TransactionID,
				CreatedBy:          userID,
				CreatedAt:          now,
			}, &red.RedemptionID)
			if err != nil {
				return err
			}
			return s.repos.RedemptionRepo.SetDebitTransaction(ctx, red.RedemptionID, debit.TransactionID)
		})
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = attempt()
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.True(errors.Is(err, apperrors.ErrPrecondition), "loser must see a precondition error: %v", err)
	}
	s.Equal(1, succeeded)

	balance, err := s.repos.WalletRepo.LedgerBalance(s.ctx, userID)
	s.Require().NoError(err)
	s.True(balance.IsZero())

	status := domain.RedemptionPending
	queue, _, err := s.repos.RedemptionRepo.ListRedemptions(s.ctx, domain.RedemptionFilter{UserID: &userID, Status: &status}, 10, nil)
	s.Require().NoError(err)
	s.Require().Len(queue, 1)
	s.NotNil(queue[0].DebitTransactionID)

	now := time.Now().UTC()
	processedBy := "acc-1"
	ref := "UTR-1"
	usd := domain.CurrencyUSD
	update := domain.RedemptionStatusUpdate{
		RedemptionID:         queue[0].RedemptionID,
		From:                 domain.RedemptionPending,
		To:                   domain.RedemptionCompleted,
		Currency:             &usd,
		ProcessedBy:          &processedBy,
		ProcessedAt:          &now,
		TransactionReference: &ref,
		UpdatedBy:            processedBy,
		UpdatedAt:            now,
	}
	s.Require().NoError(s.repos.RedemptionRepo.UpdateRedemptionStatus(s.ctx, update))
	s.True(errors.Is(s.repos.RedemptionRepo.UpdateRedemptionStatus(s.ctx, update), apperrors.ErrPrecondition))

	done, err := s.repos.RedemptionRepo.FindRedemptionByID(s.ctx, queue[0].RedemptionID)
	s.Require().NoError(err)
	s.Equal(domain.RedemptionCompleted, done.Status)
	s.Equal(domain.CurrencyUSD, done.Currency)
	s.Require().NotNil(done.TransactionReference)
	s.Equal("UTR-1", *done.TransactionReference)
}

func (s *PgsqlIntegrationSuite) TestTimelineIsAppendOnly() {
	ref := domain.EntityRef{Type: domain.EntityCreditRequest, ID: uuid.NewString()}
	now := time.Now().UTC()
	actor := domain.Actor{UserID: "init-1", Role: domain.RoleInitiator}
	first := domain.NewTimelineEntry(ref, domain.TimelineInput{Step: domain.StepCreated, Actor: actor, Metadata: map[string]any{"amount": "1150"}}, now)
	second := domain.NewTimelineEntry(ref, domain.TimelineInput{Step: domain.StepSigned, Actor: actor}, now.Add(time.Second))

	stored, err := s.repos.TimelineRepo.InsertEntries(s.ctx, []domain.TimelineEntry{first, second})
	s.Require().NoError(err)
	s.Require().Len(stored, 2)
	s.Less(stored[0].Sequence, stored[1].Sequence)

	_, err = s.repos.TimelineRepo.InsertEntries(s.ctx, []domain.TimelineEntry{first})
	s.True(errors.Is(err, apperrors.ErrDuplicate))

	entries, err := s.repos.TimelineRepo.ListEntries(s.ctx, ref)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(domain.StepCreated, entries[0].Step)
	s.Equal("1150", entries[0].Metadata["amount"])

	_, err = s.pool.Exec(s.ctx, `UPDATE timeline_entries SET message = 'x' WHERE entity_id = $1`, ref.ID)
	assert.Error(s.T(), err)
	_, err = s.pool.Exec(s.ctx, `DELETE FROM timeline_entries WHERE entity_id = $1`, ref.ID)
	require.Error(s.T(), err)
}

func (s *PgsqlIntegrationSuite) TestTransactionTimeoutRollsBack() {
	txm := pgsql.NewTxManager(s.pool, 200*time.Millisecond)
	ref := domain.EntityRef{Type: domain.EntityRedemption, ID: uuid.NewString()}
	entry := domain.NewTimelineEntry(ref, domain.TimelineInput{Step: domain.StepCreated, Actor: domain.Actor{UserID: "emp-1", Role: domain.RoleEmployee}}, time.Now().UTC())

	err := txm.WithinTx(s.ctx, func(ctx context.Context) error {
		_, deadlineSet := ctx.Deadline()
		s.True(deadlineSet)
		if _, err := s.repos.TimelineRepo.InsertEntries(ctx, []domain.TimelineEntry{entry}); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})
	s.ErrorIs(err, context.DeadlineExceeded)

	entries, err := s.repos.TimelineRepo.ListEntries(s.ctx, ref)
	s.Require().NoError(err)
	s.Empty(entries)
}
