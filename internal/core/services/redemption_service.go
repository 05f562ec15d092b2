package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
	"github.com/SscSPs/incentive_wallet_app/internal/platform/metrics"
	"github.com/SscSPs/incentive_wallet_app/internal/utils"
	"github.com/google/uuid"
)

var accountsRedemptionEmail = template.Must(template.New("accounts-redemption").Parse(`<html><body>
<p>A redemption of <strong>{{.Amount}}</strong> was requested by user {{.UserID}}.</p>
<p>Credit transaction: {{.CreditTransactionID}}</p>
{{if .Notes}}<p>Notes: {{.Notes}}</p>{{end}}
{{if .ActionURL}}<p><a href="{{.ActionURL}}">Open in Incentive Wallet</a></p>{{end}}
</body></html>`))

type redemptionService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	redemptionRepo portsrepo.RedemptionRepositoryFacade
	walletRepo     portsrepo.WalletReader
	userRepo       portsrepo.UserReader
	wallet         portssvc.WalletLedgerSvc
	currency       portssvc.CurrencyPolicySvc
	timeline       portssvc.TimelineSvc

	notifier      portssvc.Notifier
	mailer        portssvc.Mailer
	renderer      portssvc.ProofRenderer
	accountsEmail string
	frontendURL   string
}

// RedemptionOption configures the best-effort collaborators of the redemption service.
type RedemptionOption func(*redemptionService)

func WithRedemptionNotifier(n portssvc.Notifier) RedemptionOption {
	return func(s *redemptionService) { s.notifier = n }
}

// WithProofMail sends a payout proof to accountsEmail whenever a redemption is filed.
// renderer may be nil, in which case the email goes out without an attachment.
func WithProofMail(mailer portssvc.Mailer, renderer portssvc.ProofRenderer, accountsEmail string) RedemptionOption {
	return func(s *redemptionService) {
		s.mailer = mailer
		s.renderer = renderer
		s.accountsEmail = accountsEmail
	}
}

func WithRedemptionFrontendURL(url string) RedemptionOption {
	return func(s *redemptionService) { s.frontendURL = url }
}

// NewRedemptionService creates the redemption processor.
func NewRedemptionService(
	txManager portsrepo.TransactionManager,
	redemptionRepo portsrepo.RedemptionRepositoryFacade,
	walletRepo portsrepo.WalletReader,
	userRepo portsrepo.UserReader,
	wallet portssvc.WalletLedgerSvc,
	currency portssvc.CurrencyPolicySvc,
	timeline portssvc.TimelineSvc,
	options ...RedemptionOption,
) portssvc.RedemptionSvcFacade {
	svc := &redemptionService{
		txManager:      txManager,
		redemptionRepo: redemptionRepo,
		walletRepo:     walletRepo,
		userRepo:       userRepo,
		wallet:         wallet,
		currency:       currency,
		timeline:       timeline,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RedemptionSvcFacade = (*redemptionService)(nil)

func redemptionRef(redemptionID string) domain.EntityRef {
	return domain.EntityRef{Type: domain.EntityRedemption, ID: redemptionID}
}

func walletTxnRef(transactionID string) domain.EntityRef {
	return domain.EntityRef{Type: domain.EntityWalletTransaction, ID: transactionID}
}

func requirePayoutRole(actor domain.Actor) error {
	caps, err := actor.Capabilities()
	if err != nil {
		return err
	}
	if !caps.CanProcessPayouts() {
		return fmt.Errorf("%w: role %s cannot process redemptions", apperrors.ErrForbidden, actor.Role)
	}
	return nil
}

func (s *redemptionService) RequestRedemption(ctx context.Context, actor domain.Actor, req dto.CreateRedemptionRequest) (*domain.RedemptionRequest, error) {
	if _, err := actor.Capabilities(); err != nil {
		return nil, err
	}

	credit, err := s.walletRepo.FindTransactionByID(ctx, req.CreditTransactionID)
	if err != nil {
		return nil, err
	}
	if credit.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: only the owner of a credit may redeem it", apperrors.ErrForbidden)
	}
	if credit.Type != domain.WalletCredit {
		return nil, fmt.Errorf("%w: only credit transactions can be redeemed", apperrors.ErrValidation)
	}
	if credit.Redeemed {
		return nil, fmt.Errorf("%w: credit transaction %s is already redeemed", apperrors.ErrPrecondition, credit.TransactionID)
	}

	expected, err := s.currency.ExpectedCurrency(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if credit.Currency != expected {
		return nil, fmt.Errorf("%w: credit currency %s does not match your currency %s",
			apperrors.ErrValidation, credit.Currency, expected)
	}

	amount := credit.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: redemption amount must be greater than zero", apperrors.ErrValidation)
	}
	if err := expected.CheckScale(amount); err != nil {
		return nil, err
	}
	if amount.GreaterThan(credit.Amount) {
		return nil, fmt.Errorf("%w: redemption amount %s exceeds the credit amount %s",
			apperrors.ErrValidation, amount, credit.Amount)
	}
	balance, err := s.walletRepo.LedgerBalance(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: insufficient balance: have %s, need %s", apperrors.ErrPrecondition, balance, amount)
	}

	now := nowUTC()
	redemption := domain.RedemptionRequest{
		RedemptionID:        uuid.NewString(),
		UserID:              actor.UserID,
		CreditTransactionID: credit.TransactionID,
		Amount:              amount,
		Currency:            expected,
		Status:              domain.RedemptionPending,
		Notes:               req.Notes,
		AuditFields:         domain.NewAuditFields(actor.UserID, now),
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.redemptionRepo.SaveRedemption(ctx, redemption); err != nil {
			return err
		}
		debit, err := s.wallet.PostDebit(ctx, portssvc.DebitPosting{
			UserID:             redemption.UserID,
			Amount:             amount,
			Currency:           expected,
			SourceRedemptionID: redemption.RedemptionID,
			LinkedCreditTxnID:  credit.TransactionID,
			Description:        "Redemption " + redemption.RedemptionID,
			PostedBy:           actor,
		})
		if err != nil {
			return err
		}
		if err := s.redemptionRepo.SetDebitTransaction(ctx, redemption.RedemptionID, debit.TransactionID); err != nil {
			return err
		}
		redemption.DebitTransactionID = stringPtr(debit.TransactionID)

		if _, err := s.timeline.Append(ctx, domain.TimelineInput{
			Step:    domain.StepRedemptionRequest,
			Actor:   actor,
			Message: req.Notes,
			Metadata: map[string]any{
				"amount":   amount.String(),
				"currency": string(expected),
			},
		}, redemptionRef(redemption.RedemptionID), walletTxnRef(credit.TransactionID)); err != nil {
			return err
		}
		_, err = s.timeline.Append(ctx, domain.TimelineInput{
			Step:    domain.StepDebited,
			Actor:   actor,
			Message: fmt.Sprintf("%s debited from wallet", utils.FormatAmount(amount, expected)),
			Metadata: map[string]any{
				"transactionID": debit.TransactionID,
				"balance":       debit.Balance.String(),
				"sequence":      debit.Sequence,
			},
		}, redemptionRef(redemption.RedemptionID), walletTxnRef(credit.TransactionID), walletTxnRef(debit.TransactionID))
		return err
	})
	if err != nil {
		s.LogWarn(ctx, "Redemption request failed",
			slog.String("user_id", actor.UserID),
			slog.String("credit_transaction_id", credit.TransactionID),
			slog.String("error", err.Error()))
		return nil, err
	}

	metrics.RedemptionTransitions.WithLabelValues(string(domain.RedemptionPending)).Inc()
	s.LogInfo(ctx, "Redemption requested",
		slog.String("redemption_id", redemption.RedemptionID),
		slog.String("user_id", redemption.UserID),
		slog.String("amount", amount.String()))

	s.attachTimeline(ctx, &redemption)
	s.announceRedemption(ctx, &redemption, credit)
	return &redemption, nil
}

// announceRedemption sends the proof document to accounts and notifies every accounts user.
// Nothing here can fail the redemption.
func (s *redemptionService) announceRedemption(ctx context.Context, r *domain.RedemptionRequest, credit *domain.WalletTransaction) {
	amount := utils.FormatAmount(r.Amount, r.Currency)

	if s.mailer != nil && s.accountsEmail != "" {
		s.mailAccounts(ctx, r, credit, amount)
	}

	if s.notifier == nil {
		return
	}
	accounts, err := s.userRepo.ListUsersByRole(ctx, domain.RoleAccounts)
	if err != nil {
		_ = s.RecordDependencyFailure(ctx, "notifier", err, slog.String("redemption_id", r.RedemptionID))
		return
	}
	for _, u := range accounts {
		s.notify(ctx, u.UserID, "New redemption request",
			fmt.Sprintf("A redemption of %s is waiting to be paid.", amount), r.RedemptionID)
	}
}

func (s *redemptionService) mailAccounts(ctx context.Context, r *domain.RedemptionRequest, credit *domain.WalletTransaction, amount string) {
	var actionURL string
	if s.frontendURL != "" {
		actionURL = s.frontendURL + "/redemptions/" + r.RedemptionID
	}
	var body bytes.Buffer
	err := accountsRedemptionEmail.Execute(&body, map[string]string{
		"Amount":              amount,
		"UserID":              r.UserID,
		"CreditTransactionID": credit.TransactionID,
		"Notes":               r.Notes,
		"ActionURL":           actionURL,
	})
	if err != nil {
		_ = s.RecordDependencyFailure(ctx, "mailer", err, slog.String("redemption_id", r.RedemptionID))
		return
	}
	msg := domain.EmailMessage{
		To:       []string{s.accountsEmail},
		Subject:  fmt.Sprintf("Redemption request %s for %s", r.RedemptionID, amount),
		HTMLBody: body.String(),
	}
	if s.renderer != nil {
		if pdf, err := s.renderProof(ctx, r, credit); err != nil {
			_ = s.RecordDependencyFailure(ctx, "pdf", err, slog.String("redemption_id", r.RedemptionID))
		} else {
			msg.Attachments = append(msg.Attachments, domain.EmailAttachment{
				Filename:    "redemption-" + r.RedemptionID + ".pdf",
				ContentType: "application/pdf",
				Data:        pdf,
			})
		}
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		_ = s.RecordDependencyFailure(ctx, "mailer", err, slog.String("redemption_id", r.RedemptionID))
	}
}

func (s *redemptionService) renderProof(ctx context.Context, r *domain.RedemptionRequest, credit *domain.WalletTransaction) ([]byte, error) {
	employee, err := s.userRepo.FindUserByID(ctx, r.UserID)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderRedemptionProof(ctx, domain.RedemptionProof{
		Redemption: *r,
		Employee:   *employee,
		Credit:     *credit,
		Timeline:   r.Timeline,
	})
}

func (s *redemptionService) MarkProcessing(ctx context.Context, actor domain.Actor, redemptionID string) (*domain.RedemptionRequest, error) {
	if err := requirePayoutRole(actor); err != nil {
		return nil, err
	}
	r, err := s.advance(ctx, actor, redemptionID, domain.RedemptionProcessing, func(ctx context.Context, r *domain.RedemptionRequest, update *domain.RedemptionStatusUpdate) error {
		_, err := s.timeline.Append(ctx, domain.TimelineInput{
			Step:    domain.StepProcessing,
			Actor:   actor,
			Message: "Payout in progress",
		}, redemptionRef(r.RedemptionID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *redemptionService) ProcessRedemption(ctx context.Context, actor domain.Actor, redemptionID string, req dto.ProcessRedemptionRequest) (*domain.RedemptionRequest, error) {
	if err := requirePayoutRole(actor); err != nil {
		return nil, err
	}
	if req.TransactionReference == "" {
		return nil, fmt.Errorf("%w: transaction reference is required", apperrors.ErrValidation)
	}

	r, err := s.advance(ctx, actor, redemptionID, domain.RedemptionCompleted, func(ctx context.Context, r *domain.RedemptionRequest, update *domain.RedemptionStatusUpdate) error {
		expected, err := s.currency.ExpectedCurrency(ctx, r.UserID)
		if err != nil {
			return err
		}
		paid, err := s.currency.ValidatePaymentCurrency(expected, req.PaymentCurrency)
		if err != nil {
			s.LogWarn(ctx, "Payment currency refused",
				slog.String("redemption_id", r.RedemptionID),
				slog.String("expected", string(expected)),
				slog.String("provided", req.PaymentCurrency))
			return err
		}
		// The stored currency only moves once the payout is accepted.
		_, changed, err := s.currency.Reconcile(ctx, r.UserID)
		if err != nil {
			return err
		}
		if changed {
			s.LogInfo(ctx, "Employee currency reconciled before payout",
				slog.String("user_id", r.UserID),
				slog.String("currency", string(expected)))
			if _, err := s.timeline.Append(ctx, domain.TimelineInput{
				Step:     domain.StepCurrencyReconciled,
				Actor:    actor,
				Message:  fmt.Sprintf("Employee currency is now %s", expected),
				Metadata: map[string]any{"currency": string(expected)},
			}, redemptionRef(r.RedemptionID)); err != nil {
				return err
			}
		}

		processedAt := update.UpdatedAt
		update.Currency = &paid
		update.ProcessedBy = stringPtr(actor.UserID)
		update.ProcessedAt = &processedAt
		update.TransactionReference = stringPtr(req.TransactionReference)
		if req.PaymentNotes != "" {
			update.PaymentNotes = stringPtr(req.PaymentNotes)
		}
		r.Currency = paid
		r.ProcessedBy = update.ProcessedBy
		r.ProcessedAt = update.ProcessedAt
		r.TransactionReference = update.TransactionReference
		r.PaymentNotes = update.PaymentNotes

		_, err = s.timeline.Append(ctx, domain.TimelineInput{
			Step:    domain.StepCompleted,
			Actor:   actor,
			Message: req.PaymentNotes,
			Metadata: map[string]any{
				"transactionReference": req.TransactionReference,
				"paymentCurrency":      string(paid),
				"amount":               r.Amount.String(),
			},
		}, redemptionRef(r.RedemptionID))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, r.UserID, "Redemption paid",
		fmt.Sprintf("Your redemption of %s has been paid. Reference: %s", utils.FormatAmount(r.Amount, r.Currency), req.TransactionReference),
		r.RedemptionID)
	return r, nil
}

// RejectRedemption refuses a payout and restores the employee's balance with a compensating credit.
// The original credit stays redeemed; the compensating credit is a fresh, redeemable entry.
// A redemption whose employee changed currency since the debit can only be processed.
func (s *redemptionService) RejectRedemption(ctx context.Context, actor domain.Actor, redemptionID, reason string) (*domain.RedemptionRequest, error) {
	if err := requirePayoutRole(actor); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", apperrors.ErrValidation)
	}

	r, err := s.advance(ctx, actor, redemptionID, domain.RedemptionRejected, func(ctx context.Context, r *domain.RedemptionRequest, update *domain.RedemptionStatusUpdate) error {
		if r.DebitTransactionID != nil {
			expected, err := s.currency.ExpectedCurrency(ctx, r.UserID)
			if err != nil {
				return err
			}
			if expected != r.Currency {
				return fmt.Errorf("%w: the employee is now paid in %s so the %s debit cannot be reversed; process the payout instead",
					apperrors.ErrPrecondition, expected, r.Currency)
			}
		}
		update.RejectionReason = stringPtr(reason)
		r.RejectionReason = update.RejectionReason

		if _, err := s.timeline.Append(ctx, domain.TimelineInput{
			Step:    domain.StepRedemptionRejected,
			Actor:   actor,
			Message: reason,
		}, redemptionRef(r.RedemptionID)); err != nil {
			return err
		}
		if r.DebitTransactionID == nil {
			return nil
		}

		reversal, err := s.wallet.PostCredit(ctx, portssvc.CreditPosting{
			UserID:             r.UserID,
			Amount:             r.Amount,
			Currency:           r.Currency,
			SourceRedemptionID: stringPtr(r.RedemptionID),
			Description:        "Reversal of redemption " + r.RedemptionID,
			PostedBy:           actor,
		})
		if err != nil {
			return err
		}
		_, err = s.timeline.Append(ctx, domain.TimelineInput{
			Step:    domain.StepReversed,
			Actor:   actor,
			Message: fmt.Sprintf("%s returned to wallet", utils.FormatAmount(reversal.Amount, reversal.Currency)),
			Metadata: map[string]any{
				"transactionID": reversal.TransactionID,
				"balance":       reversal.Balance.String(),
				"sequence":      reversal.Sequence,
			},
		}, redemptionRef(r.RedemptionID), walletTxnRef(reversal.TransactionID))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, r.UserID, "Redemption rejected",
		fmt.Sprintf("Your redemption of %s was rejected. Reason: %s", utils.FormatAmount(r.Amount, r.Currency), reason),
		r.RedemptionID)
	return r, nil
}

type redemptionEffect func(ctx context.Context, r *domain.RedemptionRequest, update *domain.RedemptionStatusUpdate) error

// advance moves a redemption to status `to` inside one transaction. effect may add to the
// update and write further rows; it runs before the compare-and-set is issued.
func (s *redemptionService) advance(ctx context.Context, actor domain.Actor, redemptionID string, to domain.RedemptionStatus, effect redemptionEffect) (*domain.RedemptionRequest, error) {
	var r *domain.RedemptionRequest
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.redemptionRepo.FindRedemptionByID(ctx, redemptionID)
		if err != nil {
			return err
		}
		if err := domain.CheckRedemptionTransition(r.Status, to); err != nil {
			return err
		}

		now := nowUTC()
		update := domain.RedemptionStatusUpdate{
			RedemptionID: r.RedemptionID,
			From:         r.Status,
			To:           to,
			UpdatedBy:    actor.UserID,
			UpdatedAt:    now,
		}
		r.Status = to
		r.Touch(actor.UserID, now)
		if err := effect(ctx, r, &update); err != nil {
			return err
		}
		return s.redemptionRepo.UpdateRedemptionStatus(ctx, update)
	})
	if err != nil {
		s.LogWarn(ctx, "Redemption transition failed",
			slog.String("redemption_id", redemptionID),
			slog.String("to", string(to)),
			slog.String("error", err.Error()))
		return nil, err
	}

	metrics.RedemptionTransitions.WithLabelValues(string(to)).Inc()
	s.LogInfo(ctx, "Redemption transitioned",
		slog.String("redemption_id", redemptionID),
		slog.String("to", string(to)),
		slog.String("actor_id", actor.UserID))
	s.attachTimeline(ctx, r)
	return r, nil
}

func (s *redemptionService) GetRedemption(ctx context.Context, actor domain.Actor, redemptionID string) (*domain.RedemptionRequest, error) {
	r, err := s.redemptionRepo.FindRedemptionByID(ctx, redemptionID)
	if err != nil {
		return nil, err
	}
	if r.UserID != actor.UserID && !actor.CanReadFinance() {
		return nil, fmt.Errorf("%w: redemption %s is not visible to you", apperrors.ErrForbidden, redemptionID)
	}
	r.Timeline, err = s.timeline.List(ctx, redemptionRef(r.RedemptionID))
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *redemptionService) ListRedemptionQueue(ctx context.Context, actor domain.Actor, params dto.ListRedemptionsParams) (*dto.ListRedemptionsResponse, error) {
	var filter domain.RedemptionFilter
	switch {
	case actor.CanReadFinance():
		if params.UserID != "" {
			filter.UserID = &params.UserID
		}
	case params.UserID == "" || params.UserID == actor.UserID:
		self := actor.UserID
		filter.UserID = &self
	default:
		return nil, fmt.Errorf("%w: cannot list another user's redemptions", apperrors.ErrForbidden)
	}
	if params.Status != "" {
		status := domain.RedemptionStatus(params.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Status = &status
	}

	rs, nextToken, err := s.redemptionRepo.ListRedemptions(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list redemptions", slog.String("actor_id", actor.UserID))
		return nil, err
	}
	resp := dto.ToListRedemptionsResponse(rs, nextToken)
	return &resp, nil
}

func (s *redemptionService) attachTimeline(ctx context.Context, r *domain.RedemptionRequest) {
	entries, err := s.timeline.List(ctx, redemptionRef(r.RedemptionID))
	if err != nil {
		s.LogError(ctx, err, "Failed to load redemption timeline", slog.String("redemption_id", r.RedemptionID))
		return
	}
	r.Timeline = entries
}

func (s *redemptionService) notify(ctx context.Context, userID, title, message, redemptionID string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, domain.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		ActionURL: s.frontendURL + "/redemptions/" + redemptionID,
	})
	if err != nil {
		_ = s.RecordDependencyFailure(ctx, "notifier", err,
			slog.String("user_id", userID),
			slog.String("redemption_id", redemptionID))
	}
}
