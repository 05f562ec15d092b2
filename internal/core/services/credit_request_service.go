package services

import (
	"context"
	"errors"
	"fmt"
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

type creditRequestService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	creditRepo  portsrepo.CreditRequestRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	wallet      portssvc.WalletLedgerSvc
	currency    portssvc.CurrencyPolicySvc
	timeline    portssvc.TimelineSvc
	notifier    portssvc.Notifier
	frontendURL string
}

// CreditRequestOption configures optional collaborators of the credit request service.
type CreditRequestOption func(*creditRequestService)

// WithCreditNotifier sets where transition notifications go.
func WithCreditNotifier(n portssvc.Notifier) CreditRequestOption {
	return func(s *creditRequestService) {
		s.notifier = n
	}
}

// WithCreditFrontendURL sets the base of the links placed in notifications.
func WithCreditFrontendURL(url string) CreditRequestOption {
	return func(s *creditRequestService) {
		s.frontendURL = url
	}
}

// NewCreditRequestService creates the approval workflow service.
func NewCreditRequestService(
	txManager portsrepo.TransactionManager,
	creditRepo portsrepo.CreditRequestRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	wallet portssvc.WalletLedgerSvc,
	currency portssvc.CurrencyPolicySvc,
	timeline portssvc.TimelineSvc,
	options ...CreditRequestOption,
) portssvc.CreditRequestSvcFacade {
	svc := &creditRequestService{
		txManager:  txManager,
		creditRepo: creditRepo,
		userRepo:   userRepo,
		wallet:     wallet,
		currency:   currency,
		timeline:   timeline,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CreditRequestSvcFacade = (*creditRequestService)(nil)

func creditRef(requestID string) domain.EntityRef {
	return domain.EntityRef{Type: domain.EntityCreditRequest, ID: requestID}
}

func (s *creditRequestService) GetCreditRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
	req, err := s.creditRepo.FindCreditRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.VisibleTo(actor) {
		return nil, fmt.Errorf("%w: credit request %s is not visible to you", apperrors.ErrForbidden, requestID)
	}
	req.Timeline, err = s.timeline.List(ctx, creditRef(req.RequestID))
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *creditRequestService) ListCreditRequests(ctx context.Context, actor domain.Actor, params dto.ListCreditRequestsParams) (*dto.ListCreditRequestsResponse, error) {
	caps, err := actor.Capabilities()
	if err != nil {
		return nil, err
	}

	var filter domain.CreditRequestFilter
	if !caps.OrgWide() && !caps.CanProcessPayouts() {
		self := actor.UserID
		filter.UserID = &self
		if caps.CanInitiate() {
			filter.InitiatorID = &self
		}
		if caps.IsManager() {
			filter.HODID = &self
		}
	}
	if params.Status != "" {
		status := domain.CreditRequestStatus(params.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Status = &status
	}

	reqs, nextToken, err := s.creditRepo.ListCreditRequests(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list credit requests", slog.String("actor_id", actor.UserID))
		return nil, err
	}
	resp := dto.ToListCreditRequestsResponse(reqs, nextToken)
	return &resp, nil
}

// authorizeInitiation decides whether actor may file a request for target.
func (s *creditRequestService) authorizeInitiation(ctx context.Context, actor domain.Actor, caps domain.Capabilities, target *domain.User, reqType domain.CreditRequestType, policyID *string) error {
	if caps.OrgWide() {
		return nil
	}
	if caps.IsManager() && target.HODID != nil && *target.HODID == actor.UserID {
		return nil
	}
	linked, err := s.userRepo.IsInitiatorLinked(ctx, actor.UserID, target.UserID)
	if err != nil {
		return err
	}
	if linked {
		return nil
	}
	if reqType == domain.CreditTypePolicy && policyID != nil {
		assigned, err := s.userRepo.HasPolicyAssignment(ctx, actor.UserID, *policyID, target.UserID)
		if err != nil {
			return err
		}
		if assigned {
			return nil
		}
	}
	return fmt.Errorf("%w: you are not linked to user %s", apperrors.ErrForbidden, target.UserID)
}

func (s *creditRequestService) CreateCreditRequest(ctx context.Context, actor domain.Actor, req dto.CreateCreditRequestRequest) (*domain.CreditRequest, error) {
	caps, err := actor.Capabilities()
	if err != nil {
		return nil, err
	}
	if !caps.CanInitiate() {
		return nil, fmt.Errorf("%w: role %s cannot create credit requests", apperrors.ErrForbidden, actor.Role)
	}

	reqType := domain.CreditRequestType(req.Type)
	if !reqType.Valid() {
		return nil, fmt.Errorf("%w: unknown credit request type %q", apperrors.ErrValidation, req.Type)
	}
	if reqType == domain.CreditTypePolicy && (req.PolicyID == nil || *req.PolicyID == "") {
		return nil, fmt.Errorf("%w: policy requests need a policy id", apperrors.ErrValidation)
	}
	target, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeInitiation(ctx, actor, caps, target, reqType, req.PolicyID); err != nil {
		s.LogWarn(ctx, "Credit request initiation refused",
			slog.String("actor_id", actor.UserID),
			slog.String("target_user_id", target.UserID))
		return nil, err
	}

	currency, err := s.currency.CurrencyFor(*target)
	if err != nil {
		return nil, err
	}
	amount, err := domain.CreditAmounts{BaseAmount: req.BaseAmount, Bonus: req.Bonus, Deductions: req.Deductions}.Total(currency)
	if err != nil {
		return nil, err
	}
	status, err := domain.InitialStatus(reqType, caps)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	credit := domain.CreditRequest{
		RequestID:   uuid.NewString(),
		UserID:      target.UserID,
		InitiatorID: actor.UserID,
		HODID:       target.HODID,
		Type:        reqType,
		PolicyID:    req.PolicyID,
		Description: req.Description,
		BaseAmount:  req.BaseAmount,
		Bonus:       req.Bonus,
		Deductions:  req.Deductions,
		Amount:      amount,
		Currency:    currency,
		Status:      status,
		AuditFields: domain.NewAuditFields(actor.UserID, now),
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.creditRepo.SaveCreditRequest(ctx, credit); err != nil {
			return err
		}
		entries, err := s.timeline.Append(ctx, domain.TimelineInput{
			Step:    domain.StepCreated,
			Actor:   actor,
			Message: fmt.Sprintf("Credit request for %s created", utils.FormatAmount(amount, currency)),
			Metadata: map[string]any{
				"type":       string(reqType),
				"amount":     amount.String(),
				"currency":   string(currency),
				"status":     string(status),
				"baseAmount": req.BaseAmount.String(),
				"bonus":      req.Bonus.String(),
				"deductions": req.Deductions.String(),
			},
		}, creditRef(credit.RequestID))
		if err != nil {
			return err
		}
		credit.Timeline = entries
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create credit request", slog.String("user_id", target.UserID))
		return nil, err
	}

	metrics.CreditRequestsCreated.WithLabelValues(string(reqType), string(status)).Inc()
	s.LogInfo(ctx, "Credit request created",
		slog.String("credit_request_id", credit.RequestID),
		slog.String("user_id", credit.UserID),
		slog.String("status", string(status)))

	switch status {
	case domain.StatusPendingSignature:
		s.notify(ctx, credit.UserID, "Signature required",
			fmt.Sprintf("A credit request for %s is waiting for your signature.", utils.FormatAmount(amount, currency)), credit.RequestID)
	case domain.StatusPendingApproval:
		if credit.HODID != nil {
			s.notify(ctx, *credit.HODID, "Credit request awaiting approval",
				fmt.Sprintf("A credit request for %s needs your approval.", utils.FormatAmount(amount, currency)), credit.RequestID)
		}
	}
	return &credit, nil
}

func (s *creditRequestService) SignCreditRequest(ctx context.Context, actor domain.Actor, requestID, signatureID string) (*domain.CreditRequest, error) {
	return s.transition(ctx, actor, requestID, fixedEvent(domain.EventSign), domain.TransitionInput{SignatureID: signatureID})
}

func (s *creditRequestService) ApproveByHOD(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
	return s.transition(ctx, actor, requestID, fixedEvent(domain.EventHODApprove), domain.TransitionInput{})
}

func (s *creditRequestService) RejectByHOD(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.CreditRequest, error) {
	return s.transition(ctx, actor, requestID, fixedEvent(domain.EventHODReject), domain.TransitionInput{Reason: reason})
}

func (s *creditRequestService) ApproveByEmployee(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
	return s.transition(ctx, actor, requestID, fixedEvent(domain.EventEmployeeApprove), domain.TransitionInput{})
}

func (s *creditRequestService) RejectByEmployee(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.CreditRequest, error) {
	return s.transition(ctx, actor, requestID, fixedEvent(domain.EventEmployeeReject), domain.TransitionInput{Reason: reason})
}

func (s *creditRequestService) Approve(ctx context.Context, actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
	return s.transition(ctx, actor, requestID, func(r *domain.CreditRequest) (domain.CreditEvent, error) {
		return domain.ApprovalEvent(r.Status)
	}, domain.TransitionInput{})
}

func (s *creditRequestService) Reject(ctx context.Context, actor domain.Actor, requestID, reason string) (*domain.CreditRequest, error) {
	return s.transition(ctx, actor, requestID, func(r *domain.CreditRequest) (domain.CreditEvent, error) {
		return domain.RejectionEvent(r.Status)
	}, domain.TransitionInput{Reason: reason})
}

// ApplySignatureCompletion is safe to call any number of times for the same signature.
func (s *creditRequestService) ApplySignatureCompletion(ctx context.Context, userID, signatureID string, requestID *string) (*domain.CreditRequest, error) {
	if userID == "" || signatureID == "" {
		return nil, fmt.Errorf("%w: user id and signature id are required", apperrors.ErrValidation)
	}
	logger := s.GetLogger(ctx).With(slog.String("user_id", userID), slog.String("signature_id", signatureID))

	var req *domain.CreditRequest
	var err error
	if requestID != nil && *requestID != "" {
		req, err = s.creditRepo.FindCreditRequestByID(ctx, *requestID)
	} else {
		req, err = s.creditRepo.FindPendingSignatureForUser(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Info("No credit request awaiting this signature")
			return nil, nil
		}
		return nil, err
	}
	if req.UserID != userID {
		logger.Warn("Signature callback names a request owned by someone else", slog.String("credit_request_id", req.RequestID))
		return nil, nil
	}
	if req.Signature != nil && req.Signature.SignatureID == signatureID {
		logger.Info("Signature already applied", slog.String("credit_request_id", req.RequestID))
		return nil, nil
	}
	if req.Status != domain.StatusPendingSignature {
		logger.Info("Credit request is not awaiting a signature",
			slog.String("credit_request_id", req.RequestID),
			slog.String("status", string(req.Status)))
		return nil, nil
	}

	signer, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	actor := domain.Actor{UserID: signer.UserID, Role: signer.Role}
	updated, err := s.transition(ctx, actor, req.RequestID, fixedEvent(domain.EventSign), domain.TransitionInput{SignatureID: signatureID})
	if errors.Is(err, apperrors.ErrPrecondition) {
		logger.Info("Signature raced with another update", slog.String("credit_request_id", req.RequestID))
		return nil, nil
	}
	return updated, err
}

type eventPicker func(r *domain.CreditRequest) (domain.CreditEvent, error)

func fixedEvent(e domain.CreditEvent) eventPicker {
	return func(*domain.CreditRequest) (domain.CreditEvent, error) { return e, nil }
}

// transition runs one state machine step in a single database transaction: the status
// compare-and-set, its timeline entry and, on approval, the wallet credit. Nothing is
// written unless all of them succeed.
func (s *creditRequestService) transition(ctx context.Context, actor domain.Actor, requestID string, pick eventPicker, in domain.TransitionInput) (*domain.CreditRequest, error) {
	var req *domain.CreditRequest
	var res domain.TransitionResult

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.creditRepo.FindCreditRequestByID(ctx, requestID)
		if err != nil {
			return err
		}
		event, err := pick(req)
		if err != nil {
			return err
		}
		res, err = req.Transition(event, actor, in)
		if err != nil {
			return err
		}

		now := nowUTC()
		update := portsrepo.CreditStatusUpdate{
			RequestID: req.RequestID,
			From:      res.From,
			To:        res.To,
			UpdatedBy: actor.UserID,
			UpdatedAt: now,
		}
		if res.Event == domain.EventSign {
			update.Signature = &domain.SignatureInfo{SignatureID: in.SignatureID, SignedAt: now}
			req.Signature = update.Signature
		}
		if in.Reason != "" {
			update.RejectionReason = stringPtr(in.Reason)
			req.RejectionReason = update.RejectionReason
		}
		if err := s.creditRepo.UpdateCreditRequestStatus(ctx, update); err != nil {
			return err
		}
		req.Apply(res)
		req.Touch(actor.UserID, now)

		entry := domain.TimelineInput{
			Step:     res.Step,
			Actor:    actor,
			Message:  in.Reason,
			Metadata: map[string]any{"from": string(res.From), "to": string(res.To)},
		}
		if in.SignatureID != "" {
			entry.SignatureID = stringPtr(in.SignatureID)
		}
		if _, err := s.timeline.Append(ctx, entry, creditRef(req.RequestID)); err != nil {
			return err
		}

		if res.PostCredit {
			return s.postApprovedCredit(ctx, actor, req)
		}
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Credit request transition failed",
			slog.String("credit_request_id", requestID),
			slog.String("actor_id", actor.UserID),
			slog.String("error", err.Error()))
		return nil, err
	}

	metrics.CreditTransitions.WithLabelValues(string(res.Event), string(res.To)).Inc()
	s.LogInfo(ctx, "Credit request transitioned",
		slog.String("credit_request_id", req.RequestID),
		slog.String("event", string(res.Event)),
		slog.String("from", string(res.From)),
		slog.String("to", string(res.To)))

	s.notifyTransition(ctx, req, res)

	if entries, err := s.timeline.List(ctx, creditRef(req.RequestID)); err == nil {
		req.Timeline = entries
	} else {
		s.LogError(ctx, err, "Failed to reload timeline after transition", slog.String("credit_request_id", req.RequestID))
	}
	return req, nil
}

// postApprovedCredit must run inside the transition's transaction.
func (s *creditRequestService) postApprovedCredit(ctx context.Context, actor domain.Actor, req *domain.CreditRequest) error {
	txn, err := s.wallet.PostCredit(ctx, portssvc.CreditPosting{
		UserID:          req.UserID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		SourceRequestID: stringPtr(req.RequestID),
		Description:     req.Description,
		PostedBy:        actor,
	})
	if err != nil {
		return err
	}
	if err := s.creditRepo.SetWalletTransaction(ctx, req.RequestID, txn.TransactionID); err != nil {
		return err
	}
	req.WalletTransactionID = stringPtr(txn.TransactionID)

	_, err = s.timeline.Append(ctx, domain.TimelineInput{
		Step:    domain.StepCredited,
		Actor:   actor,
		Message: fmt.Sprintf("%s credited to wallet", utils.FormatAmount(txn.Amount, txn.Currency)),
		Metadata: map[string]any{
			"transactionID": txn.TransactionID,
			"amount":        txn.Amount.String(),
			"balance":       txn.Balance.String(),
			"sequence":      txn.Sequence,
		},
	}, creditRef(req.RequestID), domain.EntityRef{Type: domain.EntityWalletTransaction, ID: txn.TransactionID})
	return err
}

func (s *creditRequestService) notifyTransition(ctx context.Context, req *domain.CreditRequest, res domain.TransitionResult) {
	amount := utils.FormatAmount(req.Amount, req.Currency)
	reason := ""
	if req.RejectionReason != nil {
		reason = " Reason: " + *req.RejectionReason
	}

	var recipient *string
	switch res.Notify {
	case domain.NotifyOwner:
		recipient = &req.UserID
	case domain.NotifyInitiator:
		recipient = &req.InitiatorID
	case domain.NotifyApprover:
		recipient = req.HODID
	}

	var title, message string
	switch res.To {
	case domain.StatusPendingApproval:
		title, message = "Credit request awaiting approval", fmt.Sprintf("A signed credit request for %s needs your approval.", amount)
	case domain.StatusPendingEmployeeApproval:
		title, message = "Please confirm your credit", fmt.Sprintf("Your HOD approved a credit of %s. Please confirm it.", amount)
	case domain.StatusApproved:
		title, message = "Credit request approved", fmt.Sprintf("The credit request for %s was approved.", amount)
	case domain.StatusRejectedByHOD:
		title, message = "Credit request rejected", fmt.Sprintf("The HOD rejected the credit request for %s.%s", amount, reason)
	case domain.StatusRejectedByEmployee, domain.StatusRejectedByUser:
		title, message = "Credit request declined", fmt.Sprintf("The employee declined the credit request for %s.%s", amount, reason)
	}

	if recipient != nil && title != "" {
		s.notify(ctx, *recipient, title, message, req.RequestID)
	}
	if res.To == domain.StatusApproved && (recipient == nil || *recipient != req.UserID) {
		s.notify(ctx, req.UserID, "Credit added to your wallet", fmt.Sprintf("%s was added to your wallet.", amount), req.RequestID)
	}
}

func (s *creditRequestService) notify(ctx context.Context, userID, title, message, requestID string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, domain.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		ActionURL: s.frontendURL + "/credit-requests/" + requestID,
	})
	if err != nil {
		_ = s.RecordDependencyFailure(ctx, "notifier", err,
			slog.String("user_id", userID),
			slog.String("credit_request_id", requestID))
	}
}
