package domain

import (
	"fmt"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
)

// CreditEvent is something an actor does to a credit request.
type CreditEvent string

const (
	EventSign            CreditEvent = "sign"
	EventEmployeeApprove CreditEvent = "employee_approve"
	EventEmployeeReject  CreditEvent = "employee_reject"
	EventHODApprove      CreditEvent = "hod_approve"
	EventHODReject       CreditEvent = "hod_reject"
)

// actorGuard says who may fire a transition.
type actorGuard int

const (
	guardOwner actorGuard = iota
	guardApprover
)

// NotifyTarget says who hears about a transition once it commits.
type NotifyTarget int

const (
	NotifyNone NotifyTarget = iota
	NotifyOwner
	NotifyInitiator
	NotifyApprover
)

type transitionKey struct {
	from  CreditRequestStatus
	event CreditEvent
}

type transitionRule struct {
	guard          actorGuard
	to             map[CreditRequestType]CreditRequestStatus
	step           TimelineStep
	needsReason    bool
	needsSignature bool
	notify         NotifyTarget
}

func both(s CreditRequestStatus) map[CreditRequestType]CreditRequestStatus {
	return map[CreditRequestType]CreditRequestStatus{CreditTypeFreelancer: s, CreditTypePolicy: s}
}

var creditTransitions = map[transitionKey]transitionRule{
	{StatusPendingSignature, EventSign}: {
		guard: guardOwner, to: both(StatusPendingApproval), step: StepSigned,
		needsSignature: true, notify: NotifyApprover,
	},
	{StatusPendingSignature, EventEmployeeReject}: {
		guard: guardOwner, to: both(StatusRejectedByUser), step: StepUserRejected,
		needsReason: true, notify: NotifyInitiator,
	},
	{StatusPendingApproval, EventHODApprove}: {
		guard: guardApprover,
		to: map[CreditRequestType]CreditRequestStatus{
			CreditTypeFreelancer: StatusPendingEmployeeApproval,
			CreditTypePolicy:     StatusApproved,
		},
		step: StepHODApproved, notify: NotifyOwner,
	},
	{StatusPendingApproval, EventHODReject}: {
		guard: guardApprover, to: both(StatusRejectedByHOD), step: StepHODRejected,
		needsReason: true, notify: NotifyInitiator,
	},
	{StatusPendingEmployeeApproval, EventEmployeeApprove}: {
		guard: guardOwner, to: both(StatusApproved), step: StepEmployeeApproved, notify: NotifyInitiator,
	},
	{StatusPendingEmployeeApproval, EventEmployeeReject}: {
		guard: guardOwner, to: both(StatusRejectedByEmployee), step: StepEmployeeRejected,
		needsReason: true, notify: NotifyInitiator,
	},
}

// TransitionInput carries the event-specific data a transition may require.
type TransitionInput struct {
	Reason      string
	SignatureID string
}

// TransitionResult describes a legal transition. Applying it is the caller's job.
type TransitionResult struct {
	From       CreditRequestStatus
	To         CreditRequestStatus
	Event      CreditEvent
	Step       TimelineStep
	PostCredit bool
	Notify     NotifyTarget
}

// InitialStatus decides where a new request starts.
func InitialStatus(t CreditRequestType, submitter Capabilities) (CreditRequestStatus, error) {
	switch t {
	case CreditTypeFreelancer:
		return StatusPendingApproval, nil
	case CreditTypePolicy:
		if submitter.IsManager() {
			return StatusPendingSignature, nil
		}
		return StatusPendingApproval, nil
	default:
		return "", fmt.Errorf("%w: unknown credit request type %q", apperrors.ErrValidation, t)
	}
}

// Transition checks that event is legal from the request's current status and that actor may fire it.
// It does not mutate the request. State is checked before authorization so duplicate calls
// surface as precondition failures.
func (r *CreditRequest) Transition(event CreditEvent, actor Actor, in TransitionInput) (TransitionResult, error) {
	if r.Status.IsTerminal() {
		return TransitionResult{}, fmt.Errorf("%w: credit request is already %s", apperrors.ErrPrecondition, r.Status)
	}
	rule, ok := creditTransitions[transitionKey{from: r.Status, event: event}]
	if !ok {
		return TransitionResult{}, fmt.Errorf("%w: cannot %s a credit request in status %s", apperrors.ErrPrecondition, event, r.Status)
	}
	if err := r.authorize(rule.guard, actor); err != nil {
		return TransitionResult{}, err
	}
	if rule.needsReason && in.Reason == "" {
		return TransitionResult{}, fmt.Errorf("%w: a rejection reason is required", apperrors.ErrValidation)
	}
	if rule.needsSignature && in.SignatureID == "" {
		return TransitionResult{}, fmt.Errorf("%w: signature id is required", apperrors.ErrValidation)
	}
	to, ok := rule.to[r.Type]
	if !ok {
		return TransitionResult{}, fmt.Errorf("%w: unknown credit request type %q", apperrors.ErrValidation, r.Type)
	}
	return TransitionResult{
		From:       r.Status,
		To:         to,
		Event:      event,
		Step:       rule.step,
		PostCredit: to == StatusApproved,
		Notify:     rule.notify,
	}, nil
}

func (r *CreditRequest) authorize(guard actorGuard, actor Actor) error {
	caps, err := actor.Capabilities()
	if err != nil {
		return err
	}
	switch guard {
	case guardOwner:
		if actor.UserID != r.UserID {
			return fmt.Errorf("%w: only the employee this request is for may do this", apperrors.ErrForbidden)
		}
		return nil
	case guardApprover:
		if !caps.CanApprove() {
			return fmt.Errorf("%w: role %s cannot approve or reject credit requests", apperrors.ErrForbidden, actor.Role)
		}
		if caps.OrgWide() {
			return nil
		}
		if r.HODID == nil || *r.HODID != actor.UserID {
			return fmt.Errorf("%w: only the approving HOD may act on this request", apperrors.ErrForbidden)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown guard", apperrors.ErrInternal)
}

// ApprovalEvent maps an "approve" action to the event legal in status s.
func ApprovalEvent(s CreditRequestStatus) (CreditEvent, error) {
	switch s {
	case StatusPendingApproval:
		return EventHODApprove, nil
	case StatusPendingEmployeeApproval:
		return EventEmployeeApprove, nil
	}
	return "", fmt.Errorf("%w: credit request is not pending approval (status %s)", apperrors.ErrPrecondition, s)
}

// RejectionEvent maps a "reject" action to the event legal in status s.
func RejectionEvent(s CreditRequestStatus) (CreditEvent, error) {
	switch s {
	case StatusPendingSignature, StatusPendingEmployeeApproval:
		return EventEmployeeReject, nil
	case StatusPendingApproval:
		return EventHODReject, nil
	}
	return "", fmt.Errorf("%w: credit request can no longer be rejected (status %s)", apperrors.ErrPrecondition, s)
}

// Apply copies the transition's target status onto r.
func (r *CreditRequest) Apply(res TransitionResult) {
	r.Status = res.To
}
