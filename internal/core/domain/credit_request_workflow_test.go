package domain_test

import (
	"testing"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID     = "emp-1"
	hodID       = "hod-1"
	initiatorID = "init-1"
)

func stringPtr(s string) *string { return &s }

func newRequest(t domain.CreditRequestType, status domain.CreditRequestStatus) *domain.CreditRequest {
	return &domain.CreditRequest{
		RequestID:   "req-1",
		UserID:      ownerID,
		InitiatorID: initiatorID,
		HODID:       stringPtr(hodID),
		Type:        t,
		BaseAmount:  decimal.NewFromInt(100),
		Bonus:       decimal.NewFromInt(20),
		Deductions:  decimal.NewFromInt(5),
		Amount:      decimal.NewFromInt(115),
		Currency:    domain.CurrencyINR,
		Status:      status,
	}
}

var (
	owner    = domain.Actor{UserID: ownerID, Role: domain.RoleEmployee}
	hod      = domain.Actor{UserID: hodID, Role: domain.RoleHOD}
	otherHOD = domain.Actor{UserID: "hod-2", Role: domain.RoleHOD}
	admin    = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	stranger = domain.Actor{UserID: "emp-2", Role: domain.RoleEmployee}
)

func TestInitialStatus(t *testing.T) {
	initiatorCaps, _ := domain.RoleInitiator.Capabilities()
	hodCaps, _ := domain.RoleHOD.Capabilities()
	adminCaps, _ := domain.RoleAdmin.Capabilities()

	tests := []struct {
		name string
		typ  domain.CreditRequestType
		caps domain.Capabilities
		want domain.CreditRequestStatus
	}{
		{"freelancer by initiator", domain.CreditTypeFreelancer, initiatorCaps, domain.StatusPendingApproval},
		{"freelancer by hod", domain.CreditTypeFreelancer, hodCaps, domain.StatusPendingApproval},
		{"policy by initiator", domain.CreditTypePolicy, initiatorCaps, domain.StatusPendingApproval},
		{"policy by hod", domain.CreditTypePolicy, hodCaps, domain.StatusPendingSignature},
		{"policy by admin", domain.CreditTypePolicy, adminCaps, domain.StatusPendingSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.InitialStatus(tt.typ, tt.caps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := domain.InitialStatus("bogus", adminCaps)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTransition_LegalPaths(t *testing.T) {
	tests := []struct {
		name       string
		typ        domain.CreditRequestType
		from       domain.CreditRequestStatus
		event      domain.CreditEvent
		actor      domain.Actor
		in         domain.TransitionInput
		want       domain.CreditRequestStatus
		postCredit bool
	}{
		{"owner signs", domain.CreditTypePolicy, domain.StatusPendingSignature, domain.EventSign, owner, domain.TransitionInput{SignatureID: "sig-1"}, domain.StatusPendingApproval, false},
		{"owner rejects before signing", domain.CreditTypePolicy, domain.StatusPendingSignature, domain.EventEmployeeReject, owner, domain.TransitionInput{Reason: "not mine"}, domain.StatusRejectedByUser, false},
		{"hod approves freelancer", domain.CreditTypeFreelancer, domain.StatusPendingApproval, domain.EventHODApprove, hod, domain.TransitionInput{}, domain.StatusPendingEmployeeApproval, false},
		{"hod approves policy", domain.CreditTypePolicy, domain.StatusPendingApproval, domain.EventHODApprove, hod, domain.TransitionInput{}, domain.StatusApproved, true},
		{"admin approves for any hod", domain.CreditTypePolicy, domain.StatusPendingApproval, domain.EventHODApprove, admin, domain.TransitionInput{}, domain.StatusApproved, true},
		{"hod rejects", domain.CreditTypePolicy, domain.StatusPendingApproval, domain.EventHODReject, hod, domain.TransitionInput{Reason: "insufficient evidence"}, domain.StatusRejectedByHOD, false},
		{"employee approves", domain.CreditTypeFreelancer, domain.StatusPendingEmployeeApproval, domain.EventEmployeeApprove, owner, domain.TransitionInput{}, domain.StatusApproved, true},
		{"employee rejects", domain.CreditTypeFreelancer, domain.StatusPendingEmployeeApproval, domain.EventEmployeeReject, owner, domain.TransitionInput{Reason: "wrong amount"}, domain.StatusRejectedByEmployee, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(tt.typ, tt.from)
			res, err := req.Transition(tt.event, tt.actor, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.from, res.From)
			assert.Equal(t, tt.want, res.To)
			assert.Equal(t, tt.postCredit, res.PostCredit)
			assert.Equal(t, tt.from, req.Status, "Transition must not mutate the request")
		})
	}
}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	terminal := []domain.CreditRequestStatus{
		domain.StatusApproved, domain.StatusRejectedByUser, domain.StatusRejectedByEmployee, domain.StatusRejectedByHOD,
	}
	events := []domain.CreditEvent{
		domain.EventSign, domain.EventEmployeeApprove, domain.EventEmployeeReject, domain.EventHODApprove, domain.EventHODReject,
	}
	for _, status := range terminal {
		for _, event := range events {
			req := newRequest(domain.CreditTypePolicy, status)
			_, err := req.Transition(event, admin, domain.TransitionInput{Reason: "x", SignatureID: "s"})
			assert.ErrorIs(t, err, apperrors.ErrPrecondition, "%s from %s", event, status)
		}
	}
}

func TestTransition_WrongSourceState(t *testing.T) {
	req := newRequest(domain.CreditTypeFreelancer, domain.StatusPendingEmployeeApproval)
	_, err := req.Transition(domain.EventHODApprove, hod, domain.TransitionInput{})
	assert.ErrorIs(t, err, apperrors.ErrPrecondition)

	req = newRequest(domain.CreditTypePolicy, domain.StatusPendingSignature)
	_, err = req.Transition(domain.EventHODApprove, hod, domain.TransitionInput{})
	assert.ErrorIs(t, err, apperrors.ErrPrecondition, "policy request must be signed before approval")
}

func TestTransition_Authorization(t *testing.T) {
	req := newRequest(domain.CreditTypePolicy, domain.StatusPendingApproval)
	_, err := req.Transition(domain.EventHODApprove, otherHOD, domain.TransitionInput{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = req.Transition(domain.EventHODApprove, owner, domain.TransitionInput{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	accounts := domain.Actor{UserID: "acc-1", Role: domain.RoleAccounts}
	_, err = req.Transition(domain.EventHODReject, accounts, domain.TransitionInput{Reason: "no"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	req = newRequest(domain.CreditTypeFreelancer, domain.StatusPendingEmployeeApproval)
	_, err = req.Transition(domain.EventEmployeeApprove, stranger, domain.TransitionInput{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = req.Transition(domain.EventEmployeeApprove, domain.Actor{UserID: ownerID, Role: "ghost"}, domain.TransitionInput{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestTransition_InputValidation(t *testing.T) {
	req := newRequest(domain.CreditTypePolicy, domain.StatusPendingApproval)
	_, err := req.Transition(domain.EventHODReject, hod, domain.TransitionInput{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	req = newRequest(domain.CreditTypePolicy, domain.StatusPendingSignature)
	_, err = req.Transition(domain.EventSign, owner, domain.TransitionInput{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestApprovedOnlyThroughLegalPaths(t *testing.T) {
	// Walk every reachable state from each initial state and make sure approved
	// is only ever entered by hod_approve on a policy or employee_approve.
	events := []domain.CreditEvent{
		domain.EventSign, domain.EventEmployeeApprove, domain.EventEmployeeReject, domain.EventHODApprove, domain.EventHODReject,
	}
	in := domain.TransitionInput{Reason: "r", SignatureID: "s"}
	for _, typ := range []domain.CreditRequestType{domain.CreditTypeFreelancer, domain.CreditTypePolicy} {
		queue := []domain.CreditRequestStatus{domain.StatusPendingApproval}
		if typ == domain.CreditTypePolicy {
			queue = append(queue, domain.StatusPendingSignature)
		}
		seen := map[domain.CreditRequestStatus]bool{}
		for len(queue) > 0 {
			status := queue[0]
			queue = queue[1:]
			if seen[status] {
				continue
			}
			seen[status] = true
			for _, event := range events {
				for _, actor := range []domain.Actor{owner, hod} {
					req := newRequest(typ, status)
					res, err := req.Transition(event, actor, in)
					if err != nil {
						continue
					}
					if res.To == domain.StatusApproved {
						legal := (typ == domain.CreditTypePolicy && event == domain.EventHODApprove) ||
							event == domain.EventEmployeeApprove
						assert.True(t, legal, "%s reached approved via %s", typ, event)
						assert.True(t, res.PostCredit)
					}
					queue = append(queue, res.To)
				}
			}
		}
		assert.True(t, seen[domain.StatusApproved], "%s must be able to reach approved", typ)
	}
}

func TestApprovalAndRejectionEvents(t *testing.T) {
	ev, err := domain.ApprovalEvent(domain.StatusPendingApproval)
	require.NoError(t, err)
	assert.Equal(t, domain.EventHODApprove, ev)

	ev, err = domain.ApprovalEvent(domain.StatusPendingEmployeeApproval)
	require.NoError(t, err)
	assert.Equal(t, domain.EventEmployeeApprove, ev)

	_, err = domain.ApprovalEvent(domain.StatusApproved)
	assert.ErrorIs(t, err, apperrors.ErrPrecondition)
	assert.Contains(t, err.Error(), "not pending approval")

	ev, err = domain.RejectionEvent(domain.StatusPendingSignature)
	require.NoError(t, err)
	assert.Equal(t, domain.EventEmployeeReject, ev)

	ev, err = domain.RejectionEvent(domain.StatusPendingApproval)
	require.NoError(t, err)
	assert.Equal(t, domain.EventHODReject, ev)

	_, err = domain.RejectionEvent(domain.StatusRejectedByHOD)
	assert.ErrorIs(t, err, apperrors.ErrPrecondition)
}
