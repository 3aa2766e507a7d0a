package payroll

import (
	"errors"
	"testing"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusDraft, StatusGenerated},
		{StatusGenerated, StatusApproved},
		{StatusGenerated, StatusRejected},
		{StatusApproved, StatusPaid},
		{StatusApproved, StatusRejected},
		{StatusDraft, StatusCancelled},
		{StatusGenerated, StatusCancelled},
		{StatusApproved, StatusCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to Status }{
		{StatusDraft, StatusApproved},
		{StatusDraft, StatusPaid},
		{StatusGenerated, StatusPaid},
		{StatusPaid, StatusApproved},
		{StatusPaid, StatusCancelled},
		{StatusRejected, StatusApproved},
		{StatusRejected, StatusCancelled},
		{StatusCancelled, StatusGenerated},
		{StatusApproved, StatusGenerated},
		{Status("Unknown"), StatusGenerated},
		{StatusDraft, Status("Unknown")},
	}
	for _, tc := range forbidden {
		if tc.from.CanTransition(tc.to) {
			t.Errorf("expected %s -> %s to be forbidden", tc.from, tc.to)
		}
	}
}

func TestStatusTransitionError(t *testing.T) {
	if err := StatusGenerated.Transition(StatusApproved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := StatusPaid.Transition(StatusApproved)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusPaid, StatusRejected, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusDraft, StatusGenerated, StatusApproved} {
		if s.Terminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
}
