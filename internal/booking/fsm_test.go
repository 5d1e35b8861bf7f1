package booking

import (
	"errors"
	"testing"
	"time"
)

var (
	guest    = Actor{UserID: 7, Role: RoleGuest}
	stranger = Actor{UserID: 8, Role: RoleGuest}
	operator = Actor{UserID: 42, Role: RoleOperator}
)

func facts(checkIn time.Time) Facts {
	return Facts{GuestID: 7, CheckIn: checkIn}
}

func TestConfirmTransitions(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := facts(now.AddDate(0, 0, 10))

	next, err := Transition(StatusPending, EventConfirm, operator, f, true, now)
	if err != nil || next != StatusConfirmed {
		t.Fatalf("confirm pending: got (%v, %v)", next, err)
	}

	// Confirming an already-confirmed reservation is a conflict.
	_, err = Transition(StatusConfirmed, EventConfirm, operator, f, true, now)
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("confirm confirmed: got %v, want TransitionError", err)
	}
	if len(te.Required) != 1 || te.Required[0] != StatusPending {
		t.Fatalf("conflict must name PENDING as the only valid prior state, got %v", te.Required)
	}

	// A guest can never confirm, nor can an operator of another hotel.
	if _, err := Transition(StatusPending, EventConfirm, guest, f, false, now); err != ErrForbidden {
		t.Fatalf("guest confirm: got %v", err)
	}
	if _, err := Transition(StatusPending, EventConfirm, operator, f, false, now); err != ErrForbidden {
		t.Fatalf("foreign operator confirm: got %v", err)
	}
}

func TestGuestCancelDeadline(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Check-in one day away: guest is inside the deadline window.
	f := facts(now.AddDate(0, 0, 1))
	if _, err := Transition(StatusConfirmed, EventCancel, guest, f, false, now); err != ErrCancelDeadline {
		t.Fatalf("guest cancel 1 day out: got %v, want ErrCancelDeadline", err)
	}
	// The operator of the hotel bypasses the deadline.
	next, err := Transition(StatusConfirmed, EventCancel, operator, f, true, now)
	if err != nil || next != StatusCancelled {
		t.Fatalf("operator cancel 1 day out: got (%v, %v)", next, err)
	}

	// Check-in comfortably past the deadline: guest may self-cancel.
	far := facts(now.AddDate(0, 0, 10))
	next, err = Transition(StatusPending, EventCancel, guest, far, false, now)
	if err != nil || next != StatusCancelled {
		t.Fatalf("guest cancel 10 days out: got (%v, %v)", next, err)
	}

	// Exactly at the boundary the cancellation is still allowed.
	edge := facts(now.Add(CancelDeadlineDays * 24 * time.Hour))
	if _, err := Transition(StatusPending, EventCancel, guest, edge, false, now); err != nil {
		t.Fatalf("guest cancel exactly at deadline: got %v", err)
	}
}

func TestCancelGuards(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := facts(now.AddDate(0, 0, 10))

	// A guest may only cancel their own reservation.
	if _, err := Transition(StatusPending, EventCancel, stranger, f, false, now); err != ErrForbidden {
		t.Fatalf("stranger cancel: got %v", err)
	}
	// Terminal states cannot be cancelled again.
	for _, from := range []Status{StatusCancelled, StatusCompleted} {
		_, err := Transition(from, EventCancel, operator, f, true, now)
		var te *TransitionError
		if !errors.As(err, &te) {
			t.Fatalf("cancel from %s: got %v, want TransitionError", from, err)
		}
	}
}

func TestCompleteTransitions(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	f := facts(now.AddDate(0, 0, -5))

	next, err := Transition(StatusConfirmed, EventComplete, operator, f, true, now)
	if err != nil || next != StatusCompleted {
		t.Fatalf("complete confirmed: got (%v, %v)", next, err)
	}
	if _, err := Transition(StatusPending, EventComplete, operator, f, true, now); err == nil {
		t.Fatal("completing a pending reservation must fail")
	}
	if _, err := Transition(StatusConfirmed, EventComplete, guest, f, false, now); err != ErrForbidden {
		t.Fatalf("guest complete: got %v", err)
	}
}

func TestValidateStatusChange(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusConfirmed, false}, // already in target state
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusPending, false}, // PENDING is never a target
	}
	for _, tc := range cases {
		err := ValidateStatusChange(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s -> %s: expected a conflict", tc.from, tc.to)
		}
	}
}
