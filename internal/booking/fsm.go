package booking

import (
	"errors"
	"fmt"
	"time"
)

// Status enumerates the reservation lifecycle states as stored in the
// reservations.status column.
type Status string

const (
	StatusPending   Status = "PENDING"   // created by a guest, awaiting operator approval
	StatusConfirmed Status = "CONFIRMED" // approved by an operator of the owning hotel
	StatusCancelled Status = "CANCELLED" // terminal; the record is kept, never deleted
	StatusCompleted Status = "COMPLETED" // terminal; stay finished
)

// ParseStatus validates a status string from client input.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// Active reports whether the status participates in the no-double-booking
// invariant.  Only PENDING and CONFIRMED reservations occupy a room's dates.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Event is a lifecycle transition request.
type Event string

const (
	EventConfirm  Event = "CONFIRM"
	EventCancel   Event = "CANCEL"
	EventComplete Event = "COMPLETE"
)

// Role identifies the kind of actor requesting a transition.
type Role string

const (
	RoleGuest    Role = "GUEST"
	RoleOperator Role = "OPERATOR"
)

// Actor is the already-authenticated identity attached to a transition
// request.  Authentication happens upstream; the state machine only
// performs authorization against these fields.
type Actor struct {
	UserID uint64
	Role   Role
}

// CancelDeadlineDays is the minimum number of days before check-in
// within which a guest may no longer self-cancel.  Operators bypass it.
const CancelDeadlineDays = 3

// Sentinel errors produced by the state machine.  Handlers map
// ErrForbidden/ErrCancelDeadline to 403 and the transition errors to 409.
var (
	// ErrForbidden indicates the actor may not act on this reservation
	// at all: a guest touching someone else's booking, or a confirm
	// attempted by a non-operator.
	ErrForbidden = errors.New("actor may not perform this transition")
	// ErrCancelDeadline indicates a guest cancellation inside the
	// cancellation-deadline window.
	ErrCancelDeadline = errors.New("cancellation deadline has passed")
	// ErrUnknownEvent indicates an event the state machine does not know.
	ErrUnknownEvent = errors.New("unknown lifecycle event")
)

// TransitionError is a conflict: the reservation is not in a state from
// which the requested change is legal.  It names the only valid prior
// state(s) so the caller can see why the request was rejected.
type TransitionError struct {
	From     Status
	To       Status
	Required []Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move %s reservation to %s: requires status %v", e.From, e.To, e.Required)
}

// Facts carries the reservation fields the guards depend on. Hotel
// ownership is resolved by the caller and arrives as the
// operatorOwnsHotel argument to Transition.
type Facts struct {
	GuestID uint64    // owner of the reservation
	CheckIn time.Time // first day of the stay, midnight UTC
}

// Transition is the pure lifecycle function: given the current status, a
// requested event, the acting identity and the reservation facts, it
// returns the new status or an error describing exactly why the change
// is illegal.  It never mutates anything; persisting the result is the
// caller's job, inside a transaction.
//
// operatorOwnsHotel must be true when the actor is an operator of the
// hotel owning the reservation; the caller resolves that through the
// catalog since the state machine does not perform lookups.
func Transition(current Status, ev Event, a Actor, f Facts, operatorOwnsHotel bool, now time.Time) (Status, error) {
	switch ev {
	case EventConfirm:
		if a.Role != RoleOperator || !operatorOwnsHotel {
			return "", ErrForbidden
		}
		if current != StatusPending {
			return "", &TransitionError{From: current, To: StatusConfirmed, Required: []Status{StatusPending}}
		}
		return StatusConfirmed, nil

	case EventCancel:
		switch a.Role {
		case RoleGuest:
			if a.UserID != f.GuestID {
				return "", ErrForbidden
			}
			if f.CheckIn.Sub(now) < CancelDeadlineDays*24*time.Hour {
				return "", ErrCancelDeadline
			}
		case RoleOperator:
			if !operatorOwnsHotel {
				return "", ErrForbidden
			}
		default:
			return "", ErrForbidden
		}
		if !current.Active() {
			return "", &TransitionError{From: current, To: StatusCancelled, Required: []Status{StatusPending, StatusConfirmed}}
		}
		return StatusCancelled, nil

	case EventComplete:
		if a.Role != RoleOperator || !operatorOwnsHotel {
			return "", ErrForbidden
		}
		if current != StatusConfirmed {
			return "", &TransitionError{From: current, To: StatusCompleted, Required: []Status{StatusConfirmed}}
		}
		return StatusCompleted, nil
	}
	return "", ErrUnknownEvent
}

// ValidateStatusChange guards the operator's direct status-update
// endpoint.  The target must differ from the current status; moving to
// CONFIRMED requires PENDING, to CANCELLED requires an active status,
// to COMPLETED requires CONFIRMED.  PENDING is never a valid target.
func ValidateStatusChange(current, target Status) error {
	if current == target {
		return &TransitionError{From: current, To: target, Required: requiredFor(target)}
	}
	switch target {
	case StatusConfirmed:
		if current != StatusPending {
			return &TransitionError{From: current, To: target, Required: []Status{StatusPending}}
		}
	case StatusCancelled:
		if !current.Active() {
			return &TransitionError{From: current, To: target, Required: []Status{StatusPending, StatusConfirmed}}
		}
	case StatusCompleted:
		if current != StatusConfirmed {
			return &TransitionError{From: current, To: target, Required: []Status{StatusConfirmed}}
		}
	default:
		return &TransitionError{From: current, To: target, Required: nil}
	}
	return nil
}

func requiredFor(target Status) []Status {
	switch target {
	case StatusConfirmed:
		return []Status{StatusPending}
	case StatusCancelled:
		return []Status{StatusPending, StatusConfirmed}
	case StatusCompleted:
		return []Status{StatusConfirmed}
	}
	return nil
}
