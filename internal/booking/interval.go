// Package booking contains the pure domain core of the reservation engine:
// calendar-date interval arithmetic, the reservation lifecycle state machine
// and the occupancy/revenue computations. Nothing in this package touches
// the database or the network, which keeps every rule unit-testable.
package booking

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date string does not parse as a
// calendar date.  Handlers should translate this into an HTTP 400.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidRange is returned when check-in is not strictly before
// check-out.  Handlers should translate this into an HTTP 400.
var ErrInvalidRange = errors.New("check-in must be before check-out")

// DateRange is a half-open interval of calendar days [CheckIn, CheckOut).
// The check-out day itself is not occupied, so a stay ending on a given
// day and a stay starting on that same day do not conflict.
type DateRange struct {
	CheckIn  time.Time // first occupied day, midnight UTC
	CheckOut time.Time // day the room is vacated, midnight UTC
}

// ParseDateRange parses and validates a pair of YYYY-MM-DD strings.
// Both must be valid calendar dates and checkIn must be strictly before
// checkOut; violations return ErrInvalidDate or ErrInvalidRange rather
// than a zero range.
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return DateRange{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return DateRange{}, err
	}
	if !in.Before(out) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{CheckIn: in, CheckOut: out}, nil
}

// ParseDate parses a single YYYY-MM-DD string into a midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

// Overlaps reports whether two half-open ranges share at least one day:
// aStart < bEnd AND aEnd > bStart.  Boundary touching (one stay checking
// out the day another checks in) is not an overlap, so back-to-back
// stays on the same room are permitted.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.CheckIn.Before(o.CheckOut) && r.CheckOut.After(o.CheckIn)
}

// IntersectsInclusive reports whether the stay touches the closed
// reporting window [start, end]: CheckIn <= end AND CheckOut >= start.
// Statistics windows deliberately count boundary days, unlike the
// conflict test above.
func (r DateRange) IntersectsInclusive(start, end time.Time) bool {
	return !r.CheckIn.After(end) && !r.CheckOut.Before(start)
}

// Nights returns the stay length in whole days with a floor of one.
// A same-day range still bills a single night, never zero.
func (r DateRange) Nights() int {
	n := int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}
