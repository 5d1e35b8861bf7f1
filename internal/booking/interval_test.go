package booking

import (
	"math/rand"
	"testing"
	"time"
)

func mustRange(t *testing.T, in, out string) DateRange {
	t.Helper()
	r, err := ParseDateRange(in, out)
	if err != nil {
		t.Fatalf("ParseDateRange(%q, %q): %v", in, out, err)
	}
	return r
}

func TestParseDateRangeValidation(t *testing.T) {
	cases := []struct {
		name    string
		in, out string
		wantErr error
	}{
		{"valid", "2024-03-01", "2024-03-10", nil},
		{"garbage check-in", "03/01/2024", "2024-03-10", ErrInvalidDate},
		{"garbage check-out", "2024-03-01", "not-a-date", ErrInvalidDate},
		{"impossible date", "2024-02-30", "2024-03-10", ErrInvalidDate},
		{"equal dates", "2024-03-01", "2024-03-01", ErrInvalidRange},
		{"reversed", "2024-03-10", "2024-03-01", ErrInvalidRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDateRange(tc.in, tc.out)
			if err != tc.wantErr {
				t.Fatalf("got err %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	existing := mustRange(t, "2024-03-05", "2024-03-12")

	// A request overlapping the middle of an existing stay conflicts.
	if !mustRange(t, "2024-03-01", "2024-03-10").Overlaps(existing) {
		t.Fatal("expected overlap for [03-01, 03-10) vs [03-05, 03-12)")
	}
	// Back-to-back stays are permitted: starting the day another ends.
	ending := mustRange(t, "2024-03-01", "2024-03-10")
	if mustRange(t, "2024-03-10", "2024-03-15").Overlaps(ending) {
		t.Fatal("boundary touch must not count as a conflict")
	}
	// Contained and containing ranges conflict.
	if !mustRange(t, "2024-03-06", "2024-03-07").Overlaps(existing) {
		t.Fatal("contained range must conflict")
	}
	if !mustRange(t, "2024-03-01", "2024-03-20").Overlaps(existing) {
		t.Fatal("containing range must conflict")
	}
	// Fully disjoint ranges do not conflict.
	if mustRange(t, "2024-03-15", "2024-03-20").Overlaps(existing) {
		t.Fatal("disjoint range must not conflict")
	}
}

// TestOverlapsAgainstDayWalk cross-checks the interval test against a
// brute-force day-by-day occupancy comparison over random ranges.
func TestOverlapsAgainstDayWalk(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	randRange := func() DateRange {
		start := base.AddDate(0, 0, rng.Intn(60))
		return DateRange{CheckIn: start, CheckOut: start.AddDate(0, 0, 1+rng.Intn(14))}
	}
	shareDay := func(a, b DateRange) bool {
		for d := a.CheckIn; d.Before(a.CheckOut); d = d.AddDate(0, 0, 1) {
			if !d.Before(b.CheckIn) && d.Before(b.CheckOut) {
				return true
			}
		}
		return false
	}
	for i := 0; i < 500; i++ {
		a, b := randRange(), randRange()
		if got, want := a.Overlaps(b), shareDay(a, b); got != want {
			t.Fatalf("overlap mismatch for %v vs %v: got %v, want %v", a, b, got, want)
		}
		if a.Overlaps(b) != b.Overlaps(a) {
			t.Fatalf("overlap not symmetric for %v vs %v", a, b)
		}
	}
}

func TestIntersectsInclusive(t *testing.T) {
	stay := mustRange(t, "2024-03-05", "2024-03-12")
	start, _ := ParseDate("2024-03-12")
	end, _ := ParseDate("2024-03-20")
	// Inclusive boundary: a stay checking out on the window start counts.
	if !stay.IntersectsInclusive(start, end) {
		t.Fatal("stats windows must count boundary days")
	}
	after, _ := ParseDate("2024-03-13")
	if stay.IntersectsInclusive(after, end) {
		t.Fatal("stay fully before the window must not count")
	}
}

func TestNightsFloor(t *testing.T) {
	if n := mustRange(t, "2024-03-01", "2024-03-05").Nights(); n != 4 {
		t.Fatalf("4-night stay: got %d", n)
	}
	same := DateRange{
		CheckIn:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if n := same.Nights(); n != 1 {
		t.Fatalf("same-day stay must bill one night, got %d", n)
	}
}
