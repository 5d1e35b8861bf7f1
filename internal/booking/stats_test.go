package booking

import (
	"testing"
	"time"
)

func stay(t *testing.T, in, out string, base, tax int64) Stay {
	t.Helper()
	return Stay{Range: mustRange(t, in, out), BasePriceCents: base, TaxRatePercent: tax}
}

func TestStayAmount(t *testing.T) {
	// 4 nights at base 100.00 with 20% tax: (10000 + 2000) * 4 = 48000.
	s := stay(t, "2024-03-01", "2024-03-05", 10000, 20)
	if got := s.AmountCents(); got != 48000 {
		t.Fatalf("4-night taxed amount: got %d, want 48000", got)
	}
	// Zero tax rate bills the bare base price.
	s = stay(t, "2024-03-01", "2024-03-03", 5000, 0)
	if got := s.AmountCents(); got != 10000 {
		t.Fatalf("untaxed amount: got %d, want 10000", got)
	}
}

func TestComputeOccupancy(t *testing.T) {
	// Evaluation time sits after the March check-ins so only the May
	// stays count as upcoming.
	now := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	start, _ := ParseDate("2024-03-01")
	end, _ := ParseDate("2024-03-31")

	var stays []Stay
	// Five stays overlapping the reporting window.
	for i := 0; i < 5; i++ {
		stays = append(stays, stay(t, "2024-03-10", "2024-03-15", 10000, 10))
	}
	// Three future stays outside the window.
	for i := 0; i < 3; i++ {
		stays = append(stays, stay(t, "2024-05-01", "2024-05-05", 10000, 10))
	}

	st := ComputeOccupancy(10, stays, start, end, now)
	if st.TotalRooms != 10 || st.OccupiedRooms != 5 {
		t.Fatalf("got total=%d occupied=%d, want 10/5", st.TotalRooms, st.OccupiedRooms)
	}
	if st.OccupancyRate != 50 {
		t.Fatalf("occupancy rate: got %v, want 50", st.OccupancyRate)
	}
	if st.UpcomingReservations != 3 {
		t.Fatalf("upcoming: got %d, want 3", st.UpcomingReservations)
	}
}

func TestComputeOccupancyZeroRooms(t *testing.T) {
	start, _ := ParseDate("2024-03-01")
	end, _ := ParseDate("2024-03-31")
	st := ComputeOccupancy(0, nil, start, end, time.Now().UTC())
	if st.OccupancyRate != 0 {
		t.Fatalf("zero-room hotel must report 0 rate, got %v", st.OccupancyRate)
	}
}

func TestComputeRevenue(t *testing.T) {
	start, _ := ParseDate("2024-03-01")
	end, _ := ParseDate("2024-03-31")

	stays := []Stay{
		stay(t, "2024-03-01", "2024-03-05", 10000, 20), // 48000, in window
		stay(t, "2024-05-01", "2024-05-03", 20000, 10), // 44000, out of window
	}
	st := ComputeRevenue(stays, start, end)
	if st.TotalRevenueCents != 92000 {
		t.Fatalf("total: got %d, want 92000", st.TotalRevenueCents)
	}
	if st.PeriodRevenueCents != 48000 {
		t.Fatalf("period: got %d, want 48000", st.PeriodRevenueCents)
	}
	if st.ReservationCount != 2 {
		t.Fatalf("count: got %d", st.ReservationCount)
	}
	// Average is over the whole population, not the period subset.
	if st.AverageRoomRateCents != 46000 {
		t.Fatalf("average: got %d, want 46000", st.AverageRoomRateCents)
	}
}

func TestComputeRevenueEmpty(t *testing.T) {
	start, _ := ParseDate("2024-03-01")
	end, _ := ParseDate("2024-03-31")
	st := ComputeRevenue(nil, start, end)
	if st.TotalRevenueCents != 0 || st.AverageRoomRateCents != 0 {
		t.Fatalf("empty population must report zeros, got %+v", st)
	}
}
