package booking

import "time"

// Stay is the slice of a confirmed reservation the aggregator needs:
// its date range plus the room pricing captured from the catalog.
type Stay struct {
	Range          DateRange
	BasePriceCents int64
	TaxRatePercent int64
}

// AmountCents returns the revenue attributable to the stay: nights times
// the taxed nightly price.  The tax here is a percentage of the base
// price, not the flat per-night tax amount used for listing display
// prices.  Integer cent arithmetic, truncating.
func (s Stay) AmountCents() int64 {
	nightly := s.BasePriceCents + s.BasePriceCents*s.TaxRatePercent/100
	return nightly * int64(s.Range.Nights())
}

// OccupancyStats is the occupancy report for a hotel over a window.
type OccupancyStats struct {
	TotalRooms           int     `json:"total_rooms"`
	OccupiedRooms        int     `json:"occupied_rooms"`
	OccupancyRate        float64 `json:"occupancy_rate"`
	UpcomingReservations int     `json:"upcoming_reservations"`
}

// ComputeOccupancy derives occupancy from the hotel's confirmed stays.
// Occupied counts stays intersecting the closed window [start, end];
// upcoming counts stays whose check-in is strictly in the future
// relative to now, regardless of the window.  The rate is a percentage
// and guards against a hotel with zero rooms.
func ComputeOccupancy(totalRooms int, stays []Stay, start, end, now time.Time) OccupancyStats {
	st := OccupancyStats{TotalRooms: totalRooms}
	for _, s := range stays {
		if s.Range.IntersectsInclusive(start, end) {
			st.OccupiedRooms++
		}
		if s.Range.CheckIn.After(now) {
			st.UpcomingReservations++
		}
	}
	if totalRooms > 0 {
		st.OccupancyRate = float64(st.OccupiedRooms) / float64(totalRooms) * 100
	}
	return st
}

// RevenueStats is the revenue report for a hotel.  Total revenue covers
// every confirmed reservation regardless of window; period revenue only
// the subset intersecting [start, end].
type RevenueStats struct {
	TotalRevenueCents    int64 `json:"total_revenue_cents"`
	PeriodRevenueCents   int64 `json:"period_revenue_cents"`
	ReservationCount     int   `json:"reservation_count"`
	AverageRoomRateCents int64 `json:"average_room_rate_cents"`
}

// ComputeRevenue sums stay amounts into total and period buckets and
// derives the average room rate over the whole population (not the
// period-filtered subset), zero when there are no reservations.
func ComputeRevenue(stays []Stay, start, end time.Time) RevenueStats {
	var st RevenueStats
	for _, s := range stays {
		amount := s.AmountCents()
		st.TotalRevenueCents += amount
		if s.Range.IntersectsInclusive(start, end) {
			st.PeriodRevenueCents += amount
		}
	}
	st.ReservationCount = len(stays)
	if st.ReservationCount > 0 {
		st.AverageRoomRateCents = st.TotalRevenueCents / int64(st.ReservationCount)
	}
	return st
}
