package model

import "time"

// Room is the bookable unit inside a hotel.  Pricing lives here:
// BasePriceCents is the nightly rate, TaxRatePercent is the percentage
// applied when computing revenue, and TaxesCents is the flat per-night
// tax amount added to the public display price.  The two tax fields are
// deliberately distinct; listing prices add the flat amount while
// revenue multiplies by the percentage.
//
// Fields:
//  ID             – primary key identifier.
//  HotelID        – hotel this room belongs to.
//  Name           – room label, unique per hotel (e.g. "204", "Suite B").
//  Description    – optional free text.
//  GuestCapacity  – maximum number of guests a booking may carry.
//  BasePriceCents – nightly base price in cents.
//  TaxRatePercent – tax percentage of the base price, used for revenue.
//  TaxesCents     – flat nightly tax in cents, used for display price.
//  IsAvailable    – whether the room accepts new bookings at all.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Room struct {
	ID             uint64    // rooms.id
	HotelID        uint64    // rooms.hotel_id
	Name           string    // rooms.name
	Description    *string   // rooms.description (nullable)
	GuestCapacity  uint32    // rooms.guest_capacity
	BasePriceCents int64     // rooms.base_price_cents
	TaxRatePercent int64     // rooms.tax_rate_percent
	TaxesCents     int64     // rooms.taxes_cents
	IsAvailable    bool      // rooms.is_available
	CreatedAt      time.Time // rooms.created_at
	UpdatedAt      time.Time // rooms.updated_at
}

// DisplayPriceCents is the nightly price shown on public listings: the
// base price plus the flat tax amount.  Revenue math does not use this.
func (r Room) DisplayPriceCents() int64 {
	return r.BasePriceCents + r.TaxesCents
}
