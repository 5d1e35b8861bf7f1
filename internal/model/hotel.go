package model

import "time"

// Hotel represents a property managed by an operator.  A hotel contains
// multiple rooms and every reservation ultimately belongs to exactly one
// hotel through its room.  This struct corresponds to a row in the
// `hotels` table.
//
// Fields:
//  ID         – primary key identifier.
//  OperatorID – user ID of the managing operator.
//  Name       – unique hotel name per operator.
//  City       – city the hotel is located in.
//  Address    – street address.
//  CreatedAt  – timestamp when the hotel was created.
//  UpdatedAt  – timestamp of last update.
type Hotel struct {
	ID         uint64    // hotels.id
	OperatorID uint64    // hotels.operator_id
	Name       string    // hotels.name
	City       string    // hotels.city
	Address    string    // hotels.address
	CreatedAt  time.Time // hotels.created_at
	UpdatedAt  time.Time // hotels.updated_at
}
