package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The role distinguishes guests, who create and cancel their
// own reservations, from operators, who manage hotels and approve
// bookings.  Handlers define separate response types with JSON tags;
// this struct is used by the repository layer.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – GUEST or OPERATOR.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
