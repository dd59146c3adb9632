package model

import "time"

// RoleAdmin is the only role issued by the service.  Customers book
// anonymously and are identified by their client id instead of an account.
const RoleAdmin = "ADMIN"

// User represents an administrator account as stored in the `users`
// table.  The json tags are omitted because these structs are used by the
// repository layer; handlers build their own response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (ADMIN).
//  IsActive     – whether the account may log in.
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
