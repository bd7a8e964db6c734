package model

import "time"

// Role is the closed set of roles a user may hold.  It is stored in the
// `users.role` column as its string value.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a stored role string onto a Role.  Unknown values fall
// back to RoleMember so that a malformed row never grants elevated rights.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// User represents an application user record as stored in the `users`
// table.  PasswordHash is a bcrypt hash and never leaves the server.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hashed password.
//	Role         – member or admin.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
}

// Principal is the authenticated actor making a request.  It is resolved
// from the session cookie once per request and passed explicitly into the
// services.
type Principal struct {
	UserID uint64
	Name   string
	Role   Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Session models an entry in the `sessions` table.  The ID doubles as the
// `jti` claim of the signed session token.
//
// Fields:
//
//	ID        – UUID of the session.
//	UserID    – owner of the session.
//	ExpiresAt – expiration timestamp.
//	RevokedAt – when the session was ended (nil while still active).
//	CreatedAt – timestamp of creation.
type Session struct {
	ID        string     // sessions.id
	UserID    uint64     // sessions.user_id
	ExpiresAt time.Time  // sessions.expires_at
	RevokedAt *time.Time // sessions.revoked_at (nullable)
	CreatedAt time.Time  // sessions.created_at
}
