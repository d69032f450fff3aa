package model

import (
	"strings"
	"time"
)

// Role is the authorization tier of a session. It is computed once at
// login and never re-evaluated for the lifetime of that session.
type Role string

const (
	RoleUser  Role = "user"  // default tier, read access plus authoring
	RoleAdmin Role = "admin" // may create, update and delete catalog and thread items
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// User is the session identity record. It is held by the identity
// provider and mirrored to the key-value store under the session key.
//
// Fields:
//  ID         – opaque token derived from the login time.
//  Email      – address the role was derived from; also the ownership key.
//  FirstName  – given name, may be empty.
//  LastName   – family name, may be empty.
//  University – institution, may be empty.
//  Role       – user or admin.
//  JoinedAt   – login time (UTC).
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	University string    `json:"university"`
	Role       Role      `json:"role"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// Profile is what a caller submits on signup or login. Role, ID and
// JoinedAt are always synthesized by the identity provider.
type Profile struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	University string `json:"university"`
}

// IsAdmin reports whether u holds the admin role. A nil user is anonymous.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// OwnerEmail returns the email stamped on items the user authors. It is
// empty for anonymous callers.
func (u *User) OwnerEmail() string {
	if u == nil {
		return ""
	}
	return u.Email
}

// AuthorName is the display name stamped on authored items:
// "first last" trimmed, else the email, else "Guest".
func (u *User) AuthorName() string {
	if u == nil {
		return "Guest"
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return "Guest"
}

// Owns reports whether u may edit an item whose stored author email is
// owner. Ownership is exact, case-sensitive email equality and an empty
// email never matches, so anonymous items stay uneditable.
func (u *User) Owns(owner string) bool {
	email := u.OwnerEmail()
	return email != "" && email == owner
}
