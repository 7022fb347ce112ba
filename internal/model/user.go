package model

import "time"

// UserID uniquely identifies an authenticated user
type UserID string

// User is an account that can sign in to the admin area
// Being a user does not grant admin access; see the admin allow-list
type User struct {
	ID           UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

// AdminIdentity is the resolved admin status of an authenticated user
type AdminIdentity struct {
	UserID   UserID
	Username string
	IsAdmin  bool
}
