// Package model defines the data structures shared by every layer of the
// application.
package model

import "time"

// User is a registered account. Email is unique across the store; the
// password is persisted only as a bcrypt hash. Posts and comments reference
// their author by ID — the user record itself carries no owning pointers.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}
