// Package models holds the records the auth service reads and writes,
// independent of the store they live in.
package models

import "time"

// User is the stored account. PasswordHash and RefreshToken never leave
// the server; use Profile for anything sent back to a client.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
}

// Profile is the public view of a User.
type Profile struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Profile() *Profile {
	return &Profile{ID: u.ID, UserName: u.UserName, CreatedAt: u.CreatedAt}
}
