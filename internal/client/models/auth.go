// Package models holds the payloads the CLI exchanges with the auth server.
package models

import "time"

// Tokens is the body of a successful login or refresh. UserID is only
// present after a login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id,omitempty"`
}

// Account is returned by registration.
type Account struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
}

// Profile is the current user as reported by /me.
type Profile struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials is the request body for login and registration.
type Credentials struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}
