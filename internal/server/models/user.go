package models

import "time"

// User is a dashboard operator account. PasswordHash is a bcrypt hash;
// the plaintext never leaves the sign-in request.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
