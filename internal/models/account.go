package models

import "time"

// Account is a console login. Only the bcrypt hash of the password is stored.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
