package domain

import "time"

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string // argon2id encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
