package domain

import "time"

type Account struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Balance      Money
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
