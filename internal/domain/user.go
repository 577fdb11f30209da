package domain

import "time"

// User is a registered community member.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Bio          string
	Image        string
	Location     string
	Website      string
	Facebook     string
	Twitter      string
	Instagram    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
