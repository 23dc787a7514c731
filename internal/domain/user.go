package domain

import "time"

// User is a staff member incidents can be assigned to.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// NewUser holds validated creation fields.
type NewUser struct {
	Name  string
	Email string
}
