package models

import "time"

// User is an observer (school psychologist) account stored in the users table.
type User struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	FirstName     string    `db:"first_name" json:"firstName"`
	LastName      string    `db:"last_name" json:"lastName"`
	Title         *string   `db:"title" json:"title,omitempty"`
	District      string    `db:"district" json:"district"`
	LicenseNumber *string   `db:"license_number" json:"licenseNumber,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// ObserverSummary is the subset of an observer exposed alongside observations.
type ObserverSummary struct {
	ID        string  `db:"id" json:"id"`
	FirstName string  `db:"first_name" json:"firstName"`
	LastName  string  `db:"last_name" json:"lastName"`
	Title     *string `db:"title" json:"title,omitempty"`
	Email     string  `db:"email" json:"email"`
}
