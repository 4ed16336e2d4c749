package models

import "time"

// School is an organizational unit that students, teachers and classrooms belong to.
type School struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	District  string    `db:"district" json:"district"`
	Address   string    `db:"address" json:"address"`
	Principal string    `db:"principal" json:"principal"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
