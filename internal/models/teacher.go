package models

import "time"

// Teacher is the classroom teacher present during an observation.
type Teacher struct {
	ID         string    `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"firstName"`
	LastName   string    `db:"last_name" json:"lastName"`
	Email      *string   `db:"email" json:"email,omitempty"`
	SchoolID   string    `db:"school_id" json:"schoolId"`
	Department *string   `db:"department" json:"department,omitempty"`
	GradeLevel *string   `db:"grade_level" json:"gradeLevel,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// TeacherFilter narrows teacher listings.
type TeacherFilter struct {
	SchoolID string
}

// TeacherDetail adds the school and owned classrooms.
type TeacherDetail struct {
	Teacher
	SchoolName string      `db:"school_name" json:"schoolName"`
	Classrooms []Classroom `db:"-" json:"classrooms"`
}
