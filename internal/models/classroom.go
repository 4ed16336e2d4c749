package models

import "time"

// Classroom is a teaching space run by one teacher within a school.
type Classroom struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	SchoolID   string    `db:"school_id" json:"schoolId"`
	TeacherID  string    `db:"teacher_id" json:"teacherId"`
	Subject    *string   `db:"subject" json:"subject,omitempty"`
	GradeLevel *string   `db:"grade_level" json:"gradeLevel,omitempty"`
	RoomNumber *string   `db:"room_number" json:"roomNumber,omitempty"`
	Capacity   int       `db:"capacity" json:"capacity"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// ClassroomFilter narrows classroom listings.
type ClassroomFilter struct {
	SchoolID  string
	TeacherID string
}

// ClassroomDetail joins the school and teacher names.
type ClassroomDetail struct {
	Classroom
	SchoolName       string `db:"school_name" json:"schoolName"`
	TeacherFirstName string `db:"teacher_first_name" json:"teacherFirstName"`
	TeacherLastName  string `db:"teacher_last_name" json:"teacherLastName"`
}
