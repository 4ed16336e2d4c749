package models

import "time"

// Observation lifecycle states. Status only moves forward.
const (
	ObservationStatusDraft     = "draft"
	ObservationStatusCompleted = "completed"
	ObservationStatusReviewed  = "reviewed"
)

// Observation is a timed classroom observation session owned by one observer.
type Observation struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"studentId"`
	ClassroomID   string    `db:"classroom_id" json:"classroomId"`
	TeacherID     string    `db:"teacher_id" json:"teacherId"`
	ObserverID    string    `db:"observer_id" json:"observerId"`
	Date          time.Time `db:"date" json:"date"`
	StartTime     string    `db:"start_time" json:"startTime"`
	EndTime       *string   `db:"end_time" json:"endTime,omitempty"`
	Setting       string    `db:"setting" json:"setting"`
	TotalStudents int       `db:"total_students" json:"totalStudents"`
	TotalTeachers int       `db:"total_teachers" json:"totalTeachers"`
	Purpose       string    `db:"purpose" json:"purpose"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// ObservationFilter narrows an observer's observation listing.
type ObservationFilter struct {
	ObserverID string
	StudentID  string
}

// ObservationListItem is an observation row with display names and its entries.
type ObservationListItem struct {
	Observation
	StudentFirstName string             `db:"student_first_name" json:"studentFirstName"`
	StudentLastName  string             `db:"student_last_name" json:"studentLastName"`
	ClassroomName    string             `db:"classroom_name" json:"classroomName"`
	TeacherFirstName string             `db:"teacher_first_name" json:"teacherFirstName"`
	TeacherLastName  string             `db:"teacher_last_name" json:"teacherLastName"`
	Entries          []ObservationEntry `db:"-" json:"entries"`
}

// ObservationDetail is the full observation graph returned by a single read.
type ObservationDetail struct {
	Observation
	Student   StudentDetail      `json:"student"`
	Classroom Classroom          `json:"classroom"`
	Teacher   Teacher            `json:"teacher"`
	Observer  ObserverSummary    `json:"observer"`
	Entries   []ObservationEntry `json:"entries"`
}
