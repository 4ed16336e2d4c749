package models

import "time"

// Student is a learner receiving special education services.
type Student struct {
	ID                      string     `db:"id" json:"id"`
	FirstName               string     `db:"first_name" json:"firstName"`
	LastName                string     `db:"last_name" json:"lastName"`
	DateOfBirth             time.Time  `db:"date_of_birth" json:"dateOfBirth"`
	Grade                   string     `db:"grade" json:"grade"`
	SchoolID                string     `db:"school_id" json:"schoolId"`
	PrimaryIdeaCategoryID   *string    `db:"primary_idea_category_id" json:"primaryIdeaCategoryId,omitempty"`
	SecondaryIdeaCategoryID *string    `db:"secondary_idea_category_id" json:"secondaryIdeaCategoryId,omitempty"`
	IEPDate                 *time.Time `db:"iep_date" json:"iepDate,omitempty"`
	CaseManager             *string    `db:"case_manager" json:"caseManager,omitempty"`
	Accommodations          *string    `db:"accommodations" json:"accommodations,omitempty"`
	IsActive                bool       `db:"is_active" json:"isActive"`
	CreatedAt               time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updatedAt"`
}

// StudentFilter narrows student listings. Inactive students are hidden unless asked for.
type StudentFilter struct {
	SchoolID        string
	IncludeInactive bool
}

// ObservationStub is a compact observation reference shown on student pages.
type ObservationStub struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"-"`
	Date      time.Time `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   *string   `db:"end_time" json:"endTime,omitempty"`
	Setting   string    `db:"setting" json:"setting"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// StudentListItem is a student with display names and most recent observations.
type StudentListItem struct {
	Student
	SchoolName                string            `db:"school_name" json:"schoolName"`
	PrimaryIdeaCategoryCode   *string           `db:"primary_idea_category_code" json:"primaryIdeaCategoryCode,omitempty"`
	PrimaryIdeaCategoryName   *string           `db:"primary_idea_category_name" json:"primaryIdeaCategoryName,omitempty"`
	SecondaryIdeaCategoryCode *string           `db:"secondary_idea_category_code" json:"secondaryIdeaCategoryCode,omitempty"`
	SecondaryIdeaCategoryName *string           `db:"secondary_idea_category_name" json:"secondaryIdeaCategoryName,omitempty"`
	RecentObservations        []ObservationStub `db:"-" json:"recentObservations"`
}

// StudentDetail is the full student view with school and IDEA categories resolved.
type StudentDetail struct {
	Student
	School                School            `db:"-" json:"school"`
	PrimaryIdeaCategory   *IdeaCategory     `db:"-" json:"primaryIdeaCategory,omitempty"`
	SecondaryIdeaCategory *IdeaCategory     `db:"-" json:"secondaryIdeaCategory,omitempty"`
	Observations          []ObservationStub `db:"-" json:"observations"`
}
