package dto

import "encoding/json"

// CreateObservationRequest starts a new observation session.
// Counts accept either a JSON number or a numeric string.
type CreateObservationRequest struct {
	StudentID     string      `json:"studentId" validate:"required"`
	ClassroomID   string      `json:"classroomId" validate:"required"`
	TeacherID     string      `json:"teacherId" validate:"required"`
	Date          string      `json:"date" validate:"required"`
	StartTime     string      `json:"startTime" validate:"required"`
	EndTime       *string     `json:"endTime"`
	Setting       string      `json:"setting" validate:"required"`
	TotalStudents json.Number `json:"totalStudents" validate:"required"`
	TotalTeachers json.Number `json:"totalTeachers" validate:"required"`
	Purpose       string      `json:"purpose" validate:"required"`
	Notes         *string     `json:"notes"`
}

// CreateEntryRequest appends a behavior record to a draft observation.
type CreateEntryRequest struct {
	Timestamp    string       `json:"timestamp" validate:"required"`
	TimeOfDay    string       `json:"timeOfDay" validate:"required"`
	Behavior     string       `json:"behavior" validate:"required"`
	Context      string       `json:"context" validate:"required"`
	Antecedent   *string      `json:"antecedent"`
	Consequence  *string      `json:"consequence"`
	Setting      *string      `json:"setting"`
	Peers        *string      `json:"peers"`
	Duration     *json.Number `json:"duration"`
	Intensity    *string      `json:"intensity"`
	Frequency    *json.Number `json:"frequency"`
	Intervention *string      `json:"intervention"`
	Notes        *string      `json:"notes"`
	Tags         []string     `json:"tags" validate:"omitempty,dive,max=64"`
}

// StopObservationRequest ends a recording session.
type StopObservationRequest struct {
	EndTime string `json:"endTime" validate:"required"`
}

// UpdateObservationRequest lists every mutable observation field. Nil means unchanged.
type UpdateObservationRequest struct {
	Date          *string      `json:"date"`
	StartTime     *string      `json:"startTime" validate:"omitempty,min=1"`
	EndTime       *string      `json:"endTime" validate:"omitempty,min=1"`
	Setting       *string      `json:"setting" validate:"omitempty,min=1"`
	TotalStudents *json.Number `json:"totalStudents"`
	TotalTeachers *json.Number `json:"totalTeachers"`
	Purpose       *string      `json:"purpose" validate:"omitempty,min=1"`
	Notes         *string      `json:"notes"`
	Status        *string      `json:"status" validate:"omitempty,oneof=draft completed reviewed"`
}
