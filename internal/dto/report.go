package dto

// KeywordStats counts entries matching each vocabulary used to draft a report.
type KeywordStats struct {
	TotalEntries      int `json:"totalEntries"`
	PositiveEntries   int `json:"positiveEntries"`
	ConcernEntries    int `json:"concernEntries"`
	TransitionEntries int `json:"transitionEntries"`
}

// ReportDraft is the narrative report for one observation.
type ReportDraft struct {
	ObservationID   string       `json:"observationId"`
	Status          string       `json:"status"`
	Summary         string       `json:"summary"`
	Recommendations string       `json:"recommendations"`
	Saved           bool         `json:"saved"`
	Stats           KeywordStats `json:"stats"`
}

// SaveReportRequest carries edited report text. Omitted fields fall back to the generated text.
type SaveReportRequest struct {
	Summary         *string `json:"summary" validate:"omitempty,max=20000"`
	Recommendations *string `json:"recommendations" validate:"omitempty,max=20000"`
}
