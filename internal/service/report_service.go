package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/idea-observation-api/internal/dto"
	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
	"github.com/noah-isme/idea-observation-api/pkg/export"
)

type observationLifecycle interface {
	Authorize(ctx context.Context, principalID, observationID string) error
	Get(ctx context.Context, principalID, observationID string) (*models.ObservationDetail, error)
	SaveReport(ctx context.Context, principalID, observationID, summary, recommendations string) (*models.Observation, error)
}

// ReportService drafts, saves and prints observation reports.
type ReportService struct {
	observations observationLifecycle
	assembler    ReportAssembler
	pdf          *export.PDFExporter
	validator    *validator.Validate
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewReportService wires the report workflow. A nil assembler selects KeywordAssembler.
func NewReportService(observations observationLifecycle, assembler ReportAssembler, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if assembler == nil {
		assembler = NewKeywordAssembler()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		observations: observations,
		assembler:    assembler,
		pdf:          export.NewPDFExporter(),
		validator:    validate,
		metrics:      metrics,
		logger:       logger,
	}
}

// Draft returns the saved report when one exists, otherwise a freshly assembled one.
func (s *ReportService) Draft(ctx context.Context, principalID, observationID string) (*dto.ReportDraft, error) {
	_, draft, err := s.load(ctx, principalID, observationID)
	return draft, err
}

// Authorize checks that the principal owns the observation behind a report.
func (s *ReportService) Authorize(ctx context.Context, principalID, observationID string) error {
	return s.observations.Authorize(ctx, principalID, observationID)
}

// Save persists the report. Supplied text replaces the current text, which is the
// saved report when one exists and the generated one otherwise.
func (s *ReportService) Save(ctx context.Context, principalID, observationID string, req dto.SaveReportRequest) (*dto.ReportDraft, error) {
	_, current, err := s.load(ctx, principalID, observationID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid report payload")
	}

	draft := *current
	if req.Summary != nil {
		summary := strings.TrimSpace(*req.Summary)
		if strings.Contains(summary, recommendationsLabel) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "summary cannot contain a RECOMMENDATIONS: section")
		}
		draft.Summary = summary
	}
	if req.Recommendations != nil {
		draft.Recommendations = strings.TrimSpace(*req.Recommendations)
	}

	obs, err := s.observations.SaveReport(ctx, principalID, observationID, draft.Summary, draft.Recommendations)
	if err != nil {
		return nil, err
	}
	draft.Status = obs.Status
	draft.Saved = true
	return &draft, nil
}

// RenderPDF prints the current report together with the observation details and entries.
func (s *ReportService) RenderPDF(ctx context.Context, principalID, observationID string) ([]byte, string, error) {
	detail, draft, err := s.load(ctx, principalID, observationID)
	if err != nil {
		return nil, "", err
	}

	body, err := s.pdf.Render(reportDocument(detail, draft))
	if err != nil {
		return nil, "", appErrors.Internal(err, "failed to render report")
	}
	s.metrics.RecordReportRendered("pdf")
	s.logger.Debug("report rendered", zap.String("observation_id", observationID), zap.Int("bytes", len(body)))
	return body, fmt.Sprintf("observation-%s-report.pdf", observationID), nil
}

func (s *ReportService) load(ctx context.Context, principalID, observationID string) (*models.ObservationDetail, *dto.ReportDraft, error) {
	detail, err := s.observations.Get(ctx, principalID, observationID)
	if err != nil {
		return nil, nil, err
	}
	draft := s.assembler.Assemble(detail)
	if detail.Notes != nil {
		if summary, recommendations, ok := ParseReportNotes(*detail.Notes); ok {
			draft.Summary = summary
			draft.Recommendations = recommendations
			draft.Saved = true
		}
	}
	return detail, &draft, nil
}

func reportDocument(detail *models.ObservationDetail, draft *dto.ReportDraft) export.Document {
	endTime := "in progress"
	if detail.EndTime != nil {
		endTime = *detail.EndTime
	}
	fields := []export.Field{
		{Label: "Student", Value: fullName(detail.Student.FirstName, detail.Student.LastName)},
		{Label: "Grade", Value: detail.Student.Grade},
		{Label: "School", Value: detail.Student.School.Name},
	}
	if detail.Student.PrimaryIdeaCategory != nil {
		fields = append(fields, export.Field{Label: "Primary category", Value: detail.Student.PrimaryIdeaCategory.Name})
	}
	if detail.Student.SecondaryIdeaCategory != nil {
		fields = append(fields, export.Field{Label: "Secondary category", Value: detail.Student.SecondaryIdeaCategory.Name})
	}
	fields = append(fields,
		export.Field{Label: "Date", Value: detail.Date.Format("2006-01-02")},
		export.Field{Label: "Time", Value: detail.StartTime + " - " + endTime},
		export.Field{Label: "Setting", Value: detail.Setting},
		export.Field{Label: "Classroom", Value: detail.Classroom.Name},
		export.Field{Label: "Teacher", Value: fullName(detail.Teacher.FirstName, detail.Teacher.LastName)},
		export.Field{Label: "Observer", Value: fullName(detail.Observer.FirstName, detail.Observer.LastName)},
		export.Field{Label: "Students present", Value: strconv.Itoa(detail.TotalStudents)},
		export.Field{Label: "Adults present", Value: strconv.Itoa(detail.TotalTeachers)},
		export.Field{Label: "Purpose", Value: detail.Purpose},
	)

	entries := export.Dataset{Headers: []string{"Time", "Period", "Behavior", "Context", "Intervention"}}
	for _, e := range detail.Entries {
		entries.AddRow(e.Timestamp, e.TimeOfDay, e.Behavior, e.Context, deref(e.Intervention))
	}

	footer := "Draft report"
	if draft.Saved {
		footer = "Report status: " + draft.Status
	}
	return export.Document{
		Title:    "Classroom Observation Report",
		Subtitle: fullName(detail.Student.FirstName, detail.Student.LastName),
		Fields:   fields,
		Sections: []export.Section{
			{Heading: "Summary", Body: draft.Summary},
			{Heading: "Recommendations", Body: draft.Recommendations},
		},
		Table:  &entries,
		Footer: footer,
	}
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
