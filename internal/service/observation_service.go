package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/idea-observation-api/internal/dto"
	"github.com/noah-isme/idea-observation-api/internal/models"
	"github.com/noah-isme/idea-observation-api/pkg/database"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
	"github.com/noah-isme/idea-observation-api/pkg/export"
)

type observationRepository interface {
	Create(ctx context.Context, obs *models.Observation) error
	FindByID(ctx context.Context, id string) (*models.Observation, error)
	List(ctx context.Context, filter models.ObservationFilter) ([]models.ObservationListItem, error)
	Update(ctx context.Context, obs *models.Observation) error
	Delete(ctx context.Context, id string) error
}

type observationEntryRepository interface {
	Create(ctx context.Context, entry *models.ObservationEntry) error
	ListByObservation(ctx context.Context, observationID string) ([]models.ObservationEntry, error)
	ListByObservations(ctx context.Context, observationIDs []string) (map[string][]models.ObservationEntry, error)
}

type studentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type classroomLookup interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type observerLookup interface {
	Summary(ctx context.Context, id string) (*models.ObserverSummary, error)
}

// ObservationStores groups the storage dependencies of the observation lifecycle.
type ObservationStores struct {
	Observations observationRepository
	Entries      observationEntryRepository
	Students     studentLookup
	Classrooms   classroomLookup
	Teachers     teacherLookup
	Observers    observerLookup
	Schools      schoolLookup
	Categories   ideaCategoryLookup
}

// ObservationService drives the draft, completed and reviewed lifecycle of observations.
// Every operation checks authentication, existence, ownership, input and state in that order.
type ObservationService struct {
	stores    ObservationStores
	csv       *export.CSVExporter
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewObservationService constructs the lifecycle controller.
func NewObservationService(stores ObservationStores, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ObservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObservationService{stores: stores, csv: export.NewCSVExporter(), validator: validate, metrics: metrics, logger: logger}
}

// Create opens a draft observation owned by the principal.
func (s *ObservationService) Create(ctx context.Context, principalID string, req dto.CreateObservationRequest) (*models.Observation, error) {
	if err := requirePrincipal(principalID); err != nil {
		return nil, err
	}
	req.Setting = strings.TrimSpace(req.Setting)
	req.Purpose = strings.TrimSpace(req.Purpose)
	req.StartTime = strings.TrimSpace(req.StartTime)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid observation payload")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	totalStudents, err := parseMinInt("totalStudents", req.TotalStudents, 1)
	if err != nil {
		return nil, err
	}
	totalTeachers, err := parseMinInt("totalTeachers", req.TotalTeachers, 1)
	if err != nil {
		return nil, err
	}
	if err := s.checkSubjects(ctx, req.StudentID, req.ClassroomID, req.TeacherID); err != nil {
		return nil, err
	}

	obs := &models.Observation{
		StudentID:     req.StudentID,
		ClassroomID:   req.ClassroomID,
		TeacherID:     req.TeacherID,
		ObserverID:    principalID,
		Date:          date,
		StartTime:     req.StartTime,
		EndTime:       trimmedOrNil(req.EndTime),
		Setting:       req.Setting,
		TotalStudents: totalStudents,
		TotalTeachers: totalTeachers,
		Purpose:       req.Purpose,
		Notes:         trimmedOrNil(req.Notes),
		Status:        models.ObservationStatusDraft,
	}
	if err := s.stores.Observations.Create(ctx, obs); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "referenced student, classroom or teacher not found")
		}
		return nil, appErrors.Internal(err, "failed to create observation")
	}
	s.metrics.RecordTransition("new", models.ObservationStatusDraft)
	s.logger.Info("observation created", zap.String("observation_id", obs.ID), zap.String("observer_id", principalID))
	return obs, nil
}

// AppendEntry records a behavior entry on a draft observation.
func (s *ObservationService) AppendEntry(ctx context.Context, principalID, observationID string, req dto.CreateEntryRequest) (*models.ObservationEntry, error) {
	obs, err := s.loadOwned(ctx, principalID, observationID)
	if err != nil {
		return nil, err
	}
	req.Timestamp = strings.TrimSpace(req.Timestamp)
	req.TimeOfDay = strings.TrimSpace(req.TimeOfDay)
	req.Behavior = strings.TrimSpace(req.Behavior)
	req.Context = strings.TrimSpace(req.Context)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "behavior, context, timestamp and timeOfDay are required")
	}
	duration, err := parseOptionalMinInt("duration", req.Duration, 1)
	if err != nil {
		return nil, err
	}
	frequency, err := parseOptionalMinInt("frequency", req.Frequency, 1)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(obs, models.ObservationStatusDraft, "record entries"); err != nil {
		return nil, err
	}

	entry := &models.ObservationEntry{
		ObservationID: obs.ID,
		Timestamp:     req.Timestamp,
		TimeOfDay:     req.TimeOfDay,
		Behavior:      req.Behavior,
		Context:       req.Context,
		Antecedent:    trimmedOrNil(req.Antecedent),
		Consequence:   trimmedOrNil(req.Consequence),
		Setting:       trimmedOrNil(req.Setting),
		Peers:         trimmedOrNil(req.Peers),
		Duration:      duration,
		Intensity:     trimmedOrNil(req.Intensity),
		Frequency:     frequency,
		Intervention:  trimmedOrNil(req.Intervention),
		Notes:         trimmedOrNil(req.Notes),
		Tags:          normalizeTags(req.Tags),
	}
	if err := s.stores.Entries.Create(ctx, entry); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "observation not found")
		}
		return nil, appErrors.Internal(err, "failed to record entry")
	}
	s.metrics.RecordEntryAppended()
	return entry, nil
}

// Stop ends the recording session. Stopping again overwrites the end time.
func (s *ObservationService) Stop(ctx context.Context, principalID, observationID string, req dto.StopObservationRequest) (*models.Observation, error) {
	obs, err := s.loadOwned(ctx, principalID, observationID)
	if err != nil {
		return nil, err
	}
	req.EndTime = strings.TrimSpace(req.EndTime)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "endTime is required")
	}
	if err := checkTransition(obs.Status, models.ObservationStatusCompleted); err != nil {
		return nil, err
	}
	from := obs.Status
	obs.EndTime = &req.EndTime
	obs.Status = models.ObservationStatusCompleted
	if err := s.stores.Observations.Update(ctx, obs); err != nil {
		return nil, appErrors.Internal(err, "failed to stop observation")
	}
	s.metrics.RecordTransition(from, obs.Status)
	return obs, nil
}

// SaveReport persists report text onto the observation notes and marks it reviewed.
func (s *ObservationService) SaveReport(ctx context.Context, principalID, observationID, summary, recommendations string) (*models.Observation, error) {
	obs, err := s.loadOwned(ctx, principalID, observationID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(obs.Status, models.ObservationStatusReviewed); err != nil {
		return nil, err
	}
	from := obs.Status
	notes := FormatReportNotes(summary, recommendations)
	obs.Notes = &notes
	obs.Status = models.ObservationStatusReviewed
	if err := s.stores.Observations.Update(ctx, obs); err != nil {
		return nil, appErrors.Internal(err, "failed to save report")
	}
	s.metrics.RecordTransition(from, obs.Status)
	s.logger.Info("observation report saved", zap.String("observation_id", obs.ID))
	return obs, nil
}

// Update applies a partial edit. Status changes follow the same table as Stop and SaveReport.
func (s *ObservationService) Update(ctx context.Context, principalID, observationID string, req dto.UpdateObservationRequest) (*models.Observation, error) {
	obs, err := s.loadOwned(ctx, principalID, observationID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid observation payload")
	}

	updated := *obs
	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			return nil, err
		}
		updated.Date = date
	}
	if req.StartTime != nil {
		updated.StartTime = strings.TrimSpace(*req.StartTime)
	}
	if req.EndTime != nil {
		updated.EndTime = trimmedOrNil(req.EndTime)
	}
	if req.Setting != nil {
		updated.Setting = strings.TrimSpace(*req.Setting)
	}
	if req.Purpose != nil {
		updated.Purpose = strings.TrimSpace(*req.Purpose)
	}
	if req.Notes != nil {
		updated.Notes = trimmedOrNil(req.Notes)
	}
	if req.TotalStudents != nil {
		if updated.TotalStudents, err = parseMinInt("totalStudents", *req.TotalStudents, 1); err != nil {
			return nil, err
		}
	}
	if req.TotalTeachers != nil {
		if updated.TotalTeachers, err = parseMinInt("totalTeachers", *req.TotalTeachers, 1); err != nil {
			return nil, err
		}
	}
	if updated.StartTime == "" || updated.Setting == "" || updated.Purpose == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime, setting and purpose cannot be blank")
	}

	if req.Status != nil && *req.Status != obs.Status {
		if err := checkTransition(obs.Status, *req.Status); err != nil {
			return nil, err
		}
		updated.Status = *req.Status
	}
	if updated.Status != models.ObservationStatusDraft && updated.EndTime == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endTime is required once an observation is completed")
	}

	if err := s.stores.Observations.Update(ctx, &updated); err != nil {
		return nil, appErrors.Internal(err, "failed to update observation")
	}
	if updated.Status != obs.Status {
		s.metrics.RecordTransition(obs.Status, updated.Status)
	}
	return &updated, nil
}

// Get returns the full observation graph. Related rows load concurrently.
func (s *ObservationService) Get(ctx context.Context, principalID, observationID string) (*models.ObservationDetail, error) {
	obs, err := s.loadOwned(ctx, principalID, observationID)
	if err != nil {
		return nil, err
	}

	detail := &models.ObservationDetail{Observation: *obs}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		student, err := s.loadStudentDetail(gctx, obs.StudentID)
		if err != nil {
			return err
		}
		detail.Student = *student
		return nil
	})
	g.Go(func() error {
		classroom, err := s.stores.Classrooms.FindByID(gctx, obs.ClassroomID)
		if err != nil {
			return fmt.Errorf("load classroom: %w", err)
		}
		detail.Classroom = *classroom
		return nil
	})
	g.Go(func() error {
		teacher, err := s.stores.Teachers.FindByID(gctx, obs.TeacherID)
		if err != nil {
			return fmt.Errorf("load teacher: %w", err)
		}
		detail.Teacher = *teacher
		return nil
	})
	g.Go(func() error {
		observer, err := s.stores.Observers.Summary(gctx, obs.ObserverID)
		if err != nil {
			return fmt.Errorf("load observer: %w", err)
		}
		detail.Observer = *observer
		return nil
	})
	g.Go(func() error {
		entries, err := s.stores.Entries.ListByObservation(gctx, obs.ID)
		if err != nil {
			return err
		}
		detail.Entries = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Internal(err, "failed to load observation")
	}
	if detail.Entries == nil {
		detail.Entries = []models.ObservationEntry{}
	}
	return detail, nil
}

// List returns the principal's observations, newest first, each with its entries.
func (s *ObservationService) List(ctx context.Context, principalID string, filter models.ObservationFilter) ([]models.ObservationListItem, error) {
	if err := requirePrincipal(principalID); err != nil {
		return nil, err
	}
	filter.ObserverID = principalID
	items, err := s.stores.Observations.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list observations")
	}
	if len(items) == 0 {
		return []models.ObservationListItem{}, nil
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	grouped, err := s.stores.Entries.ListByObservations(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load observation entries")
	}
	for i := range items {
		items[i].Entries = grouped[items[i].ID]
		if items[i].Entries == nil {
			items[i].Entries = []models.ObservationEntry{}
		}
	}
	return items, nil
}

// ListEntries returns an observation's entries in display order.
func (s *ObservationService) ListEntries(ctx context.Context, principalID, observationID string) ([]models.ObservationEntry, error) {
	obs, err := s.loadOwned(ctx, principalID, observationID)
	if err != nil {
		return nil, err
	}
	entries, err := s.stores.Entries.ListByObservation(ctx, obs.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list entries")
	}
	if entries == nil {
		entries = []models.ObservationEntry{}
	}
	return entries, nil
}

// ExportEntriesCSV renders the entries of an observation as CSV.
func (s *ObservationService) ExportEntriesCSV(ctx context.Context, principalID, observationID string) ([]byte, string, error) {
	entries, err := s.ListEntries(ctx, principalID, observationID)
	if err != nil {
		return nil, "", err
	}
	body, err := s.csv.Render(EntriesDataset(entries))
	if err != nil {
		return nil, "", appErrors.Internal(err, "failed to export entries")
	}
	s.metrics.RecordReportRendered("csv")
	return body, fmt.Sprintf("observation-%s-entries.csv", observationID), nil
}

// Delete removes an observation and its entries.
func (s *ObservationService) Delete(ctx context.Context, principalID, observationID string) error {
	obs, err := s.loadOwned(ctx, principalID, observationID)
	if err != nil {
		return err
	}
	if err := s.stores.Observations.Delete(ctx, obs.ID); err != nil {
		return appErrors.Internal(err, "failed to delete observation")
	}
	s.logger.Info("observation deleted", zap.String("observation_id", obs.ID), zap.String("observer_id", principalID))
	return nil
}

// Authorize runs the principal, existence and ownership checks on their own so a
// request can be refused before its body is decoded.
func (s *ObservationService) Authorize(ctx context.Context, principalID, observationID string) error {
	_, err := s.loadOwned(ctx, principalID, observationID)
	return err
}

func (s *ObservationService) loadOwned(ctx context.Context, principalID, observationID string) (*models.Observation, error) {
	if err := requirePrincipal(principalID); err != nil {
		return nil, err
	}
	obs, err := s.stores.Observations.FindByID(ctx, observationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "observation not found")
		}
		return nil, appErrors.Internal(err, "failed to load observation")
	}
	if obs.ObserverID != principalID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "observation belongs to another observer")
	}
	return obs, nil
}

func (s *ObservationService) checkSubjects(ctx context.Context, studentID, classroomID, teacherID string) error {
	if _, err := s.stores.Students.FindByID(ctx, studentID); err != nil {
		return lookupError(err, "student")
	}
	if _, err := s.stores.Classrooms.FindByID(ctx, classroomID); err != nil {
		return lookupError(err, "classroom")
	}
	if _, err := s.stores.Teachers.FindByID(ctx, teacherID); err != nil {
		return lookupError(err, "teacher")
	}
	return nil
}

func (s *ObservationService) loadStudentDetail(ctx context.Context, studentID string) (*models.StudentDetail, error) {
	student, err := s.stores.Students.FindByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	detail := &models.StudentDetail{Student: *student, Observations: []models.ObservationStub{}}
	school, err := s.stores.Schools.FindByID(ctx, student.SchoolID)
	if err != nil {
		return nil, fmt.Errorf("load school: %w", err)
	}
	detail.School = *school
	if ids := categoryIDs(student); len(ids) > 0 {
		categories, err := s.stores.Categories.FindIdeaCategoriesByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range categories {
			category := categories[i]
			if student.PrimaryIdeaCategoryID != nil && category.ID == *student.PrimaryIdeaCategoryID {
				detail.PrimaryIdeaCategory = &category
			}
			if student.SecondaryIdeaCategoryID != nil && category.ID == *student.SecondaryIdeaCategoryID {
				detail.SecondaryIdeaCategory = &category
			}
		}
	}
	return detail, nil
}

// EntriesDataset flattens entries into export rows.
func EntriesDataset(entries []models.ObservationEntry) export.Dataset {
	data := export.Dataset{Headers: []string{
		"Timestamp", "Time of Day", "Behavior", "Context", "Antecedent", "Consequence", "Setting", "Peers",
		"Duration", "Intensity", "Frequency", "Intervention", "Notes", "Tags",
	}}
	for _, e := range entries {
		data.AddRow(
			e.Timestamp, e.TimeOfDay, e.Behavior, e.Context,
			deref(e.Antecedent), deref(e.Consequence), deref(e.Setting), deref(e.Peers),
			intString(e.Duration), deref(e.Intensity), intString(e.Frequency),
			deref(e.Intervention), deref(e.Notes), strings.Join(e.Tags, "; "),
		)
	}
	return data
}

func requirePrincipal(principalID string) error {
	if strings.TrimSpace(principalID) == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	return nil
}

func lookupError(err error, noun string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, noun+" not found")
	}
	return appErrors.Internal(err, "failed to load "+noun)
}

func normalizeTags(tags []string) models.TagSet {
	out := models.TagSet{}
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func intString(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
