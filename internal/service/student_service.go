package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/idea-observation-api/internal/models"
	"github.com/noah-isme/idea-observation-api/pkg/database"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

const recentObservationLimit = 5

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentListItem, error)
	RecentObservations(ctx context.Context, studentIDs []string, limit int) ([]models.ObservationStub, error)
	ObservationHistory(ctx context.Context, studentID string) ([]models.ObservationStub, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id string) error
}

type ideaCategoryLookup interface {
	FindIdeaCategoriesByIDs(ctx context.Context, ids []string) ([]models.IdeaCategory, error)
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	FirstName               string  `json:"firstName" validate:"required,max=100"`
	LastName                string  `json:"lastName" validate:"required,max=100"`
	DateOfBirth             string  `json:"dateOfBirth" validate:"required"`
	Grade                   string  `json:"grade" validate:"required,max=50"`
	SchoolID                string  `json:"schoolId" validate:"required"`
	PrimaryIdeaCategoryID   *string `json:"primaryIdeaCategoryId"`
	SecondaryIdeaCategoryID *string `json:"secondaryIdeaCategoryId"`
	IEPDate                 *string `json:"iepDate"`
	CaseManager             *string `json:"caseManager" validate:"omitempty,max=200"`
	Accommodations          *string `json:"accommodations" validate:"omitempty,max=5000"`
}

// UpdateStudentRequest lists every mutable student field. Nil leaves a field unchanged;
// an empty string clears an optional field. Activation is not editable; Delete is final.
type UpdateStudentRequest struct {
	FirstName               *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName                *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	DateOfBirth             *string `json:"dateOfBirth"`
	Grade                   *string `json:"grade" validate:"omitempty,min=1,max=50"`
	SchoolID                *string `json:"schoolId" validate:"omitempty,min=1"`
	PrimaryIdeaCategoryID   *string `json:"primaryIdeaCategoryId"`
	SecondaryIdeaCategoryID *string `json:"secondaryIdeaCategoryId"`
	IEPDate                 *string `json:"iepDate"`
	CaseManager             *string `json:"caseManager" validate:"omitempty,max=200"`
	Accommodations          *string `json:"accommodations" validate:"omitempty,max=5000"`
}

// StudentService handles student use-cases. Students are shared across observers.
type StudentService struct {
	repo       studentRepository
	schools    schoolLookup
	categories ideaCategoryLookup
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, schools schoolLookup, categories ideaCategoryLookup, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, schools: schools, categories: categories, validator: validate, logger: logger}
}

// List returns students with their latest observations attached.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentListItem, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list students")
	}
	if len(students) == 0 {
		return []models.StudentListItem{}, nil
	}

	ids := make([]string, len(students))
	for i := range students {
		ids[i] = students[i].ID
	}
	stubs, err := s.repo.RecentObservations(ctx, ids, recentObservationLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load recent observations")
	}
	byStudent := make(map[string][]models.ObservationStub, len(students))
	for _, stub := range stubs {
		byStudent[stub.StudentID] = append(byStudent[stub.StudentID], stub)
	}
	for i := range students {
		students[i].RecentObservations = byStudent[students[i].ID]
		if students[i].RecentObservations == nil {
			students[i].RecentObservations = []models.ObservationStub{}
		}
	}
	return students, nil
}

// Get returns a student with school, IDEA categories and observation history.
// Inactive students remain readable by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, student)
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.StudentDetail, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Grade = strings.TrimSpace(req.Grade)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	dob, err := parseDate("dateOfBirth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	iepDate, err := parseOptionalDate("iepDate", req.IEPDate)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		DateOfBirth:             dob,
		Grade:                   req.Grade,
		SchoolID:                req.SchoolID,
		PrimaryIdeaCategoryID:   trimmedOrNil(req.PrimaryIdeaCategoryID),
		SecondaryIdeaCategoryID: trimmedOrNil(req.SecondaryIdeaCategoryID),
		IEPDate:                 iepDate,
		CaseManager:             trimmedOrNil(req.CaseManager),
		Accommodations:          trimmedOrNil(req.Accommodations),
		IsActive:                true,
	}
	if err := s.checkReferences(ctx, student); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "referenced school or IDEA category not found")
		}
		return nil, appErrors.Internal(err, "failed to create student")
	}
	return s.detail(ctx, student)
}

// Update applies the supplied fields to a student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.StudentDetail, error) {
	student, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}

	if req.FirstName != nil {
		student.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		student.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Grade != nil {
		student.Grade = strings.TrimSpace(*req.Grade)
	}
	if req.SchoolID != nil {
		student.SchoolID = *req.SchoolID
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate("dateOfBirth", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		student.DateOfBirth = dob
	}
	if req.IEPDate != nil {
		iepDate, err := parseOptionalDate("iepDate", req.IEPDate)
		if err != nil {
			return nil, err
		}
		student.IEPDate = iepDate
	}
	if req.PrimaryIdeaCategoryID != nil {
		student.PrimaryIdeaCategoryID = trimmedOrNil(req.PrimaryIdeaCategoryID)
	}
	if req.SecondaryIdeaCategoryID != nil {
		student.SecondaryIdeaCategoryID = trimmedOrNil(req.SecondaryIdeaCategoryID)
	}
	if req.CaseManager != nil {
		student.CaseManager = trimmedOrNil(req.CaseManager)
	}
	if req.Accommodations != nil {
		student.Accommodations = trimmedOrNil(req.Accommodations)
	}
	if student.FirstName == "" || student.LastName == "" || student.Grade == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "firstName, lastName and grade cannot be blank")
	}

	if err := s.checkReferences(ctx, student); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, student); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "referenced school or IDEA category not found")
		}
		return nil, appErrors.Internal(err, "failed to update student")
	}
	return s.detail(ctx, student)
}

// Delete soft deletes a student. Their observations stay readable.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Internal(err, "failed to deactivate student")
	}
	s.logger.Info("student deactivated", zap.String("student_id", id))
	return nil
}

func (s *StudentService) find(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	return student, nil
}

func (s *StudentService) checkReferences(ctx context.Context, student *models.Student) error {
	primary, secondary := student.PrimaryIdeaCategoryID, student.SecondaryIdeaCategoryID
	if primary != nil && secondary != nil && *primary == *secondary {
		return appErrors.Clone(appErrors.ErrValidation, "secondary IDEA category must differ from the primary category")
	}
	if err := ensureSchool(ctx, s.schools, student.SchoolID); err != nil {
		return err
	}
	ids := categoryIDs(student)
	if len(ids) == 0 {
		return nil
	}
	found, err := s.categories.FindIdeaCategoriesByIDs(ctx, ids)
	if err != nil {
		return appErrors.Internal(err, "failed to load IDEA categories")
	}
	if len(found) != len(ids) {
		return appErrors.Clone(appErrors.ErrNotFound, "IDEA category not found")
	}
	return nil
}

// detail resolves the school, categories and history concurrently.
func (s *StudentService) detail(ctx context.Context, student *models.Student) (*models.StudentDetail, error) {
	detail := &models.StudentDetail{Student: *student}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		school, err := s.schools.FindByID(gctx, student.SchoolID)
		if err != nil {
			return err
		}
		detail.School = *school
		return nil
	})
	if ids := categoryIDs(student); len(ids) > 0 {
		g.Go(func() error {
			categories, err := s.categories.FindIdeaCategoriesByIDs(gctx, ids)
			if err != nil {
				return err
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
			return nil
		})
	}
	g.Go(func() error {
		history, err := s.repo.ObservationHistory(gctx, student.ID)
		if err != nil {
			return err
		}
		if history == nil {
			history = []models.ObservationStub{}
		}
		detail.Observations = history
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, appErrors.Internal(err, "failed to load student details")
	}
	return detail, nil
}

func categoryIDs(student *models.Student) []string {
	var ids []string
	if student.PrimaryIdeaCategoryID != nil {
		ids = append(ids, *student.PrimaryIdeaCategoryID)
	}
	if student.SecondaryIdeaCategoryID != nil && (student.PrimaryIdeaCategoryID == nil || *student.SecondaryIdeaCategoryID != *student.PrimaryIdeaCategoryID) {
		ids = append(ids, *student.SecondaryIdeaCategoryID)
	}
	return ids
}
