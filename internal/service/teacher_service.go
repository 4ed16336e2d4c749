package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/idea-observation-api/internal/models"
	"github.com/noah-isme/idea-observation-api/pkg/database"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

type schoolLookup interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

// CreateTeacherRequest holds payload for creating teachers.
type CreateTeacherRequest struct {
	FirstName  string  `json:"firstName" validate:"required,max=100"`
	LastName   string  `json:"lastName" validate:"required,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	SchoolID   string  `json:"schoolId" validate:"required"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	GradeLevel *string `json:"gradeLevel" validate:"omitempty,max=50"`
}

// TeacherService handles teacher use-cases.
type TeacherService struct {
	repo      teacherRepository
	schools   schoolLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, schools schoolLookup, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, schools: schools, validator: validate, logger: logger}
}

// List returns teachers ordered by last then first name.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	teachers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list teachers")
	}
	if teachers == nil {
		teachers = []models.Teacher{}
	}
	return teachers, nil
}

// Create registers a teacher at an existing school.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid teacher payload")
	}
	if err := ensureSchool(ctx, s.schools, req.SchoolID); err != nil {
		return nil, err
	}
	teacher := &models.Teacher{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      trimmedOrNil(req.Email),
		SchoolID:   req.SchoolID,
		Department: trimmedOrNil(req.Department),
		GradeLevel: trimmedOrNil(req.GradeLevel),
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Internal(err, "failed to create teacher")
	}
	return teacher, nil
}

func ensureSchool(ctx context.Context, schools schoolLookup, id string) error {
	if _, err := schools.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return appErrors.Internal(err, "failed to load school")
	}
	return nil
}
