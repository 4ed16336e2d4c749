package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/idea-observation-api/internal/models"
	"github.com/noah-isme/idea-observation-api/pkg/database"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

type classroomRepository interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.ClassroomDetail, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	Create(ctx context.Context, classroom *models.Classroom) error
}

type teacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// CreateClassroomRequest holds payload for creating classrooms.
type CreateClassroomRequest struct {
	Name       string      `json:"name" validate:"required,max=100"`
	SchoolID   string      `json:"schoolId" validate:"required"`
	TeacherID  string      `json:"teacherId" validate:"required"`
	Subject    *string     `json:"subject" validate:"omitempty,max=100"`
	GradeLevel *string     `json:"gradeLevel" validate:"omitempty,max=50"`
	RoomNumber *string     `json:"roomNumber" validate:"omitempty,max=50"`
	Capacity   json.Number `json:"capacity" validate:"required"`
}

// ClassroomService handles classroom use-cases.
type ClassroomService struct {
	repo      classroomRepository
	schools   schoolLookup
	teachers  teacherLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService constructs the classroom service.
func NewClassroomService(repo classroomRepository, schools schoolLookup, teachers teacherLookup, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{repo: repo, schools: schools, teachers: teachers, validator: validate, logger: logger}
}

// List returns classrooms ordered by name.
func (s *ClassroomService) List(ctx context.Context, filter models.ClassroomFilter) ([]models.ClassroomDetail, error) {
	classrooms, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classrooms")
	}
	if classrooms == nil {
		classrooms = []models.ClassroomDetail{}
	}
	return classrooms, nil
}

// Create registers a classroom. The teacher must work at the classroom's school.
func (s *ClassroomService) Create(ctx context.Context, req CreateClassroomRequest) (*models.Classroom, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid classroom payload")
	}
	capacity, err := parseMinInt("capacity", req.Capacity, 1)
	if err != nil {
		return nil, err
	}
	if err := ensureSchool(ctx, s.schools, req.SchoolID); err != nil {
		return nil, err
	}
	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Internal(err, "failed to load teacher")
	}
	if teacher.SchoolID != req.SchoolID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher does not belong to this school")
	}

	classroom := &models.Classroom{
		Name:       req.Name,
		SchoolID:   req.SchoolID,
		TeacherID:  req.TeacherID,
		Subject:    trimmedOrNil(req.Subject),
		GradeLevel: trimmedOrNil(req.GradeLevel),
		RoomNumber: trimmedOrNil(req.RoomNumber),
		Capacity:   capacity,
	}
	if err := s.repo.Create(ctx, classroom); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school or teacher not found")
		}
		return nil, appErrors.Internal(err, "failed to create classroom")
	}
	return classroom, nil
}
