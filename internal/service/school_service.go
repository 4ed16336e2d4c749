package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

type schoolRepository interface {
	List(ctx context.Context) ([]models.School, error)
	FindByID(ctx context.Context, id string) (*models.School, error)
	Create(ctx context.Context, school *models.School) error
}

// CreateSchoolRequest holds payload for creating schools.
type CreateSchoolRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	District  string  `json:"district" validate:"required,max=200"`
	Address   string  `json:"address" validate:"required,max=500"`
	Principal string  `json:"principal" validate:"required,max=200"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
}

// SchoolService handles school use-cases.
type SchoolService struct {
	repo      schoolRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService constructs the school service.
func NewSchoolService(repo schoolRepository, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{repo: repo, validator: validate, logger: logger}
}

// List returns every school by name.
func (s *SchoolService) List(ctx context.Context) ([]models.School, error) {
	schools, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list schools")
	}
	if schools == nil {
		schools = []models.School{}
	}
	return schools, nil
}

// Create registers a school.
func (s *SchoolService) Create(ctx context.Context, req CreateSchoolRequest) (*models.School, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid school payload")
	}
	school := &models.School{
		Name:      req.Name,
		District:  strings.TrimSpace(req.District),
		Address:   strings.TrimSpace(req.Address),
		Principal: strings.TrimSpace(req.Principal),
		Phone:     trimmedOrNil(req.Phone),
	}
	if err := s.repo.Create(ctx, school); err != nil {
		return nil, appErrors.Internal(err, "failed to create school")
	}
	return school, nil
}
