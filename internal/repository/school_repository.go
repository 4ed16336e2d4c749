package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

// SchoolRepository stores schools.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

const schoolColumns = `id, name, district, address, principal, phone, created_at, updated_at`

// List returns all schools ordered by name.
func (r *SchoolRepository) List(ctx context.Context) ([]models.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools ORDER BY name ASC`
	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, query); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// FindByID fetches a school.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE id = $1`
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		return nil, fmt.Errorf("find school: %w", err)
	}
	return &school, nil
}

// Create inserts a school.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	school.CreatedAt = now
	school.UpdatedAt = now
	const query = `INSERT INTO schools (id, name, district, address, principal, phone, created_at, updated_at)
        VALUES (:id, :name, :district, :address, :principal, :phone, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}
