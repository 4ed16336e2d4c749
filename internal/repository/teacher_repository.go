package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

// TeacherRepository stores classroom teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = `id, first_name, last_name, email, school_id, department, grade_level, created_at, updated_at`

// List returns teachers ordered by last then first name.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers`
	var args []interface{}
	if filter.SchoolID != "" {
		query += ` WHERE school_id = $1`
		args = append(args, filter.SchoolID)
	}
	query += ` ORDER BY last_name ASC, first_name ASC`

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &teacher, nil
}

// Create inserts a teacher.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	const query = `INSERT INTO teachers (id, first_name, last_name, email, school_id, department, grade_level, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :email, :school_id, :department, :grade_level, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}
