package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

// ClassroomRepository stores classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs a ClassroomRepository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns classrooms with school and teacher names, ordered by name.
func (r *ClassroomRepository) List(ctx context.Context, filter models.ClassroomFilter) ([]models.ClassroomDetail, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.SchoolID != "" {
		args = append(args, filter.SchoolID)
		conditions = append(conditions, fmt.Sprintf("c.school_id = $%d", len(args)))
	}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("c.teacher_id = $%d", len(args)))
	}

	query := `SELECT c.id, c.name, c.school_id, c.teacher_id, c.subject, c.grade_level, c.room_number, c.capacity, c.created_at, c.updated_at,
        s.name AS school_name, t.first_name AS teacher_first_name, t.last_name AS teacher_last_name
        FROM classrooms c
        JOIN schools s ON s.id = c.school_id
        JOIN teachers t ON t.id = c.teacher_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.name ASC"

	var classrooms []models.ClassroomDetail
	if err := r.db.SelectContext(ctx, &classrooms, query, args...); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}

// FindByID fetches a classroom.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	const query = `SELECT id, name, school_id, teacher_id, subject, grade_level, room_number, capacity, created_at, updated_at FROM classrooms WHERE id = $1`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, fmt.Errorf("find classroom: %w", err)
	}
	return &classroom, nil
}

// Create inserts a classroom.
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if classroom.ID == "" {
		classroom.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	classroom.CreatedAt = now
	classroom.UpdatedAt = now
	const query = `INSERT INTO classrooms (id, name, school_id, teacher_id, subject, grade_level, room_number, capacity, created_at, updated_at)
        VALUES (:id, :name, :school_id, :teacher_id, :subject, :grade_level, :room_number, :capacity, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}
