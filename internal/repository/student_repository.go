package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `s.id, s.first_name, s.last_name, s.date_of_birth, s.grade, s.school_id, s.primary_idea_category_id, s.secondary_idea_category_id,
        s.iep_date, s.case_manager, s.accommodations, s.is_active, s.created_at, s.updated_at`

// List returns students with school and IDEA category names, ordered by last then first name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentListItem, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	if !filter.IncludeInactive {
		conditions = append(conditions, "s.is_active = TRUE")
	}
	if filter.SchoolID != "" {
		args = append(args, filter.SchoolID)
		conditions = append(conditions, fmt.Sprintf("s.school_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s, sc.name AS school_name,
        pic.code AS primary_idea_category_code, pic.name AS primary_idea_category_name,
        sic.code AS secondary_idea_category_code, sic.name AS secondary_idea_category_name
        FROM students s
        JOIN schools sc ON sc.id = s.school_id
        LEFT JOIN idea_categories pic ON pic.id = s.primary_idea_category_id
        LEFT JOIN idea_categories sic ON sic.id = s.secondary_idea_category_id
        WHERE %s ORDER BY s.last_name ASC, s.first_name ASC`, studentColumns, strings.Join(conditions, " AND "))

	var students []models.StudentListItem
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// RecentObservations returns up to limit of the newest observations per student.
func (r *StudentRepository) RecentObservations(ctx context.Context, studentIDs []string, limit int) ([]models.ObservationStub, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT id, student_id, date, start_time, end_time, setting, status, created_at FROM (
            SELECT o.id, o.student_id, o.date, o.start_time, o.end_time, o.setting, o.status, o.created_at,
                ROW_NUMBER() OVER (PARTITION BY o.student_id ORDER BY o.date DESC, o.created_at DESC) AS rn
            FROM observations o WHERE o.student_id = ANY($1)
        ) ranked WHERE rn <= $2 ORDER BY student_id, date DESC, created_at DESC`
	var stubs []models.ObservationStub
	if err := r.db.SelectContext(ctx, &stubs, query, pq.Array(studentIDs), limit); err != nil {
		return nil, fmt.Errorf("list recent observations: %w", err)
	}
	return stubs, nil
}

// ObservationHistory returns every observation recorded for a student, newest first.
func (r *StudentRepository) ObservationHistory(ctx context.Context, studentID string) ([]models.ObservationStub, error) {
	const query = `SELECT id, student_id, date, start_time, end_time, setting, status, created_at
        FROM observations WHERE student_id = $1 ORDER BY date DESC, created_at DESC`
	var stubs []models.ObservationStub
	if err := r.db.SelectContext(ctx, &stubs, query, studentID); err != nil {
		return nil, fmt.Errorf("list observation history: %w", err)
	}
	return stubs, nil
}

// FindByID fetches a student regardless of active state.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s WHERE s.id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, first_name, last_name, date_of_birth, grade, school_id, primary_idea_category_id, secondary_idea_category_id,
            iep_date, case_manager, accommodations, is_active, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :date_of_birth, :grade, :school_id, :primary_idea_category_id, :secondary_idea_category_id,
            :iep_date, :case_manager, :accommodations, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update writes every mutable student column.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, last_name = :last_name, date_of_birth = :date_of_birth, grade = :grade,
        school_id = :school_id, primary_idea_category_id = :primary_idea_category_id, secondary_idea_category_id = :secondary_idea_category_id,
        iep_date = :iep_date, case_manager = :case_manager, accommodations = :accommodations, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Deactivate soft deletes a student. Observations stay untouched.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE students SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return nil
}
