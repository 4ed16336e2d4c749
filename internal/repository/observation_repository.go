package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

// ObservationRepository stores observation sessions.
type ObservationRepository struct {
	db *sqlx.DB
}

// NewObservationRepository constructs an ObservationRepository.
func NewObservationRepository(db *sqlx.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

const observationColumns = `o.id, o.student_id, o.classroom_id, o.teacher_id, o.observer_id, o.date, o.start_time, o.end_time, o.setting,
        o.total_students, o.total_teachers, o.purpose, o.notes, o.status, o.created_at, o.updated_at`

// Create inserts a new observation.
func (r *ObservationRepository) Create(ctx context.Context, obs *models.Observation) error {
	if obs.ID == "" {
		obs.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	obs.CreatedAt = now
	obs.UpdatedAt = now
	const query = `INSERT INTO observations (id, student_id, classroom_id, teacher_id, observer_id, date, start_time, end_time, setting,
            total_students, total_teachers, purpose, notes, status, created_at, updated_at)
        VALUES (:id, :student_id, :classroom_id, :teacher_id, :observer_id, :date, :start_time, :end_time, :setting,
            :total_students, :total_teachers, :purpose, :notes, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, obs); err != nil {
		return fmt.Errorf("create observation: %w", err)
	}
	return nil
}

// FindByID fetches an observation without its related rows.
func (r *ObservationRepository) FindByID(ctx context.Context, id string) (*models.Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM observations o WHERE o.id = $1`
	var obs models.Observation
	if err := r.db.GetContext(ctx, &obs, query, id); err != nil {
		return nil, fmt.Errorf("find observation: %w", err)
	}
	return &obs, nil
}

// List returns an observer's observations, newest date first, with display names joined.
func (r *ObservationRepository) List(ctx context.Context, filter models.ObservationFilter) ([]models.ObservationListItem, error) {
	args := []interface{}{filter.ObserverID}
	query := `SELECT ` + observationColumns + `,
        s.first_name AS student_first_name, s.last_name AS student_last_name, c.name AS classroom_name,
        t.first_name AS teacher_first_name, t.last_name AS teacher_last_name
        FROM observations o
        JOIN students s ON s.id = o.student_id
        JOIN classrooms c ON c.id = o.classroom_id
        JOIN teachers t ON t.id = o.teacher_id
        WHERE o.observer_id = $1`
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		query += fmt.Sprintf(" AND o.student_id = $%d", len(args))
	}
	query += " ORDER BY o.date DESC, o.created_at DESC"

	var items []models.ObservationListItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	return items, nil
}

// Update writes every mutable column in one statement. observer_id is never rewritten.
func (r *ObservationRepository) Update(ctx context.Context, obs *models.Observation) error {
	obs.UpdatedAt = time.Now().UTC()
	const query = `UPDATE observations SET date = :date, start_time = :start_time, end_time = :end_time, setting = :setting,
        total_students = :total_students, total_teachers = :total_teachers, purpose = :purpose, notes = :notes, status = :status,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, obs); err != nil {
		return fmt.Errorf("update observation: %w", err)
	}
	return nil
}

// Delete removes an observation. Entries go with it through ON DELETE CASCADE.
func (r *ObservationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM observations WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete observation: %w", err)
	}
	return nil
}
