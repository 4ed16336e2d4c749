package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

// UserRepository stores observer accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, title, district, license_number, created_at, updated_at`

// FindByEmail returns a user by email address. Emails are compared case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Summary loads the public observer fields shown on observations.
func (r *UserRepository) Summary(ctx context.Context, id string) (*models.ObserverSummary, error) {
	const query = `SELECT id, first_name, last_name, title, email FROM users WHERE id = $1`
	var summary models.ObserverSummary
	if err := r.db.GetContext(ctx, &summary, query, id); err != nil {
		return nil, fmt.Errorf("load observer summary: %w", err)
	}
	return &summary, nil
}

// Create inserts a new observer account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	const query = `INSERT INTO users (id, email, password_hash, first_name, last_name, title, district, license_number, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :first_name, :last_name, :title, :district, :license_number, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
