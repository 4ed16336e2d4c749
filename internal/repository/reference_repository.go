package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

// ReferenceRepository reads and seeds the IDEA and behavior category tables.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository constructs a ReferenceRepository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ListIdeaCategories returns every IDEA category ordered by name.
func (r *ReferenceRepository) ListIdeaCategories(ctx context.Context) ([]models.IdeaCategory, error) {
	const query = `SELECT id, code, name, description FROM idea_categories ORDER BY name ASC`
	var categories []models.IdeaCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list idea categories: %w", err)
	}
	return categories, nil
}

// FindIdeaCategoriesByIDs loads the requested IDEA categories. Unknown ids are skipped.
func (r *ReferenceRepository) FindIdeaCategoriesByIDs(ctx context.Context, ids []string) ([]models.IdeaCategory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, code, name, description FROM idea_categories WHERE id = ANY($1)`
	var categories []models.IdeaCategory
	if err := r.db.SelectContext(ctx, &categories, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find idea categories: %w", err)
	}
	return categories, nil
}

// ListBehaviorCategories returns every behavior category ordered by name.
func (r *ReferenceRepository) ListBehaviorCategories(ctx context.Context) ([]models.BehaviorCategory, error) {
	const query = `SELECT id, name, domain, is_positive, color FROM behavior_categories ORDER BY name ASC`
	var categories []models.BehaviorCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list behavior categories: %w", err)
	}
	return categories, nil
}

// UpsertIdeaCategory inserts or refreshes a category keyed by code.
func (r *ReferenceRepository) UpsertIdeaCategory(ctx context.Context, category *models.IdeaCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	const query = `INSERT INTO idea_categories (id, code, name, description) VALUES (:id, :code, :name, :description)
        ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("upsert idea category %s: %w", category.Code, err)
	}
	return nil
}

// UpsertBehaviorCategory inserts or refreshes a category keyed by name.
func (r *ReferenceRepository) UpsertBehaviorCategory(ctx context.Context, category *models.BehaviorCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	const query = `INSERT INTO behavior_categories (id, name, domain, is_positive, color) VALUES (:id, :name, :domain, :is_positive, :color)
        ON CONFLICT (name) DO UPDATE SET domain = EXCLUDED.domain, is_positive = EXCLUDED.is_positive, color = EXCLUDED.color`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("upsert behavior category %s: %w", category.Name, err)
	}
	return nil
}
