package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/idea-observation-api/internal/catalog"
	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

const (
	ideaCategoriesCacheKey     = "idea-categories"
	behaviorCategoriesCacheKey = "behavior-categories"
)

type referenceRepository interface {
	ListIdeaCategories(ctx context.Context) ([]models.IdeaCategory, error)
	ListBehaviorCategories(ctx context.Context) ([]models.BehaviorCategory, error)
	UpsertIdeaCategory(ctx context.Context, category *models.IdeaCategory) error
	UpsertBehaviorCategory(ctx context.Context, category *models.BehaviorCategory) error
}

// SyncResult reports how many catalog rows were written.
type SyncResult struct {
	IdeaCategories     int `json:"ideaCategories"`
	BehaviorCategories int `json:"behaviorCategories"`
}

// ReferenceService serves the read-only category lists through the cache.
type ReferenceService struct {
	repo   referenceRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewReferenceService constructs the reference data service.
func NewReferenceService(repo referenceRepository, cache *CacheService, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{repo: repo, cache: cache, logger: logger}
}

// IdeaCategories returns every IDEA category and whether it came from cache.
func (s *ReferenceService) IdeaCategories(ctx context.Context) ([]models.IdeaCategory, bool, error) {
	var categories []models.IdeaCategory
	if s.cache.Get(ctx, ideaCategoriesCacheKey, &categories) {
		return categories, true, nil
	}
	categories, err := s.repo.ListIdeaCategories(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to list IDEA categories")
	}
	if categories == nil {
		categories = []models.IdeaCategory{}
	}
	s.cache.Set(ctx, ideaCategoriesCacheKey, categories, 0)
	return categories, false, nil
}

// BehaviorCategories returns every behavior category and whether it came from cache.
func (s *ReferenceService) BehaviorCategories(ctx context.Context) ([]models.BehaviorCategory, bool, error) {
	var categories []models.BehaviorCategory
	if s.cache.Get(ctx, behaviorCategoriesCacheKey, &categories) {
		return categories, true, nil
	}
	categories, err := s.repo.ListBehaviorCategories(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to list behavior categories")
	}
	if categories == nil {
		categories = []models.BehaviorCategory{}
	}
	s.cache.Set(ctx, behaviorCategoriesCacheKey, categories, 0)
	return categories, false, nil
}

// Sync upserts the catalog and drops the cached lists.
func (s *ReferenceService) Sync(ctx context.Context, c *catalog.Catalog) (*SyncResult, error) {
	result := &SyncResult{}
	for i := range c.IdeaCategories {
		if err := s.repo.UpsertIdeaCategory(ctx, &c.IdeaCategories[i]); err != nil {
			return result, appErrors.Internal(err, "failed to sync IDEA categories")
		}
		result.IdeaCategories++
	}
	for i := range c.BehaviorCategories {
		if err := s.repo.UpsertBehaviorCategory(ctx, &c.BehaviorCategories[i]); err != nil {
			return result, appErrors.Internal(err, "failed to sync behavior categories")
		}
		result.BehaviorCategories++
	}
	s.cache.Invalidate(ctx, ideaCategoriesCacheKey, behaviorCategoriesCacheKey)
	s.logger.Info("reference catalog synced", zap.Int("idea_categories", result.IdeaCategories), zap.Int("behavior_categories", result.BehaviorCategories))
	return result, nil
}
