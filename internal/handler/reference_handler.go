package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/idea-observation-api/internal/middleware"
	"github.com/noah-isme/idea-observation-api/internal/models"
	"github.com/noah-isme/idea-observation-api/pkg/response"
)

type referenceService interface {
	IdeaCategories(ctx context.Context) ([]models.IdeaCategory, bool, error)
	BehaviorCategories(ctx context.Context) ([]models.BehaviorCategory, bool, error)
}

// ReferenceHandler serves the read-only category lists.
type ReferenceHandler struct {
	reference referenceService
}

// NewReferenceHandler constructs ReferenceHandler.
func NewReferenceHandler(reference referenceService) *ReferenceHandler {
	return &ReferenceHandler{reference: reference}
}

// IdeaCategories godoc
// @Summary List IDEA disability categories
// @Tags Reference
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /idea-categories [get]
func (h *ReferenceHandler) IdeaCategories(c *gin.Context) {
	categories, hit, err := h.reference.IdeaCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, categories, middleware.Meta(c))
}

// BehaviorCategories godoc
// @Summary List behavior categories
// @Tags Reference
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /behavior-categories [get]
func (h *ReferenceHandler) BehaviorCategories(c *gin.Context) {
	categories, hit, err := h.reference.BehaviorCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, categories, middleware.Meta(c))
}
