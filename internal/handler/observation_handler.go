package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/idea-observation-api/internal/dto"
	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
	"github.com/noah-isme/idea-observation-api/pkg/response"
)

type observationService interface {
	Create(ctx context.Context, principalID string, req dto.CreateObservationRequest) (*models.Observation, error)
	List(ctx context.Context, principalID string, filter models.ObservationFilter) ([]models.ObservationListItem, error)
	Get(ctx context.Context, principalID, observationID string) (*models.ObservationDetail, error)
	Update(ctx context.Context, principalID, observationID string, req dto.UpdateObservationRequest) (*models.Observation, error)
	Delete(ctx context.Context, principalID, observationID string) error
	Authorize(ctx context.Context, principalID, observationID string) error
	Stop(ctx context.Context, principalID, observationID string, req dto.StopObservationRequest) (*models.Observation, error)
	AppendEntry(ctx context.Context, principalID, observationID string, req dto.CreateEntryRequest) (*models.ObservationEntry, error)
	ListEntries(ctx context.Context, principalID, observationID string) ([]models.ObservationEntry, error)
	ExportEntriesCSV(ctx context.Context, principalID, observationID string) ([]byte, string, error)
}

// ObservationHandler exposes the observation lifecycle.
type ObservationHandler struct {
	observations observationService
}

// NewObservationHandler constructs ObservationHandler.
func NewObservationHandler(observations observationService) *ObservationHandler {
	return &ObservationHandler{observations: observations}
}

// List godoc
// @Summary List own observations
// @Tags Observations
// @Produce json
// @Security BearerAuth
// @Param studentId query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /observations [get]
func (h *ObservationHandler) List(c *gin.Context) {
	items, err := h.observations.List(c.Request.Context(), principalID(c), models.ObservationFilter{StudentID: c.Query("studentId")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Create godoc
// @Summary Start an observation
// @Tags Observations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateObservationRequest true "Observation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /observations [post]
func (h *ObservationHandler) Create(c *gin.Context) {
	var req dto.CreateObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid observation payload"))
		return
	}
	obs, err := h.observations.Create(c.Request.Context(), principalID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, obs)
}

// Get godoc
// @Summary Get observation
// @Description Observation with student, classroom, teacher, observer and entries
// @Tags Observations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /observations/{id} [get]
func (h *ObservationHandler) Get(c *gin.Context) {
	detail, err := h.observations.Get(c.Request.Context(), principalID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Update godoc
// @Summary Update observation
// @Tags Observations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Param payload body dto.UpdateObservationRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /observations/{id} [put]
func (h *ObservationHandler) Update(c *gin.Context) {
	if err := h.observations.Authorize(c.Request.Context(), principalID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid observation payload"))
		return
	}
	obs, err := h.observations.Update(c.Request.Context(), principalID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, obs)
}

// Delete godoc
// @Summary Delete observation
// @Tags Observations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /observations/{id} [delete]
func (h *ObservationHandler) Delete(c *gin.Context) {
	if err := h.observations.Delete(c.Request.Context(), principalID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "observation deleted")
}

// Stop godoc
// @Summary Stop recording
// @Tags Observations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Param payload body dto.StopObservationRequest true "End time"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /observations/{id}/stop [post]
func (h *ObservationHandler) Stop(c *gin.Context) {
	if err := h.observations.Authorize(c.Request.Context(), principalID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.StopObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid stop payload"))
		return
	}
	obs, err := h.observations.Stop(c.Request.Context(), principalID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, obs)
}

// ListEntries godoc
// @Summary List behavior entries
// @Tags Observations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Success 200 {object} response.Envelope
// @Router /observations/{id}/entries [get]
func (h *ObservationHandler) ListEntries(c *gin.Context) {
	entries, err := h.observations.ListEntries(c.Request.Context(), principalID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// AppendEntry godoc
// @Summary Record a behavior entry
// @Tags Observations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Param payload body dto.CreateEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /observations/{id}/entries [post]
func (h *ObservationHandler) AppendEntry(c *gin.Context) {
	if err := h.observations.Authorize(c.Request.Context(), principalID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid entry payload"))
		return
	}
	entry, err := h.observations.AppendEntry(c.Request.Context(), principalID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// ExportEntries godoc
// @Summary Export entries as CSV
// @Tags Observations
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Success 200 {file} file
// @Router /observations/{id}/entries/export [get]
func (h *ObservationHandler) ExportEntries(c *gin.Context) {
	body, filename, err := h.observations.ExportEntriesCSV(c.Request.Context(), principalID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "text/csv; charset=utf-8", body)
}
