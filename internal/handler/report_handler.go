package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/idea-observation-api/internal/dto"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
	"github.com/noah-isme/idea-observation-api/pkg/response"
)

type reportService interface {
	Draft(ctx context.Context, principalID, observationID string) (*dto.ReportDraft, error)
	Save(ctx context.Context, principalID, observationID string, req dto.SaveReportRequest) (*dto.ReportDraft, error)
	RenderPDF(ctx context.Context, principalID, observationID string) ([]byte, string, error)
	Authorize(ctx context.Context, principalID, observationID string) error
}

// ReportHandler serves observation reports.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get godoc
// @Summary Get observation report
// @Description Saved report text when present, otherwise a generated draft
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Success 200 {object} response.Envelope
// @Router /observations/{id}/report [get]
func (h *ReportHandler) Get(c *gin.Context) {
	draft, err := h.reports.Draft(c.Request.Context(), principalID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, draft)
}

// Save godoc
// @Summary Save observation report
// @Description Persists the report and marks the observation reviewed
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Param payload body dto.SaveReportRequest false "Edited text"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /observations/{id}/report [post]
func (h *ReportHandler) Save(c *gin.Context) {
	if err := h.reports.Authorize(c.Request.Context(), principalID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SaveReportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Validation(err, "invalid report payload"))
			return
		}
	}
	draft, err := h.reports.Save(c.Request.Context(), principalID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, draft)
}

// PDF godoc
// @Summary Download report PDF
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Observation ID"
// @Success 200 {file} file
// @Router /observations/{id}/report/pdf [get]
func (h *ReportHandler) PDF(c *gin.Context) {
	body, filename, err := h.reports.RenderPDF(c.Request.Context(), principalID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", body)
}
