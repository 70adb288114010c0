package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

type syllabusService interface {
	Create(ctx context.Context, req service.CreateSyllabusRequest) (*models.SyllabusEntryDetail, error)
	Get(ctx context.Context, id string) (*models.SyllabusEntryDetail, error)
	List(ctx context.Context, req service.ListSyllabusRequest) ([]models.SyllabusEntryDetail, *models.Pagination, error)
	Update(ctx context.Context, id string, req service.UpdateSyllabusRequest) (*models.SyllabusEntryDetail, error)
	UpdateStatus(ctx context.Context, id string, req service.UpdateSyllabusStatusRequest) (*models.SyllabusEntryDetail, error)
	Delete(ctx context.Context, id string) error
	BulkUpdateStatus(ctx context.Context, req service.BulkUpdateSyllabusRequest) (*dto.BulkUpdateResult, error)
	ClassSubjectProgress(ctx context.Context, classID, subjectID string) (*dto.ClassSubjectProgressResponse, error)
	TeacherProgress(ctx context.Context, teacherID string) (*dto.TeacherProgressResponse, error)
	Overview(ctx context.Context) (*dto.SyllabusOverview, error)
}

type syllabusExporter interface {
	Export(ctx context.Context, format string, req service.ListSyllabusRequest) (*service.ExportFile, error)
}

// SyllabusHandler exposes syllabus entry and progress endpoints.
type SyllabusHandler struct {
	service  syllabusService
	exporter syllabusExporter
}

// NewSyllabusHandler constructs a syllabus handler.
func NewSyllabusHandler(svc syllabusService, exporter syllabusExporter) *SyllabusHandler {
	return &SyllabusHandler{service: svc, exporter: exporter}
}

// Create godoc
// @Summary Create syllabus entry
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param payload body service.CreateSyllabusRequest true "Syllabus entry"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /syllabus [post]
func (h *SyllabusHandler) Create(c *gin.Context) {
	var req service.CreateSyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// List godoc
// @Summary List syllabus entries
// @Tags Syllabus
// @Produce json
// @Param class_id query string false "Class ID"
// @Param subject_id query string false "Subject ID"
// @Param teacher_id query string false "Teacher ID"
// @Param status query string false "pending, in_progress, completed or skipped"
// @Param chapter query string false "Chapter substring"
// @Param start_date query string false "Planned on or after (YYYY-MM-DD)"
// @Param end_date query string false "Planned on or before (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /syllabus [get]
func (h *SyllabusHandler) List(c *gin.Context) {
	req := listRequestFromQuery(c)
	entries, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Get godoc
// @Summary Get syllabus entry
// @Tags Syllabus
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /syllabus/{id} [get]
func (h *SyllabusHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Update godoc
// @Summary Update syllabus entry
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.UpdateSyllabusRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /syllabus/{id} [put]
func (h *SyllabusHandler) Update(c *gin.Context) {
	var req service.UpdateSyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	entry, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// UpdateStatus godoc
// @Summary Update syllabus entry status
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.UpdateSyllabusStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /syllabus/{id}/status [put]
func (h *SyllabusHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateSyllabusStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	entry, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete syllabus entry
// @Tags Syllabus
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /syllabus/{id} [delete]
func (h *SyllabusHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Syllabus entry deleted", nil)
}

// BulkUpdate godoc
// @Summary Update the status of several entries
// @Description Each item is applied independently; failures are reported per item.
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param payload body service.BulkUpdateSyllabusRequest true "Status changes"
// @Success 200 {object} response.Envelope
// @Router /syllabus/bulk-update [post]
func (h *SyllabusHandler) BulkUpdate(c *gin.Context) {
	var req service.BulkUpdateSyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.BulkUpdateStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, fmt.Sprintf("%d syllabus entries updated", result.Count), result)
}

// ClassSubjectProgress godoc
// @Summary Progress of a class and subject
// @Tags Syllabus Progress
// @Produce json
// @Param class_id path string true "Class ID"
// @Param subject_id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /syllabus/progress/{class_id}/{subject_id} [get]
func (h *SyllabusHandler) ClassSubjectProgress(c *gin.Context) {
	progress, err := h.service.ClassSubjectProgress(c.Request.Context(), c.Param("class_id"), c.Param("subject_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// TeacherProgress godoc
// @Summary Progress of a teacher across classes and subjects
// @Tags Syllabus Progress
// @Produce json
// @Param teacher_id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /syllabus/teacher/{teacher_id}/progress [get]
func (h *SyllabusHandler) TeacherProgress(c *gin.Context) {
	progress, err := h.service.TeacherProgress(c.Request.Context(), c.Param("teacher_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// Overview godoc
// @Summary System-wide syllabus statistics
// @Tags Syllabus Progress
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /syllabus/stats/overview [get]
func (h *SyllabusHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// Export godoc
// @Summary Export syllabus entries
// @Tags Syllabus
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param class_id query string false "Class ID"
// @Param subject_id query string false "Subject ID"
// @Param teacher_id query string false "Teacher ID"
// @Param status query string false "Status"
// @Success 200 {file} file
// @Router /syllabus/export [get]
func (h *SyllabusHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), c.Query("format"), listRequestFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func listRequestFromQuery(c *gin.Context) service.ListSyllabusRequest {
	req := service.ListSyllabusRequest{
		ClassID:   c.Query("class_id"),
		SubjectID: c.Query("subject_id"),
		TeacherID: c.Query("teacher_id"),
		Status:    c.Query("status"),
		Chapter:   c.Query("chapter"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		req.Limit = limit
	}
	return req
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
