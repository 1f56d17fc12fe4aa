package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-billing-api/internal/models"
	"github.com/noah-isme/school-billing-api/internal/service"
	"github.com/noah-isme/school-billing-api/pkg/response"
)

type schoolService interface {
	List(ctx context.Context, filter models.SchoolFilter) ([]models.School, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.School, error)
	Create(ctx context.Context, req service.CreateSchoolRequest) (*models.School, error)
	Delete(ctx context.Context, id int64) error
	Students(ctx context.Context, schoolID int64, active bool, offset, limit int) (*models.School, int, error)
	Debt(ctx context.Context, schoolID int64) (*models.School, error)
	Enroll(ctx context.Context, schoolID int64, req service.EnrollStudentRequest) (*models.Membership, error)
	SetMembershipStatus(ctx context.Context, schoolID, studentID int64, req service.UpdateMembershipRequest) error
	Unenroll(ctx context.Context, schoolID, studentID int64) error
}

// SchoolHandler exposes school endpoints.
type SchoolHandler struct {
	schools schoolService
	paging  Paging
}

// NewSchoolHandler constructs SchoolHandler.
func NewSchoolHandler(schools schoolService, paging Paging) *SchoolHandler {
	return &SchoolHandler{schools: schools, paging: paging.withDefaults()}
}

// List godoc
// @Summary List schools
// @Description Any query parameter other than page and size is an exact-match filter on id, ref or name.
// @Tags Schools
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param size query int false "Page size"
// @Param ref query string false "Filter by ref"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schools [get]
func (h *SchoolHandler) List(c *gin.Context) {
	offset, limit, err := h.paging.parse(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.SchoolFilter{
		Attributes: attributeFilters(c, "page", "size"),
		Offset:     offset,
		Limit:      limit,
	}
	schools, pagination, err := h.schools.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, schools, pagination)
}

// Get godoc
// @Summary Get school
// @Tags Schools
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schools/{id} [get]
func (h *SchoolHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	school, err := h.schools.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}

// Create godoc
// @Summary Create school
// @Tags Schools
// @Accept json
// @Produce json
// @Param payload body service.CreateSchoolRequest true "School payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schools [post]
func (h *SchoolHandler) Create(c *gin.Context) {
	var req service.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	school, err := h.schools.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, school)
}

// Delete godoc
// @Summary Delete school
// @Tags Schools
// @Param id path int true "School ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schools/{id} [delete]
func (h *SchoolHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.schools.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Students godoc
// @Summary Get school with a page of its students
// @Description active=true (default) lists ACTIVE members, active=false lists DEACTIVATED ones.
// @Tags Schools
// @Produce json
// @Param id path int true "School ID"
// @Param active query bool false "Membership status filter"
// @Param page query int false "Page (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schools/{id}/students [get]
func (h *SchoolHandler) Students(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	active := true
	if raw := strings.TrimSpace(c.Query("active")); raw != "" {
		active, err = strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, badRequest("active must be a boolean"))
			return
		}
	}
	offset, limit, err := h.paging.parse(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	school, total, err := h.schools.Students(c.Request.Context(), id, active, offset, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, models.NewPagination(offset, limit, total))
}

// Enroll godoc
// @Summary Add a membership between a school and a student
// @Tags Schools
// @Accept json
// @Produce json
// @Param id path int true "School ID"
// @Param payload body service.EnrollStudentRequest true "Membership payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schools/{id}/students [post]
func (h *SchoolHandler) Enroll(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	membership, err := h.schools.Enroll(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, membership)
}

// UpdateMembership godoc
// @Summary Activate or deactivate a student's membership
// @Tags Schools
// @Accept json
// @Param id path int true "School ID"
// @Param student_id path int true "Student ID"
// @Param payload body service.UpdateMembershipRequest true "Status payload"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /schools/{id}/students/{student_id} [patch]
func (h *SchoolHandler) UpdateMembership(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	studentID, err := pathID(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	if err := h.schools.SetMembershipStatus(c.Request.Context(), id, studentID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unenroll godoc
// @Summary Remove a student's latest membership in a school
// @Tags Schools
// @Param id path int true "School ID"
// @Param student_id path int true "Student ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /schools/{id}/students/{student_id} [delete]
func (h *SchoolHandler) Unenroll(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	studentID, err := pathID(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.schools.Unenroll(c.Request.Context(), id, studentID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Debt godoc
// @Summary Get school with its total pending debt
// @Tags Schools
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schools/{id}/debt [get]
func (h *SchoolHandler) Debt(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	school, err := h.schools.Debt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}
