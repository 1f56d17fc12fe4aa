package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-billing-api/internal/models"
	"github.com/noah-isme/school-billing-api/internal/service"
	"github.com/noah-isme/school-billing-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	FinancialStatus(ctx context.Context, id int64) (*models.Student, error)
	Statement(ctx context.Context, id int64, format string) (*service.Statement, error)
	Memberships(ctx context.Context, id int64) ([]models.Membership, error)
	CurrentSchool(ctx context.Context, id int64) (*models.School, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	paging   Paging
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, paging Paging) *StudentHandler {
	return &StudentHandler{students: students, paging: paging.withDefaults()}
}

// List godoc
// @Summary List students
// @Description Any query parameter other than page, size, school_id and status is an exact-match filter on id, email, first_name, last_name or age.
// @Tags Students
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param size query int false "Page size"
// @Param school_id query int false "Only students with a membership in this school"
// @Param status query string false "Membership status" Enums(ACTIVE, DEACTIVATED)
// @Param email query string false "Filter by email"
// @Param age query int false "Filter by age"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	offset, limit, err := h.paging.parse(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	schoolID, err := optionalID(c, "school_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.StudentFilter{
		Attributes: attributeFilters(c, "page", "size", "school_id", "status"),
		SchoolID:   schoolID,
		Status:     models.MembershipStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Offset:     offset,
		Limit:      limit,
	}
	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, students, pagination)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// FinancialStatus godoc
// @Summary Get student with total paid and total debt
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/financial-status [get]
func (h *StudentHandler) FinancialStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.FinancialStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// ExportStatement godoc
// @Summary Download the student's financial statement
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Student ID"
// @Param format query string false "Output format" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/financial-status/export [get]
func (h *StudentHandler) ExportStatement(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	statement, err := h.students.Statement(c.Request.Context(), id, c.DefaultQuery("format", service.StatementFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, statement.Filename, statement.ContentType, statement.Body)
}

// Memberships godoc
// @Summary List the student's school history
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/memberships [get]
func (h *StudentHandler) Memberships(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	memberships, err := h.students.Memberships(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memberships, nil)
}

// CurrentSchool godoc
// @Summary Get the school of the student's latest active membership
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/school [get]
func (h *StudentHandler) CurrentSchool(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	school, err := h.students.CurrentSchool(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}
