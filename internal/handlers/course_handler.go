package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/services"
	"github.com/hossein5161/exam/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
	reportService services.ReportService
}

func NewCourseHandler(courseService services.CourseService, reportService services.ReportService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
		reportService: reportService,
	}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	h.LogRequest(c, "Creating course")

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting course", "course_id", id)

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Updating course", "course_id", id)

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	filters := repositories.CourseFilters{
		Query: c.Query("q"),
	}
	if teacherStr := c.Query("teacher_id"); teacherStr != "" {
		if id, err := strconv.ParseUint(teacherStr, 10, 32); err == nil {
			teacherID := uint(id)
			filters.TeacherID = &teacherID
		}
	}

	courses, err := h.courseService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses, "total": len(courses)})
}

// ===== ENROLLMENT =====

func (h *CourseHandler) AssignTeacher(c *gin.Context) {
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := h.parseIDParam(c, "user_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Assigning teacher", "course_id", courseID, "user_id", userID)

	course, err := h.courseService.AssignTeacher(c.Request.Context(), courseID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) AddStudent(c *gin.Context) {
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := h.parseIDParam(c, "user_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Enrolling student", "course_id", courseID, "user_id", userID)

	course, err := h.courseService.AddStudent(c.Request.Context(), courseID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) RemoveStudent(c *gin.Context) {
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := h.parseIDParam(c, "user_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Removing student", "course_id", courseID, "user_id", userID)

	if err := h.courseService.RemoveStudent(c.Request.Context(), courseID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) GetParticipants(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting course participants", "course_id", id)

	participants, err := h.courseService.Participants(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, participants)
}

// ExportRoster streams the course roster as an xlsx workbook.
func (h *CourseHandler) ExportRoster(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting course roster", "course_id", id)

	data, err := h.reportService.ExportCourseRoster(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="roster.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
