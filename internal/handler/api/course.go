package api

import (
	"errors"
	"net/http"

	reqdto "campus-library/internal/handler/dto/request"
	resdto "campus-library/internal/handler/dto/response"
	"campus-library/internal/handler/httperr"
	"campus-library/internal/usecase/commands"
	"campus-library/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courseCommands commands.CourseCommands
	courseQueries  queries.CourseQueries
}

func NewCourseHandler(courseCommands commands.CourseCommands, courseQueries queries.CourseQueries) *CourseHandler {
	return &CourseHandler{
		courseCommands: courseCommands,
		courseQueries:  courseQueries,
	}
}

// @Summary List courses
// @Description List courses filtered by department and status
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Param department query string false "Filter by department"
// @Param status query string false "Filter by status (active, inactive)"
// @Success 200 {array} queries.CourseListItem
// @Failure 400 {object} httperr.Response
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var req reqdto.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	items, err := h.courseQueries.List(c.Request.Context(), queries.CourseListParams{
		Department: req.Department,
		Status:     req.Status,
	})
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary Get course details
// @Description Get a course with its sections and enrollment counts
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} queries.CourseView
// @Failure 404 {object} httperr.Response
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid course ID", nil)
		return
	}

	view, err := h.courseQueries.GetByID(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, queries.ErrCourseNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Course not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Create a course
// @Description Register a new course in the catalog
// @Tags courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateCourseRequest true "Course to create"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req reqdto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	courseID, err := h.courseCommands.CreateCourse(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateCode):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "A course with this code already exists", nil)
		case errors.Is(err, commands.ErrInvalidCourseInput):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid course data", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: courseID})
}

// @Summary Create a course section
// @Description Add a section to a course for a semester
// @Tags courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body reqdto.CreateSectionRequest true "Section to create"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /courses/{id}/sections [post]
func (h *CourseHandler) CreateSection(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid course ID", nil)
		return
	}

	var req reqdto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	sectionID, err := h.courseCommands.CreateSection(c.Request.Context(), courseID, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCourseNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Course not found", nil)
		case errors.Is(err, commands.ErrProfessorNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Professor not found", nil)
		case errors.Is(err, commands.ErrInvalidCourseInput):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid section data", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: sectionID})
}

// @Summary Enroll a student
// @Description Enroll a student in a course section with available seats
// @Tags courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param sectionId path string true "Section ID"
// @Param request body reqdto.EnrollStudentRequest true "Student to enroll"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /courses/sections/{sectionId}/enrollments [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	sectionID, err := uuid.Parse(c.Param("sectionId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid section ID", nil)
		return
	}

	var req reqdto.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	enrollmentID, err := h.courseCommands.EnrollStudent(c.Request.Context(), sectionID, req.StudentID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSectionNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Course section not found", nil)
		case errors.Is(err, commands.ErrStudentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Student not found", nil)
		case errors.Is(err, commands.ErrSectionFull):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Course section is full", nil)
		case errors.Is(err, commands.ErrAlreadyEnrolled):
			httperr.AbortWithError(c, http.StatusConflict, err, "Student is already enrolled in this section", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: enrollmentID})
}

// @Summary Drop an enrollment
// @Description Drop an enrollment and release its section seat
// @Tags courses
// @Security BearerAuth
// @Param enrollmentId path string true "Enrollment ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /courses/enrollments/{enrollmentId} [delete]
func (h *CourseHandler) DropEnrollment(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollmentId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid enrollment ID", nil)
		return
	}

	if err := h.courseCommands.DropEnrollment(c.Request.Context(), enrollmentID); err != nil {
		switch {
		case errors.Is(err, commands.ErrEnrollmentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Enrollment not found", nil)
		case errors.Is(err, commands.ErrEnrollmentNotActive):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Enrollment is not active", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
