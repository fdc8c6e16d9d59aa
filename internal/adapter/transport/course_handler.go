package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/islamic-sources/internal/core"
	"github.com/eslsoft/islamic-sources/internal/platform/logger"
)

// CourseHandler serves the course, category and enrollment endpoints.
type CourseHandler struct {
	service core.CourseService
	log     *logger.Logger
}

// NewCourseHandler constructs a course handler backed by the provided service.
func NewCourseHandler(service core.CourseService, log *logger.Logger) *CourseHandler {
	return &CourseHandler{service: service, log: log}
}

func bindCourseID(c *gin.Context) (uuid.UUID, error) {
	var uri courseIDURI
	if err := bindURI(c, &uri); err != nil {
		return uuid.Nil, err
	}
	return parseID("id", uri.CourseID)
}

// ListCourses handles GET /courses.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var query listCoursesQuery
	if err := bindQuery(c, &query); err != nil {
		respondError(c, h.log, err)
		return
	}

	list, err := h.service.ListCourses(c.Request.Context(), query.toFilter())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, courseListResponse{
		Courses:    lo.Map(list.Courses, toCourseResponse),
		Pagination: list.Pagination,
	})
}

// CreateCourse handles POST /courses.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), req.toDraft())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toCourseResponse(*course, 0))
}

// GetCourse handles GET /courses/:id and includes the ordered curriculum.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := bindCourseID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toCourseDetailResponse(course))
}

// UpdateCourse handles PUT and PATCH /courses/:id.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, err := bindCourseID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req updateCourseRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), core.UpdateCourseParams{ID: id, Patch: req.toPatch()})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toCourseResponse(*course, 0))
}

// DeleteCourse handles DELETE /courses/:id.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, err := bindCourseID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Course deleted successfully"})
}

// ListCategories handles GET /categories.
func (h *CourseHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": lo.Map(categories, toCategoryResponse)})
}

// CreateCategory handles POST /categories.
func (h *CourseHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(*category, 0))
}

// Enroll handles POST /courses/:id/enrollments.
func (h *CourseHandler) Enroll(c *gin.Context) {
	id, err := bindCourseID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req enrollRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), id, req.SessionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"enrollment": toEnrollmentResponse(enrollment)})
}

// CountEnrollments handles GET /courses/:id/enrollments.
func (h *CourseHandler) CountEnrollments(c *gin.Context) {
	id, err := bindCourseID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	count, err := h.service.CountEnrollments(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course_id": id, "count": count})
}
