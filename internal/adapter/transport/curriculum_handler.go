package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/islamic-sources/internal/core"
	"github.com/eslsoft/islamic-sources/internal/platform/logger"
)

// CurriculumHandler serves the nested module, lesson, resource and exercise endpoints.
// Every ancestor segment in the route must match the stored hierarchy; a mismatch
// is reported as not found.
type CurriculumHandler struct {
	service core.CurriculumService
	log     *logger.Logger
}

// NewCurriculumHandler constructs a curriculum handler backed by the provided service.
func NewCurriculumHandler(service core.CurriculumService, log *logger.Logger) *CurriculumHandler {
	return &CurriculumHandler{service: service, log: log}
}

// courseID binds the :id segment.
func (h *CurriculumHandler) courseID(c *gin.Context) (uuid.UUID, bool) {
	var uri courseIDURI
	if err := bindURI(c, &uri); err != nil {
		respondError(c, h.log, err)
		return uuid.Nil, false
	}
	return uuid.MustParse(uri.CourseID), true
}

// modulePath binds the course and module segments. The returned path carries the
// course only; the module id is returned separately for updates and deletes.
func (h *CurriculumHandler) modulePath(c *gin.Context) (core.CurriculumPath, uuid.UUID, bool) {
	var uri moduleURI
	if err := bindURI(c, &uri); err != nil {
		respondError(c, h.log, err)
		return core.CurriculumPath{}, uuid.Nil, false
	}
	return uri.path(), uuid.MustParse(uri.ModuleID), true
}

func (h *CurriculumHandler) lessonPath(c *gin.Context) (core.CurriculumPath, uuid.UUID, bool) {
	var uri lessonURI
	if err := bindURI(c, &uri); err != nil {
		respondError(c, h.log, err)
		return core.CurriculumPath{}, uuid.Nil, false
	}
	return uri.path(), uuid.MustParse(uri.LessonID), true
}

func (h *CurriculumHandler) resourcePath(c *gin.Context) (core.CurriculumPath, uuid.UUID, bool) {
	var uri resourceURI
	if err := bindURI(c, &uri); err != nil {
		respondError(c, h.log, err)
		return core.CurriculumPath{}, uuid.Nil, false
	}
	path := uri.path()
	path.LessonID = uuid.MustParse(uri.LessonID)
	return path, uuid.MustParse(uri.ResourceID), true
}

func (h *CurriculumHandler) exercisePath(c *gin.Context) (core.CurriculumPath, uuid.UUID, bool) {
	var uri exerciseURI
	if err := bindURI(c, &uri); err != nil {
		respondError(c, h.log, err)
		return core.CurriculumPath{}, uuid.Nil, false
	}
	path := uri.path()
	path.LessonID = uuid.MustParse(uri.LessonID)
	return path, uuid.MustParse(uri.ExerciseID), true
}

// ListModules handles GET /courses/:id/modules.
func (h *CurriculumHandler) ListModules(c *gin.Context) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	modules, err := h.service.ListModules(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": lo.Map(modules, toModuleResponse)})
}

// CreateModule handles POST /courses/:id/modules.
func (h *CurriculumHandler) CreateModule(c *gin.Context) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	var req createModuleRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	module, err := h.service.CreateModule(c.Request.Context(), core.CreateModuleParams{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toModuleResponse(*module, 0))
}

// UpdateModule handles PUT /courses/:id/modules/:moduleId.
func (h *CurriculumHandler) UpdateModule(c *gin.Context) {
	path, moduleID, ok := h.modulePath(c)
	if !ok {
		return
	}
	var req updateModuleRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	module, err := h.service.UpdateModule(c.Request.Context(), core.UpdateModuleParams{
		Path: path,
		ID:   moduleID,
		Patch: core.ModulePatch{
			Title:       req.Title,
			Description: req.Description,
			OrderIndex:  req.OrderIndex,
		},
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toModuleResponse(*module, 0))
}

// DeleteModule handles DELETE /courses/:id/modules/:moduleId.
func (h *CurriculumHandler) DeleteModule(c *gin.Context) {
	path, moduleID, ok := h.modulePath(c)
	if !ok {
		return
	}
	if err := h.service.DeleteModule(c.Request.Context(), path, moduleID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Module deleted successfully"})
}

// ListLessons handles GET .../modules/:moduleId/lessons.
func (h *CurriculumHandler) ListLessons(c *gin.Context) {
	path, moduleID, ok := h.modulePath(c)
	if !ok {
		return
	}
	path.ModuleID = moduleID
	lessons, err := h.service.ListLessons(c.Request.Context(), path)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lo.Map(lessons, toLessonResponse)})
}

// CreateLesson handles POST .../modules/:moduleId/lessons.
func (h *CurriculumHandler) CreateLesson(c *gin.Context) {
	path, moduleID, ok := h.modulePath(c)
	if !ok {
		return
	}
	path.ModuleID = moduleID
	var req createLessonRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	lesson, err := h.service.CreateLesson(c.Request.Context(), core.CreateLessonParams{
		Path:               path,
		Title:              req.Title,
		Description:        req.Description,
		Type:               core.LessonType(req.Type),
		ContentURL:         req.ContentURL,
		DurationMinutes:    req.DurationMinutes,
		IsPreview:          req.IsPreview,
		OrderIndex:         req.OrderIndex,
		StudyMaterials:     req.StudyMaterials,
		PracticeMaterials:  req.PracticeMaterials,
		LearningObjectives: req.LearningObjectives,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toLessonResponse(*lesson, 0))
}

// GetLesson handles GET .../lessons/:lessonId with its resources and exercises.
func (h *CurriculumHandler) GetLesson(c *gin.Context) {
	path, lessonID, ok := h.lessonPath(c)
	if !ok {
		return
	}
	lesson, err := h.service.GetLesson(c.Request.Context(), path, lessonID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toLessonResponse(*lesson, 0))
}

// UpdateLesson handles PUT .../lessons/:lessonId.
func (h *CurriculumHandler) UpdateLesson(c *gin.Context) {
	path, lessonID, ok := h.lessonPath(c)
	if !ok {
		return
	}
	var req updateLessonRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	lesson, err := h.service.UpdateLesson(c.Request.Context(), core.UpdateLessonParams{
		Path: path,
		ID:   lessonID,
		Patch: core.LessonPatch{
			Title:              req.Title,
			Description:        req.Description,
			Type:               req.Type,
			ContentURL:         req.ContentURL,
			DurationMinutes:    req.DurationMinutes,
			IsPreview:          req.IsPreview,
			OrderIndex:         req.OrderIndex,
			StudyMaterials:     req.StudyMaterials,
			PracticeMaterials:  req.PracticeMaterials,
			LearningObjectives: req.LearningObjectives,
		},
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toLessonResponse(*lesson, 0))
}

// DeleteLesson handles DELETE .../lessons/:lessonId.
func (h *CurriculumHandler) DeleteLesson(c *gin.Context) {
	path, lessonID, ok := h.lessonPath(c)
	if !ok {
		return
	}
	if err := h.service.DeleteLesson(c.Request.Context(), path, lessonID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Lesson deleted successfully"})
}

// ListResources handles GET .../lessons/:lessonId/resources.
func (h *CurriculumHandler) ListResources(c *gin.Context) {
	path, lessonID, ok := h.lessonPath(c)
	if !ok {
		return
	}
	path.LessonID = lessonID
	resources, err := h.service.ListResources(c.Request.Context(), path)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": lo.Map(resources, toResourceResponse)})
}

// CreateResource handles POST .../lessons/:lessonId/resources.
func (h *CurriculumHandler) CreateResource(c *gin.Context) {
	path, lessonID, ok := h.lessonPath(c)
	if !ok {
		return
	}
	path.LessonID = lessonID
	var req createResourceRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	resource, err := h.service.CreateResource(c.Request.Context(), core.CreateResourceParams{
		Path:           path,
		Title:          req.Title,
		Description:    req.Description,
		Type:           req.Type,
		URL:            req.URL,
		IsDownloadable: req.IsDownloadable,
		OrderIndex:     req.OrderIndex,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toResourceResponse(*resource, 0))
}

// UpdateResource handles PUT .../resources/:resourceId.
func (h *CurriculumHandler) UpdateResource(c *gin.Context) {
	path, resourceID, ok := h.resourcePath(c)
	if !ok {
		return
	}
	var req updateResourceRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	resource, err := h.service.UpdateResource(c.Request.Context(), core.UpdateResourceParams{
		Path: path,
		ID:   resourceID,
		Patch: core.ResourcePatch{
			Title:          req.Title,
			Description:    req.Description,
			Type:           req.Type,
			URL:            req.URL,
			IsDownloadable: req.IsDownloadable,
			OrderIndex:     req.OrderIndex,
		},
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toResourceResponse(*resource, 0))
}

// DeleteResource handles DELETE .../resources/:resourceId.
func (h *CurriculumHandler) DeleteResource(c *gin.Context) {
	path, resourceID, ok := h.resourcePath(c)
	if !ok {
		return
	}
	if err := h.service.DeleteResource(c.Request.Context(), path, resourceID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Resource deleted successfully"})
}

// ListExercises handles GET .../lessons/:lessonId/exercises.
func (h *CurriculumHandler) ListExercises(c *gin.Context) {
	path, lessonID, ok := h.lessonPath(c)
	if !ok {
		return
	}
	path.LessonID = lessonID
	exercises, err := h.service.ListExercises(c.Request.Context(), path)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": lo.Map(exercises, toExerciseResponse)})
}

// CreateExercise handles POST .../lessons/:lessonId/exercises.
func (h *CurriculumHandler) CreateExercise(c *gin.Context) {
	path, lessonID, ok := h.lessonPath(c)
	if !ok {
		return
	}
	path.LessonID = lessonID
	var req createExerciseRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	exercise, err := h.service.CreateExercise(c.Request.Context(), core.CreateExerciseParams{
		Path:          path,
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Content:       req.Content,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Points:        req.Points,
		OrderIndex:    req.OrderIndex,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toExerciseResponse(*exercise, 0))
}

// UpdateExercise handles PUT .../exercises/:exerciseId.
func (h *CurriculumHandler) UpdateExercise(c *gin.Context) {
	path, exerciseID, ok := h.exercisePath(c)
	if !ok {
		return
	}
	var req updateExerciseRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	exercise, err := h.service.UpdateExercise(c.Request.Context(), core.UpdateExerciseParams{
		Path: path,
		ID:   exerciseID,
		Patch: core.ExercisePatch{
			Title:         req.Title,
			Description:   req.Description,
			Type:          req.Type,
			Content:       req.Content,
			CorrectAnswer: req.CorrectAnswer,
			Explanation:   req.Explanation,
			Points:        req.Points,
			OrderIndex:    req.OrderIndex,
		},
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toExerciseResponse(*exercise, 0))
}

// DeleteExercise handles DELETE .../exercises/:exerciseId.
func (h *CurriculumHandler) DeleteExercise(c *gin.Context) {
	path, exerciseID, ok := h.exercisePath(c)
	if !ok {
		return
	}
	if err := h.service.DeleteExercise(c.Request.Context(), path, exerciseID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Exercise deleted successfully"})
}
