package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/islamic-sources/internal/core"
)

// Requests

type courseIDURI struct {
	CourseID string `uri:"id" binding:"required,uuid"`
}

type moduleURI struct {
	CourseID string `uri:"id" binding:"required,uuid"`
	ModuleID string `uri:"moduleId" binding:"required,uuid"`
}

type lessonURI struct {
	CourseID string `uri:"id" binding:"required,uuid"`
	ModuleID string `uri:"moduleId" binding:"required,uuid"`
	LessonID string `uri:"lessonId" binding:"required,uuid"`
}

// path returns the course and module ancestors of a bound route.
func (u moduleURI) path() core.CurriculumPath {
	return core.CurriculumPath{CourseID: uuid.MustParse(u.CourseID)}
}

func (u lessonURI) path() core.CurriculumPath {
	return core.CurriculumPath{
		CourseID: uuid.MustParse(u.CourseID),
		ModuleID: uuid.MustParse(u.ModuleID),
	}
}

type resourceURI struct {
	lessonURI
	ResourceID string `uri:"resourceId" binding:"required,uuid"`
}

type exerciseURI struct {
	lessonURI
	ExerciseID string `uri:"exerciseId" binding:"required,uuid"`
}

type listCoursesQuery struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Level      string `form:"level"`
	Type       string `form:"type"`
	Status     string `form:"status"`
	Slug       string `form:"slug"`
	Sort       string `form:"sort"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
}

func (q listCoursesQuery) toFilter() core.CourseListFilter {
	filter := core.CourseListFilter{
		Search:   q.Search,
		Category: q.Category,
		Level:    core.CourseLevel(q.Level),
		Type:     core.CourseType(q.Type),
		Status:   core.CourseStatus(q.Status),
		Slug:     q.Slug,
		Sort:     core.CourseSort(q.Sort),
		Page:     core.Page{Page: q.Page, Limit: q.Limit},
	}
	if id, err := uuid.Parse(q.CategoryID); err == nil {
		filter.CategoryID = id
	}
	return filter
}

type createCourseRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	InstructorName string   `json:"instructorName" binding:"required"`
	InstructorBio  *string  `json:"instructorBio"`
	Category       string   `json:"category" binding:"required"`
	Level          string   `json:"level"`
	Type           string   `json:"type"`
	Price          *float64 `json:"price"`
	IntroVideoURL  *string  `json:"introVideoUrl"`
	Status         string   `json:"status"`
}

func (r createCourseRequest) toDraft() core.CourseDraft {
	return core.CourseDraft{
		Title:          r.Title,
		Description:    r.Description,
		InstructorName: r.InstructorName,
		InstructorBio:  r.InstructorBio,
		Category:       r.Category,
		Level:          core.CourseLevel(r.Level),
		Type:           core.CourseType(r.Type),
		Price:          r.Price,
		IntroVideoURL:  r.IntroVideoURL,
		Status:         core.CourseStatus(r.Status),
	}
}

type updateCourseRequest struct {
	Title          core.Optional[string]            `json:"title"`
	Description    core.Optional[string]            `json:"description"`
	InstructorName core.Optional[string]            `json:"instructorName"`
	InstructorBio  core.Optional[string]            `json:"instructorBio"`
	Category       core.Optional[string]            `json:"category"`
	Level          core.Optional[core.CourseLevel]  `json:"level"`
	Type           core.Optional[core.CourseType]   `json:"type"`
	Price          core.Optional[float64]           `json:"price"`
	IntroVideoURL  core.Optional[string]            `json:"introVideoUrl"`
	Status         core.Optional[core.CourseStatus] `json:"status"`
	Rating         core.Optional[float64]           `json:"rating"`
}

func (r updateCourseRequest) toPatch() core.CoursePatch {
	return core.CoursePatch{
		Title:          r.Title,
		Description:    r.Description,
		InstructorName: r.InstructorName,
		InstructorBio:  r.InstructorBio,
		Category:       r.Category,
		Level:          r.Level,
		Type:           r.Type,
		Price:          r.Price,
		IntroVideoURL:  r.IntroVideoURL,
		Status:         r.Status,
		Rating:         r.Rating,
	}
}

type createCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type enrollRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type createModuleRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index" binding:"omitempty,min=0"`
}

type updateModuleRequest struct {
	Title       core.Optional[string] `json:"title"`
	Description core.Optional[string] `json:"description"`
	OrderIndex  core.Optional[int]    `json:"order_index"`
}

type createLessonRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        *string  `json:"description"`
	Type               string   `json:"type"`
	ContentURL         *string  `json:"content_url"`
	DurationMinutes    int      `json:"duration_minutes" binding:"min=0"`
	IsPreview          bool     `json:"is_preview"`
	OrderIndex         *int     `json:"order_index" binding:"omitempty,min=0"`
	StudyMaterials     *string  `json:"study_materials"`
	PracticeMaterials  *string  `json:"practice_materials"`
	LearningObjectives []string `json:"learning_objectives"`
}

type updateLessonRequest struct {
	Title              core.Optional[string]          `json:"title"`
	Description        core.Optional[string]          `json:"description"`
	Type               core.Optional[core.LessonType] `json:"type"`
	ContentURL         core.Optional[string]          `json:"content_url"`
	DurationMinutes    core.Optional[int]             `json:"duration_minutes"`
	IsPreview          core.Optional[bool]            `json:"is_preview"`
	OrderIndex         core.Optional[int]             `json:"order_index"`
	StudyMaterials     core.Optional[string]          `json:"study_materials"`
	PracticeMaterials  core.Optional[string]          `json:"practice_materials"`
	LearningObjectives core.Optional[[]string]        `json:"learning_objectives"`
}

type createResourceRequest struct {
	Title          string  `json:"title" binding:"required"`
	Description    *string `json:"description"`
	Type           string  `json:"type" binding:"required"`
	URL            string  `json:"url" binding:"required"`
	IsDownloadable *bool   `json:"is_downloadable"`
	OrderIndex     *int    `json:"order_index" binding:"omitempty,min=0"`
}

type updateResourceRequest struct {
	Title          core.Optional[string] `json:"title"`
	Description    core.Optional[string] `json:"description"`
	Type           core.Optional[string] `json:"type"`
	URL            core.Optional[string] `json:"url"`
	IsDownloadable core.Optional[bool]   `json:"is_downloadable"`
	OrderIndex     core.Optional[int]    `json:"order_index"`
}

type createExerciseRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   *string `json:"description"`
	Type          string  `json:"type" binding:"required"`
	Content       string  `json:"content" binding:"required"`
	CorrectAnswer *string `json:"correct_answer"`
	Explanation   *string `json:"explanation"`
	Points        *int    `json:"points" binding:"omitempty,min=0"`
	OrderIndex    *int    `json:"order_index" binding:"omitempty,min=0"`
}

type updateExerciseRequest struct {
	Title         core.Optional[string] `json:"title"`
	Description   core.Optional[string] `json:"description"`
	Type          core.Optional[string] `json:"type"`
	Content       core.Optional[string] `json:"content"`
	CorrectAnswer core.Optional[string] `json:"correct_answer"`
	Explanation   core.Optional[string] `json:"explanation"`
	Points        core.Optional[int]    `json:"points"`
	OrderIndex    core.Optional[int]    `json:"order_index"`
}

type progressQuery struct {
	CourseID  string `form:"course_id" binding:"required,uuid"`
	SessionID string `form:"session_id" binding:"required"`
}

type recordCompletionRequest struct {
	CourseID         string `json:"course_id" binding:"required,uuid"`
	SessionID        string `json:"session_id" binding:"required"`
	LessonID         string `json:"lesson_id" binding:"required,uuid"`
	TimeSpentMinutes int    `json:"time_spent_minutes" binding:"min=0"`
}

// Responses

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type courseResponse struct {
	ID              uuid.UUID         `json:"id"`
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	Description     string            `json:"description"`
	InstructorName  string            `json:"instructor_name"`
	InstructorBio   *string           `json:"instructor_bio"`
	CategoryID      uuid.UUID         `json:"category_id"`
	Level           core.CourseLevel  `json:"level"`
	Type            core.CourseType   `json:"type"`
	Price           *float64          `json:"price"`
	ThumbnailURL    *string           `json:"thumbnail_url"`
	IntroVideoURL   *string           `json:"intro_video_url"`
	DurationMinutes int               `json:"duration_minutes"`
	Rating          float64           `json:"rating"`
	Status          core.CourseStatus `json:"status"`
	PublishedAt     *time.Time        `json:"published_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type courseDetailResponse struct {
	courseResponse
	Modules []moduleResponse `json:"modules"`
}

type courseListResponse struct {
	Courses    []courseResponse `json:"courses"`
	Pagination core.Pagination  `json:"pagination"`
}

type moduleResponse struct {
	ID          uuid.UUID        `json:"id"`
	CourseID    uuid.UUID        `json:"course_id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	OrderIndex  int              `json:"order_index"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Lessons     []lessonResponse `json:"lessons,omitempty"`
}

type lessonResponse struct {
	ID                 uuid.UUID          `json:"id"`
	ModuleID           uuid.UUID          `json:"module_id"`
	Title              string             `json:"title"`
	Description        *string            `json:"description"`
	Type               core.LessonType    `json:"type"`
	ContentURL         *string            `json:"content_url"`
	DurationMinutes    int                `json:"duration_minutes"`
	IsPreview          bool               `json:"is_preview"`
	OrderIndex         int                `json:"order_index"`
	StudyMaterials     *string            `json:"study_materials"`
	PracticeMaterials  *string            `json:"practice_materials"`
	LearningObjectives []string           `json:"learning_objectives"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	Resources          []resourceResponse `json:"resources,omitempty"`
	Exercises          []exerciseResponse `json:"exercises,omitempty"`
}

type resourceResponse struct {
	ID             uuid.UUID `json:"id"`
	LessonID       uuid.UUID `json:"lesson_id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	Type           string    `json:"type"`
	URL            string    `json:"url"`
	IsDownloadable bool      `json:"is_downloadable"`
	OrderIndex     int       `json:"order_index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type exerciseResponse struct {
	ID            uuid.UUID `json:"id"`
	LessonID      uuid.UUID `json:"lesson_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Type          string    `json:"type"`
	Content       string    `json:"content"`
	CorrectAnswer *string   `json:"correct_answer"`
	Explanation   *string   `json:"explanation"`
	Points        *int      `json:"points"`
	OrderIndex    int       `json:"order_index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type enrollmentResponse struct {
	ID         uuid.UUID `json:"id"`
	CourseID   uuid.UUID `json:"course_id"`
	SessionID  string    `json:"session_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type progressResponse struct {
	ID                 uuid.UUID            `json:"id"`
	CourseID           uuid.UUID            `json:"course_id"`
	SessionID          string               `json:"session_id"`
	ProgressPercentage int                  `json:"progress_percentage"`
	StartedAt          time.Time            `json:"started_at"`
	LastAccessedAt     time.Time            `json:"last_accessed_at"`
	CompletedAt        *time.Time           `json:"completed_at"`
	Completions        []completionResponse `json:"completions"`
}

type completionResponse struct {
	ID               uuid.UUID `json:"id"`
	CourseProgressID uuid.UUID `json:"course_progress_id"`
	LessonID         uuid.UUID `json:"lesson_id"`
	TimeSpentMinutes int       `json:"time_spent_minutes"`
	CompletedAt      time.Time `json:"completed_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toCategoryResponse(c core.Category, _ int) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func toCourseResponse(c core.Course, _ int) courseResponse {
	return courseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Slug:            c.Slug,
		Description:     c.Description,
		InstructorName:  c.InstructorName,
		InstructorBio:   c.InstructorBio,
		CategoryID:      c.CategoryID,
		Level:           c.Level,
		Type:            c.Type,
		Price:           c.Price,
		ThumbnailURL:    c.ThumbnailURL,
		IntroVideoURL:   c.IntroVideoURL,
		DurationMinutes: c.DurationMinutes,
		Rating:          c.Rating,
		Status:          c.Status,
		PublishedAt:     c.PublishedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toCourseDetailResponse(c *core.Course) courseDetailResponse {
	return courseDetailResponse{
		courseResponse: toCourseResponse(*c, 0),
		Modules:        lo.Map(c.Modules, toModuleResponse),
	}
}

func toModuleResponse(m core.Module, _ int) moduleResponse {
	return moduleResponse{
		ID:          m.ID,
		CourseID:    m.CourseID,
		Title:       m.Title,
		Description: m.Description,
		OrderIndex:  m.OrderIndex,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Lessons:     lo.Map(m.Lessons, toLessonResponse),
	}
}

func toLessonResponse(l core.Lesson, _ int) lessonResponse {
	objectives := l.LearningObjectives
	if objectives == nil {
		objectives = []string{}
	}
	return lessonResponse{
		ID:                 l.ID,
		ModuleID:           l.ModuleID,
		Title:              l.Title,
		Description:        l.Description,
		Type:               l.Type,
		ContentURL:         l.ContentURL,
		DurationMinutes:    l.DurationMinutes,
		IsPreview:          l.IsPreview,
		OrderIndex:         l.OrderIndex,
		StudyMaterials:     l.StudyMaterials,
		PracticeMaterials:  l.PracticeMaterials,
		LearningObjectives: objectives,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
		Resources:          lo.Map(l.Resources, toResourceResponse),
		Exercises:          lo.Map(l.Exercises, toExerciseResponse),
	}
}

func toResourceResponse(r core.Resource, _ int) resourceResponse {
	return resourceResponse{
		ID:             r.ID,
		LessonID:       r.LessonID,
		Title:          r.Title,
		Description:    r.Description,
		Type:           r.Type,
		URL:            r.URL,
		IsDownloadable: r.IsDownloadable,
		OrderIndex:     r.OrderIndex,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toExerciseResponse(e core.Exercise, _ int) exerciseResponse {
	return exerciseResponse{
		ID:            e.ID,
		LessonID:      e.LessonID,
		Title:         e.Title,
		Description:   e.Description,
		Type:          e.Type,
		Content:       e.Content,
		CorrectAnswer: e.CorrectAnswer,
		Explanation:   e.Explanation,
		Points:        e.Points,
		OrderIndex:    e.OrderIndex,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toEnrollmentResponse(e *core.Enrollment) enrollmentResponse {
	return enrollmentResponse{ID: e.ID, CourseID: e.CourseID, SessionID: e.SessionID, EnrolledAt: e.EnrolledAt}
}

func toProgressResponse(p *core.CourseProgress) *progressResponse {
	if p == nil {
		return nil
	}
	return &progressResponse{
		ID:                 p.ID,
		CourseID:           p.CourseID,
		SessionID:          p.SessionID,
		ProgressPercentage: p.ProgressPercentage,
		StartedAt:          p.StartedAt,
		LastAccessedAt:     p.LastAccessedAt,
		CompletedAt:        p.CompletedAt,
		Completions:        lo.Map(p.Completions, toCompletionResponse),
	}
}

func toCompletionResponse(c core.LessonCompletion, _ int) completionResponse {
	return completionResponse{
		ID:               c.ID,
		CourseProgressID: c.CourseProgressID,
		LessonID:         c.LessonID,
		TimeSpentMinutes: c.TimeSpentMinutes,
		CompletedAt:      c.CompletedAt,
	}
}
