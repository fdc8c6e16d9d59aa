package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/islamic-sources/internal/core"
)

// CurriculumService coordinates module, lesson, resource and exercise use cases.
type CurriculumService struct {
	repo  core.CurriculumRepository
	cache core.CourseCache
	now   func() time.Time
}

// NewCurriculumService constructs a CurriculumService backed by the provided repository.
func NewCurriculumService(repo core.CurriculumRepository, cache core.CourseCache) *CurriculumService {
	return &CurriculumService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *CurriculumService) WithClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

var _ core.CurriculumService = (*CurriculumService)(nil)

// ListModules returns the modules of a course with their lessons.
func (s *CurriculumService) ListModules(ctx context.Context, courseID uuid.UUID) ([]core.Module, error) {
	if err := requireID("course", courseID); err != nil {
		return nil, err
	}
	if err := s.repo.ResolvePath(ctx, core.CurriculumPath{CourseID: courseID}); err != nil {
		return nil, err
	}
	return s.repo.ListModules(ctx, courseID, true)
}

// CreateModule appends a module to a course.
func (s *CurriculumService) CreateModule(ctx context.Context, params core.CreateModuleParams) (*core.Module, error) {
	if err := requireID("course", params.CourseID); err != nil {
		return nil, err
	}
	title, err := requireText("title", params.Title)
	if err != nil {
		return nil, err
	}
	if err := checkOrderIndex(params.OrderIndex); err != nil {
		return nil, err
	}
	if err := s.repo.ResolvePath(ctx, core.CurriculumPath{CourseID: params.CourseID}); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	module := core.Module{
		ID:          uuid.New(),
		CourseID:    params.CourseID,
		Title:       title,
		Description: trimmedPtr(params.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.OrderIndex != nil {
		module.OrderIndex = *params.OrderIndex
	}

	created, err := s.repo.CreateModule(ctx, module, params.OrderIndex == nil)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, created.CourseID)
	return created, nil
}

// UpdateModule applies a partial update to a module.
func (s *CurriculumService) UpdateModule(ctx context.Context, params core.UpdateModuleParams) (*core.Module, error) {
	if err := requireID("module", params.ID); err != nil {
		return nil, err
	}
	path := params.Path
	path.ModuleID = params.ID
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	patch := params.Patch
	updated, err := s.repo.UpdateModule(ctx, params.ID, func(module *core.Module) error {
		if err := patchText("title", patch.Title, &module.Title); err != nil {
			return err
		}
		patch.Description.Apply(&module.Description)
		if err := patchOrderIndex(patch.OrderIndex, &module.OrderIndex); err != nil {
			return err
		}
		module.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, updated.CourseID)
	return updated, nil
}

// DeleteModule removes a module and its lessons.
func (s *CurriculumService) DeleteModule(ctx context.Context, path core.CurriculumPath, id uuid.UUID) error {
	if err := requireID("module", id); err != nil {
		return err
	}
	path.ModuleID = id
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteModule(ctx, id)
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, deleted.CourseID)
	return nil
}

// ListLessons returns the lessons of the module named by path.
func (s *CurriculumService) ListLessons(ctx context.Context, path core.CurriculumPath) ([]core.Lesson, error) {
	if err := requireID("module", path.ModuleID); err != nil {
		return nil, err
	}
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return nil, err
	}
	return s.repo.ListLessons(ctx, path.ModuleID)
}

// CreateLesson appends a lesson to a module. The course duration is refreshed by the repository.
func (s *CurriculumService) CreateLesson(ctx context.Context, params core.CreateLessonParams) (*core.Lesson, error) {
	if err := requireID("module", params.Path.ModuleID); err != nil {
		return nil, err
	}
	title, err := requireText("title", params.Title)
	if err != nil {
		return nil, err
	}
	if err := checkOrderIndex(params.OrderIndex); err != nil {
		return nil, err
	}
	lessonType := params.Type
	if lessonType == "" {
		lessonType = core.LessonTypeVideo
	}
	if err := validateLesson(lessonType, params.DurationMinutes); err != nil {
		return nil, err
	}
	if err := s.repo.ResolvePath(ctx, params.Path); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lesson := core.Lesson{
		ID:                 uuid.New(),
		ModuleID:           params.Path.ModuleID,
		Title:              title,
		Description:        trimmedPtr(params.Description),
		Type:               lessonType,
		ContentURL:         trimmedPtr(params.ContentURL),
		DurationMinutes:    params.DurationMinutes,
		IsPreview:          params.IsPreview,
		StudyMaterials:     params.StudyMaterials,
		PracticeMaterials:  params.PracticeMaterials,
		LearningObjectives: cleanObjectives(params.LearningObjectives),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if params.OrderIndex != nil {
		lesson.OrderIndex = *params.OrderIndex
	}

	created, err := s.repo.CreateLesson(ctx, lesson, params.OrderIndex == nil)
	if err != nil {
		return nil, err
	}
	s.invalidateModule(ctx, created.ModuleID)
	return created, nil
}

// GetLesson returns a lesson with its resources and exercises.
func (s *CurriculumService) GetLesson(ctx context.Context, path core.CurriculumPath, id uuid.UUID) (*core.Lesson, error) {
	if err := requireID("lesson", id); err != nil {
		return nil, err
	}
	path.LessonID = id
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return nil, err
	}
	return s.repo.GetLesson(ctx, id, true)
}

// UpdateLesson applies a partial update to a lesson. The repository re-reads the
// lesson under the course lock before the patch is applied.
func (s *CurriculumService) UpdateLesson(ctx context.Context, params core.UpdateLessonParams) (*core.Lesson, error) {
	if err := requireID("lesson", params.ID); err != nil {
		return nil, err
	}
	path := params.Path
	path.LessonID = params.ID
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updated, err := s.repo.UpdateLesson(ctx, params.ID, func(lesson *core.Lesson) error {
		return applyLessonPatch(lesson, params.Patch, now)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateModule(ctx, updated.ModuleID)
	return updated, nil
}

// DeleteLesson removes a lesson with its resources and exercises.
func (s *CurriculumService) DeleteLesson(ctx context.Context, path core.CurriculumPath, id uuid.UUID) error {
	if err := requireID("lesson", id); err != nil {
		return err
	}
	path.LessonID = id
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteLesson(ctx, id)
	if err != nil {
		return err
	}
	s.invalidateModule(ctx, deleted.ModuleID)
	return nil
}

// ListResources returns the resources of the lesson named by path.
func (s *CurriculumService) ListResources(ctx context.Context, path core.CurriculumPath) ([]core.Resource, error) {
	if err := requireID("lesson", path.LessonID); err != nil {
		return nil, err
	}
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return nil, err
	}
	return s.repo.ListResources(ctx, path.LessonID)
}

// CreateResource appends a resource to a lesson.
func (s *CurriculumService) CreateResource(ctx context.Context, params core.CreateResourceParams) (*core.Resource, error) {
	if err := requireID("lesson", params.Path.LessonID); err != nil {
		return nil, err
	}
	title, err := requireText("title", params.Title)
	if err != nil {
		return nil, err
	}
	resourceType, err := requireText("type", params.Type)
	if err != nil {
		return nil, err
	}
	url, err := requireText("url", params.URL)
	if err != nil {
		return nil, err
	}
	if err := checkOrderIndex(params.OrderIndex); err != nil {
		return nil, err
	}
	if err := s.repo.ResolvePath(ctx, params.Path); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	resource := core.Resource{
		ID:             uuid.New(),
		LessonID:       params.Path.LessonID,
		Title:          title,
		Description:    trimmedPtr(params.Description),
		Type:           resourceType,
		URL:            url,
		IsDownloadable: params.IsDownloadable == nil || *params.IsDownloadable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if params.OrderIndex != nil {
		resource.OrderIndex = *params.OrderIndex
	}
	return s.repo.CreateResource(ctx, resource, params.OrderIndex == nil)
}

// UpdateResource applies a partial update to a resource.
func (s *CurriculumService) UpdateResource(ctx context.Context, params core.UpdateResourceParams) (*core.Resource, error) {
	if err := requireID("resource", params.ID); err != nil {
		return nil, err
	}
	if err := s.repo.ResolvePath(ctx, params.Path); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	patch := params.Patch
	return s.repo.UpdateResource(ctx, params.ID, func(resource *core.Resource) error {
		if err := checkParent("resource", resource.ID, resource.LessonID, params.Path.LessonID); err != nil {
			return err
		}
		if err := patchText("title", patch.Title, &resource.Title); err != nil {
			return err
		}
		if err := patchText("type", patch.Type, &resource.Type); err != nil {
			return err
		}
		if err := patchText("url", patch.URL, &resource.URL); err != nil {
			return err
		}
		patch.Description.Apply(&resource.Description)
		if patch.IsDownloadable.Set {
			resource.IsDownloadable = patch.IsDownloadable.Value
		}
		if err := patchOrderIndex(patch.OrderIndex, &resource.OrderIndex); err != nil {
			return err
		}
		resource.UpdatedAt = now
		return nil
	})
}

// DeleteResource removes a resource.
func (s *CurriculumService) DeleteResource(ctx context.Context, path core.CurriculumPath, id uuid.UUID) error {
	if err := requireID("resource", id); err != nil {
		return err
	}
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return err
	}
	resource, err := s.repo.GetResource(ctx, id)
	if err != nil {
		return err
	}
	if err := checkParent("resource", id, resource.LessonID, path.LessonID); err != nil {
		return err
	}
	_, err = s.repo.DeleteResource(ctx, id)
	return err
}

// ListExercises returns the exercises of the lesson named by path.
func (s *CurriculumService) ListExercises(ctx context.Context, path core.CurriculumPath) ([]core.Exercise, error) {
	if err := requireID("lesson", path.LessonID); err != nil {
		return nil, err
	}
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return nil, err
	}
	return s.repo.ListExercises(ctx, path.LessonID)
}

// CreateExercise appends an exercise to a lesson.
func (s *CurriculumService) CreateExercise(ctx context.Context, params core.CreateExerciseParams) (*core.Exercise, error) {
	if err := requireID("lesson", params.Path.LessonID); err != nil {
		return nil, err
	}
	title, err := requireText("title", params.Title)
	if err != nil {
		return nil, err
	}
	exerciseType, err := requireText("type", params.Type)
	if err != nil {
		return nil, err
	}
	content, err := requireText("content", params.Content)
	if err != nil {
		return nil, err
	}
	if err := checkOrderIndex(params.OrderIndex); err != nil {
		return nil, err
	}
	if params.Points != nil && *params.Points < 0 {
		return nil, fmt.Errorf("%w: points must be zero or positive", core.ErrValidation)
	}
	if err := s.repo.ResolvePath(ctx, params.Path); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	exercise := core.Exercise{
		ID:            uuid.New(),
		LessonID:      params.Path.LessonID,
		Title:         title,
		Description:   trimmedPtr(params.Description),
		Type:          exerciseType,
		Content:       content,
		CorrectAnswer: params.CorrectAnswer,
		Explanation:   params.Explanation,
		Points:        params.Points,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if params.OrderIndex != nil {
		exercise.OrderIndex = *params.OrderIndex
	}
	return s.repo.CreateExercise(ctx, exercise, params.OrderIndex == nil)
}

// UpdateExercise applies a partial update to an exercise.
func (s *CurriculumService) UpdateExercise(ctx context.Context, params core.UpdateExerciseParams) (*core.Exercise, error) {
	if err := requireID("exercise", params.ID); err != nil {
		return nil, err
	}
	if err := s.repo.ResolvePath(ctx, params.Path); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	patch := params.Patch
	return s.repo.UpdateExercise(ctx, params.ID, func(exercise *core.Exercise) error {
		if err := checkParent("exercise", exercise.ID, exercise.LessonID, params.Path.LessonID); err != nil {
			return err
		}
		if err := patchText("title", patch.Title, &exercise.Title); err != nil {
			return err
		}
		if err := patchText("type", patch.Type, &exercise.Type); err != nil {
			return err
		}
		if err := patchText("content", patch.Content, &exercise.Content); err != nil {
			return err
		}
		patch.Description.Apply(&exercise.Description)
		patch.CorrectAnswer.Apply(&exercise.CorrectAnswer)
		patch.Explanation.Apply(&exercise.Explanation)
		patch.Points.Apply(&exercise.Points)
		if exercise.Points != nil && *exercise.Points < 0 {
			return fmt.Errorf("%w: points must be zero or positive", core.ErrValidation)
		}
		if err := patchOrderIndex(patch.OrderIndex, &exercise.OrderIndex); err != nil {
			return err
		}
		exercise.UpdatedAt = now
		return nil
	})
}

// DeleteExercise removes an exercise.
func (s *CurriculumService) DeleteExercise(ctx context.Context, path core.CurriculumPath, id uuid.UUID) error {
	if err := requireID("exercise", id); err != nil {
		return err
	}
	if err := s.repo.ResolvePath(ctx, path); err != nil {
		return err
	}
	exercise, err := s.repo.GetExercise(ctx, id)
	if err != nil {
		return err
	}
	if err := checkParent("exercise", id, exercise.LessonID, path.LessonID); err != nil {
		return err
	}
	_, err = s.repo.DeleteExercise(ctx, id)
	return err
}

// invalidateModule drops the cached detail of the course owning moduleID.
// Lookup failures only leave the entry to expire.
func (s *CurriculumService) invalidateModule(ctx context.Context, moduleID uuid.UUID) {
	module, err := s.repo.GetModule(ctx, moduleID)
	if err != nil {
		return
	}
	s.cache.Invalidate(ctx, module.CourseID)
}

func applyLessonPatch(lesson *core.Lesson, patch core.LessonPatch, now time.Time) error {
	if err := patchText("title", patch.Title, &lesson.Title); err != nil {
		return err
	}
	patch.Description.Apply(&lesson.Description)
	patch.ContentURL.Apply(&lesson.ContentURL)
	patch.StudyMaterials.Apply(&lesson.StudyMaterials)
	patch.PracticeMaterials.Apply(&lesson.PracticeMaterials)
	if patch.Type.Set {
		lesson.Type = patch.Type.Value
	}
	if patch.DurationMinutes.Set {
		lesson.DurationMinutes = patch.DurationMinutes.Value
	}
	if patch.IsPreview.Set {
		lesson.IsPreview = patch.IsPreview.Value
	}
	if patch.LearningObjectives.Set {
		lesson.LearningObjectives = cleanObjectives(patch.LearningObjectives.Value)
	}
	if err := patchOrderIndex(patch.OrderIndex, &lesson.OrderIndex); err != nil {
		return err
	}
	if err := validateLesson(lesson.Type, lesson.DurationMinutes); err != nil {
		return err
	}
	lesson.UpdatedAt = now
	return nil
}

func validateLesson(lessonType core.LessonType, duration int) error {
	if !lessonType.Valid() {
		return fmt.Errorf("%w: unknown lesson type %q", core.ErrValidation, lessonType)
	}
	if duration < 0 {
		return fmt.Errorf("%w: duration_minutes must be zero or positive", core.ErrValidation)
	}
	return nil
}

func patchOrderIndex(patch core.Optional[int], dst *int) error {
	if !patch.Set {
		return nil
	}
	if patch.Null {
		return fmt.Errorf("%w: order_index cannot be null", core.ErrValidation)
	}
	if err := checkOrderIndex(&patch.Value); err != nil {
		return err
	}
	*dst = patch.Value
	return nil
}

func cleanObjectives(objectives []string) []string {
	if objectives == nil {
		return nil
	}
	return lo.FilterMap(objectives, func(o string, _ int) (string, bool) {
		o = strings.TrimSpace(o)
		return o, o != ""
	})
}
