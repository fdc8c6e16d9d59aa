package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

type stubCourseRepo struct {
	listCoursesFn      func(ctx context.Context, filter core.CourseListFilter) ([]core.Course, int, error)
	createCourseFn     func(ctx context.Context, course core.Course) (*core.Course, error)
	getCourseFn        func(ctx context.Context, id uuid.UUID, opts core.CourseQueryOptions) (*core.Course, error)
	updateCourseFn     func(ctx context.Context, course core.Course) (*core.Course, error)
	deleteCourseFn     func(ctx context.Context, id uuid.UUID) error
	slugTakenFn        func(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	enrollFn           func(ctx context.Context, enrollment core.Enrollment) (*core.Enrollment, error)
	countEnrollmentsFn func(ctx context.Context, courseID uuid.UUID) (int, error)
}

func (s *stubCourseRepo) ListCourses(ctx context.Context, filter core.CourseListFilter) ([]core.Course, int, error) {
	if s.listCoursesFn != nil {
		return s.listCoursesFn(ctx, filter)
	}
	return nil, 0, nil
}

func (s *stubCourseRepo) CreateCourse(ctx context.Context, course core.Course) (*core.Course, error) {
	if s.createCourseFn != nil {
		return s.createCourseFn(ctx, course)
	}
	return &course, nil
}

func (s *stubCourseRepo) GetCourse(ctx context.Context, id uuid.UUID, opts core.CourseQueryOptions) (*core.Course, error) {
	if s.getCourseFn != nil {
		return s.getCourseFn(ctx, id, opts)
	}
	return nil, core.ErrNotFound
}

func (s *stubCourseRepo) UpdateCourse(ctx context.Context, course core.Course) (*core.Course, error) {
	if s.updateCourseFn != nil {
		return s.updateCourseFn(ctx, course)
	}
	return &course, nil
}

func (s *stubCourseRepo) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if s.deleteCourseFn != nil {
		return s.deleteCourseFn(ctx, id)
	}
	return nil
}

func (s *stubCourseRepo) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	if s.slugTakenFn != nil {
		return s.slugTakenFn(ctx, slug, exclude)
	}
	return false, nil
}

func (s *stubCourseRepo) Enroll(ctx context.Context, enrollment core.Enrollment) (*core.Enrollment, error) {
	if s.enrollFn != nil {
		return s.enrollFn(ctx, enrollment)
	}
	return &enrollment, nil
}

func (s *stubCourseRepo) CountEnrollments(ctx context.Context, courseID uuid.UUID) (int, error) {
	if s.countEnrollmentsFn != nil {
		return s.countEnrollmentsFn(ctx, courseID)
	}
	return 0, nil
}

type stubCategoryRepo struct {
	categories []core.Category
	created    []core.Category
}

func (s *stubCategoryRepo) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.categories, nil
}

func (s *stubCategoryRepo) CreateCategory(ctx context.Context, category core.Category) (*core.Category, error) {
	s.created = append(s.created, category)
	s.categories = append(s.categories, category)
	return &category, nil
}

func (s *stubCategoryRepo) FindCategoryByName(ctx context.Context, name string) (*core.Category, error) {
	for _, c := range s.categories {
		if c.Name == name {
			found := c
			return &found, nil
		}
	}
	return nil, core.ErrNotFound
}

type stubCache struct {
	courses     map[uuid.UUID]*core.Course
	invalidated []uuid.UUID
}

func newStubCache() *stubCache {
	return &stubCache{courses: map[uuid.UUID]*core.Course{}}
}

func (s *stubCache) GetCourse(ctx context.Context, id uuid.UUID) (*core.Course, bool) {
	course, ok := s.courses[id]
	return course, ok
}

func (s *stubCache) SetCourse(ctx context.Context, course *core.Course) {
	s.courses[course.ID] = course
}

func (s *stubCache) Invalidate(ctx context.Context, id uuid.UUID) {
	delete(s.courses, id)
	s.invalidated = append(s.invalidated, id)
}

type stubThumbnails struct{}

func (stubThumbnails) Thumbnail(videoURL string) (string, bool) {
	if videoURL == "" {
		return "", false
	}
	return videoURL + "/thumb.jpg", true
}

type stubCurriculumRepo struct {
	core.CurriculumRepository

	courses   map[uuid.UUID]bool
	modules   map[uuid.UUID]core.Module
	lessons   map[uuid.UUID]core.Lesson
	resources map[uuid.UUID]core.Resource
	exercises map[uuid.UUID]core.Exercise

	lastAssignOrder bool
	recomputeCalls  int
}

func newStubCurriculumRepo() *stubCurriculumRepo {
	return &stubCurriculumRepo{
		courses:   map[uuid.UUID]bool{},
		modules:   map[uuid.UUID]core.Module{},
		lessons:   map[uuid.UUID]core.Lesson{},
		resources: map[uuid.UUID]core.Resource{},
		exercises: map[uuid.UUID]core.Exercise{},
	}
}

func (s *stubCurriculumRepo) ResolvePath(ctx context.Context, path core.CurriculumPath) error {
	moduleID := path.ModuleID
	if path.LessonID != uuid.Nil {
		lesson, ok := s.lessons[path.LessonID]
		if !ok || (moduleID != uuid.Nil && lesson.ModuleID != moduleID) {
			return core.ErrNotFound
		}
		moduleID = lesson.ModuleID
	}
	if moduleID != uuid.Nil {
		module, ok := s.modules[moduleID]
		if !ok || (path.CourseID != uuid.Nil && module.CourseID != path.CourseID) {
			return core.ErrNotFound
		}
		return nil
	}
	if path.CourseID != uuid.Nil && !s.courses[path.CourseID] {
		return core.ErrNotFound
	}
	return nil
}

func (s *stubCurriculumRepo) CreateModule(ctx context.Context, module core.Module, assignOrder bool) (*core.Module, error) {
	s.lastAssignOrder = assignOrder
	if assignOrder {
		module.OrderIndex = len(s.modules) + 1
	}
	s.modules[module.ID] = module
	return &module, nil
}

func (s *stubCurriculumRepo) GetModule(ctx context.Context, id uuid.UUID) (*core.Module, error) {
	module, ok := s.modules[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &module, nil
}

func (s *stubCurriculumRepo) UpdateModule(ctx context.Context, id uuid.UUID, apply func(*core.Module) error) (*core.Module, error) {
	module, ok := s.modules[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if err := apply(&module); err != nil {
		return nil, err
	}
	s.modules[id] = module
	return &module, nil
}

func (s *stubCurriculumRepo) DeleteModule(ctx context.Context, id uuid.UUID) (*core.Module, error) {
	module, ok := s.modules[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	delete(s.modules, id)
	return &module, nil
}

func (s *stubCurriculumRepo) CreateLesson(ctx context.Context, lesson core.Lesson, assignOrder bool) (*core.Lesson, error) {
	if _, ok := s.modules[lesson.ModuleID]; !ok {
		return nil, core.ErrInvalidReference
	}
	s.lastAssignOrder = assignOrder
	s.lessons[lesson.ID] = lesson
	s.recomputeCalls++
	return &lesson, nil
}

func (s *stubCurriculumRepo) GetLesson(ctx context.Context, id uuid.UUID, includeMaterials bool) (*core.Lesson, error) {
	lesson, ok := s.lessons[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &lesson, nil
}

func (s *stubCurriculumRepo) UpdateLesson(ctx context.Context, id uuid.UUID, apply func(*core.Lesson) error) (*core.Lesson, error) {
	lesson, ok := s.lessons[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	duration := lesson.DurationMinutes
	if err := apply(&lesson); err != nil {
		return nil, err
	}
	s.lessons[id] = lesson
	if lesson.DurationMinutes != duration {
		s.recomputeCalls++
	}
	return &lesson, nil
}

func (s *stubCurriculumRepo) DeleteLesson(ctx context.Context, id uuid.UUID) (*core.Lesson, error) {
	lesson, ok := s.lessons[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	delete(s.lessons, id)
	s.recomputeCalls++
	return &lesson, nil
}

func (s *stubCurriculumRepo) CreateResource(ctx context.Context, resource core.Resource, assignOrder bool) (*core.Resource, error) {
	s.lastAssignOrder = assignOrder
	s.resources[resource.ID] = resource
	return &resource, nil
}

func (s *stubCurriculumRepo) GetResource(ctx context.Context, id uuid.UUID) (*core.Resource, error) {
	resource, ok := s.resources[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &resource, nil
}

func (s *stubCurriculumRepo) UpdateResource(ctx context.Context, id uuid.UUID, apply func(*core.Resource) error) (*core.Resource, error) {
	resource, ok := s.resources[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if err := apply(&resource); err != nil {
		return nil, err
	}
	s.resources[id] = resource
	return &resource, nil
}

func (s *stubCurriculumRepo) DeleteResource(ctx context.Context, id uuid.UUID) (*core.Resource, error) {
	resource, ok := s.resources[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	delete(s.resources, id)
	return &resource, nil
}

func (s *stubCurriculumRepo) CreateExercise(ctx context.Context, exercise core.Exercise, assignOrder bool) (*core.Exercise, error) {
	s.lastAssignOrder = assignOrder
	s.exercises[exercise.ID] = exercise
	return &exercise, nil
}

func (s *stubCurriculumRepo) GetExercise(ctx context.Context, id uuid.UUID) (*core.Exercise, error) {
	exercise, ok := s.exercises[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &exercise, nil
}

func (s *stubCurriculumRepo) UpdateExercise(ctx context.Context, id uuid.UUID, apply func(*core.Exercise) error) (*core.Exercise, error) {
	exercise, ok := s.exercises[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if err := apply(&exercise); err != nil {
		return nil, err
	}
	s.exercises[id] = exercise
	return &exercise, nil
}

func (s *stubCurriculumRepo) DeleteExercise(ctx context.Context, id uuid.UUID) (*core.Exercise, error) {
	exercise, ok := s.exercises[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	delete(s.exercises, id)
	return &exercise, nil
}

type stubProgressRepo struct {
	getProgressFn      func(ctx context.Context, courseID uuid.UUID, sessionID string) (*core.CourseProgress, error)
	recordCompletionFn func(ctx context.Context, params core.RecordCompletionParams) (*core.CourseProgress, *core.LessonCompletion, error)
}

func (s *stubProgressRepo) GetProgress(ctx context.Context, courseID uuid.UUID, sessionID string) (*core.CourseProgress, error) {
	if s.getProgressFn != nil {
		return s.getProgressFn(ctx, courseID, sessionID)
	}
	return nil, core.ErrNotFound
}

func (s *stubProgressRepo) RecordCompletion(ctx context.Context, params core.RecordCompletionParams) (*core.CourseProgress, *core.LessonCompletion, error) {
	if s.recordCompletionFn != nil {
		return s.recordCompletionFn(ctx, params)
	}
	return &core.CourseProgress{CourseID: params.CourseID, SessionID: params.SessionID}, &core.LessonCompletion{LessonID: params.LessonID}, nil
}
