package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

func newTestCurriculumService(now time.Time) (*CurriculumService, *stubCurriculumRepo, *stubCache) {
	repo := newStubCurriculumRepo()
	cache := newStubCache()
	service := NewCurriculumService(repo, cache)
	service.WithClock(func() time.Time { return now })
	return service, repo, cache
}

// seedTree registers a course with one module and one lesson in the stub repository.
func seedTree(repo *stubCurriculumRepo) (core.Module, core.Lesson) {
	courseID := uuid.New()
	repo.courses[courseID] = true
	module := core.Module{ID: uuid.New(), CourseID: courseID, Title: "M1", OrderIndex: 1}
	repo.modules[module.ID] = module
	lesson := core.Lesson{ID: uuid.New(), ModuleID: module.ID, Title: "L1", Type: core.LessonTypeVideo, DurationMinutes: 10, OrderIndex: 1}
	repo.lessons[lesson.ID] = lesson
	return module, lesson
}

func TestCurriculumService_CreateModule(t *testing.T) {
	fixedNow := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	service, repo, cache := newTestCurriculumService(fixedNow)
	courseID := uuid.New()
	repo.courses[courseID] = true

	module, err := service.CreateModule(context.Background(), core.CreateModuleParams{CourseID: courseID, Title: " M1 "})
	if err != nil {
		t.Fatalf("CreateModule() error = %v", err)
	}
	if module.Title != "M1" || module.OrderIndex != 1 || module.CreatedAt != fixedNow {
		t.Fatalf("unexpected module: %+v", module)
	}
	if !repo.lastAssignOrder {
		t.Fatal("expected order index to be assigned when omitted")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != courseID {
		t.Fatalf("expected course cache invalidation, got %v", cache.invalidated)
	}

	order := 7
	explicit, err := service.CreateModule(context.Background(), core.CreateModuleParams{CourseID: courseID, Title: "M7", OrderIndex: &order})
	if err != nil {
		t.Fatalf("CreateModule(explicit) error = %v", err)
	}
	if repo.lastAssignOrder || explicit.OrderIndex != 7 {
		t.Fatalf("expected explicit order index 7, got %d", explicit.OrderIndex)
	}

	if _, err := service.CreateModule(context.Background(), core.CreateModuleParams{CourseID: courseID}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing title, got %v", err)
	}
	negative := -1
	if _, err := service.CreateModule(context.Background(), core.CreateModuleParams{CourseID: courseID, Title: "x", OrderIndex: &negative}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative order, got %v", err)
	}
	if _, err := service.CreateModule(context.Background(), core.CreateModuleParams{Title: "x"}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing course id, got %v", err)
	}
	if _, err := service.CreateModule(context.Background(), core.CreateModuleParams{CourseID: uuid.New(), Title: "x"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown course, got %v", err)
	}
}

func TestCurriculumService_UpdateModule(t *testing.T) {
	service, repo, _ := newTestCurriculumService(time.Now())
	description := "intro"
	module := core.Module{ID: uuid.New(), CourseID: uuid.New(), Title: "M1", Description: &description, OrderIndex: 1}
	repo.modules[module.ID] = module

	updated, err := service.UpdateModule(context.Background(), core.UpdateModuleParams{
		Path:  core.CurriculumPath{CourseID: module.CourseID},
		ID:    module.ID,
		Patch: core.ModulePatch{Description: core.Null[string](), OrderIndex: core.Some(3)},
	})
	if err != nil {
		t.Fatalf("UpdateModule() error = %v", err)
	}
	if updated.Title != "M1" || updated.Description != nil || updated.OrderIndex != 3 {
		t.Fatalf("unexpected module after patch: %+v", updated)
	}

	if _, err := service.UpdateModule(context.Background(), core.UpdateModuleParams{ID: uuid.New()}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.UpdateModule(context.Background(), core.UpdateModuleParams{
		ID: module.ID, Patch: core.ModulePatch{OrderIndex: core.Null[int]()},
	}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for null order, got %v", err)
	}
}

func TestCurriculumService_LessonDurationTriggers(t *testing.T) {
	service, repo, cache := newTestCurriculumService(time.Now())
	courseID := uuid.New()
	repo.courses[courseID] = true
	module := core.Module{ID: uuid.New(), CourseID: courseID, Title: "M1"}
	repo.modules[module.ID] = module
	path := core.CurriculumPath{CourseID: courseID, ModuleID: module.ID}

	lesson, err := service.CreateLesson(context.Background(), core.CreateLessonParams{
		Path: path, Title: "L1", DurationMinutes: 15,
		LearningObjectives: []string{" niyyah ", "", "wudu"},
	})
	if err != nil {
		t.Fatalf("CreateLesson() error = %v", err)
	}
	if lesson.Type != core.LessonTypeVideo {
		t.Fatalf("expected default lesson type video, got %q", lesson.Type)
	}
	if len(lesson.LearningObjectives) != 2 || lesson.LearningObjectives[0] != "niyyah" {
		t.Fatalf("unexpected objectives: %v", lesson.LearningObjectives)
	}
	if repo.recomputeCalls != 1 {
		t.Fatalf("expected duration recompute on create, got %d", repo.recomputeCalls)
	}

	if _, err := service.UpdateLesson(context.Background(), core.UpdateLessonParams{
		Path: path, ID: lesson.ID, Patch: core.LessonPatch{Title: core.Some("L1 renamed")},
	}); err != nil {
		t.Fatalf("UpdateLesson(title) error = %v", err)
	}
	if repo.recomputeCalls != 1 {
		t.Fatalf("expected no recompute for a title change, got %d", repo.recomputeCalls)
	}

	updated, err := service.UpdateLesson(context.Background(), core.UpdateLessonParams{
		Path: path, ID: lesson.ID, Patch: core.LessonPatch{DurationMinutes: core.Some(20)},
	})
	if err != nil {
		t.Fatalf("UpdateLesson(duration) error = %v", err)
	}
	if updated.DurationMinutes != 20 || updated.Title != "L1 renamed" {
		t.Fatalf("unexpected lesson: %+v", updated)
	}
	if repo.recomputeCalls != 2 {
		t.Fatalf("expected recompute for a duration change, got %d", repo.recomputeCalls)
	}

	if err := service.DeleteLesson(context.Background(), path, lesson.ID); err != nil {
		t.Fatalf("DeleteLesson() error = %v", err)
	}
	if repo.recomputeCalls != 3 {
		t.Fatalf("expected recompute on delete, got %d", repo.recomputeCalls)
	}
	for _, id := range cache.invalidated {
		if id != courseID {
			t.Fatalf("expected invalidations for course %s only, got %v", courseID, cache.invalidated)
		}
	}
	if len(cache.invalidated) != 4 {
		t.Fatalf("expected 4 invalidations, got %d", len(cache.invalidated))
	}

	cases := []struct {
		name   string
		params core.CreateLessonParams
	}{
		{name: "missing module", params: core.CreateLessonParams{Title: "x"}},
		{name: "missing title", params: core.CreateLessonParams{Path: path}},
		{name: "negative duration", params: core.CreateLessonParams{Path: path, Title: "x", DurationMinutes: -1}},
		{name: "unknown type", params: core.CreateLessonParams{Path: path, Title: "x", Type: "podcast"}},
	}
	for _, tc := range cases {
		if _, err := service.CreateLesson(context.Background(), tc.params); !errors.Is(err, core.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
	unknown := core.CurriculumPath{CourseID: courseID, ModuleID: uuid.New()}
	if _, err := service.CreateLesson(context.Background(), core.CreateLessonParams{Path: unknown, Title: "x"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown module, got %v", err)
	}
}

func TestCurriculumService_LessonUpdateKeepsConcurrentDuration(t *testing.T) {
	service, repo, _ := newTestCurriculumService(time.Now())
	module, lesson := seedTree(repo)
	path := core.CurriculumPath{CourseID: module.CourseID, ModuleID: module.ID}

	// A duration change lands between the caller reading the lesson and sending a title patch.
	if _, err := service.UpdateLesson(context.Background(), core.UpdateLessonParams{
		Path: path, ID: lesson.ID, Patch: core.LessonPatch{DurationMinutes: core.Some(45)},
	}); err != nil {
		t.Fatalf("UpdateLesson(duration) error = %v", err)
	}
	renamed, err := service.UpdateLesson(context.Background(), core.UpdateLessonParams{
		Path: path, ID: lesson.ID, Patch: core.LessonPatch{Title: core.Some("Renamed")},
	})
	if err != nil {
		t.Fatalf("UpdateLesson(title) error = %v", err)
	}
	if renamed.DurationMinutes != 45 {
		t.Fatalf("title patch overwrote duration: got %d", renamed.DurationMinutes)
	}
	if renamed.Title != "Renamed" {
		t.Fatalf("unexpected title %q", renamed.Title)
	}
}

func TestCurriculumService_WrongParentIsNotFound(t *testing.T) {
	service, repo, _ := newTestCurriculumService(time.Now())
	module, lesson := seedTree(repo)
	other, otherLesson := seedTree(repo)
	resource := core.Resource{ID: uuid.New(), LessonID: lesson.ID, Title: "Notes", Type: "pdf", URL: "u"}
	repo.resources[resource.ID] = resource
	exercise := core.Exercise{ID: uuid.New(), LessonID: lesson.ID, Title: "Recall", Type: "quiz", Content: "c"}
	repo.exercises[exercise.ID] = exercise

	ctx := context.Background()
	foreignCourse := core.CurriculumPath{CourseID: other.CourseID}
	foreignModule := core.CurriculumPath{CourseID: module.CourseID, ModuleID: other.ID}
	foreignLesson := core.CurriculumPath{CourseID: module.CourseID, ModuleID: module.ID, LessonID: otherLesson.ID}

	checks := []struct {
		name string
		call func() error
	}{
		{"update module under another course", func() error {
			_, err := service.UpdateModule(ctx, core.UpdateModuleParams{Path: foreignCourse, ID: module.ID, Patch: core.ModulePatch{Title: core.Some("x")}})
			return err
		}},
		{"delete module under another course", func() error {
			return service.DeleteModule(ctx, foreignCourse, module.ID)
		}},
		{"list lessons of a module from another course", func() error {
			_, err := service.ListLessons(ctx, core.CurriculumPath{CourseID: module.CourseID, ModuleID: other.ID})
			return err
		}},
		{"create lesson in a module from another course", func() error {
			_, err := service.CreateLesson(ctx, core.CreateLessonParams{Path: core.CurriculumPath{CourseID: module.CourseID, ModuleID: other.ID}, Title: "x"})
			return err
		}},
		{"get lesson under another module", func() error {
			_, err := service.GetLesson(ctx, foreignModule, lesson.ID)
			return err
		}},
		{"update lesson under another module", func() error {
			_, err := service.UpdateLesson(ctx, core.UpdateLessonParams{Path: foreignModule, ID: lesson.ID, Patch: core.LessonPatch{Title: core.Some("x")}})
			return err
		}},
		{"delete lesson under another module", func() error {
			return service.DeleteLesson(ctx, foreignModule, lesson.ID)
		}},
		{"list resources of a lesson from another module", func() error {
			_, err := service.ListResources(ctx, core.CurriculumPath{CourseID: module.CourseID, ModuleID: module.ID, LessonID: otherLesson.ID})
			return err
		}},
		{"create exercise in a lesson from another module", func() error {
			_, err := service.CreateExercise(ctx, core.CreateExerciseParams{Path: foreignLesson, Title: "t", Type: "quiz", Content: "c"})
			return err
		}},
		{"update resource under another lesson", func() error {
			path := core.CurriculumPath{CourseID: other.CourseID, ModuleID: other.ID, LessonID: otherLesson.ID}
			_, err := service.UpdateResource(ctx, core.UpdateResourceParams{Path: path, ID: resource.ID, Patch: core.ResourcePatch{Title: core.Some("x")}})
			return err
		}},
		{"delete exercise under another lesson", func() error {
			path := core.CurriculumPath{CourseID: other.CourseID, ModuleID: other.ID, LessonID: otherLesson.ID}
			return service.DeleteExercise(ctx, path, exercise.ID)
		}},
	}
	for _, tc := range checks {
		if err := tc.call(); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", tc.name, err)
		}
	}

	if _, ok := repo.modules[module.ID]; !ok {
		t.Fatal("module deleted through a foreign course path")
	}
	if _, ok := repo.lessons[lesson.ID]; !ok {
		t.Fatal("lesson deleted through a foreign module path")
	}
	if _, ok := repo.exercises[exercise.ID]; !ok {
		t.Fatal("exercise deleted through a foreign lesson path")
	}
	if repo.resources[resource.ID].Title != "Notes" {
		t.Fatal("resource updated through a foreign lesson path")
	}
}

func TestCurriculumService_Resources(t *testing.T) {
	service, repo, _ := newTestCurriculumService(time.Now())
	module, lesson := seedTree(repo)
	path := core.CurriculumPath{CourseID: module.CourseID, ModuleID: module.ID, LessonID: lesson.ID}

	resource, err := service.CreateResource(context.Background(), core.CreateResourceParams{
		Path: path, Title: "Slides", Type: "pdf", URL: "https://cdn.local/slides.pdf",
	})
	if err != nil {
		t.Fatalf("CreateResource() error = %v", err)
	}
	if !resource.IsDownloadable {
		t.Fatal("expected resources to be downloadable by default")
	}
	if !repo.lastAssignOrder {
		t.Fatal("expected order index to be assigned when omitted")
	}

	updated, err := service.UpdateResource(context.Background(), core.UpdateResourceParams{
		Path: path, ID: resource.ID, Patch: core.ResourcePatch{IsDownloadable: core.Some(false), Description: core.Some("week one")},
	})
	if err != nil {
		t.Fatalf("UpdateResource() error = %v", err)
	}
	if updated.IsDownloadable || updated.Description == nil || *updated.Description != "week one" {
		t.Fatalf("unexpected resource: %+v", updated)
	}

	cases := []core.CreateResourceParams{
		{Path: path, Type: "pdf", URL: "u"},
		{Path: path, Title: "t", URL: "u"},
		{Path: path, Title: "t", Type: "pdf"},
	}
	for i, params := range cases {
		if _, err := service.CreateResource(context.Background(), params); !errors.Is(err, core.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
	if _, err := service.UpdateResource(context.Background(), core.UpdateResourceParams{
		Path: path, ID: resource.ID, Patch: core.ResourcePatch{URL: core.Null[string]()},
	}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for null url, got %v", err)
	}

	if err := service.DeleteResource(context.Background(), path, resource.ID); err != nil {
		t.Fatalf("DeleteResource() error = %v", err)
	}
	if _, ok := repo.resources[resource.ID]; ok {
		t.Fatal("expected resource to be removed")
	}
}

func TestCurriculumService_Exercises(t *testing.T) {
	service, repo, _ := newTestCurriculumService(time.Now())
	module, lesson := seedTree(repo)
	path := core.CurriculumPath{CourseID: module.CourseID, ModuleID: module.ID, LessonID: lesson.ID}

	points := 10
	exercise, err := service.CreateExercise(context.Background(), core.CreateExerciseParams{
		Path: path, Title: "Recall", Type: "quiz", Content: "List the pillars", Points: &points,
	})
	if err != nil {
		t.Fatalf("CreateExercise() error = %v", err)
	}

	updated, err := service.UpdateExercise(context.Background(), core.UpdateExerciseParams{
		Path: path, ID: exercise.ID, Patch: core.ExercisePatch{Points: core.Null[int](), CorrectAnswer: core.Some("five")},
	})
	if err != nil {
		t.Fatalf("UpdateExercise() error = %v", err)
	}
	if updated.Points != nil || updated.CorrectAnswer == nil || *updated.CorrectAnswer != "five" {
		t.Fatalf("unexpected exercise: %+v", updated)
	}

	if _, err := service.CreateExercise(context.Background(), core.CreateExerciseParams{
		Path: path, Title: "t", Type: "quiz",
	}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing content, got %v", err)
	}
	negative := -3
	if _, err := service.CreateExercise(context.Background(), core.CreateExerciseParams{
		Path: path, Title: "t", Type: "quiz", Content: "c", Points: &negative,
	}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative points, got %v", err)
	}
}
