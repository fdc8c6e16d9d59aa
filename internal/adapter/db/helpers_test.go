package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

type testRepos struct {
	courses    *CourseRepository
	categories *CategoryRepository
	curriculum *CurriculumRepository
	progress   *ProgressRepository
}

func setupRepos(t *testing.T, ctx context.Context) testRepos {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return openRepos(t, ctx, "file:"+name+"?mode=memory")
}

// setupFileRepos backs the repositories with an on-disk database so concurrent
// callers share real file locking and transactions.
func setupFileRepos(t *testing.T, ctx context.Context) testRepos {
	t.Helper()
	return openRepos(t, ctx, "sqlite:"+filepath.Join(t.TempDir(), "catalog.db"))
}

func openRepos(t *testing.T, ctx context.Context, databaseURL string) testRepos {
	t.Helper()
	drv, err := Open(databaseURL)
	if err != nil {
		t.Fatalf("failed opening sqlite driver: %v", err)
	}
	t.Cleanup(func() { drv.Close() })
	if err := Migrate(ctx, drv); err != nil {
		t.Fatalf("failed creating schema: %v", err)
	}
	curriculum := NewCurriculumRepository(drv)
	return testRepos{
		courses:    NewCourseRepository(drv, curriculum),
		categories: NewCategoryRepository(drv),
		curriculum: curriculum,
		progress:   NewProgressRepository(drv),
	}
}

func createCategoryForTest(t *testing.T, repos testRepos, ctx context.Context, name string) core.Category {
	t.Helper()
	category, err := repos.categories.CreateCategory(ctx, core.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	return *category
}

func createCourseForTest(t *testing.T, repos testRepos, ctx context.Context, course core.Course) core.Course {
	t.Helper()
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	if course.Slug == "" {
		course.Slug = core.Slugify(course.Title)
	}
	if course.Level == "" {
		course.Level = core.CourseLevelBeginner
	}
	if course.Type == "" {
		course.Type = core.CourseTypeFree
	}
	if course.Status == "" {
		course.Status = core.CourseStatusDraft
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	if course.UpdatedAt.IsZero() {
		course.UpdatedAt = course.CreatedAt
	}
	created, err := repos.courses.CreateCourse(ctx, course)
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	return *created
}

func createModuleForTest(t *testing.T, repos testRepos, ctx context.Context, courseID uuid.UUID, title string) core.Module {
	t.Helper()
	now := time.Now().UTC()
	module, err := repos.curriculum.CreateModule(ctx, core.Module{
		ID:        uuid.New(),
		CourseID:  courseID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}, true)
	if err != nil {
		t.Fatalf("CreateModule() error = %v", err)
	}
	return *module
}

func createLessonForTest(t *testing.T, repos testRepos, ctx context.Context, moduleID uuid.UUID, title string, minutes int) core.Lesson {
	t.Helper()
	now := time.Now().UTC()
	lesson, err := repos.curriculum.CreateLesson(ctx, core.Lesson{
		ID:              uuid.New(),
		ModuleID:        moduleID,
		Title:           title,
		Type:            core.LessonTypeVideo,
		DurationMinutes: minutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, true)
	if err != nil {
		t.Fatalf("CreateLesson() error = %v", err)
	}
	return *lesson
}

func courseDuration(t *testing.T, repos testRepos, ctx context.Context, id uuid.UUID) int {
	t.Helper()
	course, err := repos.courses.GetCourse(ctx, id, core.CourseQueryOptions{})
	if err != nil {
		t.Fatalf("GetCourse() error = %v", err)
	}
	return course.DurationMinutes
}
