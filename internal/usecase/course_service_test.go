package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

func newTestCourseService(repo *stubCourseRepo, cache *stubCache, now time.Time) (*CourseService, *stubCategoryRepo) {
	categories := &stubCategoryRepo{categories: []core.Category{
		{ID: uuid.New(), Name: "Fiqh"},
		{ID: uuid.New(), Name: "Hadith"},
	}}
	service := NewCourseService(repo, categories, stubThumbnails{}, cache)
	service.WithClock(func() time.Time { return now })
	return service, categories
}

func TestCourseService_CreateCourse(t *testing.T) {
	fixedNow := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var captured core.Course

	repo := &stubCourseRepo{
		createCourseFn: func(ctx context.Context, course core.Course) (*core.Course, error) {
			captured = course
			copy := course
			return &copy, nil
		},
	}
	service, categories := newTestCourseService(repo, newStubCache(), fixedNow)

	price := 10.0
	got, err := service.CreateCourse(context.Background(), core.CourseDraft{
		Title:          "Intro to Fiqh",
		Description:    "d",
		InstructorName: "X",
		Category:       "Fiqh",
		Type:           core.CourseTypeFree,
		Price:          &price,
	})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	if got.Slug != "intro-to-fiqh" {
		t.Fatalf("expected slug intro-to-fiqh, got %q", got.Slug)
	}
	if captured.Price != nil {
		t.Fatalf("expected free course price to be cleared, got %v", *captured.Price)
	}
	if captured.DurationMinutes != 0 {
		t.Fatalf("expected zero duration, got %d", captured.DurationMinutes)
	}
	if captured.CategoryID != categories.categories[0].ID {
		t.Fatalf("expected category %s, got %s", categories.categories[0].ID, captured.CategoryID)
	}
	if captured.Level != core.CourseLevelBeginner || captured.Status != core.CourseStatusDraft {
		t.Fatalf("expected defaults beginner/draft, got %s/%s", captured.Level, captured.Status)
	}
	if captured.PublishedAt != nil {
		t.Fatal("expected draft course to have no published_at")
	}
	if captured.CreatedAt != fixedNow || captured.ID == uuid.Nil {
		t.Fatalf("unexpected identity/timestamps: %s %v", captured.ID, captured.CreatedAt)
	}
}

func TestCourseService_CreateCourseRetriesSlugConflict(t *testing.T) {
	// Another writer inserts "tafsir" between the availability check and the insert.
	inserted := map[string]bool{}
	var attempts []string
	repo := &stubCourseRepo{
		slugTakenFn: func(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
			return inserted[slug], nil
		},
		createCourseFn: func(ctx context.Context, course core.Course) (*core.Course, error) {
			attempts = append(attempts, course.Slug)
			if len(attempts) == 1 {
				inserted[course.Slug] = true
				return nil, fmt.Errorf("%w: slug %q is already taken", core.ErrConflict, course.Slug)
			}
			return &course, nil
		},
	}
	service, _ := newTestCourseService(repo, newStubCache(), time.Now())

	draft := core.CourseDraft{Title: "Tafsir", Description: "d", InstructorName: "X", Category: "Fiqh", Type: core.CourseTypeFree}
	got, err := service.CreateCourse(context.Background(), draft)
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	if got.Slug != "tafsir-2" {
		t.Fatalf("expected slug tafsir-2 after a conflict, got %q", got.Slug)
	}
	if len(attempts) != 2 || attempts[0] != "tafsir" {
		t.Fatalf("unexpected insert attempts: %v", attempts)
	}

	// A repository that always conflicts surfaces ErrConflict instead of looping.
	repo.createCourseFn = func(ctx context.Context, course core.Course) (*core.Course, error) {
		return nil, fmt.Errorf("%w: slug %q is already taken", core.ErrConflict, course.Slug)
	}
	if _, err := service.CreateCourse(context.Background(), draft); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCourseService_CreateCourseDerivesFields(t *testing.T) {
	fixedNow := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := &stubCourseRepo{
		slugTakenFn: func(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
			return slug == "sahih-muslim" || slug == "sahih-muslim-2", nil
		},
	}
	service, _ := newTestCourseService(repo, newStubCache(), fixedNow)

	price := 25.0
	video := "https://youtu.be/abc"
	got, err := service.CreateCourse(context.Background(), core.CourseDraft{
		Title:          "Sahih Muslim",
		Description:    "d",
		InstructorName: "X",
		Category:       "Hadith",
		Level:          core.CourseLevelAdvanced,
		Type:           core.CourseTypePaid,
		Price:          &price,
		IntroVideoURL:  &video,
		Status:         core.CourseStatusPublished,
	})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	if got.Slug != "sahih-muslim-3" {
		t.Fatalf("expected slug sahih-muslim-3, got %q", got.Slug)
	}
	if got.Price == nil || *got.Price != 25 {
		t.Fatalf("expected price 25, got %v", got.Price)
	}
	if got.ThumbnailURL == nil || *got.ThumbnailURL != video+"/thumb.jpg" {
		t.Fatalf("unexpected thumbnail: %v", got.ThumbnailURL)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(fixedNow) {
		t.Fatalf("expected published_at %v, got %v", fixedNow, got.PublishedAt)
	}
}

func TestCourseService_CreateCourseValidation(t *testing.T) {
	negative := -5.0
	zero := 0.0
	base := core.CourseDraft{Title: "T", Description: "d", InstructorName: "X", Category: "Fiqh"}

	cases := []struct {
		name    string
		mutate  func(d *core.CourseDraft)
		wantErr error
	}{
		{name: "paid negative price", mutate: func(d *core.CourseDraft) { d.Type = core.CourseTypePaid; d.Price = &negative }, wantErr: core.ErrValidation},
		{name: "paid zero price", mutate: func(d *core.CourseDraft) { d.Type = core.CourseTypePaid; d.Price = &zero }, wantErr: core.ErrValidation},
		{name: "paid without price", mutate: func(d *core.CourseDraft) { d.Type = core.CourseTypePaid }, wantErr: core.ErrValidation},
		{name: "missing title", mutate: func(d *core.CourseDraft) { d.Title = "  " }, wantErr: core.ErrValidation},
		{name: "missing description", mutate: func(d *core.CourseDraft) { d.Description = "" }, wantErr: core.ErrValidation},
		{name: "missing instructor", mutate: func(d *core.CourseDraft) { d.InstructorName = "" }, wantErr: core.ErrValidation},
		{name: "missing category", mutate: func(d *core.CourseDraft) { d.Category = "" }, wantErr: core.ErrValidation},
		{name: "unknown level", mutate: func(d *core.CourseDraft) { d.Level = "expert" }, wantErr: core.ErrValidation},
		{name: "unknown category", mutate: func(d *core.CourseDraft) { d.Category = "Astronomy" }, wantErr: core.ErrInvalidCategory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created := false
			repo := &stubCourseRepo{
				createCourseFn: func(ctx context.Context, course core.Course) (*core.Course, error) {
					created = true
					return &course, nil
				},
			}
			service, _ := newTestCourseService(repo, newStubCache(), time.Now())

			draft := base
			tc.mutate(&draft)
			if _, err := service.CreateCourse(context.Background(), draft); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if created {
				t.Fatal("expected no course to be stored")
			}
		})
	}
}

func TestCourseService_CreateCourseInvalidCategoryIsInvalidReference(t *testing.T) {
	service, _ := newTestCourseService(&stubCourseRepo{}, newStubCache(), time.Now())
	_, err := service.CreateCourse(context.Background(), core.CourseDraft{
		Title: "T", Description: "d", InstructorName: "X", Category: "Unknown",
	})
	if !errors.Is(err, core.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestCourseService_UpdateCourse(t *testing.T) {
	fixedNow := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	courseID := uuid.New()
	bio := "old bio"
	existing := core.Course{
		ID:             courseID,
		Title:          "Intro to Fiqh",
		Slug:           "intro-to-fiqh",
		Description:    "d",
		InstructorName: "X",
		InstructorBio:  &bio,
		Level:          core.CourseLevelBeginner,
		Type:           core.CourseTypeFree,
		Status:         core.CourseStatusDraft,
	}

	var captured core.Course
	repo := &stubCourseRepo{
		getCourseFn: func(ctx context.Context, id uuid.UUID, opts core.CourseQueryOptions) (*core.Course, error) {
			if id != courseID {
				return nil, core.ErrNotFound
			}
			copy := existing
			return &copy, nil
		},
		updateCourseFn: func(ctx context.Context, course core.Course) (*core.Course, error) {
			captured = course
			return &course, nil
		},
	}
	cache := newStubCache()
	service, categories := newTestCourseService(repo, cache, fixedNow)

	video := "https://www.youtube.com/watch?v=xyz"
	got, err := service.UpdateCourse(context.Background(), core.UpdateCourseParams{
		ID: courseID,
		Patch: core.CoursePatch{
			Title:         core.Some("Fiqh of Worship"),
			InstructorBio: core.Null[string](),
			Category:      core.Some("Hadith"),
			Status:        core.Some(core.CourseStatusPublished),
			IntroVideoURL: core.Some(video),
		},
	})
	if err != nil {
		t.Fatalf("UpdateCourse() error = %v", err)
	}
	if got.Slug != "fiqh-of-worship" {
		t.Fatalf("expected re-derived slug, got %q", got.Slug)
	}
	if captured.Description != "d" || captured.InstructorName != "X" {
		t.Fatalf("expected absent fields untouched, got %+v", captured)
	}
	if captured.InstructorBio != nil {
		t.Fatalf("expected explicit null to clear bio, got %v", *captured.InstructorBio)
	}
	if captured.CategoryID != categories.categories[1].ID {
		t.Fatalf("expected category %s, got %s", categories.categories[1].ID, captured.CategoryID)
	}
	if captured.PublishedAt == nil || !captured.PublishedAt.Equal(fixedNow) {
		t.Fatalf("expected published_at on transition, got %v", captured.PublishedAt)
	}
	if captured.ThumbnailURL == nil || *captured.ThumbnailURL != video+"/thumb.jpg" {
		t.Fatalf("expected thumbnail to be re-derived, got %v", captured.ThumbnailURL)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != courseID {
		t.Fatalf("expected cache invalidation for %s, got %v", courseID, cache.invalidated)
	}

	cases := []struct {
		name    string
		id      uuid.UUID
		patch   core.CoursePatch
		wantErr error
	}{
		{name: "unknown id", id: uuid.New(), patch: core.CoursePatch{Title: core.Some("x")}, wantErr: core.ErrNotFound},
		{name: "null title", id: courseID, patch: core.CoursePatch{Title: core.Null[string]()}, wantErr: core.ErrValidation},
		{name: "paid without price", id: courseID, patch: core.CoursePatch{Type: core.Some(core.CourseTypePaid)}, wantErr: core.ErrValidation},
		{name: "unknown category", id: courseID, patch: core.CoursePatch{Category: core.Some("Astronomy")}, wantErr: core.ErrInvalidCategory},
		{name: "rating out of range", id: courseID, patch: core.CoursePatch{Rating: core.Some(7.0)}, wantErr: core.ErrValidation},
	}
	for _, tc := range cases {
		if _, err := service.UpdateCourse(context.Background(), core.UpdateCourseParams{ID: tc.id, Patch: tc.patch}); !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestCourseService_UpdateCourseKeepsPublishedAt(t *testing.T) {
	published := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	courseID := uuid.New()
	repo := &stubCourseRepo{
		getCourseFn: func(ctx context.Context, id uuid.UUID, opts core.CourseQueryOptions) (*core.Course, error) {
			return &core.Course{
				ID: courseID, Title: "T", Slug: "t", Description: "d", InstructorName: "X",
				Level: core.CourseLevelBeginner, Type: core.CourseTypeFree,
				Status: core.CourseStatusPublished, PublishedAt: &published,
			}, nil
		},
	}
	service, _ := newTestCourseService(repo, newStubCache(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	price := 15.0
	got, err := service.UpdateCourse(context.Background(), core.UpdateCourseParams{
		ID:    courseID,
		Patch: core.CoursePatch{Type: core.Some(core.CourseTypePaid), Price: core.Some(price)},
	})
	if err != nil {
		t.Fatalf("UpdateCourse() error = %v", err)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(published) {
		t.Fatalf("expected published_at to stay %v, got %v", published, got.PublishedAt)
	}
	if got.Slug != "t" {
		t.Fatalf("expected slug untouched without a title, got %q", got.Slug)
	}
	if got.Price == nil || *got.Price != price {
		t.Fatalf("expected price %v, got %v", price, got.Price)
	}
}

func TestCourseService_GetCourseUsesCache(t *testing.T) {
	courseID := uuid.New()
	calls := 0
	repo := &stubCourseRepo{
		getCourseFn: func(ctx context.Context, id uuid.UUID, opts core.CourseQueryOptions) (*core.Course, error) {
			calls++
			if !opts.IncludeCurriculum {
				t.Fatal("expected curriculum to be loaded")
			}
			return &core.Course{ID: id, Title: "Cached"}, nil
		},
	}
	cache := newStubCache()
	service, _ := newTestCourseService(repo, cache, time.Now())

	for i := 0; i < 3; i++ {
		got, err := service.GetCourse(context.Background(), courseID)
		if err != nil {
			t.Fatalf("GetCourse() error = %v", err)
		}
		if got.Title != "Cached" {
			t.Fatalf("unexpected course %+v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single repository read, got %d", calls)
	}

	if err := service.DeleteCourse(context.Background(), courseID); err != nil {
		t.Fatalf("DeleteCourse() error = %v", err)
	}
	if _, ok := cache.courses[courseID]; ok {
		t.Fatal("expected cache entry to be dropped on delete")
	}
	if _, err := service.GetCourse(context.Background(), uuid.Nil); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for nil id, got %v", err)
	}
}

func TestCourseService_ListCourses(t *testing.T) {
	var captured core.CourseListFilter
	repo := &stubCourseRepo{
		listCoursesFn: func(ctx context.Context, filter core.CourseListFilter) ([]core.Course, int, error) {
			captured = filter
			return []core.Course{{Title: "A"}}, 47, nil
		},
	}
	service, categories := newTestCourseService(repo, newStubCache(), time.Now())

	list, err := service.ListCourses(context.Background(), core.CourseListFilter{
		Category: "Hadith",
		Page:     core.Page{Page: 5, Limit: 10},
	})
	if err != nil {
		t.Fatalf("ListCourses() error = %v", err)
	}
	if captured.CategoryID != categories.categories[1].ID {
		t.Fatalf("expected category name to resolve, got %s", captured.CategoryID)
	}
	if captured.Sort != core.CourseSortNewest {
		t.Fatalf("expected default sort newest, got %q", captured.Sort)
	}
	if list.Pagination.TotalPages != 5 || list.Pagination.Total != 47 || list.Pagination.Page != 5 {
		t.Fatalf("unexpected pagination: %+v", list.Pagination)
	}

	empty, err := service.ListCourses(context.Background(), core.CourseListFilter{Category: "Astronomy"})
	if err != nil {
		t.Fatalf("ListCourses(unknown category) error = %v", err)
	}
	if len(empty.Courses) != 0 || empty.Pagination.Total != 0 || empty.Pagination.Limit != core.DefaultPageLimit {
		t.Fatalf("expected an empty page, got %+v", empty)
	}

	if _, err := service.ListCourses(context.Background(), core.CourseListFilter{Sort: "popular"}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown sort, got %v", err)
	}
}

func TestCourseService_CreateCategory(t *testing.T) {
	fixedNow := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	service, categories := newTestCourseService(&stubCourseRepo{}, newStubCache(), fixedNow)

	got, err := service.CreateCategory(context.Background(), " Seerah ", nil)
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if got.Name != "Seerah" || got.CreatedAt != fixedNow {
		t.Fatalf("unexpected category: %+v", got)
	}
	if len(categories.created) != 1 {
		t.Fatalf("expected 1 stored category, got %d", len(categories.created))
	}
	if _, err := service.CreateCategory(context.Background(), "Fiqh", nil); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate, got %v", err)
	}
}

func TestCourseService_Enroll(t *testing.T) {
	courseID := uuid.New()
	service, _ := newTestCourseService(&stubCourseRepo{}, newStubCache(), time.Now())

	enrollment, err := service.Enroll(context.Background(), courseID, " session-1 ")
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if enrollment.SessionID != "session-1" || enrollment.CourseID != courseID {
		t.Fatalf("unexpected enrollment: %+v", enrollment)
	}
	if _, err := service.Enroll(context.Background(), courseID, ""); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing session, got %v", err)
	}
	if _, err := service.CountEnrollments(context.Background(), courseID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown course, got %v", err)
	}
}
