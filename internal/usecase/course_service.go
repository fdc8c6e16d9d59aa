package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

const (
	maxSlugAttempts = 50
	maxSlugWrites   = 3
)

// CourseService coordinates course-related use cases.
type CourseService struct {
	courses    core.CourseRepository
	categories core.CategoryRepository
	thumbnails core.ThumbnailExtractor
	cache      core.CourseCache
	now        func() time.Time
}

// NewCourseService constructs a CourseService backed by the provided collaborators.
func NewCourseService(
	courses core.CourseRepository,
	categories core.CategoryRepository,
	thumbnails core.ThumbnailExtractor,
	cache core.CourseCache,
) *CourseService {
	return &CourseService{
		courses:    courses,
		categories: categories,
		thumbnails: thumbnails,
		cache:      cache,
		now:        time.Now,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *CourseService) WithClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

var _ core.CourseService = (*CourseService)(nil)

// ListCourses returns one page of courses and its pagination summary.
func (s *CourseService) ListCourses(ctx context.Context, filter core.CourseListFilter) (*core.CourseList, error) {
	filter.Page = filter.Page.Normalize()
	if filter.Sort == "" {
		filter.Sort = core.CourseSortNewest
	}
	if err := validateListFilter(filter); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(filter.Category); name != "" && filter.CategoryID == uuid.Nil {
		if id, err := uuid.Parse(name); err == nil {
			filter.CategoryID = id
		} else {
			category, err := s.categories.FindCategoryByName(ctx, name)
			switch {
			case errors.Is(err, core.ErrNotFound):
				return &core.CourseList{Pagination: core.NewPagination(filter.Page, 0)}, nil
			case err != nil:
				return nil, err
			}
			filter.CategoryID = category.ID
		}
	}

	courses, total, err := s.courses.ListCourses(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &core.CourseList{
		Courses:    courses,
		Pagination: core.NewPagination(filter.Page, total),
	}, nil
}

func validateListFilter(filter core.CourseListFilter) error {
	switch {
	case filter.Level != "" && !filter.Level.Valid():
		return fmt.Errorf("%w: unknown level %q", core.ErrValidation, filter.Level)
	case filter.Type != "" && !filter.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", core.ErrValidation, filter.Type)
	case filter.Status != "" && !filter.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", core.ErrValidation, filter.Status)
	case !filter.Sort.Valid():
		return fmt.Errorf("%w: unknown sort %q", core.ErrValidation, filter.Sort)
	}
	return nil
}

// CreateCourse validates a draft, derives its slug and thumbnail and stores it.
func (s *CourseService) CreateCourse(ctx context.Context, draft core.CourseDraft) (*core.Course, error) {
	title, err := requireText("title", draft.Title)
	if err != nil {
		return nil, err
	}
	description, err := requireText("description", draft.Description)
	if err != nil {
		return nil, err
	}
	instructor, err := requireText("instructor_name", draft.InstructorName)
	if err != nil {
		return nil, err
	}
	categoryName, err := requireText("category", draft.Category)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	course := core.Course{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		InstructorName: instructor,
		InstructorBio:  trimmedPtr(draft.InstructorBio),
		Level:          draft.Level,
		Type:           draft.Type,
		Price:          draft.Price,
		IntroVideoURL:  trimmedPtr(draft.IntroVideoURL),
		Status:         draft.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
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
	if err := validateCourse(&course); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	course.CategoryID = category.ID

	course.ThumbnailURL = s.thumbnailFor(course.IntroVideoURL)
	if course.Status == core.CourseStatusPublished {
		course.PublishedAt = ptrTime(now)
	}

	return s.writeWithSlug(ctx, &course, s.courses.CreateCourse)
}

// GetCourse returns a course with its modules and lessons.
func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*core.Course, error) {
	if err := requireID("course", id); err != nil {
		return nil, err
	}
	if cached, ok := s.cache.GetCourse(ctx, id); ok {
		return cached, nil
	}
	course, err := s.courses.GetCourse(ctx, id, core.CourseQueryOptions{IncludeCurriculum: true})
	if err != nil {
		return nil, err
	}
	s.cache.SetCourse(ctx, course)
	return course, nil
}

// UpdateCourse applies the supplied fields of a patch to an existing course.
func (s *CourseService) UpdateCourse(ctx context.Context, params core.UpdateCourseParams) (*core.Course, error) {
	if err := requireID("course", params.ID); err != nil {
		return nil, err
	}
	course, err := s.courses.GetCourse(ctx, params.ID, core.CourseQueryOptions{})
	if err != nil {
		return nil, err
	}
	wasPublished := course.Status == core.CourseStatusPublished
	patch := params.Patch

	if err := patchText("title", patch.Title, &course.Title); err != nil {
		return nil, err
	}
	if err := patchText("description", patch.Description, &course.Description); err != nil {
		return nil, err
	}
	if err := patchText("instructor_name", patch.InstructorName, &course.InstructorName); err != nil {
		return nil, err
	}
	patch.InstructorBio.Apply(&course.InstructorBio)
	patch.Price.Apply(&course.Price)
	if patch.Level.Set {
		course.Level = patch.Level.Value
	}
	if patch.Type.Set {
		course.Type = patch.Type.Value
	}
	if patch.Status.Set {
		course.Status = patch.Status.Value
	}
	if patch.Rating.Set {
		course.Rating = patch.Rating.Value
	}
	if err := validateCourse(course); err != nil {
		return nil, err
	}

	if patch.Category.Set {
		var name string
		if err := patchText("category", patch.Category, &name); err != nil {
			return nil, err
		}
		category, err := s.resolveCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		course.CategoryID = category.ID
	}
	if patch.IntroVideoURL.Set {
		patch.IntroVideoURL.Apply(&course.IntroVideoURL)
		course.IntroVideoURL = trimmedPtr(course.IntroVideoURL)
		course.ThumbnailURL = s.thumbnailFor(course.IntroVideoURL)
	}

	course.UpdatedAt = s.now().UTC()
	if course.Status == core.CourseStatusPublished && !wasPublished {
		course.PublishedAt = ptrTime(course.UpdatedAt)
	}

	var updated *core.Course
	if patch.Title.Set {
		updated, err = s.writeWithSlug(ctx, course, s.courses.UpdateCourse)
	} else {
		updated, err = s.courses.UpdateCourse(ctx, *course)
	}
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, params.ID)
	return updated, nil
}

// DeleteCourse removes a course and everything it owns. Unknown ids succeed.
func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := requireID("course", id); err != nil {
		return err
	}
	if err := s.courses.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

// ListCategories returns every category ordered by name.
func (s *CourseService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.categories.ListCategories(ctx)
}

// CreateCategory adds a category. Names are unique ignoring case.
func (s *CourseService) CreateCategory(ctx context.Context, name string, description *string) (*core.Category, error) {
	name, err := requireText("name", name)
	if err != nil {
		return nil, err
	}
	existing, err := s.categories.FindCategoryByName(ctx, name)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: category %q already exists", core.ErrValidation, existing.Name)
	case !errors.Is(err, core.ErrNotFound):
		return nil, err
	}
	return s.categories.CreateCategory(ctx, core.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: trimmedPtr(description),
		CreatedAt:   s.now().UTC(),
	})
}

// Enroll records an anonymous session in a course. Repeated calls return the
// original enrollment.
func (s *CourseService) Enroll(ctx context.Context, courseID uuid.UUID, sessionID string) (*core.Enrollment, error) {
	if err := requireID("course", courseID); err != nil {
		return nil, err
	}
	sessionID, err := requireText("session_id", sessionID)
	if err != nil {
		return nil, err
	}
	return s.courses.Enroll(ctx, core.Enrollment{
		ID:         uuid.New(),
		CourseID:   courseID,
		SessionID:  sessionID,
		EnrolledAt: s.now().UTC(),
	})
}

// CountEnrollments returns the number of sessions enrolled in a course.
func (s *CourseService) CountEnrollments(ctx context.Context, courseID uuid.UUID) (int, error) {
	if err := requireID("course", courseID); err != nil {
		return 0, err
	}
	if _, err := s.courses.GetCourse(ctx, courseID, core.CourseQueryOptions{}); err != nil {
		return 0, err
	}
	return s.courses.CountEnrollments(ctx, courseID)
}

// validateCourse checks enumerations and the price/type rule, clearing the price
// of free courses.
func validateCourse(course *core.Course) error {
	switch {
	case !course.Level.Valid():
		return fmt.Errorf("%w: unknown level %q", core.ErrValidation, course.Level)
	case !course.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", core.ErrValidation, course.Type)
	case !course.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", core.ErrValidation, course.Status)
	case course.Rating < 0 || course.Rating > 5:
		return fmt.Errorf("%w: rating must be between 0 and 5", core.ErrValidation)
	}

	if course.Type == core.CourseTypeFree {
		course.Price = nil
		return nil
	}
	if course.Price == nil || *course.Price <= 0 {
		return fmt.Errorf("%w: paid courses require a price greater than zero", core.ErrValidation)
	}
	return nil
}

func (s *CourseService) resolveCategory(ctx context.Context, name string) (*core.Category, error) {
	category, err := s.categories.FindCategoryByName(ctx, name)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("%w %q", core.ErrInvalidCategory, name)
	}
	return category, err
}

// writeWithSlug derives a free slug for course and stores it with write. A slug
// claimed by another writer after the check is retried with a fresh one.
func (s *CourseService) writeWithSlug(ctx context.Context, course *core.Course, write func(context.Context, core.Course) (*core.Course, error)) (*core.Course, error) {
	var err error
	for attempt := 0; attempt < maxSlugWrites; attempt++ {
		if course.Slug, err = s.uniqueSlug(ctx, course.Title, course.ID); err != nil {
			return nil, err
		}
		saved, err := write(ctx, *course)
		if !errors.Is(err, core.ErrConflict) {
			return saved, err
		}
	}
	return nil, fmt.Errorf("%w: no free slug for %q", core.ErrConflict, course.Title)
}

// uniqueSlug derives the slug for title and appends -2, -3, ... until no other
// course uses it. Titles without any ASCII letters or digits fall back to the
// course id.
func (s *CourseService) uniqueSlug(ctx context.Context, title string, courseID uuid.UUID) (string, error) {
	base := core.Slugify(title)
	if base == "" {
		base = "course-" + strings.SplitN(courseID.String(), "-", 2)[0]
	}

	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts; attempt++ {
		taken, err := s.courses.SlugTaken(ctx, candidate, courseID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return fmt.Sprintf("%s-%s", base, courseID.String()[:8]), nil
}

func (s *CourseService) thumbnailFor(videoURL *string) *string {
	if videoURL == nil || s.thumbnails == nil {
		return nil
	}
	thumbnail, ok := s.thumbnails.Thumbnail(*videoURL)
	if !ok {
		return nil
	}
	return &thumbnail
}
