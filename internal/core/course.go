package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CourseLevel is the target audience of a course.
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

// Valid reports whether l is a known level.
func (l CourseLevel) Valid() bool {
	switch l {
	case CourseLevelBeginner, CourseLevelIntermediate, CourseLevelAdvanced:
		return true
	}
	return false
}

// CourseType separates free courses from paid ones.
type CourseType string

const (
	CourseTypeFree CourseType = "free"
	CourseTypePaid CourseType = "paid"
)

// Valid reports whether t is a known course type.
func (t CourseType) Valid() bool {
	return t == CourseTypeFree || t == CourseTypePaid
}

// CourseStatus denotes the lifecycle stage for a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

// Valid reports whether s is a known status.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	}
	return false
}

// CourseSort selects the list ordering.
type CourseSort string

const (
	CourseSortNewest   CourseSort = "newest"
	CourseSortRating   CourseSort = "rating"
	CourseSortDuration CourseSort = "duration"
	CourseSortTitle    CourseSort = "title"
)

// Valid reports whether s is a known ordering.
func (s CourseSort) Valid() bool {
	switch s {
	case CourseSortNewest, CourseSortRating, CourseSortDuration, CourseSortTitle:
		return true
	}
	return false
}

// Category groups courses by subject.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
}

// Course represents a persisted course with its optional curriculum.
type Course struct {
	ID              uuid.UUID
	Title           string
	Slug            string
	Description     string
	InstructorName  string
	InstructorBio   *string
	CategoryID      uuid.UUID
	Level           CourseLevel
	Type            CourseType
	Price           *float64
	ThumbnailURL    *string
	IntroVideoURL   *string
	DurationMinutes int
	Rating          float64
	Status          CourseStatus
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Modules         []Module
}

// CourseDraft contains the caller-supplied attributes of a new course.
type CourseDraft struct {
	Title          string
	Description    string
	InstructorName string
	InstructorBio  *string
	Category       string
	Level          CourseLevel
	Type           CourseType
	Price          *float64
	IntroVideoURL  *string
	Status         CourseStatus
}

// CoursePatch lists the fields of a partial course update.
type CoursePatch struct {
	Title          Optional[string]
	Description    Optional[string]
	InstructorName Optional[string]
	InstructorBio  Optional[string]
	Category       Optional[string]
	Level          Optional[CourseLevel]
	Type           Optional[CourseType]
	Price          Optional[float64]
	IntroVideoURL  Optional[string]
	Status         Optional[CourseStatus]
	Rating         Optional[float64]
}

// UpdateCourseParams addresses a course and the patch to apply to it.
type UpdateCourseParams struct {
	ID    uuid.UUID
	Patch CoursePatch
}

// CourseListFilter describes filtering, ordering and pagination options when listing courses.
type CourseListFilter struct {
	Search     string
	CategoryID uuid.UUID
	Category   string
	Level      CourseLevel
	Type       CourseType
	Status     CourseStatus
	Slug       string
	Sort       CourseSort
	Page       Page
}

// CourseList is a single page of courses.
type CourseList struct {
	Courses    []Course
	Pagination Pagination
}

// CourseQueryOptions customise loaded associations for a single course.
type CourseQueryOptions struct {
	IncludeCurriculum bool
}

// Enrollment records an anonymous session joining a course.
type Enrollment struct {
	ID         uuid.UUID
	CourseID   uuid.UUID
	SessionID  string
	EnrolledAt time.Time
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	ListCourses(ctx context.Context, filter CourseListFilter) ([]Course, int, error)
	CreateCourse(ctx context.Context, course Course) (*Course, error)
	GetCourse(ctx context.Context, id uuid.UUID, opts CourseQueryOptions) (*Course, error)
	UpdateCourse(ctx context.Context, course Course) (*Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Enroll(ctx context.Context, enrollment Enrollment) (*Enrollment, error)
	CountEnrollments(ctx context.Context, courseID uuid.UUID) (int, error)
}

// CategoryRepository resolves and manages course categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, category Category) (*Category, error)
	FindCategoryByName(ctx context.Context, name string) (*Category, error)
}

// CourseService exposes the course use cases to adapters.
type CourseService interface {
	ListCourses(ctx context.Context, filter CourseListFilter) (*CourseList, error)
	CreateCourse(ctx context.Context, draft CourseDraft) (*Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	UpdateCourse(ctx context.Context, params UpdateCourseParams) (*Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string, description *string) (*Category, error)
	Enroll(ctx context.Context, courseID uuid.UUID, sessionID string) (*Enrollment, error)
	CountEnrollments(ctx context.Context, courseID uuid.UUID) (int, error)
}

// ThumbnailExtractor derives a preview image URL from an intro video URL.
type ThumbnailExtractor interface {
	Thumbnail(videoURL string) (string, bool)
}

// CourseCache stores rendered course detail documents.
type CourseCache interface {
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, bool)
	SetCourse(ctx context.Context, course *Course)
	Invalidate(ctx context.Context, id uuid.UUID)
}
