package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LessonType enumerates the delivery format of a lesson.
type LessonType string

const (
	LessonTypeVideo      LessonType = "video"
	LessonTypeText       LessonType = "text"
	LessonTypeQuiz       LessonType = "quiz"
	LessonTypeAssignment LessonType = "assignment"
)

// Valid reports whether t is a known lesson type.
func (t LessonType) Valid() bool {
	switch t {
	case LessonTypeVideo, LessonTypeText, LessonTypeQuiz, LessonTypeAssignment:
		return true
	}
	return false
}

// Module is an ordered section of a course.
type Module struct {
	ID          uuid.UUID
	CourseID    uuid.UUID
	Title       string
	Description *string
	OrderIndex  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lessons     []Lesson
}

// Lesson is an ordered content unit within a module.
type Lesson struct {
	ID                 uuid.UUID
	ModuleID           uuid.UUID
	Title              string
	Description        *string
	Type               LessonType
	ContentURL         *string
	DurationMinutes    int
	IsPreview          bool
	OrderIndex         int
	StudyMaterials     *string
	PracticeMaterials  *string
	LearningObjectives []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Resources          []Resource
	Exercises          []Exercise
}

// Resource is a supplementary file or link attached to a lesson.
type Resource struct {
	ID             uuid.UUID
	LessonID       uuid.UUID
	Title          string
	Description    *string
	Type           string
	URL            string
	IsDownloadable bool
	OrderIndex     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Exercise is a practice item attached to a lesson.
type Exercise struct {
	ID            uuid.UUID
	LessonID      uuid.UUID
	Title         string
	Description   *string
	Type          string
	Content       string
	CorrectAnswer *string
	Explanation   *string
	Points        *int
	OrderIndex    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CurriculumPath carries the ancestor ids of a nested curriculum route. Each
// non-zero id must exist and belong to the next id up the chain; zero ids are
// not checked.
type CurriculumPath struct {
	CourseID uuid.UUID
	ModuleID uuid.UUID
	LessonID uuid.UUID
}

// CreateModuleParams describes a module appended to a course.
type CreateModuleParams struct {
	CourseID    uuid.UUID
	Title       string
	Description *string
	OrderIndex  *int
}

// ModulePatch lists the fields of a partial module update.
type ModulePatch struct {
	Title       Optional[string]
	Description Optional[string]
	OrderIndex  Optional[int]
}

// UpdateModuleParams addresses a module and the patch to apply to it.
type UpdateModuleParams struct {
	Path  CurriculumPath
	ID    uuid.UUID
	Patch ModulePatch
}

// CreateLessonParams describes a lesson appended to the module named by Path.
type CreateLessonParams struct {
	Path               CurriculumPath
	Title              string
	Description        *string
	Type               LessonType
	ContentURL         *string
	DurationMinutes    int
	IsPreview          bool
	OrderIndex         *int
	StudyMaterials     *string
	PracticeMaterials  *string
	LearningObjectives []string
}

// LessonPatch lists the fields of a partial lesson update.
type LessonPatch struct {
	Title              Optional[string]
	Description        Optional[string]
	Type               Optional[LessonType]
	ContentURL         Optional[string]
	DurationMinutes    Optional[int]
	IsPreview          Optional[bool]
	OrderIndex         Optional[int]
	StudyMaterials     Optional[string]
	PracticeMaterials  Optional[string]
	LearningObjectives Optional[[]string]
}

// UpdateLessonParams addresses a lesson and the patch to apply to it.
type UpdateLessonParams struct {
	Path  CurriculumPath
	ID    uuid.UUID
	Patch LessonPatch
}

// CreateResourceParams describes a resource appended to the lesson named by Path.
type CreateResourceParams struct {
	Path           CurriculumPath
	Title          string
	Description    *string
	Type           string
	URL            string
	IsDownloadable *bool
	OrderIndex     *int
}

// ResourcePatch lists the fields of a partial resource update.
type ResourcePatch struct {
	Title          Optional[string]
	Description    Optional[string]
	Type           Optional[string]
	URL            Optional[string]
	IsDownloadable Optional[bool]
	OrderIndex     Optional[int]
}

// UpdateResourceParams addresses a resource and the patch to apply to it.
type UpdateResourceParams struct {
	Path  CurriculumPath
	ID    uuid.UUID
	Patch ResourcePatch
}

// CreateExerciseParams describes an exercise appended to the lesson named by Path.
type CreateExerciseParams struct {
	Path          CurriculumPath
	Title         string
	Description   *string
	Type          string
	Content       string
	CorrectAnswer *string
	Explanation   *string
	Points        *int
	OrderIndex    *int
}

// ExercisePatch lists the fields of a partial exercise update.
type ExercisePatch struct {
	Title         Optional[string]
	Description   Optional[string]
	Type          Optional[string]
	Content       Optional[string]
	CorrectAnswer Optional[string]
	Explanation   Optional[string]
	Points        Optional[int]
	OrderIndex    Optional[int]
}

// UpdateExerciseParams addresses an exercise and the patch to apply to it.
type UpdateExerciseParams struct {
	Path  CurriculumPath
	ID    uuid.UUID
	Patch ExercisePatch
}

// CurriculumRepository persists the module, lesson, resource and exercise hierarchy.
//
// Create methods assign order_index as max+1 within the parent when assignOrder is set.
// Update methods load the row inside a transaction, hand it to apply and store the
// result; an error from apply aborts the update. Lesson writes that change duration
// or membership recompute the owning course's duration and the course's session
// progress in the same transaction.
type CurriculumRepository interface {
	ResolvePath(ctx context.Context, path CurriculumPath) error

	ListModules(ctx context.Context, courseID uuid.UUID, includeLessons bool) ([]Module, error)
	CreateModule(ctx context.Context, module Module, assignOrder bool) (*Module, error)
	GetModule(ctx context.Context, id uuid.UUID) (*Module, error)
	UpdateModule(ctx context.Context, id uuid.UUID, apply func(*Module) error) (*Module, error)
	DeleteModule(ctx context.Context, id uuid.UUID) (*Module, error)

	ListLessons(ctx context.Context, moduleID uuid.UUID) ([]Lesson, error)
	CreateLesson(ctx context.Context, lesson Lesson, assignOrder bool) (*Lesson, error)
	GetLesson(ctx context.Context, id uuid.UUID, includeMaterials bool) (*Lesson, error)
	UpdateLesson(ctx context.Context, id uuid.UUID, apply func(*Lesson) error) (*Lesson, error)
	DeleteLesson(ctx context.Context, id uuid.UUID) (*Lesson, error)

	ListResources(ctx context.Context, lessonID uuid.UUID) ([]Resource, error)
	CreateResource(ctx context.Context, resource Resource, assignOrder bool) (*Resource, error)
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	UpdateResource(ctx context.Context, id uuid.UUID, apply func(*Resource) error) (*Resource, error)
	DeleteResource(ctx context.Context, id uuid.UUID) (*Resource, error)

	ListExercises(ctx context.Context, lessonID uuid.UUID) ([]Exercise, error)
	CreateExercise(ctx context.Context, exercise Exercise, assignOrder bool) (*Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*Exercise, error)
	UpdateExercise(ctx context.Context, id uuid.UUID, apply func(*Exercise) error) (*Exercise, error)
	DeleteExercise(ctx context.Context, id uuid.UUID) (*Exercise, error)

	RecomputeCourseDuration(ctx context.Context, courseID uuid.UUID) (int, error)
}

// CurriculumService exposes the module, lesson, resource and exercise use cases.
// Children addressed through a path that does not lead to them are reported as
// ErrNotFound.
type CurriculumService interface {
	ListModules(ctx context.Context, courseID uuid.UUID) ([]Module, error)
	CreateModule(ctx context.Context, params CreateModuleParams) (*Module, error)
	UpdateModule(ctx context.Context, params UpdateModuleParams) (*Module, error)
	DeleteModule(ctx context.Context, path CurriculumPath, id uuid.UUID) error

	ListLessons(ctx context.Context, path CurriculumPath) ([]Lesson, error)
	CreateLesson(ctx context.Context, params CreateLessonParams) (*Lesson, error)
	GetLesson(ctx context.Context, path CurriculumPath, id uuid.UUID) (*Lesson, error)
	UpdateLesson(ctx context.Context, params UpdateLessonParams) (*Lesson, error)
	DeleteLesson(ctx context.Context, path CurriculumPath, id uuid.UUID) error

	ListResources(ctx context.Context, path CurriculumPath) ([]Resource, error)
	CreateResource(ctx context.Context, params CreateResourceParams) (*Resource, error)
	UpdateResource(ctx context.Context, params UpdateResourceParams) (*Resource, error)
	DeleteResource(ctx context.Context, path CurriculumPath, id uuid.UUID) error

	ListExercises(ctx context.Context, path CurriculumPath) ([]Exercise, error)
	CreateExercise(ctx context.Context, params CreateExerciseParams) (*Exercise, error)
	UpdateExercise(ctx context.Context, params UpdateExerciseParams) (*Exercise, error)
	DeleteExercise(ctx context.Context, path CurriculumPath, id uuid.UUID) error
}
