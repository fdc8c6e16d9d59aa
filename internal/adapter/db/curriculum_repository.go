package db

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/islamic-sources/internal/core"
)

var (
	moduleColumns = []string{"id", "course_id", "title", "description", "order_index", "created_at", "updated_at"}
	lessonColumns = []string{
		"id", "module_id", "title", "description", "type", "content_url", "duration_minutes",
		"is_preview", "order_index", "study_materials", "practice_materials", "learning_objectives",
		"created_at", "updated_at",
	}
	resourceColumns = []string{
		"id", "lesson_id", "title", "description", "type", "url", "is_downloadable",
		"order_index", "created_at", "updated_at",
	}
	exerciseColumns = []string{
		"id", "lesson_id", "title", "description", "type", "content", "correct_answer",
		"explanation", "points", "order_index", "created_at", "updated_at",
	}
)

// CurriculumRepository persists modules, lessons, resources and exercises.
type CurriculumRepository struct {
	store
}

// NewCurriculumRepository constructs a curriculum repository over the shared driver.
func NewCurriculumRepository(drv *sql.Driver) *CurriculumRepository {
	return &CurriculumRepository{store: newStore(drv)}
}

var _ core.CurriculumRepository = (*CurriculumRepository)(nil)

// ResolvePath reports core.ErrNotFound unless every non-zero id of path exists and
// belongs to the next id up the chain.
func (r *CurriculumRepository) ResolvePath(ctx context.Context, path core.CurriculumPath) error {
	moduleID := path.ModuleID
	if path.LessonID != uuid.Nil {
		lesson, err := r.getLesson(ctx, r.drv, path.LessonID)
		if err != nil {
			return err
		}
		if moduleID != uuid.Nil && lesson.ModuleID != moduleID {
			return fmt.Errorf("%w: lesson %s is not part of module %s", core.ErrNotFound, lesson.ID, moduleID)
		}
		moduleID = lesson.ModuleID
	}

	if moduleID != uuid.Nil {
		module, err := r.getModule(ctx, r.drv, moduleID)
		if err != nil {
			return err
		}
		if path.CourseID != uuid.Nil && module.CourseID != path.CourseID {
			return fmt.Errorf("%w: module %s is not part of course %s", core.ErrNotFound, module.ID, path.CourseID)
		}
		return nil
	}

	if path.CourseID != uuid.Nil {
		b := r.builder()
		ids, err := queryIDs(ctx, r.drv, b.Select("id").From(b.Table(tableCourses)).Where(sql.EQ("id", path.CourseID)))
		if err != nil {
			return core.WrapPersistence("resolve course", err)
		}
		if len(ids) == 0 {
			return fmt.Errorf("%w: course %s", core.ErrNotFound, path.CourseID)
		}
	}
	return nil
}

// ListModules returns the modules of a course ordered by order_index.
func (r *CurriculumRepository) ListModules(ctx context.Context, courseID uuid.UUID, includeLessons bool) ([]core.Module, error) {
	b := r.builder()
	sel := b.Select(moduleColumns...).
		From(b.Table(tableModules)).
		Where(sql.EQ("course_id", courseID)).
		OrderBy(sql.Asc("order_index"), sql.Asc("created_at"))

	modules, err := queryAll(ctx, r.drv, sel, scanModule)
	if err != nil {
		return nil, core.WrapPersistence("list modules", err)
	}
	if !includeLessons || len(modules) == 0 {
		return modules, nil
	}

	ids := lo.Map(modules, func(m core.Module, _ int) uuid.UUID { return m.ID })
	lessonSel := b.Select(lessonColumns...).
		From(b.Table(tableLessons)).
		Where(sql.In("module_id", uuidArgs(ids)...)).
		OrderBy(sql.Asc("order_index"), sql.Asc("created_at"))
	lessons, err := queryAll(ctx, r.drv, lessonSel, scanLesson)
	if err != nil {
		return nil, core.WrapPersistence("list module lessons", err)
	}

	byModule := lo.GroupBy(lessons, func(l core.Lesson) uuid.UUID { return l.ModuleID })
	for i := range modules {
		modules[i].Lessons = byModule[modules[i].ID]
	}
	return modules, nil
}

// CreateModule inserts a module under its course.
func (r *CurriculumRepository) CreateModule(ctx context.Context, module core.Module, assignOrder bool) (*core.Module, error) {
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		if err := r.lockRow(ctx, tx, tableCourses, module.CourseID); err != nil {
			return err
		}
		if assignOrder {
			next, err := r.nextOrderIndex(ctx, tx, tableModules, "course_id", module.CourseID)
			if err != nil {
				return err
			}
			module.OrderIndex = next
		}
		insert := r.builder().Insert(tableModules).
			Columns(moduleColumns...).
			Values(module.ID, module.CourseID, module.Title, nullable(module.Description),
				module.OrderIndex, module.CreatedAt, module.UpdatedAt)
		_, err := execStmt(ctx, tx, insert)
		return err
	})
	if err != nil {
		return nil, core.WrapPersistence("create module", err)
	}
	return r.GetModule(ctx, module.ID)
}

// GetModule fetches a module without its lessons.
func (r *CurriculumRepository) GetModule(ctx context.Context, id uuid.UUID) (*core.Module, error) {
	return r.getModule(ctx, r.drv, id)
}

func (r *CurriculumRepository) getModule(ctx context.Context, ex dialect.ExecQuerier, id uuid.UUID) (*core.Module, error) {
	b := r.builder()
	module, err := queryOne(ctx, ex, b.Select(moduleColumns...).From(b.Table(tableModules)).Where(sql.EQ("id", id)), scanModule)
	return module, core.WrapPersistence("get module", err)
}

// UpdateModule applies a change to a module under its course's row lock.
func (r *CurriculumRepository) UpdateModule(ctx context.Context, id uuid.UUID, apply func(*core.Module) error) (*core.Module, error) {
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		module, err := r.getModule(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := r.lockRow(ctx, tx, tableCourses, module.CourseID); err != nil {
			return err
		}
		if module, err = r.getModule(ctx, tx, id); err != nil {
			return err
		}
		if err := apply(module); err != nil {
			return err
		}

		update := r.builder().Update(tableModules).
			Set("title", module.Title).
			Set("description", nullable(module.Description)).
			Set("order_index", module.OrderIndex).
			Set("updated_at", module.UpdatedAt).
			Where(sql.EQ("id", id))
		_, err = execStmt(ctx, tx, update)
		return err
	})
	if err != nil {
		return nil, core.WrapPersistence("update module", err)
	}
	return r.GetModule(ctx, id)
}

// DeleteModule removes a module with its lessons and materials, then refreshes
// the owning course's duration.
func (r *CurriculumRepository) DeleteModule(ctx context.Context, id uuid.UUID) (*core.Module, error) {
	var deleted *core.Module
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		module, err := r.getModule(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := r.lockRow(ctx, tx, tableCourses, module.CourseID); err != nil {
			return err
		}
		if err := r.deleteModuleTree(ctx, tx, []uuid.UUID{id}); err != nil {
			return err
		}
		if _, err := r.recomputeCourseDuration(ctx, tx, module.CourseID); err != nil {
			return err
		}
		if err := r.refreshCourseProgress(ctx, tx, module.CourseID); err != nil {
			return err
		}
		deleted = module
		return nil
	})
	if err != nil {
		return nil, core.WrapPersistence("delete module", err)
	}
	return deleted, nil
}

// deleteModuleTree removes the given modules and everything beneath them.
func (r *CurriculumRepository) deleteModuleTree(ctx context.Context, ex dialect.ExecQuerier, moduleIDs []uuid.UUID) error {
	if len(moduleIDs) == 0 {
		return nil
	}
	b := r.builder()
	lessonIDs, err := queryIDs(ctx, ex, b.Select("id").From(b.Table(tableLessons)).Where(sql.In("module_id", uuidArgs(moduleIDs)...)))
	if err != nil {
		return err
	}
	if err := r.deleteLessonTree(ctx, ex, lessonIDs); err != nil {
		return err
	}
	return r.deleteIn(ctx, ex, tableModules, "id", moduleIDs)
}

func (r *CurriculumRepository) deleteLessonTree(ctx context.Context, ex dialect.ExecQuerier, lessonIDs []uuid.UUID) error {
	for _, table := range []string{tableLessonCompletions, tableResources, tableExercises} {
		if err := r.deleteIn(ctx, ex, table, "lesson_id", lessonIDs); err != nil {
			return err
		}
	}
	return r.deleteIn(ctx, ex, tableLessons, "id", lessonIDs)
}

// ListLessons returns the lessons of a module ordered by order_index.
func (r *CurriculumRepository) ListLessons(ctx context.Context, moduleID uuid.UUID) ([]core.Lesson, error) {
	b := r.builder()
	sel := b.Select(lessonColumns...).
		From(b.Table(tableLessons)).
		Where(sql.EQ("module_id", moduleID)).
		OrderBy(sql.Asc("order_index"), sql.Asc("created_at"))
	lessons, err := queryAll(ctx, r.drv, sel, scanLesson)
	return lessons, core.WrapPersistence("list lessons", err)
}

// CreateLesson inserts a lesson and adds its duration to the owning course.
func (r *CurriculumRepository) CreateLesson(ctx context.Context, lesson core.Lesson, assignOrder bool) (*core.Lesson, error) {
	objectives, err := encodeStrings(lesson.LearningObjectives)
	if err != nil {
		return nil, core.WrapPersistence("encode learning objectives", err)
	}

	err = r.withTx(ctx, func(tx dialect.Tx) error {
		courseID, err := r.courseOfModule(ctx, tx, lesson.ModuleID)
		if err != nil {
			return err
		}
		if err := r.lockRow(ctx, tx, tableCourses, courseID); err != nil {
			return err
		}
		if assignOrder {
			next, err := r.nextOrderIndex(ctx, tx, tableLessons, "module_id", lesson.ModuleID)
			if err != nil {
				return err
			}
			lesson.OrderIndex = next
		}
		insert := r.builder().Insert(tableLessons).
			Columns(lessonColumns...).
			Values(
				lesson.ID, lesson.ModuleID, lesson.Title, nullable(lesson.Description), string(lesson.Type),
				nullable(lesson.ContentURL), lesson.DurationMinutes, lesson.IsPreview, lesson.OrderIndex,
				nullable(lesson.StudyMaterials), nullable(lesson.PracticeMaterials), objectives,
				lesson.CreatedAt, lesson.UpdatedAt,
			)
		if _, err := execStmt(ctx, tx, insert); err != nil {
			return err
		}
		if _, err := r.recomputeCourseDuration(ctx, tx, courseID); err != nil {
			return err
		}
		return r.refreshCourseProgress(ctx, tx, courseID)
	})
	if err != nil {
		return nil, core.WrapPersistence("create lesson", err)
	}
	return r.GetLesson(ctx, lesson.ID, false)
}

// GetLesson fetches a lesson, optionally with its resources and exercises.
func (r *CurriculumRepository) GetLesson(ctx context.Context, id uuid.UUID, includeMaterials bool) (*core.Lesson, error) {
	lesson, err := r.getLesson(ctx, r.drv, id)
	if err != nil {
		return nil, err
	}
	if !includeMaterials {
		return lesson, nil
	}
	if lesson.Resources, err = r.ListResources(ctx, id); err != nil {
		return nil, err
	}
	if lesson.Exercises, err = r.ListExercises(ctx, id); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (r *CurriculumRepository) getLesson(ctx context.Context, ex dialect.ExecQuerier, id uuid.UUID) (*core.Lesson, error) {
	b := r.builder()
	lesson, err := queryOne(ctx, ex, b.Select(lessonColumns...).From(b.Table(tableLessons)).Where(sql.EQ("id", id)), scanLesson)
	return lesson, core.WrapPersistence("get lesson", err)
}

// UpdateLesson applies a change to a lesson under its course's row lock. The
// lesson is re-read after the lock is taken, and the course duration is
// recomputed when the stored duration changes.
func (r *CurriculumRepository) UpdateLesson(ctx context.Context, id uuid.UUID, apply func(*core.Lesson) error) (*core.Lesson, error) {
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		lesson, err := r.getLesson(ctx, tx, id)
		if err != nil {
			return err
		}
		courseID, err := r.courseOfModule(ctx, tx, lesson.ModuleID)
		if err != nil {
			return err
		}
		if err := r.lockRow(ctx, tx, tableCourses, courseID); err != nil {
			return err
		}
		if lesson, err = r.getLesson(ctx, tx, id); err != nil {
			return err
		}
		stored := lesson.DurationMinutes
		if err := apply(lesson); err != nil {
			return err
		}
		objectives, err := encodeStrings(lesson.LearningObjectives)
		if err != nil {
			return err
		}

		update := r.builder().Update(tableLessons).
			Set("title", lesson.Title).
			Set("description", nullable(lesson.Description)).
			Set("type", string(lesson.Type)).
			Set("content_url", nullable(lesson.ContentURL)).
			Set("duration_minutes", lesson.DurationMinutes).
			Set("is_preview", lesson.IsPreview).
			Set("order_index", lesson.OrderIndex).
			Set("study_materials", nullable(lesson.StudyMaterials)).
			Set("practice_materials", nullable(lesson.PracticeMaterials)).
			Set("learning_objectives", objectives).
			Set("updated_at", lesson.UpdatedAt).
			Where(sql.EQ("id", id))
		if _, err := execStmt(ctx, tx, update); err != nil {
			return err
		}
		if lesson.DurationMinutes != stored {
			_, err = r.recomputeCourseDuration(ctx, tx, courseID)
		}
		return err
	})
	if err != nil {
		return nil, core.WrapPersistence("update lesson", err)
	}
	return r.GetLesson(ctx, id, false)
}

// DeleteLesson removes a lesson with its materials and completions, then refreshes
// the owning course's duration.
func (r *CurriculumRepository) DeleteLesson(ctx context.Context, id uuid.UUID) (*core.Lesson, error) {
	var deleted *core.Lesson
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		lesson, err := r.getLesson(ctx, tx, id)
		if err != nil {
			return err
		}
		courseID, err := r.courseOfModule(ctx, tx, lesson.ModuleID)
		if err != nil {
			return err
		}
		if err := r.lockRow(ctx, tx, tableCourses, courseID); err != nil {
			return err
		}
		if err := r.deleteLessonTree(ctx, tx, []uuid.UUID{id}); err != nil {
			return err
		}
		if _, err := r.recomputeCourseDuration(ctx, tx, courseID); err != nil {
			return err
		}
		if err := r.refreshCourseProgress(ctx, tx, courseID); err != nil {
			return err
		}
		deleted = lesson
		return nil
	})
	if err != nil {
		return nil, core.WrapPersistence("delete lesson", err)
	}
	return deleted, nil
}

// ListResources returns the resources of a lesson ordered by order_index.
func (r *CurriculumRepository) ListResources(ctx context.Context, lessonID uuid.UUID) ([]core.Resource, error) {
	b := r.builder()
	sel := b.Select(resourceColumns...).
		From(b.Table(tableResources)).
		Where(sql.EQ("lesson_id", lessonID)).
		OrderBy(sql.Asc("order_index"), sql.Asc("created_at"))
	resources, err := queryAll(ctx, r.drv, sel, scanResource)
	return resources, core.WrapPersistence("list resources", err)
}

// CreateResource inserts a resource under its lesson.
func (r *CurriculumRepository) CreateResource(ctx context.Context, resource core.Resource, assignOrder bool) (*core.Resource, error) {
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		if err := r.lockRow(ctx, tx, tableLessons, resource.LessonID); err != nil {
			return err
		}
		if assignOrder {
			next, err := r.nextOrderIndex(ctx, tx, tableResources, "lesson_id", resource.LessonID)
			if err != nil {
				return err
			}
			resource.OrderIndex = next
		}
		insert := r.builder().Insert(tableResources).
			Columns(resourceColumns...).
			Values(
				resource.ID, resource.LessonID, resource.Title, nullable(resource.Description), resource.Type,
				resource.URL, resource.IsDownloadable, resource.OrderIndex, resource.CreatedAt, resource.UpdatedAt,
			)
		_, err := execStmt(ctx, tx, insert)
		return err
	})
	if err != nil {
		return nil, core.WrapPersistence("create resource", err)
	}
	return r.GetResource(ctx, resource.ID)
}

// GetResource fetches a resource by id.
func (r *CurriculumRepository) GetResource(ctx context.Context, id uuid.UUID) (*core.Resource, error) {
	return r.getResource(ctx, r.drv, id)
}

func (r *CurriculumRepository) getResource(ctx context.Context, ex dialect.ExecQuerier, id uuid.UUID) (*core.Resource, error) {
	b := r.builder()
	resource, err := queryOne(ctx, ex, b.Select(resourceColumns...).From(b.Table(tableResources)).Where(sql.EQ("id", id)), scanResource)
	return resource, core.WrapPersistence("get resource", err)
}

// UpdateResource applies a change to a resource under its lesson's row lock.
func (r *CurriculumRepository) UpdateResource(ctx context.Context, id uuid.UUID, apply func(*core.Resource) error) (*core.Resource, error) {
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		resource, err := r.getResource(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := r.lockRow(ctx, tx, tableLessons, resource.LessonID); err != nil {
			return err
		}
		if resource, err = r.getResource(ctx, tx, id); err != nil {
			return err
		}
		if err := apply(resource); err != nil {
			return err
		}

		update := r.builder().Update(tableResources).
			Set("title", resource.Title).
			Set("description", nullable(resource.Description)).
			Set("type", resource.Type).
			Set("url", resource.URL).
			Set("is_downloadable", resource.IsDownloadable).
			Set("order_index", resource.OrderIndex).
			Set("updated_at", resource.UpdatedAt).
			Where(sql.EQ("id", id))
		_, err = execStmt(ctx, tx, update)
		return err
	})
	if err != nil {
		return nil, core.WrapPersistence("update resource", err)
	}
	return r.GetResource(ctx, id)
}

// DeleteResource removes a resource.
func (r *CurriculumRepository) DeleteResource(ctx context.Context, id uuid.UUID) (*core.Resource, error) {
	resource, err := r.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.deleteIn(ctx, r.drv, tableResources, "id", []uuid.UUID{id}); err != nil {
		return nil, core.WrapPersistence("delete resource", err)
	}
	return resource, nil
}

// ListExercises returns the exercises of a lesson ordered by order_index.
func (r *CurriculumRepository) ListExercises(ctx context.Context, lessonID uuid.UUID) ([]core.Exercise, error) {
	b := r.builder()
	sel := b.Select(exerciseColumns...).
		From(b.Table(tableExercises)).
		Where(sql.EQ("lesson_id", lessonID)).
		OrderBy(sql.Asc("order_index"), sql.Asc("created_at"))
	exercises, err := queryAll(ctx, r.drv, sel, scanExercise)
	return exercises, core.WrapPersistence("list exercises", err)
}

// CreateExercise inserts an exercise under its lesson.
func (r *CurriculumRepository) CreateExercise(ctx context.Context, exercise core.Exercise, assignOrder bool) (*core.Exercise, error) {
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		if err := r.lockRow(ctx, tx, tableLessons, exercise.LessonID); err != nil {
			return err
		}
		if assignOrder {
			next, err := r.nextOrderIndex(ctx, tx, tableExercises, "lesson_id", exercise.LessonID)
			if err != nil {
				return err
			}
			exercise.OrderIndex = next
		}
		insert := r.builder().Insert(tableExercises).
			Columns(exerciseColumns...).
			Values(
				exercise.ID, exercise.LessonID, exercise.Title, nullable(exercise.Description), exercise.Type,
				exercise.Content, nullable(exercise.CorrectAnswer), nullable(exercise.Explanation),
				nullable(exercise.Points), exercise.OrderIndex, exercise.CreatedAt, exercise.UpdatedAt,
			)
		_, err := execStmt(ctx, tx, insert)
		return err
	})
	if err != nil {
		return nil, core.WrapPersistence("create exercise", err)
	}
	return r.GetExercise(ctx, exercise.ID)
}

// GetExercise fetches an exercise by id.
func (r *CurriculumRepository) GetExercise(ctx context.Context, id uuid.UUID) (*core.Exercise, error) {
	return r.getExercise(ctx, r.drv, id)
}

func (r *CurriculumRepository) getExercise(ctx context.Context, ex dialect.ExecQuerier, id uuid.UUID) (*core.Exercise, error) {
	b := r.builder()
	exercise, err := queryOne(ctx, ex, b.Select(exerciseColumns...).From(b.Table(tableExercises)).Where(sql.EQ("id", id)), scanExercise)
	return exercise, core.WrapPersistence("get exercise", err)
}

// UpdateExercise applies a change to an exercise under its lesson's row lock.
func (r *CurriculumRepository) UpdateExercise(ctx context.Context, id uuid.UUID, apply func(*core.Exercise) error) (*core.Exercise, error) {
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		exercise, err := r.getExercise(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := r.lockRow(ctx, tx, tableLessons, exercise.LessonID); err != nil {
			return err
		}
		if exercise, err = r.getExercise(ctx, tx, id); err != nil {
			return err
		}
		if err := apply(exercise); err != nil {
			return err
		}

		update := r.builder().Update(tableExercises).
			Set("title", exercise.Title).
			Set("description", nullable(exercise.Description)).
			Set("type", exercise.Type).
			Set("content", exercise.Content).
			Set("correct_answer", nullable(exercise.CorrectAnswer)).
			Set("explanation", nullable(exercise.Explanation)).
			Set("points", nullable(exercise.Points)).
			Set("order_index", exercise.OrderIndex).
			Set("updated_at", exercise.UpdatedAt).
			Where(sql.EQ("id", id))
		_, err = execStmt(ctx, tx, update)
		return err
	})
	if err != nil {
		return nil, core.WrapPersistence("update exercise", err)
	}
	return r.GetExercise(ctx, id)
}

// DeleteExercise removes an exercise.
func (r *CurriculumRepository) DeleteExercise(ctx context.Context, id uuid.UUID) (*core.Exercise, error) {
	exercise, err := r.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.deleteIn(ctx, r.drv, tableExercises, "id", []uuid.UUID{id}); err != nil {
		return nil, core.WrapPersistence("delete exercise", err)
	}
	return exercise, nil
}

// RecomputeCourseDuration recalculates and stores the duration of a course.
func (r *CurriculumRepository) RecomputeCourseDuration(ctx context.Context, courseID uuid.UUID) (int, error) {
	var total int
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		if err := r.lockRow(ctx, tx, tableCourses, courseID); err != nil {
			return err
		}
		var err error
		total, err = r.recomputeCourseDuration(ctx, tx, courseID)
		return err
	})
	return total, core.WrapPersistence("recompute course duration", err)
}

func scanModule(rows *sql.Rows) (core.Module, error) {
	var (
		m           core.Module
		description stdsql.NullString
		order       int64
	)
	if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &description, &order, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return core.Module{}, err
	}
	m.Description = stringPtr(description)
	m.OrderIndex = int(order)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}

func scanLesson(rows *sql.Rows) (core.Lesson, error) {
	var (
		l                  core.Lesson
		lessonType         string
		description        stdsql.NullString
		contentURL         stdsql.NullString
		duration, order    int64
		study, practice    stdsql.NullString
		learningObjectives []byte
	)
	if err := rows.Scan(
		&l.ID, &l.ModuleID, &l.Title, &description, &lessonType, &contentURL, &duration,
		&l.IsPreview, &order, &study, &practice, &learningObjectives, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return core.Lesson{}, err
	}
	objectives, err := decodeStrings(learningObjectives)
	if err != nil {
		return core.Lesson{}, err
	}
	l.Description = stringPtr(description)
	l.Type = core.LessonType(lessonType)
	l.ContentURL = stringPtr(contentURL)
	l.DurationMinutes = int(duration)
	l.OrderIndex = int(order)
	l.StudyMaterials = stringPtr(study)
	l.PracticeMaterials = stringPtr(practice)
	l.LearningObjectives = objectives
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return l, nil
}

func scanResource(rows *sql.Rows) (core.Resource, error) {
	var (
		res         core.Resource
		description stdsql.NullString
		order       int64
	)
	if err := rows.Scan(
		&res.ID, &res.LessonID, &res.Title, &description, &res.Type, &res.URL,
		&res.IsDownloadable, &order, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return core.Resource{}, err
	}
	res.Description = stringPtr(description)
	res.OrderIndex = int(order)
	res.CreatedAt = res.CreatedAt.UTC()
	res.UpdatedAt = res.UpdatedAt.UTC()
	return res, nil
}

func scanExercise(rows *sql.Rows) (core.Exercise, error) {
	var (
		e                   core.Exercise
		description         stdsql.NullString
		answer, explanation stdsql.NullString
		points              stdsql.NullInt64
		order               int64
	)
	if err := rows.Scan(
		&e.ID, &e.LessonID, &e.Title, &description, &e.Type, &e.Content, &answer,
		&explanation, &points, &order, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return core.Exercise{}, err
	}
	e.Description = stringPtr(description)
	e.CorrectAnswer = stringPtr(answer)
	e.Explanation = stringPtr(explanation)
	e.Points = intPtr(points)
	e.OrderIndex = int(order)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}
