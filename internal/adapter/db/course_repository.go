package db

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

var courseColumns = []string{
	"id", "title", "slug", "description", "instructor_name", "instructor_bio",
	"category_id", "level", "type", "price", "thumbnail_url", "intro_video_url",
	"duration_minutes", "rating", "status", "published_at", "created_at", "updated_at",
}

// CourseRepository persists courses and their enrollments using the ent SQL builder.
type CourseRepository struct {
	store
	curriculum *CurriculumRepository
}

// NewCourseRepository constructs a course repository over the shared driver.
func NewCourseRepository(drv *sql.Driver, curriculum *CurriculumRepository) *CourseRepository {
	return &CourseRepository{store: newStore(drv), curriculum: curriculum}
}

var _ core.CourseRepository = (*CourseRepository)(nil)

// ListCourses returns one page of courses matching filter and the total match count.
func (r *CourseRepository) ListCourses(ctx context.Context, filter core.CourseListFilter) ([]core.Course, int, error) {
	page := filter.Page.Normalize()
	b := r.builder()

	count := b.Select("COUNT(*)").From(b.Table(tableCourses))
	if p := coursePredicate(filter); p != nil {
		count.Where(p)
	}
	total, err := queryInt(ctx, r.drv, count)
	if err != nil {
		return nil, 0, core.WrapPersistence("count courses", err)
	}

	sel := b.Select(courseColumns...).From(b.Table(tableCourses))
	if p := coursePredicate(filter); p != nil {
		sel.Where(p)
	}
	sel.OrderBy(courseOrder(filter.Sort)...).
		Limit(page.Limit).
		Offset(page.Offset())

	var courses []core.Course
	err = queryRows(ctx, r.drv, sel, func(rows *sql.Rows) error {
		course, err := scanCourse(rows)
		if err != nil {
			return err
		}
		courses = append(courses, course)
		return nil
	})
	if err != nil {
		return nil, 0, core.WrapPersistence("list courses", err)
	}
	return courses, total, nil
}

// CreateCourse inserts a course row.
func (r *CourseRepository) CreateCourse(ctx context.Context, course core.Course) (*core.Course, error) {
	insert := r.builder().Insert(tableCourses).
		Columns(courseColumns...).
		Values(
			course.ID, course.Title, course.Slug, course.Description, course.InstructorName,
			nullable(course.InstructorBio), course.CategoryID, string(course.Level), string(course.Type),
			nullable(course.Price), nullable(course.ThumbnailURL), nullable(course.IntroVideoURL),
			course.DurationMinutes, course.Rating, string(course.Status), nullable(course.PublishedAt),
			course.CreatedAt, course.UpdatedAt,
		)
	if _, err := execStmt(ctx, r.drv, insert); err != nil {
		return nil, core.WrapPersistence("create course", slugConflict(err, course.Slug))
	}
	return r.GetCourse(ctx, course.ID, core.CourseQueryOptions{})
}

// GetCourse fetches a course by id, optionally with its modules and lessons.
func (r *CourseRepository) GetCourse(ctx context.Context, id uuid.UUID, opts core.CourseQueryOptions) (*core.Course, error) {
	course, err := r.getCourse(ctx, r.drv, id)
	if err != nil {
		return nil, err
	}
	if opts.IncludeCurriculum {
		modules, err := r.curriculum.ListModules(ctx, id, true)
		if err != nil {
			return nil, err
		}
		course.Modules = modules
	}
	return course, nil
}

func (r *CourseRepository) getCourse(ctx context.Context, ex dialect.ExecQuerier, id uuid.UUID) (*core.Course, error) {
	b := r.builder()
	sel := b.Select(courseColumns...).From(b.Table(tableCourses)).Where(sql.EQ("id", id))

	var found *core.Course
	err := queryRows(ctx, ex, sel, func(rows *sql.Rows) error {
		course, err := scanCourse(rows)
		if err != nil {
			return err
		}
		found = &course
		return nil
	})
	if err != nil {
		return nil, core.WrapPersistence("get course", err)
	}
	if found == nil {
		return nil, core.ErrNotFound
	}
	return found, nil
}

// UpdateCourse overwrites the mutable course attributes.
func (r *CourseRepository) UpdateCourse(ctx context.Context, course core.Course) (*core.Course, error) {
	update := r.builder().Update(tableCourses).
		Set("title", course.Title).
		Set("slug", course.Slug).
		Set("description", course.Description).
		Set("instructor_name", course.InstructorName).
		Set("instructor_bio", nullable(course.InstructorBio)).
		Set("category_id", course.CategoryID).
		Set("level", string(course.Level)).
		Set("type", string(course.Type)).
		Set("price", nullable(course.Price)).
		Set("thumbnail_url", nullable(course.ThumbnailURL)).
		Set("intro_video_url", nullable(course.IntroVideoURL)).
		Set("rating", course.Rating).
		Set("status", string(course.Status)).
		Set("published_at", nullable(course.PublishedAt)).
		Set("updated_at", course.UpdatedAt).
		Where(sql.EQ("id", course.ID))

	affected, err := execStmt(ctx, r.drv, update)
	if err != nil {
		return nil, core.WrapPersistence("update course", slugConflict(err, course.Slug))
	}
	if affected == 0 {
		return nil, core.ErrNotFound
	}
	return r.GetCourse(ctx, course.ID, core.CourseQueryOptions{})
}

// DeleteCourse removes a course and every record that belongs to it. Deleting an
// unknown id is a no-op.
func (r *CourseRepository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		b := r.builder()

		moduleIDs, err := queryIDs(ctx, tx, b.Select("id").From(b.Table(tableModules)).Where(sql.EQ("course_id", id)))
		if err != nil {
			return err
		}
		if err := r.curriculum.deleteModuleTree(ctx, tx, moduleIDs); err != nil {
			return err
		}

		progressIDs, err := queryIDs(ctx, tx, b.Select("id").From(b.Table(tableProgress)).Where(sql.EQ("course_id", id)))
		if err != nil {
			return err
		}
		if err := r.deleteIn(ctx, tx, tableLessonCompletions, "course_progress_id", progressIDs); err != nil {
			return err
		}
		if err := r.deleteIn(ctx, tx, tableProgress, "id", progressIDs); err != nil {
			return err
		}
		if _, err := execStmt(ctx, tx, b.Delete(tableEnrollments).Where(sql.EQ("course_id", id))); err != nil {
			return err
		}
		_, err = execStmt(ctx, tx, b.Delete(tableCourses).Where(sql.EQ("id", id)))
		return err
	})
	return core.WrapPersistence("delete course", err)
}

// SlugTaken reports whether another course already uses slug.
func (r *CourseRepository) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	b := r.builder()
	preds := []*sql.Predicate{sql.EQ("slug", slug)}
	if exclude != uuid.Nil {
		preds = append(preds, sql.NEQ("id", exclude))
	}
	n, err := queryInt(ctx, r.drv, b.Select("COUNT(*)").From(b.Table(tableCourses)).Where(sql.And(preds...)))
	if err != nil {
		return false, core.WrapPersistence("check slug", err)
	}
	return n > 0, nil
}

// Enroll records a session enrollment, returning the existing row when already enrolled.
func (r *CourseRepository) Enroll(ctx context.Context, enrollment core.Enrollment) (*core.Enrollment, error) {
	var result *core.Enrollment
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		if _, err := r.getCourse(ctx, tx, enrollment.CourseID); err != nil {
			return err
		}
		existing, err := r.findEnrollment(ctx, tx, enrollment.CourseID, enrollment.SessionID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}
		insert := r.builder().Insert(tableEnrollments).
			Columns("id", "course_id", "session_id", "enrolled_at").
			Values(enrollment.ID, enrollment.CourseID, enrollment.SessionID, enrollment.EnrolledAt)
		if _, err := execStmt(ctx, tx, insert); err != nil {
			return err
		}
		result = &enrollment
		return nil
	})
	if err != nil {
		return nil, core.WrapPersistence("enroll", err)
	}
	return result, nil
}

func (r *CourseRepository) findEnrollment(ctx context.Context, ex dialect.ExecQuerier, courseID uuid.UUID, sessionID string) (*core.Enrollment, error) {
	b := r.builder()
	sel := b.Select("id", "course_id", "session_id", "enrolled_at").
		From(b.Table(tableEnrollments)).
		Where(sql.And(sql.EQ("course_id", courseID), sql.EQ("session_id", sessionID)))

	var found *core.Enrollment
	err := queryRows(ctx, ex, sel, func(rows *sql.Rows) error {
		var e core.Enrollment
		if err := rows.Scan(&e.ID, &e.CourseID, &e.SessionID, &e.EnrolledAt); err != nil {
			return err
		}
		e.EnrolledAt = e.EnrolledAt.UTC()
		found = &e
		return nil
	})
	return found, err
}

// CountEnrollments returns the number of sessions enrolled in a course.
func (r *CourseRepository) CountEnrollments(ctx context.Context, courseID uuid.UUID) (int, error) {
	b := r.builder()
	n, err := queryInt(ctx, r.drv, b.Select("COUNT(*)").From(b.Table(tableEnrollments)).Where(sql.EQ("course_id", courseID)))
	if err != nil {
		return 0, core.WrapPersistence("count enrollments", err)
	}
	return n, nil
}

func coursePredicate(filter core.CourseListFilter) *sql.Predicate {
	var preds []*sql.Predicate
	if q := strings.TrimSpace(filter.Search); q != "" {
		preds = append(preds, sql.Or(
			sql.ContainsFold("title", q),
			sql.ContainsFold("description", q),
			sql.ContainsFold("instructor_name", q),
		))
	}
	if filter.CategoryID != uuid.Nil {
		preds = append(preds, sql.EQ("category_id", filter.CategoryID))
	}
	if filter.Level != "" {
		preds = append(preds, sql.EQ("level", string(filter.Level)))
	}
	if filter.Type != "" {
		preds = append(preds, sql.EQ("type", string(filter.Type)))
	}
	if filter.Status != "" {
		preds = append(preds, sql.EQ("status", string(filter.Status)))
	}
	if filter.Slug != "" {
		preds = append(preds, sql.EQ("slug", filter.Slug))
	}
	if len(preds) == 0 {
		return nil
	}
	return sql.And(preds...)
}

func courseOrder(sort core.CourseSort) []string {
	switch sort {
	case core.CourseSortRating:
		return []string{sql.Desc("rating"), sql.Desc("created_at")}
	case core.CourseSortDuration:
		return []string{sql.Asc("duration_minutes"), sql.Desc("created_at")}
	case core.CourseSortTitle:
		return []string{sql.Asc("title"), sql.Desc("created_at")}
	default:
		return []string{sql.Desc("created_at"), sql.Asc("id")}
	}
}

func scanCourse(rows *sql.Rows) (core.Course, error) {
	var (
		c            core.Course
		level, typ   string
		status       string
		bio          stdsql.NullString
		price        stdsql.NullFloat64
		thumbnail    stdsql.NullString
		introVideo   stdsql.NullString
		publishedAt  stdsql.NullTime
		durationMins int64
	)
	if err := rows.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.InstructorName, &bio,
		&c.CategoryID, &level, &typ, &price, &thumbnail, &introVideo,
		&durationMins, &c.Rating, &status, &publishedAt, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return core.Course{}, err
	}
	c.InstructorBio = stringPtr(bio)
	c.Level = core.CourseLevel(level)
	c.Type = core.CourseType(typ)
	c.Price = float64Ptr(price)
	c.ThumbnailURL = stringPtr(thumbnail)
	c.IntroVideoURL = stringPtr(introVideo)
	c.DurationMinutes = int(durationMins)
	c.Status = core.CourseStatus(status)
	c.PublishedAt = timePtr(publishedAt)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

// slugConflict reports unique violations as core.ErrConflict. The slug index is
// the only unique constraint a course write can hit besides the primary key.
func slugConflict(err error, slug string) error {
	if sqlgraph.IsUniqueConstraintError(err) {
		return fmt.Errorf("%w: slug %q is already taken", core.ErrConflict, slug)
	}
	return err
}
