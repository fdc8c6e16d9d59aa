package db

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"math"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

// lockRow takes a row lock on table.id inside the current transaction so that
// order assignment and duration rollups for the same parent run one at a time.
// SQLite has no row locks; its single writer gives the same guarantee.
func (s store) lockRow(ctx context.Context, ex dialect.ExecQuerier, table string, id uuid.UUID) error {
	b := s.builder()
	sel := b.Select("id").From(b.Table(table)).Where(sql.EQ("id", id))
	if s.postgres() {
		sel.ForUpdate()
	}
	ids, err := queryIDs(ctx, ex, sel)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: %s %s does not exist", core.ErrInvalidReference, table, id)
	}
	return nil
}

// nextOrderIndex returns max(order_index)+1 among the children of parentID, or 1
// when the parent has no children yet.
func (s store) nextOrderIndex(ctx context.Context, ex dialect.ExecQuerier, table, parentColumn string, parentID uuid.UUID) (int, error) {
	b := s.builder()
	max, err := queryInt(ctx, ex, b.Select("COALESCE(MAX(order_index), 0)").
		From(b.Table(table)).
		Where(sql.EQ(parentColumn, parentID)))
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// courseOfModule resolves the course that owns moduleID.
func (s store) courseOfModule(ctx context.Context, ex dialect.ExecQuerier, moduleID uuid.UUID) (uuid.UUID, error) {
	b := s.builder()
	ids, err := queryIDs(ctx, ex, b.Select("course_id").From(b.Table(tableModules)).Where(sql.EQ("id", moduleID)))
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, fmt.Errorf("%w: module %s does not exist", core.ErrInvalidReference, moduleID)
	}
	return ids[0], nil
}

// courseLessons selects the ids of every lesson in every module of courseID.
func (s store) courseLessons(courseID uuid.UUID) *sql.Selector {
	b := s.builder()
	modules := b.Select("id").From(b.Table(tableModules)).Where(sql.EQ("course_id", courseID))
	return b.Select("id").From(b.Table(tableLessons)).Where(sql.In("module_id", modules))
}

// recomputeCourseDuration rewrites courses.duration_minutes with the sum of the
// durations of every lesson in every module of the course, in one statement:
//
//	UPDATE courses SET duration_minutes = (SELECT COALESCE(SUM(duration_minutes), 0)
//	  FROM course_lessons WHERE module_id IN (SELECT id FROM course_modules WHERE course_id = ?))
func (s store) recomputeCourseDuration(ctx context.Context, ex dialect.ExecQuerier, courseID uuid.UUID) (int, error) {
	b := s.builder()
	modules := b.Select("id").From(b.Table(tableModules)).Where(sql.EQ("course_id", courseID))
	sum := b.Select("COALESCE(SUM(duration_minutes), 0)").
		From(b.Table(tableLessons)).
		Where(sql.In("module_id", modules))

	update := b.Update(tableCourses).
		Set("duration_minutes", sql.ExprFunc(func(b *sql.Builder) {
			b.Wrap(func(b *sql.Builder) { b.Join(sum) })
		})).
		Set("updated_at", s.timestamp()).
		Where(sql.EQ("id", courseID))
	if _, err := execStmt(ctx, ex, update); err != nil {
		return 0, err
	}
	return queryInt(ctx, ex, b.Select("duration_minutes").From(b.Table(tableCourses)).Where(sql.EQ("id", courseID)))
}

type progressRow struct {
	ID          uuid.UUID
	CompletedAt *time.Time
}

// refreshCourseProgress recomputes the percentage of every session tracking
// courseID after the course's lessons changed.
func (s store) refreshCourseProgress(ctx context.Context, ex dialect.ExecQuerier, courseID uuid.UUID) error {
	b := s.builder()
	rows, err := queryAll(ctx, ex, b.Select("id", "completed_at").
		From(b.Table(tableProgress)).
		Where(sql.EQ("course_id", courseID)), scanProgressRow)
	if err != nil || len(rows) == 0 {
		return err
	}
	total, err := s.countCourseLessons(ctx, ex, courseID)
	if err != nil {
		return err
	}
	at := s.timestamp()
	for _, row := range rows {
		update, err := s.progressUpdate(ctx, ex, row, total, at)
		if err != nil {
			return err
		}
		if _, err := execStmt(ctx, ex, update); err != nil {
			return err
		}
	}
	return nil
}

func (s store) countCourseLessons(ctx context.Context, ex dialect.ExecQuerier, courseID uuid.UUID) (int, error) {
	b := s.builder()
	return queryInt(ctx, ex, b.Select("COUNT(*)").
		From(b.Table(tableLessons)).
		Where(sql.In("id", s.courseLessons(courseID))))
}

// progressUpdate builds the update storing round(100 * completed / total) for row.
// completed_at is stamped with at the first time the session reaches 100% and
// cleared whenever it drops below.
func (s store) progressUpdate(ctx context.Context, ex dialect.ExecQuerier, row progressRow, total int, at time.Time) (*sql.UpdateBuilder, error) {
	b := s.builder()
	done, err := queryInt(ctx, ex, b.Select("COUNT(*)").
		From(b.Table(tableLessonCompletions)).
		Where(sql.EQ("course_progress_id", row.ID)))
	if err != nil {
		return nil, err
	}

	percentage := completionPercentage(done, total)
	completedAt := row.CompletedAt
	switch {
	case percentage < 100:
		completedAt = nil
	case completedAt == nil:
		completedAt = &at
	}
	return b.Update(tableProgress).
		Set("progress_percentage", percentage).
		Set("completed_at", nullable(completedAt)).
		Where(sql.EQ("id", row.ID)), nil
}

func completionPercentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return min(100, int(math.Round(100*float64(done)/float64(total))))
}

func scanProgressRow(rows *sql.Rows) (progressRow, error) {
	var (
		row         progressRow
		completedAt stdsql.NullTime
	)
	if err := rows.Scan(&row.ID, &completedAt); err != nil {
		return progressRow{}, err
	}
	row.CompletedAt = timePtr(completedAt)
	return row, nil
}
