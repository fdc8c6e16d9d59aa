package db

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

var (
	progressColumns   = []string{"id", "course_id", "session_id", "progress_percentage", "started_at", "last_accessed_at", "completed_at"}
	completionColumns = []string{"id", "course_progress_id", "lesson_id", "time_spent_minutes", "completed_at"}
)

// ProgressRepository persists per-session course progress.
type ProgressRepository struct {
	store
}

// NewProgressRepository constructs a progress repository over the shared driver.
func NewProgressRepository(drv *sql.Driver) *ProgressRepository {
	return &ProgressRepository{store: newStore(drv)}
}

var _ core.ProgressRepository = (*ProgressRepository)(nil)

// GetProgress returns the progress of a session in a course with its completions.
func (r *ProgressRepository) GetProgress(ctx context.Context, courseID uuid.UUID, sessionID string) (*core.CourseProgress, error) {
	progress, err := r.findProgress(ctx, r.drv, courseID, sessionID)
	if err != nil {
		return nil, core.WrapPersistence("get progress", err)
	}

	b := r.builder()
	sel := b.Select(completionColumns...).
		From(b.Table(tableLessonCompletions)).
		Where(sql.EQ("course_progress_id", progress.ID)).
		OrderBy(sql.Asc("completed_at"))
	completions, err := queryAll(ctx, r.drv, sel, scanCompletion)
	if err != nil {
		return nil, core.WrapPersistence("list completions", err)
	}
	progress.Completions = completions
	return progress, nil
}

// RecordCompletion upserts the completion of a lesson and refreshes the session's
// progress percentage. The progress row is created on first use.
func (r *ProgressRepository) RecordCompletion(ctx context.Context, params core.RecordCompletionParams) (*core.CourseProgress, *core.LessonCompletion, error) {
	at := params.At.UTC()
	var completion core.LessonCompletion

	err := r.withTx(ctx, func(tx dialect.Tx) error {
		if err := r.lockRow(ctx, tx, tableCourses, params.CourseID); err != nil {
			return err
		}
		if err := r.checkLessonInCourse(ctx, tx, params.LessonID, params.CourseID); err != nil {
			return err
		}

		progress, err := r.findProgress(ctx, tx, params.CourseID, params.SessionID)
		switch {
		case err == nil:
		case errors.Is(err, core.ErrNotFound):
			progress = &core.CourseProgress{
				ID:             uuid.New(),
				CourseID:       params.CourseID,
				SessionID:      params.SessionID,
				StartedAt:      at,
				LastAccessedAt: at,
			}
			insert := r.builder().Insert(tableProgress).
				Columns(progressColumns...).
				Values(progress.ID, progress.CourseID, progress.SessionID, 0, at, at, nil)
			if _, err := execStmt(ctx, tx, insert); err != nil {
				return err
			}
		default:
			return err
		}

		if completion, err = r.upsertCompletion(ctx, tx, progress.ID, params.LessonID, params.TimeSpentMinutes, at); err != nil {
			return err
		}
		return r.refreshPercentage(ctx, tx, progress, at)
	})
	if err != nil {
		return nil, nil, core.WrapPersistence("record completion", err)
	}

	progress, err := r.GetProgress(ctx, params.CourseID, params.SessionID)
	if err != nil {
		return nil, nil, err
	}
	return progress, &completion, nil
}

func (r *ProgressRepository) checkLessonInCourse(ctx context.Context, ex dialect.ExecQuerier, lessonID, courseID uuid.UUID) error {
	b := r.builder()
	moduleIDs, err := queryIDs(ctx, ex, b.Select("module_id").From(b.Table(tableLessons)).Where(sql.EQ("id", lessonID)))
	if err != nil {
		return err
	}
	if len(moduleIDs) == 0 {
		return fmt.Errorf("%w: lesson %s does not exist", core.ErrInvalidReference, lessonID)
	}
	owner, err := r.courseOfModule(ctx, ex, moduleIDs[0])
	if err != nil {
		return err
	}
	if owner != courseID {
		return fmt.Errorf("%w: lesson %s does not belong to course %s", core.ErrInvalidReference, lessonID, courseID)
	}
	return nil
}

func (r *ProgressRepository) upsertCompletion(ctx context.Context, ex dialect.ExecQuerier, progressID, lessonID uuid.UUID, timeSpent int, at time.Time) (core.LessonCompletion, error) {
	b := r.builder()
	existing, err := queryOne(ctx, ex, b.Select(completionColumns...).
		From(b.Table(tableLessonCompletions)).
		Where(sql.And(sql.EQ("course_progress_id", progressID), sql.EQ("lesson_id", lessonID))), scanCompletion)

	switch {
	case err == nil:
		update := b.Update(tableLessonCompletions).
			Set("time_spent_minutes", timeSpent).
			Set("completed_at", at).
			Where(sql.EQ("id", existing.ID))
		if _, err := execStmt(ctx, ex, update); err != nil {
			return core.LessonCompletion{}, err
		}
		existing.TimeSpentMinutes = timeSpent
		existing.CompletedAt = at
		return *existing, nil
	case errors.Is(err, core.ErrNotFound):
		completion := core.LessonCompletion{
			ID:               uuid.New(),
			CourseProgressID: progressID,
			LessonID:         lessonID,
			TimeSpentMinutes: timeSpent,
			CompletedAt:      at,
		}
		insert := b.Insert(tableLessonCompletions).
			Columns(completionColumns...).
			Values(completion.ID, completion.CourseProgressID, completion.LessonID, completion.TimeSpentMinutes, completion.CompletedAt)
		if _, err := execStmt(ctx, ex, insert); err != nil {
			return core.LessonCompletion{}, err
		}
		return completion, nil
	default:
		return core.LessonCompletion{}, err
	}
}

// refreshPercentage stores the session's completion percentage and marks it as
// accessed at at.
func (r *ProgressRepository) refreshPercentage(ctx context.Context, ex dialect.ExecQuerier, progress *core.CourseProgress, at time.Time) error {
	total, err := r.countCourseLessons(ctx, ex, progress.CourseID)
	if err != nil {
		return err
	}
	update, err := r.progressUpdate(ctx, ex, progressRow{ID: progress.ID, CompletedAt: progress.CompletedAt}, total, at)
	if err != nil {
		return err
	}
	_, err = execStmt(ctx, ex, update.Set("last_accessed_at", at))
	return err
}

func (r *ProgressRepository) findProgress(ctx context.Context, ex dialect.ExecQuerier, courseID uuid.UUID, sessionID string) (*core.CourseProgress, error) {
	b := r.builder()
	sel := b.Select(progressColumns...).
		From(b.Table(tableProgress)).
		Where(sql.And(sql.EQ("course_id", courseID), sql.EQ("session_id", sessionID)))
	return queryOne(ctx, ex, sel, scanProgress)
}

func scanProgress(rows *sql.Rows) (core.CourseProgress, error) {
	var (
		p           core.CourseProgress
		percentage  int64
		completedAt stdsql.NullTime
	)
	if err := rows.Scan(&p.ID, &p.CourseID, &p.SessionID, &percentage, &p.StartedAt, &p.LastAccessedAt, &completedAt); err != nil {
		return core.CourseProgress{}, err
	}
	p.ProgressPercentage = int(percentage)
	p.StartedAt = p.StartedAt.UTC()
	p.LastAccessedAt = p.LastAccessedAt.UTC()
	p.CompletedAt = timePtr(completedAt)
	return p, nil
}

func scanCompletion(rows *sql.Rows) (core.LessonCompletion, error) {
	var (
		c         core.LessonCompletion
		timeSpent int64
	)
	if err := rows.Scan(&c.ID, &c.CourseProgressID, &c.LessonID, &timeSpent, &c.CompletedAt); err != nil {
		return core.LessonCompletion{}, err
	}
	c.TimeSpentMinutes = int(timeSpent)
	c.CompletedAt = c.CompletedAt.UTC()
	return c, nil
}
