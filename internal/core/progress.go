package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CourseProgress tracks an anonymous session's advance through a course.
type CourseProgress struct {
	ID                 uuid.UUID
	CourseID           uuid.UUID
	SessionID          string
	ProgressPercentage int
	StartedAt          time.Time
	LastAccessedAt     time.Time
	CompletedAt        *time.Time
	Completions        []LessonCompletion
}

// LessonCompletion records a finished lesson. It is unique per progress and lesson.
type LessonCompletion struct {
	ID               uuid.UUID
	CourseProgressID uuid.UUID
	LessonID         uuid.UUID
	TimeSpentMinutes int
	CompletedAt      time.Time
}

// RecordCompletionParams marks a lesson complete for a session.
type RecordCompletionParams struct {
	CourseID         uuid.UUID
	SessionID        string
	LessonID         uuid.UUID
	TimeSpentMinutes int
	At               time.Time
}

// ProgressRepository persists course progress and lesson completions.
type ProgressRepository interface {
	GetProgress(ctx context.Context, courseID uuid.UUID, sessionID string) (*CourseProgress, error)
	RecordCompletion(ctx context.Context, params RecordCompletionParams) (*CourseProgress, *LessonCompletion, error)
}

// ProgressService exposes the progress use cases.
type ProgressService interface {
	GetProgress(ctx context.Context, courseID uuid.UUID, sessionID string) (*CourseProgress, error)
	RecordCompletion(ctx context.Context, params RecordCompletionParams) (*CourseProgress, *LessonCompletion, error)
}
