package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

// ProgressService coordinates anonymous progress tracking.
type ProgressService struct {
	repo core.ProgressRepository
	now  func() time.Time
}

// NewProgressService constructs a ProgressService backed by the provided repository.
func NewProgressService(repo core.ProgressRepository) *ProgressService {
	return &ProgressService{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *ProgressService) WithClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

var _ core.ProgressService = (*ProgressService)(nil)

// GetProgress returns the session's progress in a course, or nil when the
// session has not completed any lesson yet.
func (s *ProgressService) GetProgress(ctx context.Context, courseID uuid.UUID, sessionID string) (*core.CourseProgress, error) {
	if err := requireID("course", courseID); err != nil {
		return nil, err
	}
	sessionID, err := requireText("session_id", sessionID)
	if err != nil {
		return nil, err
	}
	progress, err := s.repo.GetProgress(ctx, courseID, sessionID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	return progress, err
}

// RecordCompletion marks a lesson complete for a session.
func (s *ProgressService) RecordCompletion(ctx context.Context, params core.RecordCompletionParams) (*core.CourseProgress, *core.LessonCompletion, error) {
	if err := requireID("course", params.CourseID); err != nil {
		return nil, nil, err
	}
	if err := requireID("lesson", params.LessonID); err != nil {
		return nil, nil, err
	}
	sessionID, err := requireText("session_id", params.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if params.TimeSpentMinutes < 0 {
		return nil, nil, fmt.Errorf("%w: time_spent_minutes must be zero or positive", core.ErrValidation)
	}
	params.SessionID = sessionID
	params.At = s.now().UTC()
	return s.repo.RecordCompletion(ctx, params)
}
