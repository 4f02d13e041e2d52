package sessions

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fitflow/fitflow/internal/localstore"
	"github.com/fitflow/fitflow/internal/plan"
	"github.com/fitflow/fitflow/internal/telemetry/tracing"
)

type sessionsRepo interface {
	ListAll(ctx context.Context, userID string) ([]WorkoutSession, error)
	Get(ctx context.Context, userID, sessionID string) (WorkoutSession, error)
	Upsert(ctx context.Context, userID string, session WorkoutSession) error
	Delete(ctx context.Context, userID, sessionID string) error
	DeleteAll(ctx context.Context, userID string) error
}

// Service is the session log behind the dashboard and history screens. It
// reads from postgres with the local fallback copy as a safety net and
// keeps that copy fresh after every successful write.
type Service struct {
	repo     sessionsRepo
	fallback *localstore.Store
	plans    *plan.Store
	userID   string
	now      func() time.Time
}

func NewService(
	repo sessionsRepo,
	fallback *localstore.Store,
	plans *plan.Store,
	userID string,
) *Service {
	return &Service{
		repo:     repo,
		fallback: fallback,
		plans:    plans,
		userID:   userID,
		now:      time.Now,
	}
}

// List returns all logged sessions. A postgres failure falls back to the
// local copy; when that fails too the history is simply empty, the app
// stays usable.
func (s *Service) List(ctx context.Context) []WorkoutSession {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.list")
	defer span.End()

	sessions, err := s.repo.ListAll(ctx, s.userID)
	if err == nil {
		return sessions
	}
	log.Errorf("list sessions from postgres: %s, trying local fallback", err)

	sessions = nil
	if err := s.fallback.GetSessions(ctx, s.userID, &sessions); err != nil {
		log.Errorf("list sessions from local fallback: %s", err)
		return []WorkoutSession{}
	}
	return sessions
}

// TodayWorkout returns today's logged session if one exists, otherwise a
// fresh session derived from today's plan day. The derived session is not
// persisted until the first upsert.
func (s *Service) TodayWorkout(ctx context.Context) WorkoutSession {
	now := s.now()
	for _, session := range s.List(ctx) {
		if session.SameDay(now) {
			return session
		}
	}

	dayName := now.Weekday().String()
	dp, err := s.plans.GetDay(dayName)
	if err != nil {
		log.Errorf("today workout: get plan for %s: %s", dayName, err)
		return NewSessionFromDayPlan(plan.DayPlan{Title: "Rest Day"}, now)
	}
	return NewSessionFromDayPlan(dp, now)
}

// Upsert writes the session to postgres and refreshes the local fallback
// copy of the full session list. Fallback refresh failures are logged only.
func (s *Service) Upsert(ctx context.Context, session WorkoutSession) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.Upsert(ctx, s.userID, session); err != nil {
		return err
	}
	s.refreshFallback(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, sessionID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.Delete(ctx, s.userID, sessionID); err != nil {
		return err
	}
	s.refreshFallback(ctx)
	return nil
}

// DeleteAll wipes the whole workout history.
func (s *Service) DeleteAll(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.deleteAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.DeleteAll(ctx, s.userID); err != nil {
		return err
	}
	s.refreshFallback(ctx)
	return nil
}

func (s *Service) refreshFallback(ctx context.Context) {
	sessions, err := s.repo.ListAll(ctx, s.userID)
	if err != nil {
		log.Errorf("refresh local sessions copy: list: %s", err)
		return
	}
	if err := s.fallback.SaveSessions(ctx, s.userID, sessions); err != nil {
		log.Errorf("refresh local sessions copy: save: %s", err)
	}
}
