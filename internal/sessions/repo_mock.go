package sessions

import (
	"context"
	"sort"
)

type repoMock struct {
	sessions map[string]WorkoutSession

	listErr   error
	upsertErr error
}

func NewMockSessionsRepo() *repoMock {
	return &repoMock{
		sessions: make(map[string]WorkoutSession),
	}
}

func (r *repoMock) ListAll(_ context.Context, _ string) ([]WorkoutSession, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	sessions := make([]WorkoutSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})
	return sessions, nil
}

func (r *repoMock) Get(_ context.Context, _ string, sessionID string) (WorkoutSession, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return WorkoutSession{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *repoMock) Upsert(_ context.Context, _ string, session WorkoutSession) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *repoMock) Delete(_ context.Context, _ string, sessionID string) error {
	if _, ok := r.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

func (r *repoMock) DeleteAll(context.Context, string) error {
	r.sessions = make(map[string]WorkoutSession)
	return nil
}
