package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fitflow/fitflow/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

const (
	weeklyPlanKeyPrefix = "weeklyPlan::"
	sessionsKeyPrefix   = "sessions::"
	unitKeyPrefix       = "unit::"
)

// Store is the local fallback store: JSON blobs in redis, consulted when
// the primary postgres read fails and refreshed after every successful
// mutation. Best effort only, callers log and move on.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{
		rdb: rdb,
	}
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal [%s]: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set [%s]: %w", key, err)
	}
	return nil
}

func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	blob, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return fmt.Errorf("redis get [%s]: %w", key, err)
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return fmt.Errorf("unmarshal [%s]: %w", key, err)
	}
	return nil
}

func (s *Store) SavePlan(ctx context.Context, userID string, plan any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "localstore.savePlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	return s.setJSON(ctx, weeklyPlanKeyPrefix+userID, plan)
}

func (s *Store) GetPlan(ctx context.Context, userID string, plan any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "localstore.getPlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	return s.getJSON(ctx, weeklyPlanKeyPrefix+userID, plan)
}

func (s *Store) SaveSessions(ctx context.Context, userID string, sessions any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "localstore.saveSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	return s.setJSON(ctx, sessionsKeyPrefix+userID, sessions)
}

func (s *Store) GetSessions(ctx context.Context, userID string, sessions any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "localstore.getSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	return s.getJSON(ctx, sessionsKeyPrefix+userID, sessions)
}

// GetUnit returns the stored display unit preference, or "" when unset.
func (s *Store) GetUnit(ctx context.Context, userID string) (string, error) {
	unit, err := s.rdb.Get(ctx, unitKeyPrefix+userID).Result()
	if err != nil {
		return "", err
	}
	return unit, nil
}

func (s *Store) SetUnit(ctx context.Context, userID, unit string) error {
	return s.rdb.Set(ctx, unitKeyPrefix+userID, unit, 0).Err()
}
