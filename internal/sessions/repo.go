package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fitflow/fitflow/internal/telemetry/tracing"
)

var ErrSessionNotFound = errors.New("workout session not found")

// Repo persists workout sessions to postgres. Exercise lists go in as one
// jsonb document per session, there is no per-exercise relational model.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) ListAll(ctx context.Context, userID string) (_ []WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, date, title, exercises
			FROM sessions
			WHERE user_id = $1
			ORDER BY date;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []WorkoutSession
	for rows.Next() {
		var s WorkoutSession
		var exercisesJson []byte
		if err := rows.Scan(&s.ID, &s.Date, &s.Title, &exercisesJson); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		if err := json.Unmarshal(exercisesJson, &s.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal exercises of [%s]: %w", s.ID, err)
		}
		sessions = append(sessions, s)
	}

	span.SetAttributes(attribute.Int("sessions.count", len(sessions)))
	return sessions, rows.Err()
}

func (r *Repo) Get(ctx context.Context, userID, sessionID string) (_ WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var s WorkoutSession
	var exercisesJson []byte
	err = r.db.QueryRow(
		ctx,
		`SELECT id, date, title, exercises
			FROM sessions
			WHERE user_id = $1 AND id = $2;`,
		userID, sessionID,
	).Scan(&s.ID, &s.Date, &s.Title, &exercisesJson)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WorkoutSession{}, ErrSessionNotFound
		}
		return WorkoutSession{}, err
	}

	if err := json.Unmarshal(exercisesJson, &s.Exercises); err != nil {
		return WorkoutSession{}, fmt.Errorf("unmarshal exercises: %w", err)
	}
	return s, nil
}

func (r *Repo) Upsert(ctx context.Context, userID string, session WorkoutSession) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("session.id", session.ID),
	)

	exercisesJson, err := json.Marshal(session.Exercises)
	if err != nil {
		return fmt.Errorf("marshal exercises: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO sessions (id, user_id, date, title, exercises)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET date = $3, title = $4, exercises = $5;`,
		session.ID, userID, session.Date, session.Title, exercisesJson,
	)
	return err
}

func (r *Repo) Delete(ctx context.Context, userID, sessionID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND id = $2;`,
		userID, sessionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteAll wipes the user's whole workout history, used by the
// danger-zone reset in settings.
func (r *Repo) DeleteAll(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.deleteAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1;`, userID)
	return err
}
