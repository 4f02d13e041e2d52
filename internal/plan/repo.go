package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fitflow/fitflow/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrPlanNotFound = errors.New("weekly plan not found")

// Repo persists weekly plans to postgres, one jsonb document per user.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID string) (_ WeeklyPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var planJson []byte
	err = r.db.QueryRow(
		ctx,
		`SELECT plan FROM weekly_plan WHERE user_id = $1;`,
		userID,
	).Scan(&planJson)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	var wp WeeklyPlan
	if err := json.Unmarshal(planJson, &wp); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}

	return wp, nil
}

func (r *Repo) Upsert(ctx context.Context, userID string, wp WeeklyPlan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	planJson, err := json.Marshal(wp)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO weekly_plan (user_id, plan, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id) DO UPDATE SET plan = $2, updated_at = now();`,
		userID, planJson,
	)
	return err
}
