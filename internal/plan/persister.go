package plan

import (
	"context"
	"errors"

	"github.com/fitflow/fitflow/internal/localstore"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=persister_mocks_test.go -package=plan_test

type planRepo interface {
	Get(ctx context.Context, userID string) (WeeklyPlan, error)
	Upsert(ctx context.Context, userID string, wp WeeklyPlan) error
}

// Persister consumes plan snapshots published by the store and writes
// them to postgres plus the local fallback copy. Persistence is fire and
// forget: failures are logged, never retried, and never affect the
// in-memory plan.
type Persister struct {
	repo     planRepo
	fallback *localstore.Store
	userID   string
}

func NewPersister(repo planRepo, fallback *localstore.Store, userID string) *Persister {
	return &Persister{
		repo:     repo,
		fallback: fallback,
		userID:   userID,
	}
}

// Run consumes snapshots until the context is cancelled or the updates
// channel is closed. Meant to be started as a goroutine at server setup.
func (p *Persister) Run(ctx context.Context, updates <-chan WeeklyPlan) {
	for {
		select {
		case <-ctx.Done():
			log.Debugln("plan persister: stopping")
			return
		case snapshot, ok := <-updates:
			if !ok {
				log.Debugln("plan persister: updates channel closed")
				return
			}
			p.persist(ctx, snapshot)
		}
	}
}

func (p *Persister) persist(ctx context.Context, snapshot WeeklyPlan) {
	var err error
	if upsertErr := p.repo.Upsert(ctx, p.userID, snapshot); upsertErr != nil {
		err = multierr.Append(err, upsertErr)
	}
	if fallbackErr := p.fallback.SavePlan(ctx, p.userID, snapshot); fallbackErr != nil {
		err = multierr.Append(err, fallbackErr)
	}
	if err != nil {
		// local state stays the working truth, sync is best effort
		log.Errorf("plan persister: failed to sync plan: %s", err)
	}
}

// Load fetches the user's weekly plan: postgres first, the local fallback
// copy on failure, and the hardcoded default plan when neither has it. A
// fresh user's default plan is seeded back to postgres.
func Load(ctx context.Context, repo planRepo, fallback *localstore.Store, userID string) WeeklyPlan {
	wp, err := repo.Get(ctx, userID)
	if err == nil {
		return wp
	}

	if errors.Is(err, ErrPlanNotFound) {
		log.Debugf("no stored plan for user [%s], seeding default", userID)
		wp = DefaultWeeklyPlan()
		if err := repo.Upsert(ctx, userID, wp); err != nil {
			log.Errorf("seed default plan: %s", err)
		}
		return wp
	}

	log.Errorf("fetch plan from postgres: %s, trying local fallback", err)

	wp = WeeklyPlan{}
	if err := fallback.GetPlan(ctx, userID, &wp); err != nil {
		log.Errorf("fetch plan from local fallback: %s, using default plan", err)
		return DefaultWeeklyPlan()
	}
	return wp
}
