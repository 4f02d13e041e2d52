package plan

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store holds the canonical weekly plan. All reads and writes go through
// deep copies so callers can never alias internal state. Every mutation
// publishes a snapshot on the updates channel for fire-and-forget
// persistence; in-memory state is the working truth regardless of whether
// that snapshot ever reaches the backend.
type Store struct {
	mu      sync.Mutex
	plan    WeeklyPlan
	updates chan WeeklyPlan
}

func NewStore(initial WeeklyPlan) *Store {
	if initial == nil {
		initial = DefaultWeeklyPlan()
	}
	return &Store{
		plan:    initial.Clone(),
		updates: make(chan WeeklyPlan, 16),
	}
}

// Updates returns the channel on which plan snapshots are published
// after each mutation. Consumed by the persister.
func (s *Store) Updates() <-chan WeeklyPlan {
	return s.updates
}

// Get returns a deep copy of the full weekly plan.
func (s *Store) Get() WeeklyPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// GetDay returns a deep copy of one day plan.
func (s *Store) GetDay(day string) (DayPlan, error) {
	if !ValidDay(day) {
		return DayPlan{}, ErrUnknownDay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan[day].Clone(), nil
}

// ReplaceDay atomically replaces the plan for one day.
func (s *Store) ReplaceDay(day string, dp DayPlan) error {
	if !ValidDay(day) {
		return ErrUnknownDay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan[day] = dp.Clone()
	s.notify()
	return nil
}

// ReplaceAll replaces the whole weekly plan, used by cross-day propagation.
func (s *Store) ReplaceAll(wp WeeklyPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = wp.Clone()
	s.notify()
}

// notify publishes the current plan snapshot without ever blocking a
// mutation; if the persister lags behind, older snapshots are dropped as
// only the latest state matters.
func (s *Store) notify() {
	snapshot := s.plan.Clone()
	select {
	case s.updates <- snapshot:
	default:
		// persister behind, drop the oldest snapshot and retry once
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- snapshot:
		default:
			log.Warnln("plan store: updates channel full, snapshot dropped")
		}
	}
}
