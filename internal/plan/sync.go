package plan

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

// Cross-day synchronization. All propagation is keyed by exact,
// case-sensitive exercise name match: there is no stable identity for a
// "logical exercise" beyond its name, so a rename severs the linkage.

// DaysWithExercise returns every day other than excludeDay whose plan
// contains an exercise with the given name, in weekday order.
func (s *Store) DaysWithExercise(name, excludeDay string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var days []string
	for _, day := range Days {
		if day == excludeDay {
			continue
		}
		for _, ex := range s.plan[day].Exercises {
			if ex.Name == name {
				days = append(days, day)
				break
			}
		}
	}
	return days
}

// PropagateWeight rewrites the weight of every exercise with the given
// name, on every day, to weightKg. Models one working weight per exercise
// plan-wide ("progressive overload"), even though weight is stored per
// day entry. Returns the number of entries updated.
func (s *Store) PropagateWeight(name string, weightKg float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, day := range Days {
		dp := s.plan[day]
		for i := range dp.Exercises {
			if dp.Exercises[i].Name == name && dp.Exercises[i].Weight != weightKg {
				dp.Exercises[i].Weight = weightKg
				updated++
			}
		}
		s.plan[day] = dp
	}

	if updated > 0 {
		log.Debugf("plan store: weight of [%s] synced to %.2f kg on %d entries", name, weightKg, updated)
		s.notify()
	}
	return updated
}

// RemoveFromDay removes the exercise at the given index from one day only.
func (s *Store) RemoveFromDay(day string, index int) error {
	if !ValidDay(day) {
		return ErrUnknownDay
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dp := s.plan[day]
	if index < 0 || index >= len(dp.Exercises) {
		return ErrExerciseIndexOutOfRange
	}
	dp.Exercises = append(dp.Exercises[:index], dp.Exercises[index+1:]...)
	s.plan[day] = dp
	s.notify()
	return nil
}

// RemoveFromAllDays removes every exercise with the given name from every
// day in a single pass. Returns the number of removed entries.
func (s *Store) RemoveFromAllDays(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, day := range Days {
		dp := s.plan[day]
		kept := dp.Exercises[:0]
		for _, ex := range dp.Exercises {
			if ex.Name == name {
				removed++
				continue
			}
			kept = append(kept, ex)
		}
		dp.Exercises = kept
		s.plan[day] = dp
	}

	if removed > 0 {
		log.Debugf("plan store: removed [%s] from all days, %d entries", name, removed)
		s.notify()
	}
	return removed
}

// SetExerciseWeight is the direct-edit path for weight changes outside an
// editing session: clamp, write, then sync the new weight to every other
// day carrying a same-named exercise.
func (s *Store) SetExerciseWeight(day string, index int, weightKg float64) error {
	if !ValidDay(day) {
		return ErrUnknownDay
	}
	if weightKg < 0 {
		weightKg = 0
	}

	s.mu.Lock()
	dp := s.plan[day]
	if index < 0 || index >= len(dp.Exercises) {
		s.mu.Unlock()
		return ErrExerciseIndexOutOfRange
	}
	name := dp.Exercises[index].Name
	s.mu.Unlock()

	s.PropagateWeight(name, weightKg)
	return nil
}

// ExerciseNames returns the distinct exercise names present anywhere in
// the plan, sorted. Used for suggestions alongside CommonExercises.
func (s *Store) ExerciseNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for _, day := range Days {
		for _, ex := range s.plan[day].Exercises {
			seen[ex.Name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
