package sessions

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitflow/fitflow/internal/plan"
)

// SessionExercise is one logged exercise within a workout session. Unlike
// plan entries, logged exercises carry an identity and a completion flag.
type SessionExercise struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Sets        int              `json:"sets"`
	Reps        int              `json:"reps"`
	Weight      float64          `json:"weight"` // kg
	MuscleGroup plan.MuscleGroup `json:"muscleGroup"`
	Completed   bool             `json:"completed"`
}

// WorkoutSession is one day of logged training.
type WorkoutSession struct {
	ID        string            `json:"id"`
	Date      time.Time         `json:"date"`
	Title     string            `json:"title"`
	Exercises []SessionExercise `json:"exercises"`
}

// SameDay reports whether the session was logged on the given calendar day.
func (s WorkoutSession) SameDay(t time.Time) bool {
	y1, m1, d1 := s.Date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// NewSessionFromDayPlan derives a fresh, unlogged session from a plan day.
// Weights start at zero and nothing is completed; the session only becomes
// persistent once the user logs something and it gets upserted.
func NewSessionFromDayPlan(dp plan.DayPlan, date time.Time) WorkoutSession {
	session := WorkoutSession{
		ID:        "session-" + uuid.NewString(),
		Date:      date,
		Title:     dp.Title,
		Exercises: make([]SessionExercise, 0, len(dp.Exercises)),
	}
	for i, ex := range dp.Exercises {
		session.Exercises = append(session.Exercises, SessionExercise{
			ID:          fmt.Sprintf("ex-%d-%s", i, uuid.NewString()),
			Name:        ex.Name,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			Weight:      0,
			MuscleGroup: ex.MuscleGroup,
			Completed:   false,
		})
	}
	return session
}
