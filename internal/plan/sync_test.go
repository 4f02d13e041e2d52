package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DaysWithExercise(t *testing.T) {
	s := NewStore(testWeeklyPlan())

	assert.Equal(t, []string{"Thursday"}, s.DaysWithExercise("Bench Press", "Monday"))
	assert.Equal(t, []string{"Monday", "Thursday"}, s.DaysWithExercise("Bench Press", ""))
	assert.Empty(t, s.DaysWithExercise("Overhead Press", "Monday"))
	assert.Empty(t, s.DaysWithExercise("Nonexistent", ""))
}

func TestStore_PropagateWeight(t *testing.T) {
	s := NewStore(testWeeklyPlan())

	updated := s.PropagateWeight("Bench Press", 80)
	assert.Equal(t, 2, updated)

	monday, err := s.GetDay("Monday")
	require.NoError(t, err)
	thursday, err := s.GetDay("Thursday")
	require.NoError(t, err)
	assert.Equal(t, float64(80), monday.Exercises[0].Weight)
	assert.Equal(t, float64(80), thursday.Exercises[0].Weight)

	// other attributes stay per-day
	assert.Equal(t, 3, monday.Exercises[0].Sets)
	assert.Equal(t, 4, thursday.Exercises[0].Sets)

	// already at target weight, nothing to do and no snapshot published
	drainUpdates(s)
	assert.Zero(t, s.PropagateWeight("Bench Press", 80))
	select {
	case <-s.Updates():
		t.Fatal("no snapshot expected for a no-op propagation")
	default:
	}
}

func TestStore_RemoveFromDay_leavesOtherDaysIntact(t *testing.T) {
	s := NewStore(testWeeklyPlan())

	require.NoError(t, s.RemoveFromDay("Monday", 0))

	monday, err := s.GetDay("Monday")
	require.NoError(t, err)
	require.Len(t, monday.Exercises, 1)
	assert.Equal(t, "Overhead Press", monday.Exercises[0].Name)

	// the Thursday twin keeps all its attributes
	thursday, err := s.GetDay("Thursday")
	require.NoError(t, err)
	require.Len(t, thursday.Exercises, 2)
	assert.Equal(t, "Bench Press", thursday.Exercises[0].Name)
	assert.Equal(t, 4, thursday.Exercises[0].Sets)
	assert.Equal(t, float64(60), thursday.Exercises[0].Weight)
}

func TestStore_RemoveFromDay_badInput(t *testing.T) {
	s := NewStore(testWeeklyPlan())
	assert.ErrorIs(t, s.RemoveFromDay("Funday", 0), ErrUnknownDay)
	assert.ErrorIs(t, s.RemoveFromDay("Monday", -1), ErrExerciseIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveFromDay("Monday", 2), ErrExerciseIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveFromDay("Sunday", 0), ErrExerciseIndexOutOfRange)
}

func TestStore_RemoveFromAllDays(t *testing.T) {
	s := NewStore(testWeeklyPlan())

	removed := s.RemoveFromAllDays("Bench Press")
	assert.Equal(t, 2, removed)

	monday, _ := s.GetDay("Monday")
	thursday, _ := s.GetDay("Thursday")
	require.Len(t, monday.Exercises, 1)
	require.Len(t, thursday.Exercises, 1)
	assert.Equal(t, "Overhead Press", monday.Exercises[0].Name)
	assert.Equal(t, "Barbell Row", thursday.Exercises[0].Name)

	assert.Zero(t, s.RemoveFromAllDays("Bench Press"))
}

func TestStore_SetExerciseWeight_propagates(t *testing.T) {
	s := NewStore(testWeeklyPlan())

	require.NoError(t, s.SetExerciseWeight("Monday", 0, 72.5))

	monday, _ := s.GetDay("Monday")
	thursday, _ := s.GetDay("Thursday")
	assert.Equal(t, 72.5, monday.Exercises[0].Weight)
	assert.Equal(t, 72.5, thursday.Exercises[0].Weight)
}

func TestStore_SetExerciseWeight_clampsNegative(t *testing.T) {
	s := NewStore(testWeeklyPlan())

	require.NoError(t, s.SetExerciseWeight("Monday", 1, -5))

	monday, _ := s.GetDay("Monday")
	assert.Zero(t, monday.Exercises[1].Weight)
}

func drainUpdates(s *Store) {
	for {
		select {
		case <-s.Updates():
		default:
			return
		}
	}
}
