package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMuscleGroup(t *testing.T) {
	testCases := []struct {
		name     string
		expected MuscleGroup
	}{
		{name: "Barbell Row", expected: MuscleGroupBack},
		{name: "Pull Ups", expected: MuscleGroupBack},
		{name: "Bench Press", expected: MuscleGroupChest},
		{name: "Incline bench press", expected: MuscleGroupChest},
		{name: "Overhead Press", expected: MuscleGroupShoulder},
		{name: "Lateral Raise", expected: MuscleGroupShoulder},
		{name: "Tricep Extension", expected: MuscleGroupTricep},
		{name: "Hammer Curl", expected: MuscleGroupBicep},
		{name: "Squat", expected: MuscleGroupLegs},
		{name: "Deadlift", expected: MuscleGroupLegs},
		{name: "Plank", expected: MuscleGroupCore},
		{name: "Wrist Roller", expected: MuscleGroupForearm},
		{name: "Morning Yoga", expected: MuscleGroupStretches},
		{name: "Unknown Exercise XYZ", expected: MuscleGroupCore},
		{name: "", expected: MuscleGroupCore},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetMuscleGroup(tc.name))
		})
	}
}

func TestGetMuscleGroup_firstMatchWins(t *testing.T) {
	// "overhead" is checked before "press" ever could be and "raise"
	// before "leg", keyword order is part of the contract
	assert.Equal(t, MuscleGroupShoulder, GetMuscleGroup("Overhead Extension"))
	assert.Equal(t, MuscleGroupShoulder, GetMuscleGroup("Leg Raise"))
}

func TestValidMuscleGroup(t *testing.T) {
	for _, mg := range MuscleGroups {
		assert.True(t, ValidMuscleGroup(mg))
	}
	assert.False(t, ValidMuscleGroup("Cardio"))
	assert.False(t, ValidMuscleGroup(""))
}
