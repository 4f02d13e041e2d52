package plan

import "strings"

type MuscleGroup string

const (
	MuscleGroupShoulder  MuscleGroup = "Shoulder"
	MuscleGroupBack      MuscleGroup = "Back"
	MuscleGroupChest     MuscleGroup = "Chest"
	MuscleGroupTricep    MuscleGroup = "Tricep"
	MuscleGroupBicep     MuscleGroup = "Bicep"
	MuscleGroupLegs      MuscleGroup = "Legs"
	MuscleGroupCore      MuscleGroup = "Core"
	MuscleGroupForearm   MuscleGroup = "Forearm"
	MuscleGroupStretches MuscleGroup = "Stretches"
)

var MuscleGroups = []MuscleGroup{
	MuscleGroupShoulder,
	MuscleGroupBack,
	MuscleGroupChest,
	MuscleGroupTricep,
	MuscleGroupBicep,
	MuscleGroupLegs,
	MuscleGroupCore,
	MuscleGroupForearm,
	MuscleGroupStretches,
}

func ValidMuscleGroup(mg MuscleGroup) bool {
	for _, m := range MuscleGroups {
		if m == mg {
			return true
		}
	}
	return false
}

// muscleGroupKeywords is checked in order, the first group with a
// matching keyword wins.
var muscleGroupKeywords = []struct {
	group    MuscleGroup
	keywords []string
}{
	{MuscleGroupShoulder, []string{"shoulder", "overhead", "raise", "military"}},
	{MuscleGroupBack, []string{"row", "pull", "back", "lat", "chin"}},
	{MuscleGroupChest, []string{"bench", "chest", "push", "dip", "fly"}},
	{MuscleGroupTricep, []string{"tricep", "extension", "skull"}},
	{MuscleGroupBicep, []string{"curl", "bicep"}},
	{MuscleGroupLegs, []string{"squat", "leg", "lunge", "calf", "deadlift"}},
	{MuscleGroupCore, []string{"plank", "crunch", "sit", "abs", "core"}},
	{MuscleGroupForearm, []string{"wrist", "forearm"}},
	{MuscleGroupStretches, []string{"stretch", "yoga", "mobility"}},
}

// GetMuscleGroup classifies a free-text exercise name into a muscle group.
// Unrecognized names fall back to Core.
func GetMuscleGroup(name string) MuscleGroup {
	n := strings.ToLower(name)
	for _, mg := range muscleGroupKeywords {
		for _, keyword := range mg.keywords {
			if strings.Contains(n, keyword) {
				return mg.group
			}
		}
	}
	return MuscleGroupCore
}
