package plan

import "errors"

var (
	ErrUnknownDay              = errors.New("unknown weekday")
	ErrExerciseIndexOutOfRange = errors.New("exercise index out of range")
)

// Days holds the weekday keys of a weekly plan, in display order.
var Days = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// PlanExercise is one template entry within a day plan. It has no identity
// beyond its name and position; cross-day relations are name based.
type PlanExercise struct {
	Name        string      `json:"name"`
	Sets        int         `json:"sets"`
	Reps        int         `json:"reps"`
	Weight      float64     `json:"weight"` // canonical kg
	MuscleGroup MuscleGroup `json:"muscleGroup"`
}

// DayPlan is the exercise template for one weekday.
type DayPlan struct {
	Title     string         `json:"title"`
	Exercises []PlanExercise `json:"exercises"`
	IsRestDay bool           `json:"isRestDay"`
}

func (dp DayPlan) Clone() DayPlan {
	cloned := DayPlan{
		Title:     dp.Title,
		IsRestDay: dp.IsRestDay,
	}
	if dp.Exercises != nil {
		cloned.Exercises = make([]PlanExercise, len(dp.Exercises))
		copy(cloned.Exercises, dp.Exercises)
	}
	return cloned
}

// WeeklyPlan maps weekday names to day plans. All 7 days are always present.
type WeeklyPlan map[string]DayPlan

func (wp WeeklyPlan) Clone() WeeklyPlan {
	cloned := make(WeeklyPlan, len(wp))
	for day, dp := range wp {
		cloned[day] = dp.Clone()
	}
	return cloned
}

// DefaultWeeklyPlan returns the plan seeded for new users: all rest days.
func DefaultWeeklyPlan() WeeklyPlan {
	wp := make(WeeklyPlan, len(Days))
	for _, day := range Days {
		wp[day] = DayPlan{Title: "Rest Day", Exercises: []PlanExercise{}}
	}
	return wp
}

// NewDefaultExercise is the entry appended by the "add exercise" action.
func NewDefaultExercise() PlanExercise {
	return PlanExercise{
		Name:        "New Exercise",
		Sets:        3,
		Reps:        10,
		Weight:      0,
		MuscleGroup: MuscleGroupCore,
	}
}

// CommonExercises backs the exercise name suggestions in clients.
var CommonExercises = []string{
	"Bench Press", "Incline Bench Press", "Dips", "Push Ups",
	"Squat", "Deadlift", "Leg Press", "Lunges", "Calf Raise",
	"Pull Ups", "Lat Pulldown", "Barbell Row", "Face Pulls",
	"Overhead Press", "Lateral Raise", "Front Raise",
	"Bicep Curl", "Hammer Curl", "Tricep Extension", "Skullcrushers",
	"Plank", "Crunches", "Leg Raise", "Russian Twist",
	"Running", "Cycling", "Jump Rope", "Stretching",
}
