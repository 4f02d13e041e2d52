package history

import (
	"context"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fitflow/fitflow/internal/sessions"
	"github.com/fitflow/fitflow/internal/telemetry/tracing"
)

// ExerciseAggregate sums up one exercise across all sessions of a week.
// Planned sets/reps come from the first occurrence, completed sets/reps
// accumulate over every occurrence.
type ExerciseAggregate struct {
	Name           string `json:"name"`
	PlannedSets    int    `json:"plannedSets"`
	PlannedReps    int    `json:"plannedReps"`
	CompletedSets  int    `json:"completedSets"`
	CompletedReps  int    `json:"completedReps"`
	TimesCompleted int    `json:"timesCompleted"`
	Count          int    `json:"count"`
	CompletionRate int    `json:"completionRate"` // percent, 0-100
}

// WeekBucket groups all sessions of one calendar week, Monday to Sunday.
type WeekBucket struct {
	StartDate          time.Time           `json:"startDate"`
	Exercises          []ExerciseAggregate `json:"exercises"`
	TotalExercises     int                 `json:"totalExercises"`
	CompletedExercises int                 `json:"completedExercises"`
	WeekNumber         int                 `json:"weekNumber"`
	ConsistencyScore   int                 `json:"consistencyScore"` // percent, 0-100
}

// WeekStart returns midnight of the Monday of t's week. Sundays belong to
// the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Aggregate buckets sessions into calendar weeks, newest first. Week
// numbers count up from the oldest recorded week, so "Week 1" is where the
// training history began. A pure function, safe to call on any snapshot.
func Aggregate(allSessions []sessions.WorkoutSession) []WeekBucket {
	if len(allSessions) == 0 {
		return []WeekBucket{}
	}

	weekIndex := make(map[time.Time]int)
	var weeks []WeekBucket

	for _, session := range allSessions {
		start := WeekStart(session.Date)
		idx, ok := weekIndex[start]
		if !ok {
			idx = len(weeks)
			weekIndex[start] = idx
			weeks = append(weeks, WeekBucket{
				StartDate: start,
				Exercises: []ExerciseAggregate{},
			})
		}

		week := &weeks[idx]
		for _, ex := range session.Exercises {
			week.TotalExercises++
			if ex.Completed {
				week.CompletedExercises++
			}

			found := false
			for i := range week.Exercises {
				if week.Exercises[i].Name == ex.Name {
					week.Exercises[i].CompletedSets += ex.Sets
					week.Exercises[i].CompletedReps += ex.Reps
					week.Exercises[i].Count++
					if ex.Completed {
						week.Exercises[i].TimesCompleted++
					}
					found = true
					break
				}
			}
			if !found {
				timesCompleted := 0
				if ex.Completed {
					timesCompleted = 1
				}
				week.Exercises = append(week.Exercises, ExerciseAggregate{
					Name:           ex.Name,
					PlannedSets:    ex.Sets,
					PlannedReps:    ex.Reps,
					CompletedSets:  ex.Sets,
					CompletedReps:  ex.Reps,
					TimesCompleted: timesCompleted,
					Count:          1,
				})
			}
		}
	}

	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].StartDate.After(weeks[j].StartDate)
	})

	for i := range weeks {
		weeks[i].WeekNumber = len(weeks) - i
		if weeks[i].TotalExercises > 0 {
			weeks[i].ConsistencyScore = int(math.Round(
				float64(weeks[i].CompletedExercises) / float64(weeks[i].TotalExercises) * 100,
			))
		}
		for j := range weeks[i].Exercises {
			ex := &weeks[i].Exercises[j]
			ex.CompletionRate = int(math.Round(
				float64(ex.TimesCompleted) / float64(ex.Count) * 100,
			))
		}
	}

	return weeks
}

// FilterByExercise narrows each week's breakdown to one exercise. Week
// level stats (consistency, totals, numbering) are left untouched.
func FilterByExercise(weeks []WeekBucket, name string) []WeekBucket {
	filtered := make([]WeekBucket, 0, len(weeks))
	for _, week := range weeks {
		matching := []ExerciseAggregate{}
		for _, ex := range week.Exercises {
			if ex.Name == name {
				matching = append(matching, ex)
			}
		}
		week.Exercises = matching
		filtered = append(filtered, week)
	}
	return filtered
}

type sessionsSource interface {
	List(ctx context.Context) []sessions.WorkoutSession
}

// Analyzer serves the history screen from the session log.
type Analyzer struct {
	sessions sessionsSource
}

func NewAnalyzer(sessionsService sessionsSource) *Analyzer {
	return &Analyzer{
		sessions: sessionsService,
	}
}

func (a *Analyzer) Weeks(ctx context.Context) []WeekBucket {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.history.weeks")
	defer span.End()

	weeks := Aggregate(a.sessions.List(ctx))
	span.SetAttributes(attribute.Int("weeks.count", len(weeks)))
	return weeks
}

func (a *Analyzer) WeeksForExercise(ctx context.Context, name string) []WeekBucket {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.history.weeksForExercise")
	defer span.End()
	span.SetAttributes(attribute.String("exercise.name", name))

	return FilterByExercise(Aggregate(a.sessions.List(ctx)), name)
}

// ExerciseNames returns the distinct exercise names ever logged, sorted,
// used to populate the history filter.
func (a *Analyzer) ExerciseNames(ctx context.Context) []string {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.history.exerciseNames")
	defer span.End()

	seen := make(map[string]bool)
	for _, week := range Aggregate(a.sessions.List(ctx)) {
		for _, ex := range week.Exercises {
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
