package plan

import (
	"errors"
	"sync"

	"github.com/fitflow/fitflow/internal/units"

	log "github.com/sirupsen/logrus"
)

var (
	ErrAlreadyEditing = errors.New("a day plan is already being edited")
	ErrNotEditing     = errors.New("no day plan is being edited")
)

// Editor manages the isolated working copy of one day plan during an
// editing session. The buffer is a deep copy of the store's day plan:
// nothing the editor does is observable in the store until Commit, and
// Discard leaves the store untouched.
//
// Only one editing session may be open at a time. That mirrors the
// reference client, which renders a single day in edit mode; it is a
// policy choice, not a structural requirement.
type Editor struct {
	store *Store

	mu     sync.Mutex
	day    string // empty when idle
	buffer DayPlan
	// indexes of buffer exercises whose weight was changed during this
	// session; resolved to names at commit time, so propagation always
	// uses the post-rename name
	weightTouched map[int]bool
}

func NewEditor(store *Store) *Editor {
	return &Editor{store: store}
}

// StartEdit opens an editing session for the given day and returns a
// snapshot of the fresh buffer.
func (e *Editor) StartEdit(day string) (DayPlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.day != "" {
		return DayPlan{}, ErrAlreadyEditing
	}

	dp, err := e.store.GetDay(day)
	if err != nil {
		return DayPlan{}, err
	}

	e.day = day
	e.buffer = dp
	e.weightTouched = make(map[int]bool)
	log.Tracef("plan editor: session opened for %s", day)
	return dp.Clone(), nil
}

// EditingDay returns the day of the open session, if any.
func (e *Editor) EditingDay() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.day, e.day != ""
}

// Buffer returns a snapshot of the open buffer for rendering.
func (e *Editor) Buffer() (DayPlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return DayPlan{}, ErrNotEditing
	}
	return e.buffer.Clone(), nil
}

func (e *Editor) SetTitle(title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return ErrNotEditing
	}
	e.buffer.Title = title
	return nil
}

func (e *Editor) SetRestDay(isRestDay bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return ErrNotEditing
	}
	e.buffer.IsRestDay = isRestDay
	return nil
}

// AddExercise appends the default new exercise entry to the buffer.
func (e *Editor) AddExercise() (PlanExercise, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return PlanExercise{}, ErrNotEditing
	}
	ex := NewDefaultExercise()
	e.buffer.Exercises = append(e.buffer.Exercises, ex)
	return ex, nil
}

// SetName renames a buffer exercise and re-derives its muscle group,
// overwriting any manual override.
func (e *Editor) SetName(index int, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return ErrNotEditing
	}
	if index < 0 || index >= len(e.buffer.Exercises) {
		return ErrExerciseIndexOutOfRange
	}
	e.buffer.Exercises[index].Name = name
	e.buffer.Exercises[index].MuscleGroup = GetMuscleGroup(name)
	return nil
}

// SetMuscleGroup manually overrides the derived muscle group. The
// override holds until the next name change.
func (e *Editor) SetMuscleGroup(index int, mg MuscleGroup) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return ErrNotEditing
	}
	if index < 0 || index >= len(e.buffer.Exercises) {
		return ErrExerciseIndexOutOfRange
	}
	e.buffer.Exercises[index].MuscleGroup = mg
	return nil
}

func (e *Editor) SetSets(index, sets int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return ErrNotEditing
	}
	if index < 0 || index >= len(e.buffer.Exercises) {
		return ErrExerciseIndexOutOfRange
	}
	e.buffer.Exercises[index].Sets = max(0, sets)
	return nil
}

func (e *Editor) SetReps(index, reps int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return ErrNotEditing
	}
	if index < 0 || index >= len(e.buffer.Exercises) {
		return ErrExerciseIndexOutOfRange
	}
	e.buffer.Exercises[index].Reps = max(0, reps)
	return nil
}

// SetWeight converts the display-unit value to canonical kg, clamps it
// to >= 0 and stores it in the buffer. The change is marked for
// cross-day propagation at commit time.
func (e *Editor) SetWeight(index int, value float64, unit units.Unit) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return ErrNotEditing
	}
	if index < 0 || index >= len(e.buffer.Exercises) {
		return ErrExerciseIndexOutOfRange
	}

	kg := units.ToKg(value, unit)
	if kg < 0 {
		kg = 0
	}
	e.buffer.Exercises[index].Weight = kg
	e.weightTouched[index] = true
	return nil
}

// Commit replaces the store's day plan with the buffer contents in one
// atomic operation, then propagates any weight changed during this
// session to same-named exercises on other days. Returns the number of
// entries rewritten by propagation.
func (e *Editor) Commit() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return 0, ErrNotEditing
	}

	if err := e.store.ReplaceDay(e.day, e.buffer); err != nil {
		return 0, err
	}

	synced := 0
	for index := range e.weightTouched {
		if index >= len(e.buffer.Exercises) {
			// exercise was removed from the buffer after its weight edit
			continue
		}
		ex := e.buffer.Exercises[index]
		synced += e.store.PropagateWeight(ex.Name, ex.Weight)
	}

	log.Debugf("plan editor: committed %s (%d exercises, %d weight syncs)",
		e.day, len(e.buffer.Exercises), synced)

	e.reset()
	return synced, nil
}

// Discard closes the session without touching the store.
func (e *Editor) Discard() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.day == "" {
		return ErrNotEditing
	}
	log.Tracef("plan editor: session for %s discarded", e.day)
	e.reset()
	return nil
}

func (e *Editor) reset() {
	e.day = ""
	e.buffer = DayPlan{}
	e.weightTouched = nil
}
