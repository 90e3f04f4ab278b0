package model

import (
	"time"

	"github.com/sakif/ringlog/internal/program"
)

// Workout is one logged session. UserID and IsSeed stay server-side.
type Workout struct {
	ID        string              `json:"id"`
	UserID    string              `json:"-"`
	Date      time.Time           `json:"date"`
	Phase     int                 `json:"phase"`
	Week      int                 `json:"week"`
	Session   program.SessionType `json:"session"`
	IsDeload  bool                `json:"isDeload"`
	Exercises []ExerciseLog       `json:"exercises"`
	Notes     string              `json:"notes,omitempty"`
	Duration  *int                `json:"duration,omitempty"` // minutes
	IsSeed    bool                `json:"-"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// ExerciseLog records one exercise of a workout. ExerciseName is free text
// matched against the catalog by exact name.
type ExerciseLog struct {
	Letter       string      `json:"letter"       bson:"letter"`
	ExerciseName string      `json:"exerciseName" bson:"exerciseName"`
	Progression  Progression `json:"progression"  bson:"progression"`
	Sets         []SetLog    `json:"sets"         bson:"sets"`
	Notes        string      `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Progression describes how hard the exercise was made, e.g. "Band assisted".
type Progression struct {
	Variant     string   `json:"variant"               bson:"variant"`
	RingHeight  string   `json:"ringHeight,omitempty"  bson:"ringHeight,omitempty"`
	AddedWeight *float64 `json:"addedWeight,omitempty" bson:"addedWeight,omitempty"`
	Notes       string   `json:"notes,omitempty"       bson:"notes,omitempty"`
}

// SetLog is one set. Which measurement is meaningful depends on the
// exercise: Reps for plain sets, RepsLeft/RepsRight for unilateral sets,
// Time (seconds) for holds. The struct accepts any combination.
type SetLog struct {
	SetNumber int      `json:"setNumber"           bson:"setNumber"`
	Reps      int      `json:"reps"                bson:"reps"`
	RepsLeft  *int     `json:"repsLeft,omitempty"  bson:"repsLeft,omitempty"`
	RepsRight *int     `json:"repsRight,omitempty" bson:"repsRight,omitempty"`
	Time      *int     `json:"time,omitempty"      bson:"time,omitempty"`
	Completed bool     `json:"completed"           bson:"completed"`
	RPE       *float64 `json:"rpe,omitempty"       bson:"rpe,omitempty"`
	Notes     string   `json:"notes,omitempty"     bson:"notes,omitempty"`
}

// IsUnilateral reports whether either side was recorded.
func (s SetLog) IsUnilateral() bool {
	return s.RepsLeft != nil || s.RepsRight != nil
}

// TotalReps counts both sides for unilateral sets, Reps otherwise.
// Completion is not considered here.
func (s SetLog) TotalReps() int {
	if s.IsUnilateral() {
		return deref(s.RepsLeft) + deref(s.RepsRight)
	}
	return s.Reps
}

// PeakReps is Reps, or the larger side of a unilateral set.
func (s SetLog) PeakReps() int {
	if s.IsUnilateral() {
		return max(deref(s.RepsLeft), deref(s.RepsRight))
	}
	return s.Reps
}

// Seconds returns the hold time, or zero.
func (s SetLog) Seconds() int {
	return deref(s.Time)
}

// CompletedSets returns the sets marked completed.
func (e ExerciseLog) CompletedSets() []SetLog {
	out := make([]SetLog, 0, len(e.Sets))
	for _, s := range e.Sets {
		if s.Completed {
			out = append(out, s)
		}
	}
	return out
}

// TotalReps sums TotalReps over completed sets.
func (e ExerciseLog) TotalReps() int {
	total := 0
	for _, s := range e.CompletedSets() {
		total += s.TotalReps()
	}
	return total
}

// BestSet is the highest single-set rep count among completed sets. A
// unilateral set counts its stronger side.
func (e ExerciseLog) BestSet() int {
	best := 0
	for _, s := range e.CompletedSets() {
		best = max(best, s.PeakReps())
	}
	return best
}

// LongestHold is the longest completed hold in seconds.
func (e ExerciseLog) LongestHold() int {
	longest := 0
	for _, s := range e.CompletedSets() {
		longest = max(longest, s.Seconds())
	}
	return longest
}

// CompletedSets counts completed sets across all exercises.
func (w Workout) CompletedSets() int {
	n := 0
	for _, e := range w.Exercises {
		n += len(e.CompletedSets())
	}
	return n
}

// TotalReps sums completed reps across all exercises.
func (w Workout) TotalReps() int {
	n := 0
	for _, e := range w.Exercises {
		n += e.TotalReps()
	}
	return n
}

// WorkoutPatch is the mutable part of a workout. Nil fields are left alone.
type WorkoutPatch struct {
	Exercises *[]ExerciseLog `json:"exercises,omitempty"`
	Notes     *string        `json:"notes,omitempty"`
	Duration  *int           `json:"duration,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p WorkoutPatch) IsEmpty() bool {
	return p.Exercises == nil && p.Notes == nil && p.Duration == nil
}

// Apply merges the patch into w. UpdatedAt is left to the caller.
func (p WorkoutPatch) Apply(w *Workout) {
	if p.Exercises != nil {
		w.Exercises = *p.Exercises
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
	if p.Duration != nil {
		d := *p.Duration
		w.Duration = &d
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// IntPtr is a small helper for building optional set fields.
func IntPtr(v int) *int { return &v }
