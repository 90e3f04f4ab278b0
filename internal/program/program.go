// Package program holds the fixed training curriculum: three six-week
// phases, four sessions per phase, the exercise library and the weekly
// schedule. Everything here is static and identical for every user.
//
// Lookups never fail loudly. A missing phase, session or exercise is
// reported through the boolean result and the caller decides how to render
// the empty state.
package program

import "time"

// SessionType is one of the four fixed workout categories.
type SessionType string

const (
	Push1 SessionType = "Push 1"
	Pull1 SessionType = "Pull 1"
	Push2 SessionType = "Push 2"
	Pull2 SessionType = "Pull 2"

	// Rest is what the weekly schedule recommends on non-training days.
	Rest = "Rest"
)

// SessionTypes lists the sessions in their weekly order.
var SessionTypes = []SessionType{Push1, Pull1, Push2, Pull2}

// Valid reports whether s is one of the four session types.
func (s SessionType) Valid() bool {
	for _, st := range SessionTypes {
		if st == s {
			return true
		}
	}
	return false
}

const (
	PhaseCount    = 3
	WeeksPerPhase = 6
	DeloadWeek    = 6
	TotalWeeks    = PhaseCount * WeeksPerPhase
)

// IsDeloadWeek reports whether the given week of a phase is the deload week.
func IsDeloadWeek(week int) bool {
	return week == DeloadWeek
}

// Category groups exercises in the library.
type Category string

const (
	CategoryPush Category = "Push"
	CategoryPull Category = "Pull"
)

// Exercise is one lettered slot of a program session.
type Exercise struct {
	Letter         string `json:"letter"`
	Name           string `json:"name"`
	TargetSets     string `json:"targetSets"`
	TargetReps     string `json:"targetReps"`
	Tempo          string `json:"tempo"`
	Rest           string `json:"rest"`
	// RestSeconds is Rest parsed by ParseRestTime; filled in on every copy
	// handed out of this package.
	RestSeconds    int    `json:"restSeconds"`
	IsUnilateral   bool   `json:"isUnilateral,omitempty"`
	IsTimed        bool   `json:"isTimed,omitempty"`
	IsAccumulation bool   `json:"isAccumulation,omitempty"`
	IsDownSeries   bool   `json:"isDownSeries,omitempty"`
}

// MeasurementMode says which SetLog field carries the result of a set.
type MeasurementMode string

const (
	ModeReps       MeasurementMode = "reps"
	ModeUnilateral MeasurementMode = "unilateral"
	ModeTimed      MeasurementMode = "timed"
)

// Mode derives the measurement mode from the exercise flags. Timed wins
// over unilateral; no current exercise sets both.
func (e Exercise) Mode() MeasurementMode {
	switch {
	case e.IsTimed:
		return ModeTimed
	case e.IsUnilateral:
		return ModeUnilateral
	default:
		return ModeReps
	}
}

// Session is an ordered list of exercises for one session type.
type Session struct {
	Name      SessionType `json:"name"`
	Exercises []Exercise  `json:"exercises"`
}

// Phase is one six-week block of the program.
type Phase struct {
	Phase          int                     `json:"phase"`
	Name           string                  `json:"name"`
	Weeks          int                     `json:"weeks"`
	Sessions       map[SessionType]Session `json:"sessions"`
	DeloadSessions map[SessionType]Session `json:"deloadSessions"`
}

// ExerciseDefinition is a library entry, independent of any session.
type ExerciseDefinition struct {
	Name                string   `json:"name"`
	Category            Category `json:"category"`
	MuscleGroups        []string `json:"muscleGroups"`
	DefaultTempo        string   `json:"defaultTempo"`
	Cues                []string `json:"cues,omitempty"`
	ExampleProgressions []string `json:"exampleProgressions,omitempty"`
}

// WeeklySchedule maps days to the recommended session or Rest.
type WeeklySchedule struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

// Catalog is the full curriculum as served by GET /api/program.
type Catalog struct {
	Phases         []Phase              `json:"phases"`
	Exercises      []ExerciseDefinition `json:"exercises"`
	WeeklySchedule WeeklySchedule       `json:"weeklySchedule"`
}

// Full returns a copy of the complete catalog.
func Full() Catalog {
	phases := make([]Phase, 0, len(programPhases))
	for _, p := range programPhases {
		phases = append(phases, clonePhase(p))
	}
	defs := make([]ExerciseDefinition, len(exerciseDefinitions))
	copy(defs, exerciseDefinitions)
	return Catalog{
		Phases:         phases,
		Exercises:      defs,
		WeeklySchedule: weeklySchedule,
	}
}

// Phases returns every phase in order.
func Phases() []Phase {
	return Full().Phases
}

// PhaseByNumber looks up a phase by its number (1-3).
func PhaseByNumber(n int) (Phase, bool) {
	for _, p := range programPhases {
		if p.Phase == n {
			return clonePhase(p), true
		}
	}
	return Phase{}, false
}

// SessionFor returns the session of a phase, or its deload variant.
func SessionFor(phase int, session SessionType, deload bool) (Session, bool) {
	for _, p := range programPhases {
		if p.Phase != phase {
			continue
		}
		sessions := p.Sessions
		if deload {
			sessions = p.DeloadSessions
		}
		s, ok := sessions[session]
		if !ok {
			return Session{}, false
		}
		return cloneSession(s), true
	}
	return Session{}, false
}

// Definition finds a library entry by exact, case-sensitive name.
func Definition(name string) (ExerciseDefinition, bool) {
	for _, d := range exerciseDefinitions {
		if d.Name == name {
			return d, true
		}
	}
	return ExerciseDefinition{}, false
}

// ExerciseNames lists every library exercise name.
func ExerciseNames() []string {
	names := make([]string, 0, len(exerciseDefinitions))
	for _, d := range exerciseDefinitions {
		names = append(names, d.Name)
	}
	return names
}

// DefinitionsByCategory filters the library by category.
func DefinitionsByCategory(c Category) []ExerciseDefinition {
	var out []ExerciseDefinition
	for _, d := range exerciseDefinitions {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Schedule returns the weekly recommendation map.
func Schedule() WeeklySchedule {
	return weeklySchedule
}

// ScheduledSession returns the session recommended for a weekday, or Rest.
func ScheduledSession(day time.Weekday) string {
	switch day {
	case time.Monday:
		return weeklySchedule.Monday
	case time.Tuesday:
		return weeklySchedule.Tuesday
	case time.Wednesday:
		return weeklySchedule.Wednesday
	case time.Thursday:
		return weeklySchedule.Thursday
	case time.Friday:
		return weeklySchedule.Friday
	case time.Saturday:
		return weeklySchedule.Saturday
	default:
		return weeklySchedule.Sunday
	}
}

// Usage is one place an exercise appears in the program.
type Usage struct {
	Phase   int         `json:"phase"`
	Session SessionType `json:"session"`
	Letter  string      `json:"letter"`
}

// UsageOf lists the normal (non-deload) sessions that include the exercise.
func UsageOf(name string) []Usage {
	var out []Usage
	for _, p := range programPhases {
		for _, st := range SessionTypes {
			for _, e := range p.Sessions[st].Exercises {
				if e.Name == name {
					out = append(out, Usage{Phase: p.Phase, Session: st, Letter: e.Letter})
				}
			}
		}
	}
	return out
}

// ExerciseByName finds the first program slot with the given name, which
// carries the unilateral/timed flags the library entries lack.
func ExerciseByName(name string) (Exercise, bool) {
	for _, p := range programPhases {
		for _, st := range SessionTypes {
			for _, e := range p.Sessions[st].Exercises {
				if e.Name == name {
					return e, true
				}
			}
		}
	}
	return Exercise{}, false
}

// ModeOf returns the measurement mode for a logged exercise name.
// Names outside the program count as plain reps.
func ModeOf(name string) MeasurementMode {
	if e, ok := ExerciseByName(name); ok {
		return e.Mode()
	}
	return ModeReps
}

func cloneSession(s Session) Session {
	ex := make([]Exercise, len(s.Exercises))
	copy(ex, s.Exercises)
	for i := range ex {
		ex[i].RestSeconds = ParseRestTime(ex[i].Rest)
	}
	return Session{Name: s.Name, Exercises: ex}
}

func clonePhase(p Phase) Phase {
	out := p
	out.Sessions = make(map[SessionType]Session, len(p.Sessions))
	for k, v := range p.Sessions {
		out.Sessions[k] = cloneSession(v)
	}
	out.DeloadSessions = make(map[SessionType]Session, len(p.DeloadSessions))
	for k, v := range p.DeloadSessions {
		out.DeloadSessions[k] = cloneSession(v)
	}
	return out
}
