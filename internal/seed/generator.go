// Package seed generates plausible training history for a user so the
// progress views have something to show during development.
//
// Generated documents carry IsSeed, so they can be removed again without
// touching anything the user logged by hand.
package seed

import (
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/sakif/ringlog/internal/dateutil"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
)

// Accepted history lengths, in weeks.
const (
	MinWeeks     = 1
	MaxWeeks     = program.TotalWeeks
	DefaultWeeks = program.WeeksPerPhase

	DefaultStartWeight = 70.0
	fallbackVariant    = "Standard"
)

// sessionDays places the four sessions on Mon/Wed/Fri/Sat, as days after
// the week's Monday.
var sessionDays = []struct {
	offset  int
	session program.SessionType
}{
	{0, program.Push1},
	{2, program.Pull1},
	{4, program.Push2},
	{5, program.Pull2},
}

// weighInDays are Monday and Friday.
var weighInDays = []int{0, 4}

// defaultVariants is the progression logged for each exercise.
var defaultVariants = map[string]string{
	"Ring Dip (Elbows in)":             "Full ROM",
	"Ring Dip (Bulgarian)":             "Full ROM",
	"Archer Pushup (Alternating)":      "Full",
	"Archer Pushup (Same Side)":        "Full ROM",
	"Chest Fly":                        "Low rings",
	"Tricep Dip":                       "Legs straight",
	"Tricep Extension":                 "Low rings",
	"Shoulder Pushup (Feet on floor)":  "Pike",
	"Shoulder Pushup (Feet elevated)":  "Low elevation",
	"Shoulder Pushup (Feet Elevated)":  "Low elevation",
	"Bulgarian Pushup":                 "Medium rings",
	"Shoulder Shrug (Back to wall)":    "Full shrug",
	"Shoulder Tap (Chest to wall)":     "Quick taps",
	"Waist Tap (Chest to wall)":        "Quick taps",
	"Diamond Pushup (Feet Elevated)":   "Low elevation",
	"Handstand Pushup (Chest to wall)": "Partial ROM",
	"Chinup (Regular/Tuck L/L-Sit)":    "Regular",
	"Wide Pullup (Tuck L)":             "Tuck L",
	"Wide Pullup (L-Sit)":              "Tuck L",
	"Mantle Chinup":                    "Full",
	"Archer Chinup (Alternating)":      "Full ROM",
	"Archer Chinup (Same side)":        "Partial",
	"Bodyweight Row (Two arms)":        "Low rings",
	"Archer Bodyweight Row":            "Low rings",
	"Single Arm Row":                   "Low rings",
	"L-Row":                            "Tuck",
	"Pelican Curl":                     "Partial ROM",
	"Pelican Curl Negative":            "6s negative",
	"Face Pull":                        "Light angle",
	"Rear Delt Fly":                    "Low rings",
	"Ring Rollout":                     "Knees",
	"Bodyweight Bicep Curl":            "Low rings",
	"Two Arm Hang":                     "Active hang",
	"One Arm Hang":                     "Assisted",
}

// VariantFor returns the progression the generator logs for an exercise.
func VariantFor(exercise string) string {
	if v, ok := defaultVariants[exercise]; ok {
		return v
	}
	return fallbackVariant
}

// Generator produces seed documents from a gofakeit source. The same seed
// gives the same history.
type Generator struct {
	fake *gofakeit.Faker
}

// NewGenerator creates a generator. A zero seed picks a random one.
func NewGenerator(seed int64) *Generator {
	return &Generator{fake: gofakeit.New(seed)}
}

// StartDate is Monday 08:00 of the week that lies weeks weeks before now,
// in now's location.
func StartDate(now time.Time, weeks int) time.Time {
	return dateutil.StartOfWeek(now.AddDate(0, 0, -7*weeks)).Add(8 * time.Hour)
}

// Position maps a 0-based absolute week onto phase and week of the program.
//
//	0 → (1, 1), 5 → (1, 6), 6 → (2, 1), 17 → (3, 6)
func Position(absWeek int) (phase, week int) {
	absWeek = max(0, min(absWeek, program.TotalWeeks-1))
	return absWeek/program.WeeksPerPhase + 1, absWeek%program.WeeksPerPhase + 1
}

// Workouts generates four sessions per week for weeks weeks from start.
func (g *Generator) Workouts(userID string, weeks int, start time.Time) []model.Workout {
	out := make([]model.Workout, 0, weeks*len(sessionDays))
	for w := range weeks {
		phase, week := Position(w)
		deload := program.IsDeloadWeek(week)
		// 0..1 through the five training weeks
		progress := float64(week-1) / float64(program.WeeksPerPhase-1)

		for _, sd := range sessionDays {
			date := start.AddDate(0, 0, 7*w+sd.offset)
			duration := 35 + g.fake.IntRange(0, 19)
			out = append(out, model.Workout{
				UserID:    userID,
				Date:      date.UTC(),
				Phase:     phase,
				Week:      week,
				Session:   sd.session,
				IsDeload:  deload,
				Exercises: g.exerciseLogs(phase, sd.session, deload, progress),
				Duration:  &duration,
				IsSeed:    true,
				CreatedAt: date.UTC(),
				UpdatedAt: date.UTC(),
			})
		}
	}
	return out
}

func (g *Generator) exerciseLogs(phase int, session program.SessionType, deload bool, progress float64) []model.ExerciseLog {
	ps, ok := program.SessionFor(phase, session, deload)
	if !ok {
		return []model.ExerciseLog{}
	}

	logs := make([]model.ExerciseLog, 0, len(ps.Exercises))
	for _, ex := range ps.Exercises {
		setRange := program.ParseSetRange(ex.TargetSets)
		repRange := program.ParseRepRange(ex.TargetReps)

		n := setRange.Min
		if !deload {
			n = min(setRange.Max, setRange.Min+int(progress*float64(setRange.Max-setRange.Min+1)))
		}

		sets := make([]model.SetLog, 0, n)
		for i := range n {
			set := model.SetLog{SetNumber: i + 1, Completed: true}
			switch ex.Mode() {
			case program.ModeTimed:
				secs := repRange.Min
				if repRange.Max > repRange.Min {
					secs += g.fake.IntRange(0, repRange.Max-repRange.Min-1)
				}
				set.Time = model.IntPtr(secs)
			case program.ModeUnilateral:
				base := g.reps(repRange, progress, i)
				right := base
				if g.fake.Float64Range(0, 1) > 0.7 {
					right++
				}
				set.RepsLeft, set.RepsRight = model.IntPtr(base), model.IntPtr(right)
			default:
				set.Reps = g.reps(repRange, progress, i)
			}
			if g.fake.Float64Range(0, 1) > 0.7 {
				rpe := float64(g.fake.IntRange(7, 9))
				set.RPE = &rpe
			}
			sets = append(sets, set)
		}

		logs = append(logs, model.ExerciseLog{
			Letter:       ex.Letter,
			ExerciseName: ex.Name,
			Progression:  model.Progression{Variant: VariantFor(ex.Name)},
			Sets:         sets,
		})
	}
	return logs
}

// reps climbs through the rep range as the phase progresses, drops by one
// every second set for fatigue and wobbles by up to one rep. The result
// stays within the range.
func (g *Generator) reps(r program.Range, progress float64, setIndex int) int {
	base := r.Min + int(float64(r.Max-r.Min)*progress)
	fatigue := setIndex / 2
	variation := g.fake.IntRange(-1, 0)
	return max(r.Min, min(r.Max, base-fatigue+variation))
}

// BodyMetrics generates Monday and Friday weigh-ins trending down by 50 g
// per week with ±0.3 kg of noise, rounded to one decimal.
func (g *Generator) BodyMetrics(userID string, weeks int, start time.Time, startWeight float64) []model.BodyMetrics {
	out := make([]model.BodyMetrics, 0, weeks*len(weighInDays))
	for w := range weeks {
		for _, offset := range weighInDays {
			date := start.AddDate(0, 0, 7*w+offset).UTC()
			weight := startWeight - 0.05*float64(w) + g.fake.Float64Range(-0.3, 0.3)
			weight = math.Round(weight*10) / 10
			out = append(out, model.BodyMetrics{
				UserID:    userID,
				Date:      date,
				Weight:    &weight,
				IsSeed:    true,
				CreatedAt: date,
			})
		}
	}
	return out
}
