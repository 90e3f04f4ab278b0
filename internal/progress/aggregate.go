// Package progress derives read-only summaries from a window of fetched
// workouts. Nothing here touches storage: every value is recomputed from
// the slice it is given, so anything outside the window is not counted.
package progress

import (
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/sakif/ringlog/internal/dateutil"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
)

// RecentWeeks bounds the weekly grouping.
const RecentWeeks = 8

// Totals are the headline numbers of a window.
type Totals struct {
	Workouts      int `json:"workouts"`
	CompletedSets int `json:"completedSets"`
	TotalReps     int `json:"totalReps"`
	TotalDuration int `json:"totalDuration"` // minutes
}

// HistoryEntry is one workout's contribution to an exercise.
type HistoryEntry struct {
	Date    time.Time `json:"date"`
	Sets    int       `json:"sets"`
	Reps    int       `json:"reps"`
	Variant string    `json:"variant"`
}

// ExerciseStat aggregates one exercise across the window.
type ExerciseStat struct {
	Name          string         `json:"name"`
	TotalSets     int            `json:"totalSets"`
	TotalReps     int            `json:"totalReps"`
	AvgRepsPerSet float64        `json:"avgRepsPerSet"`
	LastVariant   string         `json:"lastVariant"`
	LastDate      time.Time      `json:"lastDate"`
	History       []HistoryEntry `json:"history"`
}

// WeekSummary groups the workouts of one Monday-based week.
type WeekSummary struct {
	WeekStart     string                `json:"weekStart"`
	Workouts      int                   `json:"workouts"`
	CompletedSets int                   `json:"completedSets"`
	TotalReps     int                   `json:"totalReps"`
	Sessions      []program.SessionType `json:"sessions"`
}

// ProgramProgress places a user within the 18 weeks.
type ProgramProgress struct {
	Phase          int  `json:"phase"`
	Week           int  `json:"week"`
	IsDeload       bool `json:"isDeload"`
	WeeksCompleted int  `json:"weeksCompleted"`
	TotalWeeks     int  `json:"totalWeeks"`
	Percent        int  `json:"percent"`
}

// Summary is the full progress view.
type Summary struct {
	Totals    Totals          `json:"totals"`
	Program   ProgramProgress `json:"program"`
	Weeks     []WeekSummary   `json:"weeks"`
	Exercises []ExerciseStat  `json:"exercises"`
}

// Summarize builds the progress view for a window of workouts. Week keys
// are computed in loc.
func Summarize(workouts []model.Workout, settings model.UserSettings, loc *time.Location) Summary {
	return Summary{
		Totals:    ComputeTotals(workouts),
		Program:   ProgramProgressOf(settings.CurrentPhase, settings.CurrentWeek),
		Weeks:     GroupByWeek(workouts, loc, RecentWeeks),
		Exercises: ExerciseStats(workouts),
	}
}

// ComputeTotals counts workouts, completed sets, reps and minutes.
func ComputeTotals(workouts []model.Workout) Totals {
	var t Totals
	for _, w := range workouts {
		t.Workouts++
		t.CompletedSets += w.CompletedSets()
		t.TotalReps += w.TotalReps()
		if w.Duration != nil {
			t.TotalDuration += *w.Duration
		}
	}
	return t
}

// ExerciseStats groups completed work by exercise name, busiest first.
func ExerciseStats(workouts []model.Workout) []ExerciseStat {
	byName := make(map[string]*ExerciseStat)
	for _, w := range chronological(workouts) {
		for _, e := range w.Exercises {
			done := e.CompletedSets()
			if len(done) == 0 {
				continue
			}
			reps := e.TotalReps()
			variant := e.Progression.Variant

			st, ok := byName[e.ExerciseName]
			if !ok {
				st = &ExerciseStat{Name: e.ExerciseName, LastVariant: model.DefaultVariant}
				byName[e.ExerciseName] = st
			}
			st.TotalSets += len(done)
			st.TotalReps += reps
			st.AvgRepsPerSet = round1(float64(st.TotalReps) / float64(st.TotalSets))
			if variant != "" {
				st.LastVariant = variant
			}
			st.LastDate = w.Date
			st.History = append(st.History, HistoryEntry{
				Date:    w.Date,
				Sets:    len(done),
				Reps:    reps,
				Variant: variantOr(variant, model.DefaultVariant),
			})
		}
	}

	out := make([]ExerciseStat, 0, len(byName))
	for _, st := range byName {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSets != out[j].TotalSets {
			return out[i].TotalSets > out[j].TotalSets
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// GroupByWeek buckets workouts by the Monday of their week and returns the
// most recent limit weeks, oldest first.
func GroupByWeek(workouts []model.Workout, loc *time.Location, limit int) []WeekSummary {
	if loc == nil {
		loc = time.UTC
	}
	byWeek := make(map[string]*WeekSummary)
	for _, w := range workouts {
		key := dateutil.WeekKey(w.Date.In(loc))
		ws, ok := byWeek[key]
		if !ok {
			ws = &WeekSummary{WeekStart: key}
			byWeek[key] = ws
		}
		ws.Workouts++
		ws.CompletedSets += w.CompletedSets()
		ws.TotalReps += w.TotalReps()
		if !slices.Contains(ws.Sessions, w.Session) {
			ws.Sessions = append(ws.Sessions, w.Session)
		}
	}

	out := make([]WeekSummary, 0, len(byWeek))
	for _, ws := range byWeek {
		out = append(out, *ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart < out[j].WeekStart })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// ProgramProgressOf converts a phase/week position into completed weeks.
func ProgramProgressOf(phase, week int) ProgramProgress {
	done := (phase-1)*program.WeeksPerPhase + week - 1
	done = max(0, min(done, program.TotalWeeks))
	return ProgramProgress{
		Phase:          phase,
		Week:           week,
		IsDeload:       program.IsDeloadWeek(week),
		WeeksCompleted: done,
		TotalWeeks:     program.TotalWeeks,
		Percent:        int(math.Round(float64(done) / float64(program.TotalWeeks) * 100)),
	}
}

// ExerciseDetail builds the history and records of one exercise. Workouts
// without a completed set of it are skipped.
func ExerciseDetail(workouts []model.Workout, name string) model.ExerciseProgress {
	detail := model.ExerciseProgress{ExerciseName: name, History: []model.ProgressPoint{}, UsedVariants: []string{}}

	var pb *model.PersonalBest
	for _, w := range chronological(workouts) {
		for _, e := range w.Exercises {
			if e.ExerciseName != name {
				continue
			}
			done := e.CompletedSets()
			if len(done) == 0 {
				continue
			}
			point := model.ProgressPoint{
				WorkoutID:     w.ID,
				Date:          w.Date,
				Phase:         w.Phase,
				Week:          w.Week,
				Variant:       variantOr(e.Progression.Variant, "Not specified"),
				RingHeight:    e.Progression.RingHeight,
				AddedWeight:   e.Progression.AddedWeight,
				TotalSets:     len(done),
				TotalReps:     e.TotalReps(),
				AvgRepsPerSet: round1(float64(e.TotalReps()) / float64(len(done))),
				BestSet:       e.BestSet(),
				LongestHold:   e.LongestHold(),
				Notes:         e.Notes,
			}
			detail.History = append(detail.History, point)
			if !slices.Contains(detail.UsedVariants, point.Variant) {
				detail.UsedVariants = append(detail.UsedVariants, point.Variant)
			}
			pb = updateBests(pb, point)
			if w.UpdatedAt.After(detail.UpdatedAt) {
				detail.UpdatedAt = w.UpdatedAt
			}
		}
	}
	detail.PersonalBest = pb
	detail.CurrentProgression = currentProgression(detail.History)
	return detail
}

func updateBests(pb *model.PersonalBest, p model.ProgressPoint) *model.PersonalBest {
	if pb == nil {
		pb = &model.PersonalBest{
			MaxReps:   model.Record{Value: p.BestSet, Date: p.Date},
			MaxVolume: model.Record{Value: p.TotalReps, Date: p.Date},
			MaxSets:   model.Record{Value: p.TotalSets, Date: p.Date},
		}
	} else {
		if p.BestSet > pb.MaxReps.Value {
			pb.MaxReps = model.Record{Value: p.BestSet, Date: p.Date}
		}
		if p.TotalReps > pb.MaxVolume.Value {
			pb.MaxVolume = model.Record{Value: p.TotalReps, Date: p.Date}
		}
		if p.TotalSets > pb.MaxSets.Value {
			pb.MaxSets = model.Record{Value: p.TotalSets, Date: p.Date}
		}
	}
	if p.LongestHold > 0 && (pb.LongestHold == nil || p.LongestHold > pb.LongestHold.Value) {
		pb.LongestHold = &model.Record{Value: p.LongestHold, Date: p.Date}
	}
	return pb
}

// currentProgression averages the workouts done with the latest variant.
func currentProgression(history []model.ProgressPoint) *model.CurrentProgression {
	if len(history) == 0 {
		return nil
	}
	last := history[len(history)-1]
	var sets, reps, n int
	for _, p := range history {
		if p.Variant != last.Variant {
			continue
		}
		n++
		sets += p.TotalSets
		reps += p.TotalReps
	}
	return &model.CurrentProgression{
		Variant:    last.Variant,
		RingHeight: last.RingHeight,
		LastUsed:   last.Date,
		AvgReps:    round1(float64(reps) / float64(sets)),
		AvgSets:    round1(float64(sets) / float64(n)),
	}
}

func chronological(workouts []model.Workout) []model.Workout {
	out := slices.Clone(workouts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func variantOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
