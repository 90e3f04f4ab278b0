package progress

import (
	"fmt"
	"slices"
	"time"

	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
)

// CompletionType says what finishing the current week completes.
type CompletionType string

const (
	CompletionWeek    CompletionType = "week"
	CompletionPhase   CompletionType = "phase"
	CompletionProgram CompletionType = "program"
)

// Option is one settings change offered when a week is complete.
type Option struct {
	Label string `json:"label"`
	Phase int    `json:"phase"`
	Week  int    `json:"week"`
}

// Proposal is the advancement offer for a phase/week position.
type Proposal struct {
	Type    CompletionType `json:"type"`
	Options []Option       `json:"options"`
}

// CompletedSessions returns the distinct session names in workouts, in
// first-seen order.
func CompletedSessions(workouts []model.Workout) []program.SessionType {
	var out []program.SessionType
	for _, w := range workouts {
		if !slices.Contains(out, w.Session) {
			out = append(out, w.Session)
		}
	}
	return out
}

// WeekComplete reports whether every session type has been done.
func WeekComplete(completed []program.SessionType) bool {
	for _, st := range program.SessionTypes {
		if !slices.Contains(completed, st) {
			return false
		}
	}
	return true
}

// Advancement proposes where to go after finishing phase/week.
//
//	weeks 1-5          → next week of the same phase
//	week 6, phase 1-2  → next phase, or repeat the current one
//	week 6, phase 3    → restart the program
func Advancement(phase, week int) Proposal {
	switch {
	case phase >= program.PhaseCount && program.IsDeloadWeek(week):
		return Proposal{
			Type:    CompletionProgram,
			Options: []Option{{Label: "Start over from Phase 1", Phase: 1, Week: 1}},
		}
	case program.IsDeloadWeek(week):
		next := phase + 1
		return Proposal{
			Type: CompletionPhase,
			Options: []Option{
				{Label: phaseLabel("Start", next), Phase: next, Week: 1},
				{Label: fmt.Sprintf("Repeat Phase %d", phase), Phase: phase, Week: 1},
			},
		}
	default:
		return Proposal{
			Type:    CompletionWeek,
			Options: []Option{{Label: fmt.Sprintf("Move to Week %d", week+1), Phase: phase, Week: week + 1}},
		}
	}
}

func phaseLabel(verb string, n int) string {
	if p, ok := program.PhaseByNumber(n); ok {
		return fmt.Sprintf("%s Phase %d: %s", verb, n, p.Name)
	}
	return fmt.Sprintf("%s Phase %d", verb, n)
}

// WeekStatus is the dashboard view of the current week.
type WeekStatus struct {
	Phase             int                   `json:"phase"`
	Week              int                   `json:"week"`
	IsDeload          bool                  `json:"isDeload"`
	WeekStart         time.Time             `json:"weekStart"`
	WeekEnd           time.Time             `json:"weekEnd"`
	CompletedSessions []program.SessionType `json:"completedSessions"`
	RemainingSessions []program.SessionType `json:"remainingSessions"`
	TodaySession      string                `json:"todaySession"`
	Complete          bool                  `json:"complete"`
	Proposal          *Proposal             `json:"proposal,omitempty"`
}

// BuildWeekStatus combines this week's workouts with the user's position.
// start and end bound the week; now picks today's scheduled session.
func BuildWeekStatus(workouts []model.Workout, settings model.UserSettings, start, end, now time.Time) WeekStatus {
	completed := CompletedSessions(workouts)
	remaining := make([]program.SessionType, 0, len(program.SessionTypes))
	for _, st := range program.SessionTypes {
		if !slices.Contains(completed, st) {
			remaining = append(remaining, st)
		}
	}
	if completed == nil {
		completed = []program.SessionType{}
	}

	ws := WeekStatus{
		Phase:             settings.CurrentPhase,
		Week:              settings.CurrentWeek,
		IsDeload:          program.IsDeloadWeek(settings.CurrentWeek),
		WeekStart:         start,
		WeekEnd:           end,
		CompletedSessions: completed,
		RemainingSessions: remaining,
		TodaySession:      program.ScheduledSession(now.Weekday()),
		Complete:          WeekComplete(completed),
	}
	if ws.Complete {
		p := Advancement(settings.CurrentPhase, settings.CurrentWeek)
		ws.Proposal = &p
	}
	return ws
}
