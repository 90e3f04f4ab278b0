package seed

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/ringlog/internal/program"
)

var testStart = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) // a Monday

func TestPosition(t *testing.T) {
	tests := []struct {
		abs, phase, week int
	}{
		{0, 1, 1},
		{5, 1, 6},
		{6, 2, 1},
		{11, 2, 6},
		{12, 3, 1},
		{17, 3, 6},
		{40, 3, 6},
	}
	for _, tt := range tests {
		phase, week := Position(tt.abs)
		assert.Equal(t, tt.phase, phase, "abs week %d", tt.abs)
		assert.Equal(t, tt.week, week, "abs week %d", tt.abs)
	}
}

func TestStartDate(t *testing.T) {
	now := time.Date(2024, 3, 6, 15, 30, 0, 0, time.UTC) // Wednesday
	got := StartDate(now, 2)
	assert.Equal(t, time.Date(2024, 2, 19, 8, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.Monday, got.Weekday())

	sunday := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 26, 8, 0, 0, 0, time.UTC), StartDate(sunday, 1))
}

func TestWorkouts_Shape(t *testing.T) {
	ws := NewGenerator(42).Workouts("u1", 7, testStart)
	require.Len(t, ws, 28)

	days := []time.Weekday{time.Monday, time.Wednesday, time.Friday, time.Saturday}
	for i, w := range ws {
		assert.Equal(t, "u1", w.UserID)
		assert.True(t, w.IsSeed)
		assert.Equal(t, program.SessionTypes[i%4], w.Session)
		assert.Equal(t, days[i%4], w.Date.Weekday())
		require.NotNil(t, w.Duration)
		assert.GreaterOrEqual(t, *w.Duration, 35)
		assert.LessOrEqual(t, *w.Duration, 54)
		assert.NotEmpty(t, w.Exercises)
	}

	assert.Equal(t, 1, ws[0].Phase)
	assert.True(t, ws[20].IsDeload, "week 6 is a deload")
	assert.Equal(t, 2, ws[24].Phase)
	assert.Equal(t, 1, ws[24].Week)
	assert.False(t, ws[24].IsDeload)
}

func TestWorkouts_SetsFollowMeasurementMode(t *testing.T) {
	ws := NewGenerator(7).Workouts("u1", 6, testStart)

	for _, w := range ws {
		session, ok := program.SessionFor(w.Phase, w.Session, w.IsDeload)
		require.True(t, ok)
		require.Len(t, w.Exercises, len(session.Exercises))

		for i, e := range w.Exercises {
			ex := session.Exercises[i]
			assert.Equal(t, ex.Name, e.ExerciseName)
			assert.Equal(t, ex.Letter, e.Letter)
			assert.Equal(t, VariantFor(ex.Name), e.Progression.Variant)
			repRange := program.ParseRepRange(ex.TargetReps)

			for _, s := range e.Sets {
				assert.True(t, s.Completed)
				if s.RPE != nil {
					assert.GreaterOrEqual(t, *s.RPE, 7.0)
					assert.LessOrEqual(t, *s.RPE, 9.0)
				}
				switch ex.Mode() {
				case program.ModeTimed:
					require.NotNil(t, s.Time, ex.Name)
					assert.Zero(t, s.Reps)
				case program.ModeUnilateral:
					require.NotNil(t, s.RepsLeft, ex.Name)
					require.NotNil(t, s.RepsRight, ex.Name)
					assert.GreaterOrEqual(t, *s.RepsRight, *s.RepsLeft)
					assert.Zero(t, s.Reps)
				default:
					assert.GreaterOrEqual(t, s.Reps, repRange.Min, ex.Name)
					assert.LessOrEqual(t, s.Reps, repRange.Max, ex.Name)
				}
			}
		}
	}
}

func TestWorkouts_DeloadUsesMinimumSets(t *testing.T) {
	ws := NewGenerator(1).Workouts("u1", 6, testStart)
	deloadPush1 := ws[20]
	require.Equal(t, program.Push1, deloadPush1.Session)

	// Phase 1 deload turns "3-4" into "1-2".
	assert.Len(t, deloadPush1.Exercises[0].Sets, 1)
}

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(99).Workouts("u1", 3, testStart)
	b := NewGenerator(99).Workouts("u1", 3, testStart)
	assert.Equal(t, a, b)
}

func TestBodyMetrics(t *testing.T) {
	ms := NewGenerator(3).BodyMetrics("u1", 10, testStart, 80)
	require.Len(t, ms, 20)

	for i, m := range ms {
		assert.True(t, m.IsSeed)
		require.NotNil(t, m.Weight)
		week := i / 2
		want := 80 - 0.05*float64(week)
		assert.InDelta(t, want, *m.Weight, 0.35)
		assert.Equal(t, *m.Weight, math.Round(*m.Weight*10)/10, "one decimal")
		if i%2 == 0 {
			assert.Equal(t, time.Monday, m.Date.Weekday())
		} else {
			assert.Equal(t, time.Friday, m.Date.Weekday())
		}
	}
}

func TestVariantFor(t *testing.T) {
	assert.Equal(t, "Light angle", VariantFor("Face Pull"))
	assert.Equal(t, "Standard", VariantFor("Muscle Up"))
}
