package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/metrics"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
)

func newTestWorkoutService(store *fakeStore) (*WorkoutService, *metrics.Manager) {
	m := metrics.NewTestManager()
	return NewWorkoutService(store, time.UTC, fixedClock, m, discardLogger()), m
}

func validInput() CreateInput {
	return CreateInput{
		Date:    fixedClock(),
		Phase:   1,
		Week:    2,
		Session: program.Pull1,
		Exercises: []model.ExerciseLog{
			{
				Letter:       "D1",
				ExerciseName: "Face Pull",
				Progression:  model.Progression{Variant: "Band"},
				Sets:         []model.SetLog{completedSet(1, 10), completedSet(2, 9), {SetNumber: 3, Reps: 8}},
			},
		},
	}
}

// =========================================================================
// CREATE
// =========================================================================

func TestWorkoutService_Create(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, m := newTestWorkoutService(store)

	w, err := svc.Create(ctx, uid, validInput())
	require.NoError(t, err)

	assert.True(t, model.IsValidID(w.ID))
	assert.Equal(t, uid, w.UserID)
	assert.Equal(t, 1, store.workouts.count(uid))

	uv, _ := store.variants.Get(ctx, uid, "Face Pull")
	require.Len(t, uv.Variants, 1)
	assert.Equal(t, "Band", uv.Variants[0].Name)
	assert.Equal(t, 1, uv.Variants[0].TimesUsed)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterWorkoutsLogged.WithLabelValues("Pull 1")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterSetsCompleted), "only completed sets")
}

func TestWorkoutService_Create_MissingFields(t *testing.T) {
	tests := map[string]func(*CreateInput){
		"date":    func(in *CreateInput) { in.Date = time.Time{} },
		"phase":   func(in *CreateInput) { in.Phase = 0 },
		"week":    func(in *CreateInput) { in.Week = 0 },
		"session": func(in *CreateInput) { in.Session = "  " },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore()
			uid := store.addUser("a@example.com")
			svc, _ := newTestWorkoutService(store)

			in := validInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), uid, in)
			require.ErrorIs(t, err, apperror.ErrValidation)
			assert.EqualError(t, err, "Missing required fields")
			assert.Zero(t, store.workouts.count(uid))
		})
	}
}

func TestWorkoutService_Create_NilExercisesStoredEmpty(t *testing.T) {
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, _ := newTestWorkoutService(store)

	in := validInput()
	in.Exercises = nil
	w, err := svc.Create(context.Background(), uid, in)
	require.NoError(t, err)
	assert.NotNil(t, w.Exercises)
	assert.Empty(t, w.Exercises)
}

func TestWorkoutService_Create_VariantFailureDoesNotFailSave(t *testing.T) {
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	store.variants.recordErr = errBoom
	svc, _ := newTestWorkoutService(store)

	_, err := svc.Create(context.Background(), uid, validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, store.workouts.count(uid))
}

// =========================================================================
// LIST / UPDATE / DELETE
// =========================================================================

func TestWorkoutService_List_Params(t *testing.T) {
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, _ := newTestWorkoutService(store)
	ctx := context.Background()

	_, err := svc.List(ctx, uid, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkoutLimit, store.workouts.lastList.Limit)
	assert.Nil(t, store.workouts.lastList.From)

	_, err = svc.List(ctx, uid, ListParams{Limit: 500, Phase: 2, Session: program.Push2})
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, store.workouts.lastList.Limit)
	assert.Equal(t, 2, store.workouts.lastList.Phase)
	assert.Equal(t, program.Push2, store.workouts.lastList.Session)

	_, err = svc.List(ctx, uid, ListParams{ThisWeek: true})
	require.NoError(t, err)
	f := store.workouts.lastList
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	// fixedClock is a Wednesday.
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, time.Monday, f.From.Weekday())
	assert.Equal(t, time.Sunday, f.To.Weekday())
}

func TestWorkoutService_List_ThisWeekFilters(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, _ := newTestWorkoutService(store)

	lastWeek := validInput()
	lastWeek.Date = fixedClock().AddDate(0, 0, -7)
	_, err := svc.Create(ctx, uid, lastWeek)
	require.NoError(t, err)
	_, err = svc.Create(ctx, uid, validInput())
	require.NoError(t, err)

	ws, err := svc.List(ctx, uid, ListParams{ThisWeek: true})
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, fixedClock(), ws[0].Date)
}

func TestWorkoutService_Update(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, _ := newTestWorkoutService(store)

	w, err := svc.Create(ctx, uid, validInput())
	require.NoError(t, err)

	exercises := []model.ExerciseLog{{
		ExerciseName: "Face Pull",
		Progression:  model.Progression{Variant: "Band"},
		Sets:         []model.SetLog{completedSet(1, 12)},
	}}
	notes := "felt strong"
	updated, err := svc.Update(ctx, uid, w.ID, model.WorkoutPatch{Exercises: &exercises, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "felt strong", updated.Notes)
	assert.Equal(t, program.Pull1, updated.Session, "session cannot change")

	uv, _ := store.variants.Get(ctx, uid, "Face Pull")
	require.Len(t, uv.Variants, 1)
	assert.Equal(t, 1, uv.Variants[0].TimesUsed, "re-saving a logged variant does not count again")
}

func TestWorkoutService_Update_VariantsCountOncePerWorkout(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, _ := newTestWorkoutService(store)

	w, err := svc.Create(ctx, uid, validInput())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		exercises := validInput().Exercises
		_, err := svc.Update(ctx, uid, w.ID, model.WorkoutPatch{Exercises: &exercises})
		require.NoError(t, err)
	}

	// Switching to a new variant mid-session counts the new one only.
	switched := validInput().Exercises
	switched[0].Progression.Variant = "Rings"
	_, err = svc.Update(ctx, uid, w.ID, model.WorkoutPatch{Exercises: &switched})
	require.NoError(t, err)
	_, err = svc.Update(ctx, uid, w.ID, model.WorkoutPatch{Exercises: &switched})
	require.NoError(t, err)

	uv, _ := store.variants.Get(ctx, uid, "Face Pull")
	counts := map[string]int{}
	for _, v := range uv.Variants {
		counts[v.Name] = v.TimesUsed
	}
	assert.Equal(t, map[string]int{"Band": 1, "Rings": 1}, counts)
}

func TestWorkoutService_Update_UnknownWorkoutRecordsNothing(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, _ := newTestWorkoutService(store)

	exercises := validInput().Exercises
	_, err := svc.Update(ctx, uid, "ffffffffffffffffffffffff", model.WorkoutPatch{Exercises: &exercises})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	uv, _ := store.variants.Get(ctx, uid, "Face Pull")
	assert.Empty(t, uv.Variants)
}

func TestNewVariants(t *testing.T) {
	log := func(name, variant string) model.ExerciseLog {
		return model.ExerciseLog{ExerciseName: name, Progression: model.Progression{Variant: variant}}
	}
	before := []model.ExerciseLog{log("Face Pull", "Band"), log("Ring Row", "")}
	after := []model.ExerciseLog{
		log("Face Pull", " Band "),
		log("Ring Row", "Feet elevated"),
		log("Ring Row", "Feet elevated"),
		log("", "Orphan"),
	}
	assert.Equal(t, []variantPair{{exercise: "Ring Row", variant: "Feet elevated"}}, newVariants(before, after))
	assert.Empty(t, newVariants(after, after))
}

func TestWorkoutService_OtherUsersWorkoutIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	owner := store.addUser("owner@example.com")
	intruder := store.addUser("intruder@example.com")
	svc, _ := newTestWorkoutService(store)

	w, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, intruder, w.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	notes := "mine now"
	_, err = svc.Update(ctx, intruder, w.ID, model.WorkoutPatch{Notes: &notes})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, intruder, w.ID), apperror.ErrNotFound)
	assert.Equal(t, 1, store.workouts.count(owner))

	require.NoError(t, svc.Delete(ctx, owner, w.ID))
	assert.Zero(t, store.workouts.count(owner))
}

// =========================================================================
// DRAFT
// =========================================================================

func TestWorkoutService_Draft_FromProgram(t *testing.T) {
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, _ := newTestWorkoutService(store)

	d, err := svc.Draft(context.Background(), uid, "push-1", false)
	require.NoError(t, err)

	assert.Equal(t, program.Push1, d.Session)
	assert.Equal(t, 1, d.Phase)
	assert.Equal(t, 1, d.Week)
	assert.False(t, d.IsDeload)
	require.Len(t, d.Exercises, 5)
	require.Len(t, d.Targets, 5)

	dip := d.Exercises[0]
	assert.Equal(t, "A1", dip.Letter)
	assert.Equal(t, "Ring Dip (Elbows in)", dip.ExerciseName)
	require.Len(t, dip.Sets, 3, `"3-4" starts with three sets`)
	for i, s := range dip.Sets {
		assert.Equal(t, i+1, s.SetNumber)
		assert.False(t, s.Completed)
		assert.Nil(t, s.RepsLeft)
	}

	archer := d.Exercises[1]
	require.NotEmpty(t, archer.Sets)
	assert.NotNil(t, archer.Sets[0].RepsLeft, "unilateral sets track both sides")
	assert.NotNil(t, archer.Sets[0].RepsRight)
	assert.Empty(t, archer.Progression.Variant)
}

func TestWorkoutService_Draft_DeloadAndUnknownSlug(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	_, err := store.users.UpdateSettings(ctx, uid, model.UserSettings{CurrentPhase: 1, CurrentWeek: 6, WeightUnit: model.UnitKg})
	require.NoError(t, err)
	svc, _ := newTestWorkoutService(store)

	d, err := svc.Draft(ctx, uid, "legs-day", false)
	require.NoError(t, err)
	assert.Equal(t, program.Push1, d.Session, "unknown slug falls back to Push 1")
	assert.True(t, d.IsDeload)
	assert.Len(t, d.Exercises[0].Sets, 1, `deload "1-2" gives one set`)
}

func TestWorkoutService_Draft_CopyPrevious(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, _ := newTestWorkoutService(store)

	rpe := 8.0
	older := validInput()
	older.Date = fixedClock().AddDate(0, 0, -14)
	older.Exercises[0].Progression.Variant = "Old band"
	_, err := svc.Create(ctx, uid, older)
	require.NoError(t, err)

	latest := validInput()
	latest.Date = fixedClock().AddDate(0, 0, -7)
	latest.Exercises[0].Sets = []model.SetLog{
		{SetNumber: 4, Reps: 10, Completed: true, RPE: &rpe},
		{SetNumber: 7, Reps: 9, Completed: true},
	}
	prev, err := svc.Create(ctx, uid, latest)
	require.NoError(t, err)

	d, err := svc.Draft(ctx, uid, "pull-1", true)
	require.NoError(t, err)
	assert.Equal(t, prev.ID, d.PreviousID)

	var face model.ExerciseLog
	for _, e := range d.Exercises {
		if e.ExerciseName == "Face Pull" {
			face = e
		}
	}
	assert.Equal(t, "Band", face.Progression.Variant)
	require.Len(t, face.Sets, 2)
	assert.Equal(t, 1, face.Sets[0].SetNumber, "renumbered")
	assert.Equal(t, 2, face.Sets[1].SetNumber)
	assert.Equal(t, 10, face.Sets[0].Reps)
	assert.False(t, face.Sets[0].Completed)
	require.NotNil(t, face.Sets[0].RPE)
	assert.InDelta(t, 8.0, *face.Sets[0].RPE, 0.001)

	// The copy must not alias the stored workout.
	*face.Sets[0].RPE = 1
	stored, _ := store.workouts.GetByID(ctx, uid, prev.ID)
	assert.InDelta(t, 8.0, *stored.Exercises[0].Sets[0].RPE, 0.001)

	// Exercises without history keep their empty sets.
	assert.Equal(t, "Chinup (Regular/Tuck L/L-Sit)", d.Exercises[0].ExerciseName)
	assert.Len(t, d.Exercises[0].Sets, 3)
}

func TestWorkoutService_Draft_CopyPreviousWithoutHistory(t *testing.T) {
	store := newFakeStore()
	uid := store.addUser("a@example.com")
	svc, _ := newTestWorkoutService(store)

	d, err := svc.Draft(context.Background(), uid, "pull-2", true)
	require.NoError(t, err)
	assert.Empty(t, d.PreviousID)
	assert.Equal(t, program.Pull2, d.Session)
}
