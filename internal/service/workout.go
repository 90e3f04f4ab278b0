package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/dateutil"
	"github.com/sakif/ringlog/internal/metrics"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
	"github.com/sakif/ringlog/internal/repository"
)

type WorkoutService struct {
	store   repository.Store
	loc     *time.Location
	now     Clock
	metrics *metrics.Manager
	logger  *slog.Logger
}

// NewWorkoutService wires the service. loc decides where weeks start for
// the "this week" filter; a nil clock means time.Now.
func NewWorkoutService(store repository.Store, loc *time.Location, now Clock, m *metrics.Manager, logger *slog.Logger) *WorkoutService {
	return &WorkoutService{
		store:   store,
		loc:     orUTC(loc),
		now:     orSystemClock(now),
		metrics: m,
		logger:  logger,
	}
}

// ListParams are the query options of GET /api/workouts.
type ListParams struct {
	Limit    int
	ThisWeek bool
	Phase    int
	Week     int
	Session  program.SessionType
}

// List returns the user's workouts newest first.
func (s *WorkoutService) List(ctx context.Context, userID string, p ListParams) ([]model.Workout, error) {
	f := repository.WorkoutFilter{
		Limit:   clampLimit(p.Limit, DefaultWorkoutLimit),
		Phase:   p.Phase,
		Week:    p.Week,
		Session: p.Session,
	}
	if p.ThisWeek {
		now := s.now().In(s.loc)
		from, to := dateutil.StartOfWeek(now), dateutil.EndOfWeek(now)
		f.From, f.To = &from, &to
	}
	return s.store.Workouts().List(ctx, userID, f)
}

// CreateInput is a new workout as submitted by the client.
type CreateInput struct {
	Date      time.Time
	Phase     int
	Week      int
	Session   program.SessionType
	IsDeload  bool
	Exercises []model.ExerciseLog
	Notes     string
	Duration  *int
}

// Create saves a workout. Sets with completed=false are accepted: a saved
// workout is not necessarily finished.
func (s *WorkoutService) Create(ctx context.Context, userID string, in CreateInput) (*model.Workout, error) {
	if in.Date.IsZero() || in.Phase == 0 || in.Week == 0 || strings.TrimSpace(string(in.Session)) == "" {
		return nil, apperror.ValidationFailed("", "Missing required fields")
	}
	exercises := in.Exercises
	if exercises == nil {
		exercises = []model.ExerciseLog{}
	}

	w := &model.Workout{
		UserID:    userID,
		Date:      in.Date.UTC(),
		Phase:     in.Phase,
		Week:      in.Week,
		Session:   in.Session,
		IsDeload:  in.IsDeload,
		Exercises: exercises,
		Notes:     in.Notes,
		Duration:  in.Duration,
	}
	if err := s.store.Workouts().Create(ctx, w); err != nil {
		return nil, fmt.Errorf("creating workout: %w", err)
	}

	s.recordVariants(ctx, userID, variantsOf(w.Exercises), w.Date)
	s.metrics.CounterWorkoutsLogged.WithLabelValues(string(w.Session)).Inc()
	s.metrics.CounterSetsCompleted.Add(float64(w.CompletedSets()))
	s.logger.Info("workout created",
		slog.String("userID", userID),
		slog.String("workoutID", w.ID),
		slog.String("session", string(w.Session)),
		slog.Int("completedSets", w.CompletedSets()),
	)
	return w, nil
}

func (s *WorkoutService) Get(ctx context.Context, userID, id string) (*model.Workout, error) {
	return s.store.Workouts().GetByID(ctx, userID, id)
}

// Update changes exercises, notes and duration when present and bumps
// updatedAt. Other fields cannot be changed after creation. The client
// sends the full exercise list on every autosave, so variant usage is only
// recorded for (exercise, variant) pairs the stored workout did not have.
func (s *WorkoutService) Update(ctx context.Context, userID, id string, patch model.WorkoutPatch) (*model.Workout, error) {
	var before []model.ExerciseLog
	if patch.Exercises != nil {
		prev, err := s.store.Workouts().GetByID(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		before = prev.Exercises
	}

	w, err := s.store.Workouts().Update(ctx, userID, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.Exercises != nil {
		s.recordVariants(ctx, userID, newVariants(before, *patch.Exercises), w.UpdatedAt)
	}
	return w, nil
}

func (s *WorkoutService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.Workouts().Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("workout deleted", slog.String("userID", userID), slog.String("workoutID", id))
	return nil
}

type variantPair struct {
	exercise string
	variant  string
}

func variantsOf(exercises []model.ExerciseLog) []variantPair {
	var keys []variantPair
	seen := make(map[variantPair]bool, len(exercises))
	for _, e := range exercises {
		k := variantPair{exercise: e.ExerciseName, variant: strings.TrimSpace(e.Progression.Variant)}
		if k.exercise == "" || k.variant == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// newVariants returns the pairs in after that are absent from before.
func newVariants(before, after []model.ExerciseLog) []variantPair {
	had := make(map[variantPair]bool)
	for _, k := range variantsOf(before) {
		had[k] = true
	}
	var added []variantPair
	for _, k := range variantsOf(after) {
		if !had[k] {
			added = append(added, k)
		}
	}
	return added
}

// recordVariants bumps the usage counter of each pair once. A failure here
// does not fail the save; the workout itself is already stored.
func (s *WorkoutService) recordVariants(ctx context.Context, userID string, keys []variantPair, at time.Time) {
	for _, k := range keys {
		if err := s.store.Variants().RecordUsage(ctx, userID, k.exercise, k.variant, at); err != nil {
			s.logger.Warn("recording variant usage",
				slog.String("userID", userID),
				slog.String("exercise", k.exercise),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Draft is an unsaved workout prefilled from the program for the user's
// current position.
type Draft struct {
	Date      time.Time           `json:"date"`
	Phase     int                 `json:"phase"`
	Week      int                 `json:"week"`
	Session   program.SessionType `json:"session"`
	IsDeload  bool                `json:"isDeload"`
	Exercises []model.ExerciseLog `json:"exercises"`
	// Targets are the program slots the exercises were built from, in order.
	Targets []program.Exercise `json:"targets"`
	// PreviousID is set when values were copied from an earlier workout.
	PreviousID string `json:"previousId,omitempty"`
}

// Draft starts the logging flow for the session named by slug ("push-1").
// Each program exercise gets ParseTargetSets(targetSets) empty sets shaped
// by its measurement mode. With copyPrevious, progression and sets of the
// latest workout of the same session are carried over with completed
// reset.
func (s *WorkoutService) Draft(ctx context.Context, userID, slug string, copyPrevious bool) (*Draft, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	session := program.SessionFromSlug(slug)
	phase, week := user.Settings.CurrentPhase, user.Settings.CurrentWeek
	deload := program.IsDeloadWeek(week)

	ps, ok := program.SessionFor(phase, session, deload)
	if !ok {
		return nil, apperror.NotFound("session")
	}

	d := &Draft{
		Date:      s.now().UTC(),
		Phase:     phase,
		Week:      week,
		Session:   session,
		IsDeload:  deload,
		Exercises: make([]model.ExerciseLog, 0, len(ps.Exercises)),
		Targets:   ps.Exercises,
	}
	for _, pe := range ps.Exercises {
		d.Exercises = append(d.Exercises, model.ExerciseLog{
			Letter:       pe.Letter,
			ExerciseName: pe.Name,
			Sets:         emptySets(pe.Mode(), program.ParseTargetSets(pe.TargetSets)),
		})
	}

	if !copyPrevious {
		return d, nil
	}
	prev, err := s.store.Workouts().List(ctx, userID, repository.WorkoutFilter{Session: session, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("loading previous %s: %w", session, err)
	}
	if len(prev) == 0 {
		return d, nil
	}
	d.PreviousID = prev[0].ID
	copyFrom(d.Exercises, prev[0].Exercises)
	return d, nil
}

func emptySets(mode program.MeasurementMode, n int) []model.SetLog {
	sets := make([]model.SetLog, n)
	for i := range sets {
		sets[i].SetNumber = i + 1
		switch mode {
		case program.ModeUnilateral:
			sets[i].RepsLeft, sets[i].RepsRight = model.IntPtr(0), model.IntPtr(0)
		case program.ModeTimed:
			sets[i].Time = model.IntPtr(0)
		}
	}
	return sets
}

// copyFrom fills draft exercises from a previous workout, matching by
// exercise name.
func copyFrom(draft, previous []model.ExerciseLog) {
	byName := make(map[string]model.ExerciseLog, len(previous))
	for _, e := range previous {
		byName[e.ExerciseName] = e
	}
	for i := range draft {
		prev, ok := byName[draft[i].ExerciseName]
		if !ok {
			continue
		}
		draft[i].Progression = prev.Progression
		if len(prev.Sets) == 0 {
			continue
		}
		sets := make([]model.SetLog, len(prev.Sets))
		for j, set := range prev.Sets {
			set.Completed = false
			set.SetNumber = j + 1
			set.RepsLeft = clonePtr(set.RepsLeft)
			set.RepsRight = clonePtr(set.RepsRight)
			set.Time = clonePtr(set.Time)
			set.RPE = clonePtr(set.RPE)
			sets[j] = set
		}
		draft[i].Sets = sets
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
