package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/dateutil"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
	"github.com/sakif/ringlog/internal/progress"
	"github.com/sakif/ringlog/internal/repository"
)

// ProgressService serves the read-only progress views. Every view is
// computed from a freshly fetched window of workouts.
type ProgressService struct {
	store repository.Store
	loc   *time.Location
	now   Clock
}

func NewProgressService(store repository.Store, loc *time.Location, now Clock) *ProgressService {
	return &ProgressService{store: store, loc: orUTC(loc), now: orSystemClock(now)}
}

// Summary aggregates the latest limit workouts (default 50, at most 100).
func (s *ProgressService) Summary(ctx context.Context, userID string, limit int) (*progress.Summary, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ws, err := s.store.Workouts().List(ctx, userID, repository.WorkoutFilter{Limit: clampLimit(limit, DefaultProgressLimit)})
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}
	sum := progress.Summarize(ws, user.Settings, s.loc)
	return &sum, nil
}

// WeekStatus reports which sessions are done this week and, once all four
// are, what the user can advance to.
func (s *ProgressService) WeekStatus(ctx context.Context, userID string) (*progress.WeekStatus, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	start, end := dateutil.StartOfWeek(now), dateutil.EndOfWeek(now)

	ws, err := s.store.Workouts().List(ctx, userID, repository.WorkoutFilter{From: &start, To: &end})
	if err != nil {
		return nil, fmt.Errorf("loading this week's workouts: %w", err)
	}
	st := progress.BuildWeekStatus(ws, user.Settings, start, end, now)
	return &st, nil
}

// ExerciseView is the detail page of one library exercise.
type ExerciseView struct {
	Definition program.ExerciseDefinition `json:"definition"`
	Progress   model.ExerciseProgress     `json:"progress"`
	Usage      []program.Usage            `json:"usage"`
}

// ExerciseDetail resolves slug against the exercise library and builds the
// user's full history for it. Slugs are matched by slugifying library
// names, never by reversing the slug.
func (s *ProgressService) ExerciseDetail(ctx context.Context, userID, slug string) (*ExerciseView, error) {
	def, ok := program.DefinitionBySlug(slug)
	if !ok {
		return nil, apperror.NotFound("exercise")
	}
	ws, err := s.store.Workouts().List(ctx, userID, repository.WorkoutFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}

	usage := program.UsageOf(def.Name)
	if usage == nil {
		usage = []program.Usage{}
	}
	return &ExerciseView{
		Definition: def,
		Progress:   progress.ExerciseDetail(ws, def.Name),
		Usage:      usage,
	}, nil
}

// VariantSuggestions pairs the user's own variants with the library's
// example progressions.
type VariantSuggestions struct {
	ExerciseName string               `json:"exerciseName"`
	Variants     []model.VariantUsage `json:"variants"`
	Examples     []string             `json:"examples"`
}

// Variants lists what the user has logged for the exercise, most used
// first. Exercise names that are not in the library still get the user's
// history, just no examples.
func (s *ProgressService) Variants(ctx context.Context, userID, slug string) (*VariantSuggestions, error) {
	name := program.Unslugify(slug)
	examples := []string{}
	if def, ok := program.DefinitionBySlug(slug); ok {
		name = def.Name
		examples = append(examples, def.ExampleProgressions...)
	}

	uv, err := s.store.Variants().Get(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("loading variants: %w", err)
	}
	return &VariantSuggestions{ExerciseName: name, Variants: uv.Variants, Examples: examples}, nil
}
