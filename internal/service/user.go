package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/metrics"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
	"github.com/sakif/ringlog/internal/repository"
)

type UserService struct {
	store   repository.Store
	metrics *metrics.Manager
	logger  *slog.Logger
}

func NewUserService(store repository.Store, m *metrics.Manager, logger *slog.Logger) *UserService {
	return &UserService{store: store, metrics: m, logger: logger}
}

func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}

// UpdateSettings merges patch over the stored settings. Advancing to the
// next week or phase is an ordinary settings update; only the ranges are
// checked, not whether the move is earned.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, patch model.SettingsPatch) (*model.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := patch.Apply(user.Settings)
	if err := validateSettings(merged); err != nil {
		return nil, err
	}

	updated, err := s.store.Users().UpdateSettings(ctx, userID, merged)
	if err != nil {
		return nil, fmt.Errorf("updating settings: %w", err)
	}

	if merged.CurrentPhase != user.Settings.CurrentPhase || merged.CurrentWeek != user.Settings.CurrentWeek {
		s.logger.Info("program position changed",
			slog.String("userID", userID),
			slog.Int("phase", merged.CurrentPhase),
			slog.Int("week", merged.CurrentWeek),
		)
	}
	return updated, nil
}

func validateSettings(st model.UserSettings) error {
	switch {
	case st.CurrentPhase < 1 || st.CurrentPhase > program.PhaseCount:
		return apperror.ValidationFailed("currentPhase", fmt.Sprintf("currentPhase must be between 1 and %d", program.PhaseCount))
	case st.CurrentWeek < 1 || st.CurrentWeek > program.WeeksPerPhase:
		return apperror.ValidationFailed("currentWeek", fmt.Sprintf("currentWeek must be between 1 and %d", program.WeeksPerPhase))
	case st.WeightUnit != model.UnitKg && st.WeightUnit != model.UnitLbs:
		return apperror.ValidationFailed("weightUnit", `weightUnit must be "kg" or "lbs"`)
	case st.DefaultRestTime < 0:
		return apperror.ValidationFailed("defaultRestTime", "defaultRestTime must not be negative")
	case st.BodyWeight != nil && *st.BodyWeight <= 0:
		return apperror.ValidationFailed("bodyWeight", "bodyWeight must be positive")
	}
	return nil
}

// ResetProgram puts the user back at phase 1, week 1.
func (s *UserService) ResetProgram(ctx context.Context, userID string) (*model.User, error) {
	one := 1
	return s.UpdateSettings(ctx, userID, model.SettingsPatch{CurrentPhase: &one, CurrentWeek: &one})
}

// Delete removes the user's workouts, body metrics, exercise progress and
// variants, then the user. The steps run in sequence without a
// transaction; a failure part way leaves the remaining data in place and
// the request can simply be repeated.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func(context.Context, string) (int64, error)
	}{
		{repository.CollectionWorkouts, s.store.Workouts().DeleteAll},
		{repository.CollectionBodyMetrics, s.store.Metrics().DeleteAll},
		{repository.CollectionExerciseProgress, s.store.ExerciseProgress().DeleteAll},
		{repository.CollectionUserVariants, s.store.Variants().DeleteAll},
	}
	attrs := []any{slog.String("userID", userID)}
	for _, step := range steps {
		n, err := step.run(ctx, userID)
		if err != nil {
			return fmt.Errorf("deleting %s of user %s: %w", step.name, userID, err)
		}
		attrs = append(attrs, slog.Int64(step.name, n))
	}

	if err := s.store.Users().Delete(ctx, userID); err != nil {
		return fmt.Errorf("deleting user %s: %w", userID, err)
	}

	s.metrics.CounterAccountsDeleted.Inc()
	s.logger.Info("account deleted", attrs...)
	return nil
}
