package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sakif/ringlog/internal/metrics"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/repository"
	"github.com/sakif/ringlog/internal/service"
)

// Runner writes and removes seed data through a Store.
type Runner struct {
	store  repository.Store
	users  *service.UserService
	gen    *Generator
	now    func() time.Time
	logger *slog.Logger
}

func NewRunner(store repository.Store, gen *Generator, now func() time.Time, logger *slog.Logger) *Runner {
	if now == nil {
		now = time.Now
	}
	// The CLI exposes no /metrics; its counters go to a private registry.
	m := metrics.NewManager(metrics.Namespace, "seed", prometheus.NewRegistry())
	return &Runner{
		store:  store,
		users:  service.NewUserService(store, m, logger),
		gen:    gen,
		now:    now,
		logger: logger,
	}
}

// Result reports what a seed or delete run did.
type Result struct {
	User             *model.User
	Weeks            int
	Start            time.Time
	WorkoutsDeleted  int64
	MetricsDeleted   int64
	WorkoutsInserted int
	MetricsInserted  int
}

// Phases is the number of program phases the seeded weeks touch.
func (r Result) Phases() int {
	return (r.Weeks + DefaultWeeks - 1) / DefaultWeeks
}

func (r *Runner) lookup(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("seed: a user email is required")
	}
	u, err := r.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("seed: user %q (sign in once to create it): %w", email, err)
	}
	return u, nil
}

// Seed replaces the user's previous seed data with weeks of fresh history
// ending this week. The user's own workouts are left alone.
func (r *Runner) Seed(ctx context.Context, email string, weeks int) (*Result, error) {
	if weeks < MinWeeks || weeks > MaxWeeks {
		return nil, fmt.Errorf("seed: weeks must be between %d and %d, got %d", MinWeeks, MaxWeeks, weeks)
	}
	user, err := r.lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	res := &Result{User: user, Weeks: weeks, Start: StartDate(r.now(), weeks)}
	if res.WorkoutsDeleted, err = r.store.Workouts().DeleteSeeded(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("seed: deleting old workouts: %w", err)
	}
	if res.MetricsDeleted, err = r.store.Metrics().DeleteSeeded(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("seed: deleting old metrics: %w", err)
	}

	startWeight := DefaultStartWeight
	if user.Settings.BodyWeight != nil {
		startWeight = *user.Settings.BodyWeight
	}
	workouts := r.gen.Workouts(user.ID, weeks, res.Start)
	metrics := r.gen.BodyMetrics(user.ID, weeks, res.Start, startWeight)

	if err := r.store.Workouts().CreateMany(ctx, workouts); err != nil {
		return nil, fmt.Errorf("seed: inserting workouts: %w", err)
	}
	if err := r.store.Metrics().CreateMany(ctx, metrics); err != nil {
		return nil, fmt.Errorf("seed: inserting metrics: %w", err)
	}
	res.WorkoutsInserted, res.MetricsInserted = len(workouts), len(metrics)

	r.logger.Info("seed data written",
		slog.String("userID", user.ID),
		slog.Int("weeks", weeks),
		slog.Int("workouts", res.WorkoutsInserted),
		slog.Int("metrics", res.MetricsInserted),
	)
	return res, nil
}

// Delete removes the user's seed data and puts them back at phase 1,
// week 1.
func (r *Runner) Delete(ctx context.Context, email string) (*Result, error) {
	user, err := r.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	res := &Result{User: user}
	if res.WorkoutsDeleted, err = r.store.Workouts().DeleteSeeded(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("seed: deleting workouts: %w", err)
	}
	if res.MetricsDeleted, err = r.store.Metrics().DeleteSeeded(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("seed: deleting metrics: %w", err)
	}

	if res.User, err = r.users.ResetProgram(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("seed: resetting program position: %w", err)
	}

	r.logger.Info("seed data deleted",
		slog.String("userID", user.ID),
		slog.Int64("workouts", res.WorkoutsDeleted),
		slog.Int64("metrics", res.MetricsDeleted),
	)
	return res, nil
}
