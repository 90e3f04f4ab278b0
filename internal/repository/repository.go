// Package repository declares the storage contracts the services depend on.
//
// Every method that touches user-owned data takes the owner's id and scopes
// the query with it. A document that exists but belongs to someone else is
// reported as apperror.ErrNotFound, exactly like a missing one.
package repository

import (
	"context"
	"time"

	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
)

// Collection names, shared by both backends.
const (
	CollectionUsers            = "users"
	CollectionWorkouts         = "workouts"
	CollectionBodyMetrics      = "bodyMetrics"
	CollectionExerciseProgress = "exerciseProgress"
	CollectionUserVariants     = "userVariants"
)

// WorkoutFilter narrows a workout listing. Zero values mean "no filter";
// Limit <= 0 means no limit.
type WorkoutFilter struct {
	Limit   int
	From    *time.Time // inclusive
	To      *time.Time // inclusive
	Phase   int
	Week    int
	Session program.SessionType
}

type UserRepository interface {
	// UpsertByEmail creates the user on first sign-in with default settings,
	// or refreshes name, image and provider ids on later sign-ins.
	UpsertByEmail(ctx context.Context, identity model.Identity) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateSettings(ctx context.Context, id string, settings model.UserSettings) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type WorkoutRepository interface {
	Create(ctx context.Context, w *model.Workout) error
	CreateMany(ctx context.Context, ws []model.Workout) error
	GetByID(ctx context.Context, userID, id string) (*model.Workout, error)
	// List returns the user's workouts newest first.
	List(ctx context.Context, userID string, filter WorkoutFilter) ([]model.Workout, error)
	Update(ctx context.Context, userID, id string, patch model.WorkoutPatch) (*model.Workout, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) (int64, error)
	DeleteSeeded(ctx context.Context, userID string) (int64, error)
}

type MetricsRepository interface {
	Create(ctx context.Context, m *model.BodyMetrics) error
	CreateMany(ctx context.Context, ms []model.BodyMetrics) error
	// List returns the user's entries newest first.
	List(ctx context.Context, userID string, limit int) ([]model.BodyMetrics, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) (int64, error)
	DeleteSeeded(ctx context.Context, userID string) (int64, error)
}

// ExerciseProgressRepository only takes part in account deletion.
type ExerciseProgressRepository interface {
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

type VariantRepository interface {
	// RecordUsage bumps timesUsed and lastUsed for the variant, adding it
	// when new.
	RecordUsage(ctx context.Context, userID, exercise, variant string, at time.Time) error
	// Get returns the recorded variants, most used first. A user with no
	// record gets an empty list, not an error.
	Get(ctx context.Context, userID, exercise string) (*model.UserVariants, error)
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

// Store groups the repositories of one backend.
type Store interface {
	Users() UserRepository
	Workouts() WorkoutRepository
	Metrics() MetricsRepository
	ExerciseProgress() ExerciseProgressRepository
	Variants() VariantRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
