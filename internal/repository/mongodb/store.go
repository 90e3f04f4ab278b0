// Package mongodb implements the repository interfaces on MongoDB, the
// primary backend. Documents keep the camelCase field names and ObjectID
// keys the data has always had; ids cross the package boundary as 24-hex
// strings.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/repository"
)

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "workout-tracker"

var _ repository.Store = (*Store)(nil)

// Store hands out per-collection repositories over one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	users    *UserStore
	workouts *WorkoutStore
	metrics  *MetricsStore
	progress *ProgressStore
	variants *VariantStore
}

// Connect dials uri, verifies the connection and ensures indexes.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("ringlog"))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	s := New(client.Database(database))
	s.client = client
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle. The caller keeps ownership of the
// client unless the Store came from Connect.
func New(db *mongo.Database) *Store {
	return &Store{
		db:       db,
		users:    &UserStore{coll: db.Collection(repository.CollectionUsers)},
		workouts: &WorkoutStore{coll: db.Collection(repository.CollectionWorkouts)},
		metrics:  &MetricsStore{coll: db.Collection(repository.CollectionBodyMetrics)},
		progress: &ProgressStore{coll: db.Collection(repository.CollectionExerciseProgress)},
		variants: &VariantStore{coll: db.Collection(repository.CollectionUserVariants)},
	}
}

func (s *Store) Users() repository.UserRepository { return s.users }
func (s *Store) Workouts() repository.WorkoutRepository { return s.workouts }
func (s *Store) Metrics() repository.MetricsRepository { return s.metrics }
func (s *Store) ExerciseProgress() repository.ExerciseProgressRepository { return s.progress }
func (s *Store) Variants() repository.VariantRepository { return s.variants }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// Close disconnects the client if this Store opened it.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the queries rely on. Creating an index
// that already exists is a no-op on the server.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		repository.CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repository.CollectionWorkouts: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "session", Value: 1}, {Key: "date", Value: -1}}},
		},
		repository.CollectionBodyMetrics: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		},
		repository.CollectionExerciseProgress: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "exerciseName", Value: 1}}},
		},
		repository.CollectionUserVariants: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "exerciseName", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, models := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: creating indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// objectID parses a hex id. A malformed id cannot match any document, so it
// is reported as the resource being absent.
func objectID(id, resource string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.NotFound(resource)
	}
	return oid, nil
}

// newObjectID reuses a caller-supplied hex id or makes a new one.
func newObjectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NewObjectID(), nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.InvalidID("")
	}
	return oid, nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// now matches the millisecond precision BSON dates are stored with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func stamp(created, updated *time.Time) {
	if created.IsZero() {
		*created = now()
	}
	if updated.IsZero() {
		*updated = *created
	}
}
