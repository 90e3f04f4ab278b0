package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
	"github.com/sakif/ringlog/internal/repository"
)

var _ repository.WorkoutRepository = (*WorkoutStore)(nil)

type workoutDoc struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `bson:"userId"`
	Date      time.Time           `bson:"date"`
	Phase     int                 `bson:"phase"`
	Week      int                 `bson:"week"`
	Session   string              `bson:"session"`
	IsDeload  bool                `bson:"isDeload"`
	Exercises []model.ExerciseLog `bson:"exercises"`
	Notes     string              `bson:"notes,omitempty"`
	Duration  *int                `bson:"duration,omitempty"`
	IsSeed    bool                `bson:"isSeed,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

func workoutToDoc(w *model.Workout) (workoutDoc, error) {
	oid, err := newObjectID(w.ID)
	if err != nil {
		return workoutDoc{}, err
	}
	uid, err := primitive.ObjectIDFromHex(w.UserID)
	if err != nil {
		return workoutDoc{}, fmt.Errorf("mongo: workout owner %q: %w", w.UserID, err)
	}
	if w.Exercises == nil {
		w.Exercises = []model.ExerciseLog{}
	}
	stamp(&w.CreatedAt, &w.UpdatedAt)
	w.ID = oid.Hex()

	return workoutDoc{
		ID:        oid,
		UserID:    uid,
		Date:      w.Date,
		Phase:     w.Phase,
		Week:      w.Week,
		Session:   string(w.Session),
		IsDeload:  w.IsDeload,
		Exercises: w.Exercises,
		Notes:     w.Notes,
		Duration:  w.Duration,
		IsSeed:    w.IsSeed,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}, nil
}

func (d workoutDoc) toModel() model.Workout {
	exercises := d.Exercises
	if exercises == nil {
		exercises = []model.ExerciseLog{}
	}
	return model.Workout{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Date:      d.Date.UTC(),
		Phase:     d.Phase,
		Week:      d.Week,
		Session:   program.SessionType(d.Session),
		IsDeload:  d.IsDeload,
		Exercises: exercises,
		Notes:     d.Notes,
		Duration:  d.Duration,
		IsSeed:    d.IsSeed,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// WorkoutStore is the workouts collection. Every query carries userId.
type WorkoutStore struct {
	coll *mongo.Collection
}

func (s *WorkoutStore) Create(ctx context.Context, w *model.Workout) error {
	doc, err := workoutToDoc(w)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: inserting workout: %w", err)
	}
	return nil
}

func (s *WorkoutStore) CreateMany(ctx context.Context, ws []model.Workout) error {
	if len(ws) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(ws))
	for i := range ws {
		doc, err := workoutToDoc(&ws[i])
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongo: inserting %d workouts: %w", len(docs), err)
	}
	return nil
}

// scope builds the owner-scoped filter for one workout.
func scope(userID, id, resource string) (bson.M, error) {
	oid, err := objectID(id, resource)
	if err != nil {
		return nil, err
	}
	uid, err := objectID(userID, resource)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "userId": uid}, nil
}

func (s *WorkoutStore) GetByID(ctx context.Context, userID, id string) (*model.Workout, error) {
	filter, err := scope(userID, id, "workout")
	if err != nil {
		return nil, err
	}
	var doc workoutDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, apperror.NotFound("workout")
		}
		return nil, fmt.Errorf("mongo: finding workout %s: %w", id, err)
	}
	w := doc.toModel()
	return &w, nil
}

func (s *WorkoutStore) List(ctx context.Context, userID string, f repository.WorkoutFilter) ([]model.Workout, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []model.Workout{}, nil
	}
	filter := bson.M{"userId": uid}
	if f.From != nil || f.To != nil {
		date := bson.M{}
		if f.From != nil {
			date["$gte"] = *f.From
		}
		if f.To != nil {
			date["$lte"] = *f.To
		}
		filter["date"] = date
	}
	if f.Phase != 0 {
		filter["phase"] = f.Phase
	}
	if f.Week != 0 {
		filter["week"] = f.Week
	}
	if f.Session != "" {
		filter["session"] = string(f.Session)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing workouts: %w", err)
	}
	var docs []workoutDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding workouts: %w", err)
	}

	out := make([]model.Workout, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

// Update sets only the patched fields plus updatedAt and returns the
// document as stored afterwards.
func (s *WorkoutStore) Update(ctx context.Context, userID, id string, patch model.WorkoutPatch) (*model.Workout, error) {
	filter, err := scope(userID, id, "workout")
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": now()}
	if patch.Exercises != nil {
		exercises := *patch.Exercises
		if exercises == nil {
			exercises = []model.ExerciseLog{}
		}
		set["exercises"] = exercises
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.Duration != nil {
		set["duration"] = *patch.Duration
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc workoutDoc
	if err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, apperror.NotFound("workout")
		}
		return nil, fmt.Errorf("mongo: updating workout %s: %w", id, err)
	}
	w := doc.toModel()
	return &w, nil
}

func (s *WorkoutStore) Delete(ctx context.Context, userID, id string) error {
	filter, err := scope(userID, id, "workout")
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo: deleting workout %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("workout")
	}
	return nil
}

func (s *WorkoutStore) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return deleteOwned(ctx, s.coll, userID, nil)
}

func (s *WorkoutStore) DeleteSeeded(ctx context.Context, userID string) (int64, error) {
	return deleteOwned(ctx, s.coll, userID, bson.M{"isSeed": true})
}

// deleteOwned removes the user's documents matching extra.
func deleteOwned(ctx context.Context, coll *mongo.Collection, userID string, extra bson.M) (int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}
	filter := bson.M{"userId": uid}
	for k, v := range extra {
		filter[k] = v
	}
	res, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("mongo: deleting from %s: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}
