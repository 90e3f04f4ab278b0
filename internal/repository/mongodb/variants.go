package mongodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/repository"
)

var (
	_ repository.ExerciseProgressRepository = (*ProgressStore)(nil)
	_ repository.VariantRepository          = (*VariantStore)(nil)
)

// ProgressStore is the exerciseProgress collection.
type ProgressStore struct {
	coll *mongo.Collection
}

func (s *ProgressStore) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return deleteOwned(ctx, s.coll, userID, nil)
}

type variantsDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	UserID       primitive.ObjectID   `bson:"userId"`
	ExerciseName string               `bson:"exerciseName"`
	Variants     []model.VariantUsage `bson:"variants"`
}

// VariantStore is the userVariants collection: one document per user and
// exercise holding an array of variant counters.
type VariantStore struct {
	coll *mongo.Collection
}

// RecordUsage increments an existing counter in place; when the variant is
// not in the array yet it is pushed, creating the document if needed.
func (s *VariantStore) RecordUsage(ctx context.Context, userID, exercise, variant string, at time.Time) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("mongo: variant owner %q: %w", userID, err)
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"userId": uid, "exerciseName": exercise, "variants.name": variant},
		bson.M{
			"$inc": bson.M{"variants.$.timesUsed": 1},
			"$set": bson.M{"variants.$.lastUsed": at},
		},
	)
	if err != nil {
		return fmt.Errorf("mongo: bumping variant %q of %q: %w", variant, exercise, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"userId": uid, "exerciseName": exercise},
		bson.M{"$push": bson.M{"variants": model.VariantUsage{Name: variant, TimesUsed: 1, LastUsed: at}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo: adding variant %q of %q: %w", variant, exercise, err)
	}
	return nil
}

// Get returns the user's variants for exercise, most used first.
func (s *VariantStore) Get(ctx context.Context, userID, exercise string) (*model.UserVariants, error) {
	uv := &model.UserVariants{UserID: userID, ExerciseName: exercise, Variants: []model.VariantUsage{}}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return uv, nil
	}

	var doc variantsDoc
	err = s.coll.FindOne(ctx, bson.M{"userId": uid, "exerciseName": exercise}).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return uv, nil
		}
		return nil, fmt.Errorf("mongo: finding variants of %q: %w", exercise, err)
	}

	for _, v := range doc.Variants {
		v.LastUsed = v.LastUsed.UTC()
		uv.Variants = append(uv.Variants, v)
	}
	sort.SliceStable(uv.Variants, func(i, j int) bool {
		a, b := uv.Variants[i], uv.Variants[j]
		if a.TimesUsed != b.TimesUsed {
			return a.TimesUsed > b.TimesUsed
		}
		return a.LastUsed.After(b.LastUsed)
	})
	return uv, nil
}

func (s *VariantStore) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return deleteOwned(ctx, s.coll, userID, nil)
}
