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
	"github.com/sakif/ringlog/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Image     string             `bson:"image,omitempty"`
	GoogleID  string             `bson:"googleId,omitempty"`
	GitHubID  int64              `bson:"githubId,omitempty"`
	Settings  model.UserSettings `bson:"settings"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDoc) toModel() *model.User {
	return &model.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Name:      d.Name,
		Image:     d.Image,
		GoogleID:  d.GoogleID,
		GitHubID:  d.GitHubID,
		Settings:  d.Settings,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// UserStore is the users collection.
type UserStore struct {
	coll *mongo.Collection
}

// UpsertByEmail runs a single upsert: profile fields are always refreshed,
// settings and createdAt are only written when the document is inserted.
func (s *UserStore) UpsertByEmail(ctx context.Context, identity model.Identity) (*model.User, error) {
	ts := now()
	set := bson.M{
		"name":      identity.Name,
		"image":     identity.Image,
		"updatedAt": ts,
	}
	if identity.GoogleID != "" {
		set["googleId"] = identity.GoogleID
	}
	if identity.GitHubID != 0 {
		set["githubId"] = identity.GitHubID
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"settings":  model.DefaultSettings(),
			"createdAt": ts,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc userDoc
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"email": identity.Email}, update, opts).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Conflict("user")
		}
		return nil, fmt.Errorf("mongo: upserting user %s: %w", identity.Email, err)
	}
	return doc.toModel(), nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := objectID(id, "user")
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("mongo: finding user: %w", err)
	}
	return doc.toModel(), nil
}

func (s *UserStore) UpdateSettings(ctx context.Context, id string, settings model.UserSettings) (*model.User, error) {
	oid, err := objectID(id, "user")
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{"settings": settings, "updatedAt": now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("mongo: updating settings of %s: %w", id, err)
	}
	return doc.toModel(), nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, "user")
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo: deleting user %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("user")
	}
	return nil
}
