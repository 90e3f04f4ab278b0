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

var _ repository.MetricsRepository = (*MetricsStore)(nil)

type metricsDoc struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	UserID       primitive.ObjectID  `bson:"userId"`
	Date         time.Time           `bson:"date"`
	Weight       *float64            `bson:"weight,omitempty"`
	Measurements *model.Measurements `bson:"measurements,omitempty"`
	Notes        string              `bson:"notes,omitempty"`
	IsSeed       bool                `bson:"isSeed,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt"`
}

func metricsToDoc(m *model.BodyMetrics) (metricsDoc, error) {
	oid, err := newObjectID(m.ID)
	if err != nil {
		return metricsDoc{}, err
	}
	uid, err := primitive.ObjectIDFromHex(m.UserID)
	if err != nil {
		return metricsDoc{}, fmt.Errorf("mongo: metrics owner %q: %w", m.UserID, err)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now()
	}
	m.ID = oid.Hex()
	return metricsDoc{
		ID:           oid,
		UserID:       uid,
		Date:         m.Date,
		Weight:       m.Weight,
		Measurements: m.Measurements,
		Notes:        m.Notes,
		IsSeed:       m.IsSeed,
		CreatedAt:    m.CreatedAt,
	}, nil
}

func (d metricsDoc) toModel() model.BodyMetrics {
	return model.BodyMetrics{
		ID:           d.ID.Hex(),
		UserID:       d.UserID.Hex(),
		Date:         d.Date.UTC(),
		Weight:       d.Weight,
		Measurements: d.Measurements,
		Notes:        d.Notes,
		IsSeed:       d.IsSeed,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

// MetricsStore is the bodyMetrics collection.
type MetricsStore struct {
	coll *mongo.Collection
}

func (s *MetricsStore) Create(ctx context.Context, m *model.BodyMetrics) error {
	doc, err := metricsToDoc(m)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: inserting body metrics: %w", err)
	}
	return nil
}

func (s *MetricsStore) CreateMany(ctx context.Context, ms []model.BodyMetrics) error {
	if len(ms) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(ms))
	for i := range ms {
		doc, err := metricsToDoc(&ms[i])
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongo: inserting %d body metrics: %w", len(docs), err)
	}
	return nil
}

func (s *MetricsStore) List(ctx context.Context, userID string, limit int) ([]model.BodyMetrics, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []model.BodyMetrics{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{"userId": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing body metrics: %w", err)
	}
	var docs []metricsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding body metrics: %w", err)
	}
	out := make([]model.BodyMetrics, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *MetricsStore) Delete(ctx context.Context, userID, id string) error {
	filter, err := scope(userID, id, "metric")
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo: deleting body metrics %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("metric")
	}
	return nil
}

func (s *MetricsStore) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return deleteOwned(ctx, s.coll, userID, nil)
}

func (s *MetricsStore) DeleteSeeded(ctx context.Context, userID string) (int64, error) {
	return deleteOwned(ctx, s.coll, userID, bson.M{"isSeed": true})
}
