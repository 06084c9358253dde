package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

const healthCollection = "health_metrics"

// HealthRepository persists self-reported health metrics.
type HealthRepository struct {
	coll *mongo.Collection
}

func NewHealthRepository(db *mongo.Database) *HealthRepository {
	return &HealthRepository{coll: db.Collection(healthCollection)}
}

func (r *HealthRepository) Create(ctx context.Context, m *domain.HealthMetric) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m.ID = primitive.NewObjectID().Hex()
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert health metric: %w", err)
	}
	return nil
}

// FindByID scopes by user_id when non-empty; out-of-scope ids are a miss.
func (r *HealthRepository) FindByID(ctx context.Context, id, userID string) (*domain.HealthMetric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if userID != "" {
		filter["user_id"] = userID
	}

	var m domain.HealthMetric
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find health metric: %w", err)
	}
	return &m, nil
}

func (r *HealthRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.HealthMetric, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": f.UserID}
	if f.Source != "" {
		filter["source"] = f.Source
	}
	applyDateRange(filter, f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count health metrics: %w", err)
	}

	cur, err := r.coll.Find(ctx, filter, pageOptions(f))
	if err != nil {
		return nil, 0, fmt.Errorf("list health metrics: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.HealthMetric
	for cur.Next(ctx) {
		var m domain.HealthMetric
		if err := cur.Decode(&m); err != nil {
			return nil, 0, fmt.Errorf("decode health metric: %w", err)
		}
		out = append(out, &m)
	}
	return out, total, cur.Err()
}

func (r *HealthRepository) Update(ctx context.Context, id, userID string, fields map[string]any) (*domain.HealthMetric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m domain.HealthMetric
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": toSet(fields)}, opts).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update health metric: %w", err)
	}
	return &m, nil
}

func (r *HealthRepository) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete health metric: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *HealthRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

// EnsureIndexes creates the query-path indexes for this collection.
func (r *HealthRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "source", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
