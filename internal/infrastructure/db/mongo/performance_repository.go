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

const performanceCollection = "performance_metrics"

// PerformanceRepository persists professional-authored performance metrics.
type PerformanceRepository struct {
	coll *mongo.Collection
}

func NewPerformanceRepository(db *mongo.Database) *PerformanceRepository {
	return &PerformanceRepository{coll: db.Collection(performanceCollection)}
}

func (r *PerformanceRepository) Create(ctx context.Context, m *domain.PerformanceMetric) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m.ID = primitive.NewObjectID().Hex()
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert performance metric: %w", err)
	}
	return nil
}

func (r *PerformanceRepository) FindByID(ctx context.Context, id string, f ports.ListFilter) (*domain.PerformanceMetric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := ownedFilter(f)
	filter["_id"] = id

	var m domain.PerformanceMetric
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find performance metric: %w", err)
	}
	return &m, nil
}

func (r *PerformanceRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.PerformanceMetric, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := ownedFilter(f)
	if f.Metric != "" {
		filter["metric"] = f.Metric
	}
	applyDateRange(filter, f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count performance metrics: %w", err)
	}

	cur, err := r.coll.Find(ctx, filter, pageOptions(f))
	if err != nil {
		return nil, 0, fmt.Errorf("list performance metrics: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.PerformanceMetric
	for cur.Next(ctx) {
		var m domain.PerformanceMetric
		if err := cur.Decode(&m); err != nil {
			return nil, 0, fmt.Errorf("decode performance metric: %w", err)
		}
		out = append(out, &m)
	}
	return out, total, cur.Err()
}

func (r *PerformanceRepository) Update(ctx context.Context, id, professionalID string, fields map[string]any) (*domain.PerformanceMetric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m domain.PerformanceMetric
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "professional_id": professionalID},
		bson.M{"$set": toSet(fields)}, opts).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update performance metric: %w", err)
	}
	return &m, nil
}

func (r *PerformanceRepository) Delete(ctx context.Context, id, professionalID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "professional_id": professionalID})
	if err != nil {
		return fmt.Errorf("delete performance metric: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PerformanceRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

func (r *PerformanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "professional_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
