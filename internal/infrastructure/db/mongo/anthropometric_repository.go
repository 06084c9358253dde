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

const anthropometricCollection = "anthropometric_records"

// AnthropometricRepository persists body-composition records.
type AnthropometricRepository struct {
	coll *mongo.Collection
}

func NewAnthropometricRepository(db *mongo.Database) *AnthropometricRepository {
	return &AnthropometricRepository{coll: db.Collection(anthropometricCollection)}
}

func (r *AnthropometricRepository) Create(ctx context.Context, rec *domain.AnthropometricRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec.ID = primitive.NewObjectID().Hex()
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert anthropometric record: %w", err)
	}
	return nil
}

func (r *AnthropometricRepository) FindByID(ctx context.Context, id string, f ports.ListFilter) (*domain.AnthropometricRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := ownedFilter(f)
	filter["_id"] = id

	var rec domain.AnthropometricRecord
	if err := r.coll.FindOne(ctx, filter).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find anthropometric record: %w", err)
	}
	return &rec, nil
}

func (r *AnthropometricRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.AnthropometricRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := ownedFilter(f)
	applyDateRange(filter, f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count anthropometric records: %w", err)
	}

	cur, err := r.coll.Find(ctx, filter, pageOptions(f))
	if err != nil {
		return nil, 0, fmt.Errorf("list anthropometric records: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.AnthropometricRecord
	for cur.Next(ctx) {
		var rec domain.AnthropometricRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, 0, fmt.Errorf("decode anthropometric record: %w", err)
		}
		out = append(out, &rec)
	}
	return out, total, cur.Err()
}

func (r *AnthropometricRepository) Update(ctx context.Context, id, professionalID string, fields map[string]any) (*domain.AnthropometricRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec domain.AnthropometricRecord
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "professional_id": professionalID},
		bson.M{"$set": toSet(fields)}, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update anthropometric record: %w", err)
	}
	return &rec, nil
}

func (r *AnthropometricRepository) Delete(ctx context.Context, id, professionalID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "professional_id": professionalID})
	if err != nil {
		return fmt.Errorf("delete anthropometric record: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AnthropometricRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

func (r *AnthropometricRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "professional_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
