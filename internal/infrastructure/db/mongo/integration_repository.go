package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitaltrack/health-system/internal/core/domain"
)

const integrationsCollection = "integrations"

// IntegrationRepository persists the stub per-user connection flags, one
// document per user keyed by user id.
type IntegrationRepository struct {
	coll *mongo.Collection
}

func NewIntegrationRepository(db *mongo.Database) *IntegrationRepository {
	return &IntegrationRepository{coll: db.Collection(integrationsCollection)}
}

func (r *IntegrationRepository) Status(ctx context.Context, userID string) (*domain.IntegrationStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var status domain.IntegrationStatus
	err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// No document yet means nothing connected.
			return &domain.IntegrationStatus{UserID: userID}, nil
		}
		return nil, fmt.Errorf("find integration status: %w", err)
	}
	return &status, nil
}

func (r *IntegrationRepository) Connect(ctx context.Context, userID, provider string, at time.Time) (*domain.IntegrationStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		provider + ".connected":    true,
		provider + ".connected_at": at,
	}}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var status domain.IntegrationStatus
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&status); err != nil {
		return nil, fmt.Errorf("connect integration: %w", err)
	}
	return &status, nil
}
