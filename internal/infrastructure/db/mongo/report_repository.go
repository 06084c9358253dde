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

const reportsCollection = "reports"

// ReportRepository persists reports and their sharing state.
type ReportRepository struct {
	coll *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{coll: db.Collection(reportsCollection)}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	report.ID = primitive.NewObjectID().Hex()
	if _, err := r.coll.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id string, f ports.ListFilter) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := ownedFilter(f)
	filter["_id"] = id

	var report domain.Report
	if err := r.coll.FindOne(ctx, filter).Decode(&report); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &report, nil
}

func (r *ReportRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.Report, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := ownedFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Report
	for cur.Next(ctx) {
		var report domain.Report
		if err := cur.Decode(&report); err != nil {
			return nil, 0, fmt.Errorf("decode report: %w", err)
		}
		out = append(out, &report)
	}
	return out, total, cur.Err()
}

func (r *ReportRepository) Update(ctx context.Context, id, professionalID string, fields map[string]any) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var report domain.Report
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "professional_id": professionalID},
		bson.M{"$set": toSet(fields)}, opts).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccessCodeTaken
		}
		return nil, fmt.Errorf("update report: %w", err)
	}
	return &report, nil
}

// AssignAccessCode sets the lazily generated access code. The filter requires
// the code to be absent: when two first-shares race, exactly one matches and
// the loser re-reads the winner's code instead of replacing it.
func (r *ReportRepository) AssignAccessCode(ctx context.Context, id, professionalID string, fields map[string]any) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var report domain.Report
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "professional_id": professionalID, "access_code": bson.M{"$exists": false}},
		bson.M{"$set": toSet(fields)}, opts).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccessCodeTaken
		}
		return nil, fmt.Errorf("assign access code: %w", err)
	}
	return &report, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id, professionalID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "professional_id": professionalID})
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindShared only matches reports currently marked shared: revoking the flag
// immediately hides the report from the public path.
func (r *ReportRepository) FindShared(ctx context.Context, accessCode string) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var report domain.Report
	err := r.coll.FindOne(ctx, bson.M{"access_code": accessCode, "shared": true}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find shared report: %w", err)
	}
	return &report, nil
}

func (r *ReportRepository) FindSharedByID(ctx context.Context, id string) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var report domain.Report
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "shared": true}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find shared report: %w", err)
	}
	return &report, nil
}

// EnsureIndexes creates the sparse unique access-code index backing the
// exactly-once code assignment.
func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "access_code", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "professional_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
