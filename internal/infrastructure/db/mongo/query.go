package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitaltrack/health-system/internal/core/ports"
)

// applyDateRange adds the recorded_at bounds from the filter, if any.
func applyDateRange(filter bson.M, f ports.ListFilter) {
	rng := bson.M{}
	if !f.DateFrom.IsZero() {
		rng["$gte"] = f.DateFrom
	}
	if !f.DateTo.IsZero() {
		rng["$lte"] = f.DateTo
	}
	if len(rng) > 0 {
		filter["recorded_at"] = rng
	}
}

// pageOptions converts the 1-based page/limit into skip/limit, newest first.
func pageOptions(f ports.ListFilter) *options.FindOptions {
	return options.Find().
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit)).
		SetSort(bson.D{{Key: "recorded_at", Value: -1}})
}

// toSet copies a field map into a bson.M for $set.
func toSet(fields map[string]any) bson.M {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	return set
}

// ownedFilter builds the ownership scope for professional-stamped records:
// professional_id always wins; user_id is an additional narrowing filter.
func ownedFilter(f ports.ListFilter) bson.M {
	filter := bson.M{}
	if f.ProfessionalID != "" {
		filter["professional_id"] = f.ProfessionalID
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	return filter
}
