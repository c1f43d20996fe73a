package fulfillmentRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"connectify/models"
)

// Upsert stores the latest outcome for a reference id and bumps the attempt
// counter. Reference ids are unique per payment, so the record key is the
// reference id itself.
func (r *mongoFulfillmentRepo) Upsert(ctx context.Context, record models.FulfillmentRecord) error {
	now := time.Now()
	filter := bson.M{"reference_id": record.ReferenceID}
	update := bson.M{
		"$set": bson.M{
			"kind":       record.Kind,
			"interval":   record.Interval,
			"summary":    record.Summary,
			"outcome":    record.Outcome,
			"event_id":   record.EventID,
			"message":    record.Message,
			"updated_at": now,
		},
		"$inc":         bson.M{"attempts": 1},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByReferenceID returns the record for a reference id, or nil when no
// attempt has been made.
func (r *mongoFulfillmentRepo) GetByReferenceID(ctx context.Context, referenceID string) (*models.FulfillmentRecord, error) {
	var record models.FulfillmentRecord
	err := r.coll.FindOne(ctx, bson.M{"reference_id": referenceID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListRecent returns the most recently updated records, newest first.
func (r *mongoFulfillmentRepo) ListRecent(ctx context.Context, limit int64) ([]models.FulfillmentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.FulfillmentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
