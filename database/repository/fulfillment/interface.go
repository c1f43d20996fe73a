package fulfillmentRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"connectify/config"
	"connectify/database"
	"connectify/models"
)

// FulfillmentRecordRepository persists the audit trail of fulfillment
// attempts. The remote calendar remains the idempotency source of truth;
// these records exist for operator queries and reconciliation, not for
// deciding whether to fulfil.
type FulfillmentRecordRepository interface {
	Upsert(ctx context.Context, record models.FulfillmentRecord) error
	GetByReferenceID(ctx context.Context, referenceID string) (*models.FulfillmentRecord, error)
	ListRecent(ctx context.Context, limit int64) ([]models.FulfillmentRecord, error)
}

type mongoFulfillmentRepo struct {
	coll *mongo.Collection
}

// NewMongoFulfillmentRepo returns a FulfillmentRecordRepository backed by
// MongoDB.
func NewMongoFulfillmentRepo() FulfillmentRecordRepository {
	db := database.MongoClient.Database(config.AppConfig.MongoDatabase)
	return &mongoFulfillmentRepo{
		coll: db.Collection("fulfillment_records"),
	}
}
