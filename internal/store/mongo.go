package store

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"payu-relay/internal/apperrors"
	"payu-relay/internal/models"
)

// MongoStore keeps the ledger in a MongoDB collection.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection("payments")}
}

// EnsureIndexes creates the indexes the admin listing and txnid lookups need.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.M{"txnid": 1}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := s.collection.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		log.Printf("Failed to create indexes: %v", err)
		return apperrors.Newf(apperrors.PersistenceError, "failed to create indexes: %v", err)
	}
	return nil
}

func (s *MongoStore) Append(ctx context.Context, rec *models.TransactionRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rec.ID = primitive.NewObjectID()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if _, err := s.collection.InsertOne(ctx, rec); err != nil {
		log.Printf("Failed to append record for txnid %s: %v", rec.TxnID, err)
		return "", apperrors.Newf(apperrors.PersistenceError, "failed to append record: %v", err)
	}
	return rec.ID.Hex(), nil
}

func (s *MongoStore) FindAll(ctx context.Context, f Filter) ([]models.TransactionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if f.TxnID != "" {
		query["txnid"] = f.TxnID
	}
	if f.Status != "" {
		query["status"] = f.Status
	}

	cur, err := s.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		log.Printf("Failed to fetch records: %v", err)
		return nil, apperrors.Newf(apperrors.PersistenceError, "failed to fetch records: %v", err)
	}

	var recs []models.TransactionRecord
	defer cur.Close(ctx)
	if err := cur.All(ctx, &recs); err != nil {
		log.Printf("Failed to decode records: %v", err)
		return nil, apperrors.Newf(apperrors.PersistenceError, "failed to decode records: %v", err)
	}

	return recs, nil
}
