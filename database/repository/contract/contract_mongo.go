package contractRepo

import (
	"context"
	"fmt"
	"time"

	"suarec/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStaleContract is returned when a conditional update matched no document:
// the contract moved to a state the caller did not expect. Callers must
// re-read authoritative state instead of retrying blindly.
var ErrStaleContract = fmt.Errorf("contract state changed, reload and retry")

// MongoContractRepo implements ContractRepository using MongoDB.
type MongoContractRepo struct {
	coll    *mongo.Collection
	balColl *mongo.Collection
	txColl  *mongo.Collection
}

// NewMongoContractRepo creates a new instance of ContractRepository using MongoDB.
func NewMongoContractRepo() ContractRepository {
	db := database.DB()
	repo := &MongoContractRepo{
		coll:    db.Collection("contracts"),
		balColl: db.Collection("balances"),
		txColl:  db.Collection("balance_transactions"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create contract indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoContractRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "bids.id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
