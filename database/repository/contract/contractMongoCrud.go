// File: database/repository/contract/contractMongoCrud.go
package contractRepo

import (
	"fmt"
	"time"

	"suarec/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new contract document.
func (r *MongoContractRepo) Create(c *models.Contract) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Bids == nil {
		c.Bids = []models.Bid{}
	}

	_, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

// GetByID fetches a contract by its ID.
func (r *MongoContractRepo) GetByID(id string) (*models.Contract, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var c models.Contract
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("contract with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch contract %s: %w", id, err)
	}
	return &c, nil
}

// GetByBidID fetches the contract owning the given embedded bid.
func (r *MongoContractRepo) GetByBidID(bidID string) (*models.Contract, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var c models.Contract
	if err := r.coll.FindOne(ctx, bson.M{"bids.id": bidID}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no contract holds bid %s", bidID)
		}
		return nil, fmt.Errorf("failed to fetch contract for bid %s: %w", bidID, err)
	}
	return &c, nil
}

// MyContracts returns the user's contracts split by role, most recent first.
func (r *MongoContractRepo) MyContracts(userID string) ([]models.Contract, []models.Contract, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	fetch := func(filter bson.M) ([]models.Contract, error) {
		cur, err := r.coll.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		contracts := []models.Contract{}
		if err := cur.All(ctx, &contracts); err != nil {
			return nil, err
		}
		return contracts, nil
	}

	asClient, err := fetch(bson.M{"client_id": userID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch contracts as client for %s: %w", userID, err)
	}
	asProvider, err := fetch(bson.M{"provider_id": userID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch contracts as provider for %s: %w", userID, err)
	}
	return asClient, asProvider, nil
}

// AppendBid pushes a bid onto a contract that is still negotiable and moves a
// PENDING contract to NEGOTIATING in the same conditional update.
func (r *MongoContractRepo) AppendBid(contractID string, bid models.Bid) (*models.Contract, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":     contractID,
		"status": bson.M{"$in": []models.ContractStatus{models.ContractPending, models.ContractNegotiating}},
	}
	update := bson.M{
		"$push": bson.M{"bids": bid},
		"$set": bson.M{
			"status":     models.ContractNegotiating,
			"updated_at": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Contract
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStaleContract
		}
		return nil, fmt.Errorf("failed to append bid to contract %s: %w", contractID, err)
	}
	return &c, nil
}

// ReplaceIf persists the in-memory contract conditioned on the stored status
// still being one of allowedFrom and on updated_at still matching the value
// the caller read. A miss means another write won the race; callers re-read
// and retry or surface the conflict. Without the version condition a replace
// would overwrite concurrent updates the status filter cannot see, e.g. a bid
// appended between read and write.
func (r *MongoContractRepo) ReplaceIf(c *models.Contract, readVersion time.Time, allowedFrom ...models.ContractStatus) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	c.UpdatedAt = time.Now()
	filter := bson.M{
		"id":         c.ID,
		"status":     bson.M{"$in": allowedFrom},
		"updated_at": readVersion,
	}

	result, err := r.coll.ReplaceOne(ctx, filter, c)
	if err != nil {
		return fmt.Errorf("failed to update contract %s: %w", c.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrStaleContract
	}
	return nil
}

// MarkDelivered flags an ACCEPTED contract as delivered by its provider.
func (r *MongoContractRepo) MarkDelivered(contractID, providerID string) (*models.Contract, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"id":          contractID,
		"provider_id": providerID,
		"status":      models.ContractAccepted,
		"delivered":   false,
	}
	update := bson.M{
		"$set": bson.M{
			"delivered":    true,
			"delivered_at": now,
			"updated_at":   now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Contract
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStaleContract
		}
		return nil, fmt.Errorf("failed to mark contract %s delivered: %w", contractID, err)
	}
	return &c, nil
}
