package contractRepo

import (
	"context"
	"fmt"
	"time"

	"suarec/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CompleteWithLedger moves an ACCEPTED, delivered contract to COMPLETED and
// applies the given ledger movements, all inside one MongoDB transaction. The
// status flip is conditional, so two racing completions resolve to one winner.
func (r *MongoContractRepo) CompleteWithLedger(ctx context.Context, contractID string, movements []LedgerMovement) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"id":        contractID,
			"status":    models.ContractAccepted,
			"delivered": true,
		}
		update := bson.M{
			"$set": bson.M{
				"status":     models.ContractCompleted,
				"updated_at": time.Now(),
			},
		}
		res, err := r.coll.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("complete contract failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrStaleContract
		}

		for _, m := range movements {
			if err := r.applyMovement(sc, contractID, m); err != nil {
				return err
			}
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrStaleContract {
			return err
		}
		return fmt.Errorf("completion transaction failed: %w", err)
	}

	return nil
}

// applyMovement reads the user's balance inside the session, derives the
// ledger entry with consistent before/after pairs, and writes both documents.
func (r *MongoContractRepo) applyMovement(sc mongo.SessionContext, contractID string, m LedgerMovement) error {
	var bal models.Balance
	err := r.balColl.FindOne(sc, bson.M{"user_id": m.UserID}).Decode(&bal)
	if err == mongo.ErrNoDocuments {
		bal = models.Balance{UserID: m.UserID}
	} else if err != nil {
		return fmt.Errorf("failed to read balance for %s: %w", m.UserID, err)
	}

	entry, updated := bal.Apply(m.Type, m.Amount, contractID, uuid.New().String())

	if _, err := r.txColl.InsertOne(sc, entry); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.balColl.ReplaceOne(sc, bson.M{"user_id": m.UserID}, updated, opts); err != nil {
		return fmt.Errorf("failed to update balance for %s: %w", m.UserID, err)
	}
	return nil
}
