package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"suarec/database"
	"suarec/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LedgerRepository is the append-only balance ledger. Entries are never edited
// after creation; the balance document is the running aggregate.
type LedgerRepository interface {
	GetBalance(ctx context.Context, userID string) (models.Balance, error)
	Apply(ctx context.Context, userID, contractID string, txType models.TransactionType, amount float64) (*models.BalanceTransaction, error)
	ListTransactions(ctx context.Context, userID string) ([]models.BalanceTransaction, error)
	HasTransaction(ctx context.Context, contractID string, txType models.TransactionType) (bool, error)
}

// MongoLedgerRepo implements LedgerRepository using MongoDB.
type MongoLedgerRepo struct {
	balColl *mongo.Collection
	txColl  *mongo.Collection
}

// NewMongoLedgerRepo creates a new instance of LedgerRepository using MongoDB.
func NewMongoLedgerRepo() LedgerRepository {
	db := database.DB()
	repo := &MongoLedgerRepo{
		balColl: db.Collection("balances"),
		txColl:  db.Collection("balance_transactions"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create ledger indexes: %v\n", err)
	}
	return repo
}

func (r *MongoLedgerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	balIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.balColl.Indexes().CreateMany(ctx, balIdx); err != nil {
		return fmt.Errorf("failed to create balance indexes: %w", err)
	}

	txIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "contract_id", Value: 1}, {Key: "type", Value: 1}}},
	}
	if _, err := r.txColl.Indexes().CreateMany(ctx, txIdx); err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}
	return nil
}

// GetBalance returns the user's balance document, zero-valued if none exists yet.
func (r *MongoLedgerRepo) GetBalance(ctx context.Context, userID string) (models.Balance, error) {
	var bal models.Balance
	err := r.balColl.FindOne(ctx, bson.M{"user_id": userID}).Decode(&bal)
	if err == mongo.ErrNoDocuments {
		return models.Balance{UserID: userID}, nil
	}
	if err != nil {
		return models.Balance{}, fmt.Errorf("failed to fetch balance for %s: %w", userID, err)
	}
	return bal, nil
}

// Apply appends a ledger entry and updates the running balance. Runs inside a
// MongoDB transaction so the entry and the aggregate never drift apart.
func (r *MongoLedgerRepo) Apply(ctx context.Context, userID, contractID string, txType models.TransactionType, amount float64) (*models.BalanceTransaction, error) {
	if !models.ValidTransactionType(txType) {
		return nil, fmt.Errorf("invalid transaction type %q", txType)
	}

	client := r.balColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var entry models.BalanceTransaction
	txnFn := func(sc mongo.SessionContext) error {
		bal, err := r.GetBalance(sc, userID)
		if err != nil {
			return err
		}

		e, updated := bal.Apply(txType, amount, contractID, uuid.New().String())
		if _, err := r.txColl.InsertOne(sc, e); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}

		opts := options.Replace().SetUpsert(true)
		if _, err := r.balColl.ReplaceOne(sc, bson.M{"user_id": userID}, updated, opts); err != nil {
			return fmt.Errorf("failed to update balance for %s: %w", userID, err)
		}
		entry = e
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
		return nil, fmt.Errorf("ledger transaction failed: %w", err)
	}

	return &entry, nil
}

// ListTransactions returns the user's ledger entries, most recent first.
func (r *MongoLedgerRepo) ListTransactions(ctx context.Context, userID string) ([]models.BalanceTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.txColl.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", userID, err)
	}
	defer cur.Close(ctx)

	entries := []models.BalanceTransaction{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode transactions for %s: %w", userID, err)
	}
	return entries, nil
}

// HasTransaction reports whether a ledger entry of the given type already
// exists for the contract. Used to keep webhook deliveries idempotent.
func (r *MongoLedgerRepo) HasTransaction(ctx context.Context, contractID string, txType models.TransactionType) (bool, error) {
	count, err := r.txColl.CountDocuments(ctx, bson.M{"contract_id": contractID, "type": txType})
	if err != nil {
		return false, fmt.Errorf("failed to check transactions for contract %s: %w", contractID, err)
	}
	return count > 0, nil
}
