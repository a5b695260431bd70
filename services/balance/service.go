package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ledgerRepo "suarec/database/repository/ledger"
	"suarec/models"
	"suarec/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// snapshotTTL bounds staleness of the cached balance read model.
const snapshotTTL = 30 * time.Second

// BalanceService serves the ledger read model consumed by the workflow.
type BalanceService interface {
	Current(ctx context.Context, userID string) (*models.BalanceSnapshot, error)
	Transactions(ctx context.Context, userID string) ([]models.BalanceTransaction, error)
	CanRequestNewService(ctx context.Context, userID string) (bool, error)
	Invalidate(ctx context.Context, userID string)
}

// DefaultBalanceService reads through a short-lived Redis cache; every ledger
// write must invalidate the user's snapshot.
type DefaultBalanceService struct {
	Ledger    ledgerRepo.LedgerRepository
	Cache     *redis.Client
	DebtLimit float64
}

// AllowedToRequest is the gating rule: a user whose outstanding debit balance
// exceeds the debt limit may not open new contracts.
func AllowedToRequest(debitBalance, debtLimit float64) bool {
	return debitBalance <= debtLimit
}

func snapshotKey(userID string) string {
	return fmt.Sprintf("balance:%s", userID)
}

// Current returns the user's balance snapshot, cached for a short window.
func (s *DefaultBalanceService) Current(ctx context.Context, userID string) (*models.BalanceSnapshot, error) {
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, snapshotKey(userID)).Result(); err == nil {
			var snap models.BalanceSnapshot
			if err := json.Unmarshal([]byte(data), &snap); err == nil {
				return &snap, nil
			}
		} else if err != redis.Nil {
			utils.GetLogger().Warn("balance cache read failed", zap.Error(err))
		}
	}

	bal, err := s.Ledger.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := &models.BalanceSnapshot{
		DebitBalance:         bal.DebitBalance,
		CreditBalance:        bal.CreditBalance,
		CanRequestNewService: AllowedToRequest(bal.DebitBalance, s.DebtLimit),
	}

	if s.Cache != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := s.Cache.Set(ctx, snapshotKey(userID), data, snapshotTTL).Err(); err != nil {
				utils.GetLogger().Warn("balance cache write failed", zap.Error(err))
			}
		}
	}
	return snap, nil
}

// Transactions returns the user's ledger entries, most recent first.
func (s *DefaultBalanceService) Transactions(ctx context.Context, userID string) ([]models.BalanceTransaction, error) {
	return s.Ledger.ListTransactions(ctx, userID)
}

// CanRequestNewService applies the gating rule to the user's current balance.
func (s *DefaultBalanceService) CanRequestNewService(ctx context.Context, userID string) (bool, error) {
	snap, err := s.Current(ctx, userID)
	if err != nil {
		return false, err
	}
	return snap.CanRequestNewService, nil
}

// Invalidate drops the user's cached snapshot after a ledger write.
func (s *DefaultBalanceService) Invalidate(ctx context.Context, userID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		utils.GetLogger().Warn("balance cache invalidation failed",
			zap.String("userID", userID), zap.Error(err))
	}
}
