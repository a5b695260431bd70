package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractRepo "suarec/database/repository/contract"
	"suarec/models"
	"suarec/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateContract opens a negotiation against a publication. Validation runs
// before any persistence call; the new contract starts PENDING with
// currentPrice equal to initialPrice and no total price.
func (s *DefaultContractService) CreateContract(in CreateContractInput) (*models.Contract, error) {
	if in.PriceMode != PriceModeAccept && in.PriceMode != PriceModeCustom {
		return nil, ErrInvalidAction
	}
	if !models.ValidPriceUnit(in.PriceUnit) {
		return nil, ErrInvalidPriceUnit
	}
	if in.PriceMode == PriceModeCustom && !validPrice(in.Price) {
		return nil, ErrInvalidPrice
	}

	if s.Balance != nil {
		ok, err := s.Balance.CanRequestNewService(context.Background(), in.ClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to check balance for %s: %w", in.ClientID, err)
		}
		if !ok {
			return nil, ErrBalanceBlocked
		}
	}

	pub, err := s.Publications.GetByID(in.PublicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve publication: %w", err)
	}
	if pub.ProviderID == in.ClientID {
		return nil, ErrOwnPublication
	}

	price := in.Price
	if in.PriceMode == PriceModeAccept {
		if pub.Price == nil {
			return nil, ErrPublicationNoPrice
		}
		price = *pub.Price
		if !validPrice(price) {
			return nil, ErrInvalidPrice
		}
	}

	c := &models.Contract{
		ID:            uuid.New().String(),
		PublicationID: pub.ID,
		ClientID:      in.ClientID,
		ProviderID:    pub.ProviderID,
		InitialPrice:  price,
		CurrentPrice:  price,
		PriceUnit:     in.PriceUnit,
		Status:        models.ContractPending,
		PaymentMethod: in.PaymentMethod,
		RequestedDate: in.RequestedDate,
		RequestedTime: in.RequestedTime,
		ClientMessage: in.Message,
		Bids:          []models.Bid{},
	}

	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}

	if s.Tasks != nil && s.ExpiryWindow > 0 {
		if err := s.Tasks.ScheduleContractExpiry(c.ID, time.Now().Add(s.ExpiryWindow)); err != nil {
			// The contract stands even if the expiry task could not be queued.
			utils.GetLogger().Warn("failed to schedule contract expiry",
				zap.String("contractID", c.ID), zap.Error(err))
		}
	}

	return c, nil
}

// CancelContract moves a non-terminal contract to CANCELLED. Either party may cancel.
func (s *DefaultContractService) CancelContract(contractID, actorID string) (*models.Contract, error) {
	c, err := s.Repo.GetByID(contractID)
	if err != nil {
		return nil, err
	}
	if !c.IsParty(actorID) {
		return nil, ErrNotParty
	}
	if c.Status.Terminal() {
		return nil, ErrTerminalState
	}

	prev := c.Status
	readVersion := c.UpdatedAt
	c.Status = models.ContractCancelled
	if err := s.Repo.ReplaceIf(c, readVersion, prev); err != nil {
		if errors.Is(err, contractRepo.ErrStaleContract) {
			return nil, ErrTerminalState
		}
		return nil, err
	}
	return c, nil
}

// MarkDelivered is the provider's claim that the service was performed. The
// client then confirms through the completion-code flow.
func (s *DefaultContractService) MarkDelivered(contractID, providerID string) (*models.Contract, error) {
	c, err := s.Repo.MarkDelivered(contractID, providerID)
	if err != nil {
		if errors.Is(err, contractRepo.ErrStaleContract) {
			return nil, ErrNotAccepted
		}
		return nil, err
	}
	return c, nil
}

// CompleteByVerification finalizes a delivered contract after the client's
// completion code checked out: status moves to COMPLETED and the ledger is
// updated in the same transaction, crediting the provider and debiting the
// platform fee to the client when the contract settles in cash.
func (s *DefaultContractService) CompleteByVerification(ctx context.Context, contractID string) (*models.Contract, error) {
	c, err := s.Repo.GetByID(contractID)
	if err != nil {
		return nil, err
	}
	if c.Status != models.ContractAccepted {
		return nil, ErrNotAccepted
	}
	if !c.Delivered {
		return nil, ErrNotDelivered
	}
	if c.TotalPrice == nil {
		return nil, fmt.Errorf("contract %s accepted without total price", c.ID)
	}

	movements := []contractRepo.LedgerMovement{
		{UserID: c.ProviderID, Type: models.TxOTPVerificationCredit, Amount: *c.TotalPrice},
	}
	if c.PaymentMethod == "efectivo" {
		movements = append(movements, contractRepo.LedgerMovement{
			UserID: c.ClientID,
			Type:   models.TxOTPVerificationDebit,
			Amount: PlatformFee(c.CurrentPrice),
		})
	}

	if err := s.Repo.CompleteWithLedger(ctx, c.ID, movements); err != nil {
		if errors.Is(err, contractRepo.ErrStaleContract) {
			return nil, ErrNotAccepted
		}
		return nil, err
	}

	if s.Balance != nil {
		for _, m := range movements {
			s.Balance.Invalidate(ctx, m.UserID)
		}
	}

	return s.Repo.GetByID(contractID)
}

// MyContracts returns the user's contracts split by role, most recent first.
func (s *DefaultContractService) MyContracts(userID string) ([]models.Contract, []models.Contract, error) {
	return s.Repo.MyContracts(userID)
}

// GetContract returns a contract to one of its parties.
func (s *DefaultContractService) GetContract(contractID, actorID string) (*models.Contract, error) {
	c, err := s.Repo.GetByID(contractID)
	if err != nil {
		return nil, err
	}
	if !c.IsParty(actorID) {
		return nil, ErrNotParty
	}
	return c, nil
}

// ExpirePending cancels a contract that never left PENDING. Invoked by the
// background worker when the expiry window closes; a contract that already
// moved on is left untouched.
func (s *DefaultContractService) ExpirePending(contractID string) error {
	c, err := s.Repo.GetByID(contractID)
	if err != nil {
		return err
	}
	if c.Status != models.ContractPending {
		return nil
	}
	readVersion := c.UpdatedAt
	c.Status = models.ContractCancelled
	if err := s.Repo.ReplaceIf(c, readVersion, models.ContractPending); err != nil {
		if errors.Is(err, contractRepo.ErrStaleContract) {
			return nil
		}
		return err
	}
	return nil
}
