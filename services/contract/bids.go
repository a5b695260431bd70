package contract

import (
	"errors"
	"fmt"
	"time"

	contractRepo "suarec/database/repository/contract"
	"suarec/models"

	"github.com/google/uuid"
)

// SubmitBid appends a counter-offer to a still-negotiable contract. The bid
// itself never touches currentPrice; only acceptance does. A bid against a
// PENDING contract moves it to NEGOTIATING in the same update.
func (s *DefaultContractService) SubmitBid(in SubmitBidInput) (*models.Contract, error) {
	if !validPrice(in.Amount) {
		return nil, ErrInvalidPrice
	}

	c, err := s.Repo.GetByID(in.ContractID)
	if err != nil {
		return nil, err
	}
	if !c.IsParty(in.BidderID) {
		return nil, ErrNotParty
	}
	if c.Status != models.ContractPending && c.Status != models.ContractNegotiating {
		return nil, ErrNotNegotiable
	}

	bid := models.Bid{
		ID:         uuid.New().String(),
		ContractID: c.ID,
		BidderID:   in.BidderID,
		Amount:     in.Amount,
		Message:    in.Message,
		CreatedAt:  time.Now(),
	}

	updated, err := s.Repo.AppendBid(c.ID, bid)
	if err != nil {
		if errors.Is(err, contractRepo.ErrStaleContract) {
			return nil, ErrNotNegotiable
		}
		return nil, err
	}
	return updated, nil
}

// AcceptBid is the single-winner transition: the chosen bid becomes the one
// accepted bid, every sibling is cleared, currentPrice takes the bid amount,
// and the contract moves to ACCEPTED with its tax-inclusive total fixed. The
// write is conditional on the contract still being negotiable, so a racing
// accept loses with ErrNotNegotiable and must re-read state.
func (s *DefaultContractService) AcceptBid(bidID, actorID string) (*models.Contract, error) {
	c, err := s.Repo.GetByBidID(bidID)
	if err != nil {
		return nil, err
	}
	if !c.IsParty(actorID) {
		return nil, ErrNotParty
	}

	bid := c.FindBid(bidID)
	if bid == nil {
		return nil, fmt.Errorf("bid %s not found on contract %s", bidID, c.ID)
	}
	if bid.BidderID == actorID {
		return nil, ErrOwnBid
	}

	pub, err := s.Publications.GetByID(c.PublicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve publication: %w", err)
	}

	prev := c.Status
	readVersion := c.UpdatedAt
	total := PriceWithTax(pub.Category, bid.Amount)
	if _, err := c.ApplyAcceptedBid(bidID, total); err != nil {
		return nil, ErrNotNegotiable
	}

	// The requested slot becomes the agreed slot unless negotiation already
	// produced a candidate.
	if c.AgreedDate == "" {
		c.AgreedDate = c.RequestedDate
	}
	if c.AgreedTime == "" {
		c.AgreedTime = c.RequestedTime
	}

	if err := s.Repo.ReplaceIf(c, readVersion, prev); err != nil {
		if errors.Is(err, contractRepo.ErrStaleContract) {
			return nil, ErrNotNegotiable
		}
		return nil, err
	}
	return c, nil
}
