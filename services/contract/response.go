package contract

import (
	"errors"
	"time"

	contractRepo "suarec/database/repository/contract"
	"suarec/models"

	"github.com/google/uuid"
)

// Provider response actions.
const (
	ActionAccept    = "accept"
	ActionReject    = "reject"
	ActionNegotiate = "negotiate"
)

// ProviderResponse is the provider's one-shot decision on a PENDING contract:
// accept it at the current price, reject it, or open negotiation with an
// optional counter-offer. The transition is conditional on the contract still
// being PENDING, so it can only ever be issued once.
func (s *DefaultContractService) ProviderResponse(in ProviderResponseInput) (*models.Contract, error) {
	switch in.Action {
	case ActionAccept, ActionReject, ActionNegotiate:
	default:
		return nil, ErrInvalidAction
	}
	if in.CounterOffer != nil && !validPrice(*in.CounterOffer) {
		return nil, ErrInvalidPrice
	}

	c, err := s.Repo.GetByID(in.ContractID)
	if err != nil {
		return nil, err
	}
	if c.ProviderID != in.ProviderID {
		return nil, ErrNotParty
	}
	if c.Status != models.ContractPending {
		return nil, ErrNotPending
	}
	readVersion := c.UpdatedAt

	if in.Message != "" {
		c.ProviderMessage = in.Message
	}

	switch in.Action {
	case ActionAccept:
		pub, err := s.Publications.GetByID(c.PublicationID)
		if err != nil {
			return nil, err
		}
		total := PriceWithTax(pub.Category, c.CurrentPrice)
		c.TotalPrice = &total
		c.Status = models.ContractAccepted
		c.AgreedDate = firstNonEmpty(in.ProposedDate, c.RequestedDate)
		c.AgreedTime = firstNonEmpty(in.ProposedTime, c.RequestedTime)

	case ActionReject:
		c.Status = models.ContractRejected

	case ActionNegotiate:
		c.Status = models.ContractNegotiating
		// Candidate slot for the client to accept or counter.
		if in.ProposedDate != "" {
			c.AgreedDate = in.ProposedDate
		}
		if in.ProposedTime != "" {
			c.AgreedTime = in.ProposedTime
		}
		// A counter-offer amount enters the bid cycle as a provider bid, so
		// currentPrice keeps reflecting only accepted values.
		if in.CounterOffer != nil {
			c.Bids = append(c.Bids, models.Bid{
				ID:         uuid.New().String(),
				ContractID: c.ID,
				BidderID:   c.ProviderID,
				Amount:     *in.CounterOffer,
				Message:    in.Message,
				CreatedAt:  time.Now(),
			})
		}
	}

	if err := s.Repo.ReplaceIf(c, readVersion, models.ContractPending); err != nil {
		if errors.Is(err, contractRepo.ErrStaleContract) {
			return nil, ErrNotPending
		}
		return nil, err
	}
	return c, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
