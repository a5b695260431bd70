package models

import (
	"fmt"
	"time"
)

// ContractStatus enumerates the lifecycle states of a contract.
type ContractStatus string

const (
	ContractPending     ContractStatus = "PENDING"
	ContractNegotiating ContractStatus = "NEGOTIATING"
	ContractAccepted    ContractStatus = "ACCEPTED"
	ContractRejected    ContractStatus = "REJECTED"
	ContractCancelled   ContractStatus = "CANCELLED"
	ContractCompleted   ContractStatus = "COMPLETED"
)

// ValidContractStatus reports whether s is one of the enumerated states.
func ValidContractStatus(s ContractStatus) bool {
	switch s {
	case ContractPending, ContractNegotiating, ContractAccepted,
		ContractRejected, ContractCancelled, ContractCompleted:
		return true
	default:
		return false
	}
}

// Terminal reports whether a contract in this state admits no further transitions.
func (s ContractStatus) Terminal() bool {
	switch s {
	case ContractRejected, ContractCancelled, ContractCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the contract state machine. Terminal states absorb.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case ContractPending:
		switch next {
		case ContractNegotiating, ContractAccepted, ContractRejected, ContractCancelled:
			return true
		}
	case ContractNegotiating:
		switch next {
		case ContractAccepted, ContractCancelled:
			return true
		}
	case ContractAccepted:
		switch next {
		case ContractCompleted, ContractCancelled:
			return true
		}
	}
	return false
}

// PriceUnit is the unit the agreed price is quoted in.
type PriceUnit string

const (
	UnitHour    PriceUnit = "hour"
	UnitProject PriceUnit = "project"
	UnitMonthly PriceUnit = "monthly"
	UnitDaily   PriceUnit = "daily"
	UnitWeekly  PriceUnit = "weekly"
	UnitPiece   PriceUnit = "piece"
	UnitService PriceUnit = "service"
)

// ValidPriceUnit reports whether u is one of the enumerated units.
func ValidPriceUnit(u PriceUnit) bool {
	switch u {
	case UnitHour, UnitProject, UnitMonthly, UnitDaily, UnitWeekly, UnitPiece, UnitService:
		return true
	default:
		return false
	}
}

// Contract tracks a negotiation between a client and a provider over a publication.
//
// InitialPrice is immutable once set. CurrentPrice always reflects the most
// recently accepted bid or negotiated counter-offer. TotalPrice (price plus
// tax) is populated exactly once, when the contract reaches ACCEPTED.
type Contract struct {
	ID            string         `bson:"id" json:"id"`
	PublicationID string         `bson:"publication_id" json:"publicationId"`
	ClientID      string         `bson:"client_id" json:"clientId"`
	ProviderID    string         `bson:"provider_id" json:"providerId"`
	InitialPrice  float64        `bson:"initial_price" json:"initialPrice"`
	CurrentPrice  float64        `bson:"current_price" json:"currentPrice"`
	PriceUnit     PriceUnit      `bson:"price_unit" json:"priceUnit"`
	Status        ContractStatus `bson:"status" json:"status"`
	PaymentMethod string         `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`

	RequestedDate string `bson:"requested_date,omitempty" json:"requestedDate,omitempty"`
	RequestedTime string `bson:"requested_time,omitempty" json:"requestedTime,omitempty"`
	AgreedDate    string `bson:"agreed_date,omitempty" json:"agreedDate,omitempty"`
	AgreedTime    string `bson:"agreed_time,omitempty" json:"agreedTime,omitempty"`

	ClientMessage   string `bson:"client_message,omitempty" json:"clientMessage,omitempty"`
	ProviderMessage string `bson:"provider_message,omitempty" json:"providerMessage,omitempty"`

	TotalPrice *float64 `bson:"total_price,omitempty" json:"totalPrice,omitempty"`

	// Delivered is set by the provider once the service is performed; the
	// client then confirms completion through the verification code flow.
	Delivered   bool       `bson:"delivered" json:"delivered"`
	DeliveredAt *time.Time `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`

	Bids []Bid `bson:"bids" json:"bids"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// AcceptedBid returns the currently accepted bid, if any.
func (c *Contract) AcceptedBid() *Bid {
	for i := range c.Bids {
		if c.Bids[i].IsAccepted {
			return &c.Bids[i]
		}
	}
	return nil
}

// FindBid returns the bid with the given id, or nil.
func (c *Contract) FindBid(bidID string) *Bid {
	for i := range c.Bids {
		if c.Bids[i].ID == bidID {
			return &c.Bids[i]
		}
	}
	return nil
}

// IsParty reports whether userID is the client or the provider of the contract.
func (c *Contract) IsParty(userID string) bool {
	return userID == c.ClientID || userID == c.ProviderID
}

// ApplyAcceptedBid marks the given bid as the single accepted one, clears the
// accepted flag on every sibling, copies the bid amount into CurrentPrice and
// moves the contract to ACCEPTED with the supplied tax-inclusive total.
// The contract must still be negotiable.
func (c *Contract) ApplyAcceptedBid(bidID string, totalPrice float64) (*Bid, error) {
	if !c.Status.CanTransitionTo(ContractAccepted) {
		return nil, fmt.Errorf("contract %s is not negotiable (status %s)", c.ID, c.Status)
	}
	bid := c.FindBid(bidID)
	if bid == nil {
		return nil, fmt.Errorf("bid %s not found on contract %s", bidID, c.ID)
	}
	for i := range c.Bids {
		c.Bids[i].IsAccepted = c.Bids[i].ID == bidID
	}
	c.CurrentPrice = bid.Amount
	c.TotalPrice = &totalPrice
	c.Status = ContractAccepted
	c.UpdatedAt = time.Now()
	return bid, nil
}
