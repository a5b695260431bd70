package models

import "time"

// Bid is a counter-offer against a contract, submitted by either party while
// the contract is still negotiable. Bids are immutable once created; the only
// later mutation is the accepted flag, and at most one bid per contract may
// carry it.
type Bid struct {
	ID         string    `bson:"id" json:"id"`
	ContractID string    `bson:"contract_id" json:"contractId"`
	BidderID   string    `bson:"bidder_id" json:"bidderId"`
	Amount     float64   `bson:"amount" json:"amount"`
	Message    string    `bson:"message,omitempty" json:"message,omitempty"`
	IsAccepted bool      `bson:"is_accepted" json:"isAccepted"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}
