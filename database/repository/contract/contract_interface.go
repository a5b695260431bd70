package contractRepo

import (
	"context"
	"time"

	"suarec/models"
)

// ContractRepository abstracts contract persistence. Every state-changing
// method is a conditional update: the write carries the set of statuses it is
// valid from, so racing transitions resolve to exactly one winner and losers
// surface ErrStaleContract.
type ContractRepository interface {
	Create(c *models.Contract) error
	GetByID(id string) (*models.Contract, error)
	GetByBidID(bidID string) (*models.Contract, error)
	MyContracts(userID string) (asClient []models.Contract, asProvider []models.Contract, err error)

	// AppendBid pushes a bid onto a still-negotiable contract and moves a
	// PENDING contract to NEGOTIATING in the same update.
	AppendBid(contractID string, bid models.Bid) (*models.Contract, error)

	// ReplaceIf persists the in-memory contract conditioned on the stored
	// status still being one of allowedFrom AND the document being unchanged
	// since it was read (readVersion is the updated_at of that read). The
	// version check keeps a full-document replace from clobbering writes that
	// landed in between, such as a concurrently appended bid.
	ReplaceIf(c *models.Contract, readVersion time.Time, allowedFrom ...models.ContractStatus) error

	// MarkDelivered flags an ACCEPTED contract as delivered by the provider.
	MarkDelivered(contractID, providerID string) (*models.Contract, error)

	// CompleteWithLedger moves an ACCEPTED, delivered contract to COMPLETED
	// and applies the given ledger movements in a single transaction.
	CompleteWithLedger(ctx context.Context, contractID string, movements []LedgerMovement) error
}

// LedgerMovement describes one balance mutation to apply alongside a
// contract completion.
type LedgerMovement struct {
	UserID string
	Type   models.TransactionType
	Amount float64
}
